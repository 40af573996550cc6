package mock

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestAPI_Send(t *testing.T) {
	api := New()

	photo := tgbotapi.NewPhoto(42, tgbotapi.FileID("file-1"))
	photo.Caption = "hello"
	if _, err := api.Send(photo); err != nil {
		t.Fatalf("Send(photo) error = %v", err)
	}

	msg := tgbotapi.NewMessageToChannel("@admins", "text")
	if _, err := api.Send(msg); err != nil {
		t.Fatalf("Send(message) error = %v", err)
	}

	photos := api.CallsTo(MethodSendPhoto, "42")
	if len(photos) != 1 || photos[0].FileID != "file-1" || photos[0].Caption != "hello" {
		t.Errorf("photo calls = %+v", photos)
	}
	texts := api.CallsTo(MethodSendMessage, "@admins")
	if len(texts) != 1 || texts[0].Text != "text" {
		t.Errorf("message calls = %+v", texts)
	}
}

func TestAPI_SendErrors(t *testing.T) {
	boom := errors.New("boom")
	api := New().WithSendError(MethodSendPhoto, boom).WithSendErrorFor("7", boom)

	if _, err := api.Send(tgbotapi.NewPhoto(1, tgbotapi.FileID("f"))); !errors.Is(err, boom) {
		t.Errorf("photo send error = %v, want boom", err)
	}
	if _, err := api.Send(tgbotapi.NewMessage(7, "x")); !errors.Is(err, boom) {
		t.Errorf("message to 7 error = %v, want boom", err)
	}
	if _, err := api.Send(tgbotapi.NewMessage(8, "x")); err != nil {
		t.Errorf("message to 8 error = %v, want nil", err)
	}
	if got := api.CallCount(MethodSendMessage); got != 2 {
		t.Errorf("CallCount() = %d, want 2", got)
	}
}

func TestAPI_GetUpdates(t *testing.T) {
	api := New().WithBatches(
		[]tgbotapi.Update{StartUpdate(1, 10, "a")},
		[]tgbotapi.Update{StartUpdate(2, 11, "b")},
	)

	for want := 1; want <= 2; want++ {
		batch, err := api.GetUpdates(tgbotapi.NewUpdate(0))
		if err != nil {
			t.Fatalf("GetUpdates() error = %v", err)
		}
		if len(batch) != 1 || batch[0].UpdateID != want {
			t.Fatalf("batch = %+v, want update %d", batch, want)
		}
	}

	if _, err := api.GetUpdates(tgbotapi.NewUpdate(3)); !errors.Is(err, ErrNoMoreUpdates) {
		t.Errorf("GetUpdates() error = %v, want ErrNoMoreUpdates", err)
	}
}

func TestAPI_HandleUpdate(t *testing.T) {
	api := New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"update_id":9}`))

	upd, err := api.HandleUpdate(req)
	if err != nil {
		t.Fatalf("HandleUpdate() error = %v", err)
	}
	if upd.UpdateID != 9 {
		t.Errorf("UpdateID = %d, want 9", upd.UpdateID)
	}
}

func TestStartUpdate(t *testing.T) {
	upd := StartUpdate(1, 12345, "alice")

	if !upd.Message.IsCommand() || upd.Message.Command() != "start" {
		t.Errorf("StartUpdate() should carry the start command, got %q", upd.Message.Command())
	}
	if upd.Message.From.UserName != "alice" || upd.Message.Chat.ID != 12345 {
		t.Errorf("StartUpdate() = %+v", upd.Message)
	}
}
