package receiver

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/startbot/internal/config"
	"github.com/kitbuilder587/startbot/internal/metrics"
	"github.com/kitbuilder587/startbot/internal/telegram/mock"
)

type recordingDispatcher struct {
	mu  sync.Mutex
	ids []int
}

func (d *recordingDispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, update.UpdateID)
}

func (d *recordingDispatcher) IDs() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.ids...)
}

func startBatch(ids ...int) []tgbotapi.Update {
	batch := make([]tgbotapi.Update, 0, len(ids))
	for _, id := range ids {
		batch = append(batch, mock.StartUpdate(id, int64(1000+id), ""))
	}
	return batch
}

func TestPoller_DispatchesInOrderAndAdvancesOffset(t *testing.T) {
	api := mock.New().WithBatches(startBatch(10, 11), startBatch(12))
	d := &recordingDispatcher{}
	p := NewPoller(api, d, PollerConfig{Timeout: 30 * time.Second, Workers: 1}, zap.NewNop())

	err := p.Run(context.Background())
	if !errors.Is(err, mock.ErrNoMoreUpdates) {
		t.Fatalf("Run() error = %v, want wrapped fetch error", err)
	}

	ids := d.IDs()
	want := []int{10, 11, 12}
	if len(ids) != len(want) {
		t.Fatalf("dispatched = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("dispatched[%d] = %d, want %d", i, ids[i], want[i])
		}
	}

	wantOffsets := []int{0, 12, 13}
	if len(api.UpdateConfigs) != len(wantOffsets) {
		t.Fatalf("getUpdates calls = %d, want %d", len(api.UpdateConfigs), len(wantOffsets))
	}
	for i, cfg := range api.UpdateConfigs {
		if cfg.Offset != wantOffsets[i] {
			t.Errorf("call %d offset = %d, want %d", i, cfg.Offset, wantOffsets[i])
		}
		if cfg.Timeout != 30 {
			t.Errorf("call %d timeout = %d, want 30", i, cfg.Timeout)
		}
	}
	if p.Offset() != 13 {
		t.Errorf("Offset() = %d, want 13", p.Offset())
	}
}

func TestPoller_WorkersDispatchEachUpdateOnce(t *testing.T) {
	api := mock.New().WithBatches(startBatch(1, 2, 3, 4, 5, 6, 7))
	d := &recordingDispatcher{}
	p := NewPoller(api, d, PollerConfig{Timeout: time.Second, Workers: 3}, zap.NewNop())

	_ = p.Run(context.Background())

	ids := d.IDs()
	sort.Ints(ids)
	if len(ids) != 7 {
		t.Fatalf("dispatched = %v, want 7 updates", ids)
	}
	for i, id := range ids {
		if id != i+1 {
			t.Errorf("dispatched = %v, want 1..7 exactly once", ids)
			break
		}
	}
}

func TestPoller_OffsetSurvivesRestart(t *testing.T) {
	api := mock.New().WithBatches(startBatch(5))
	d := &recordingDispatcher{}
	p := NewPoller(api, d, PollerConfig{Timeout: time.Second, Workers: 1}, zap.NewNop())

	_ = p.Run(context.Background())
	api.Reset()
	_ = p.Run(context.Background())

	if len(api.UpdateConfigs) != 1 || api.UpdateConfigs[0].Offset != 6 {
		t.Errorf("restarted poller configs = %+v, want offset 6", api.UpdateConfigs)
	}
}

func TestPoller_StopsOnCancel(t *testing.T) {
	api := mock.New()
	p := NewPoller(api, &recordingDispatcher{}, PollerConfig{Timeout: time.Second}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil after cancel", err)
	}
	if len(api.UpdateConfigs) != 0 {
		t.Errorf("getUpdates calls = %d, want 0", len(api.UpdateConfigs))
	}
}

func TestNew_SelectsStrategy(t *testing.T) {
	api := mock.New()
	d := &recordingDispatcher{}

	r, err := New(Config{Mode: config.ModePoll, PollTimeout: time.Second, Workers: 1}, api, d, zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("New(poll) error = %v", err)
	}
	if _, ok := r.(*Poller); !ok {
		t.Errorf("New(poll) = %T, want *Poller", r)
	}

	r, err = New(Config{Mode: config.ModeWebhook, Token: "123:abc", WebhookURL: "https://bot.example.com"}, api, d, zap.NewNop(), metrics.New())
	if err != nil {
		t.Fatalf("New(webhook) error = %v", err)
	}
	wh, ok := r.(*Webhook)
	if !ok {
		t.Fatalf("New(webhook) = %T, want *Webhook", r)
	}
	if wh.Path() != "/123:abc/" {
		t.Errorf("Path() = %q, want /123:abc/", wh.Path())
	}

	if _, err := New(Config{Mode: "push"}, api, d, zap.NewNop(), nil); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("New(push) error = %v, want ErrUnknownMode", err)
	}
}
