package mock

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrNoMoreUpdates is returned by GetUpdates once every queued batch was served.
var ErrNoMoreUpdates = errors.New("mock: no more updates")

const (
	MethodSendPhoto   = "sendPhoto"
	MethodSendMessage = "sendMessage"
)

// Call is one outbound send recorded by the mock.
type Call struct {
	Method          string
	ChatID          int64
	ChannelUsername string
	FileID          string
	Caption         string
	Text            string
	ParseMode       string
}

// Target is the chat id or channel username the call was addressed to.
func (c Call) Target() string {
	if c.ChannelUsername != "" {
		return c.ChannelUsername
	}
	return fmt.Sprint(c.ChatID)
}

// API is an in-memory stand-in for the platform client. It is safe for concurrent use.
type API struct {
	mu sync.Mutex

	Photos     tgbotapi.UserProfilePhotos
	PhotosErr  error
	SendErrors map[string]error
	// SendErrorFor fails sends to a single target (see Call.Target).
	SendErrorFor map[string]error
	RequestErr   error
	Batches      [][]tgbotapi.Update
	UpdatesErr   error

	PhotoLookups  []int64
	Calls         []Call
	Requests      []tgbotapi.Chattable
	UpdateConfigs []tgbotapi.UpdateConfig
}

func New() *API {
	return &API{
		SendErrors:   make(map[string]error),
		SendErrorFor: make(map[string]error),
	}
}

// WithPhoto gives the user a single profile photo with the given size tiers.
func (a *API) WithPhoto(fileIDs ...string) *API {
	sizes := make([]tgbotapi.PhotoSize, 0, len(fileIDs))
	for i, id := range fileIDs {
		sizes = append(sizes, tgbotapi.PhotoSize{FileID: id, Width: 160 * (i + 1), Height: 160 * (i + 1)})
	}
	a.Photos = tgbotapi.UserProfilePhotos{TotalCount: 1, Photos: [][]tgbotapi.PhotoSize{sizes}}
	return a
}

func (a *API) WithPhotoError(err error) *API {
	a.PhotosErr = err
	return a
}

func (a *API) WithSendError(method string, err error) *API {
	a.SendErrors[method] = err
	return a
}

func (a *API) WithSendErrorFor(target string, err error) *API {
	a.SendErrorFor[target] = err
	return a
}

func (a *API) WithBatches(batches ...[]tgbotapi.Update) *API {
	a.Batches = append(a.Batches, batches...)
	return a
}

func (a *API) GetUserProfilePhotos(config tgbotapi.UserProfilePhotosConfig) (tgbotapi.UserProfilePhotos, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.PhotoLookups = append(a.PhotoLookups, config.UserID)
	if a.PhotosErr != nil {
		return tgbotapi.UserProfilePhotos{}, a.PhotosErr
	}
	return a.Photos, nil
}

func (a *API) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var call Call
	switch cfg := c.(type) {
	case tgbotapi.PhotoConfig:
		call = Call{
			Method:          MethodSendPhoto,
			ChatID:          cfg.ChatID,
			ChannelUsername: cfg.ChannelUsername,
			Caption:         cfg.Caption,
			ParseMode:       cfg.ParseMode,
		}
		if id, ok := cfg.File.(tgbotapi.FileID); ok {
			call.FileID = string(id)
		}
	case tgbotapi.MessageConfig:
		call = Call{
			Method:          MethodSendMessage,
			ChatID:          cfg.ChatID,
			ChannelUsername: cfg.ChannelUsername,
			Text:            cfg.Text,
			ParseMode:       cfg.ParseMode,
		}
	default:
		return tgbotapi.Message{}, fmt.Errorf("mock: unsupported chattable %T", c)
	}
	a.Calls = append(a.Calls, call)

	if err := a.SendErrors[call.Method]; err != nil {
		return tgbotapi.Message{}, err
	}
	if err := a.SendErrorFor[call.Target()]; err != nil {
		return tgbotapi.Message{}, err
	}
	return tgbotapi.Message{MessageID: len(a.Calls)}, nil
}

func (a *API) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Requests = append(a.Requests, c)
	if a.RequestErr != nil {
		return nil, a.RequestErr
	}
	return &tgbotapi.APIResponse{Ok: true, Result: json.RawMessage("true")}, nil
}

// GetUpdates serves the queued batches in order, then UpdatesErr or
// ErrNoMoreUpdates.
func (a *API) GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.UpdateConfigs = append(a.UpdateConfigs, config)
	if len(a.Batches) == 0 {
		if a.UpdatesErr != nil {
			return nil, a.UpdatesErr
		}
		return nil, ErrNoMoreUpdates
	}
	batch := a.Batches[0]
	a.Batches = a.Batches[1:]
	return batch, nil
}

func (a *API) HandleUpdate(r *http.Request) (*tgbotapi.Update, error) {
	if r.Method != http.MethodPost {
		return nil, errors.New("wrong HTTP method required POST")
	}
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		return nil, err
	}
	return &update, nil
}

// CallsTo returns the recorded sends of the given method addressed to target.
func (a *API) CallsTo(method, target string) []Call {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []Call
	for _, c := range a.Calls {
		if c.Method == method && c.Target() == target {
			out = append(out, c)
		}
	}
	return out
}

func (a *API) CallCount(method string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, c := range a.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (a *API) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.PhotoLookups = nil
	a.Calls = nil
	a.Requests = nil
	a.UpdateConfigs = nil
}
