package receiver

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/startbot/internal/config"
	"github.com/kitbuilder587/startbot/internal/metrics"
	"github.com/kitbuilder587/startbot/internal/telegram"
)

var ErrUnknownMode = errors.New("unknown receiver mode")

// Dispatcher handles one inbound update. *telegram.Handler satisfies it.
type Dispatcher interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// Receiver delivers updates to a Dispatcher until ctx is cancelled or the
// transport fails.
type Receiver interface {
	Run(ctx context.Context) error
}

type Config struct {
	Mode       string
	Token      string
	WebhookURL string
	// PollTimeout is the long-poll wait sent with every getUpdates call.
	PollTimeout time.Duration
	Workers     int
}

// New picks the receiving strategy for cfg.Mode. In webhook mode the returned
// value is a *Webhook, which must also be mounted as an HTTP handler.
func New(cfg Config, api telegram.BotAPI, d Dispatcher, logger *zap.Logger, m *metrics.Metrics) (Receiver, error) {
	switch cfg.Mode {
	case config.ModePoll, "":
		return NewPoller(api, d, PollerConfig{
			Timeout: cfg.PollTimeout,
			Workers: cfg.Workers,
		}, logger), nil
	case config.ModeWebhook:
		return NewWebhook(api, d, cfg.WebhookURL, cfg.Token, logger, m), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}
