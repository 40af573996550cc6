package receiver

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/startbot/internal/telegram"
)

const pollBatchLimit = 100

type PollerConfig struct {
	Timeout time.Duration
	Workers int
}

// Poller long-polls getUpdates. The offset survives restarts of Run, so a
// restarted poller does not see already dispatched updates again.
type Poller struct {
	api        telegram.BotAPI
	dispatcher Dispatcher
	cfg        PollerConfig
	logger     *zap.Logger

	offset int
}

func NewPoller(api telegram.BotAPI, d Dispatcher, cfg PollerConfig, logger *zap.Logger) *Poller {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Poller{
		api:        api,
		dispatcher: d,
		cfg:        cfg,
		logger:     logger.Named("poller"),
	}
}

// Run returns nil once ctx is done. A failed getUpdates call ends the run with
// the error.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("polling for updates",
		zap.Duration("timeout", p.cfg.Timeout),
		zap.Int("workers", p.cfg.Workers),
		zap.Int("offset", p.offset),
	)

	for {
		if ctx.Err() != nil {
			p.logger.Info("poller stopped")
			return nil
		}

		u := tgbotapi.NewUpdate(p.offset)
		u.Timeout = int(p.cfg.Timeout / time.Second)
		u.Limit = pollBatchLimit

		updates, err := p.api.GetUpdates(u)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("poller stopped")
				return nil
			}
			return fmt.Errorf("get updates: %w", err)
		}

		p.dispatch(ctx, updates)
	}
}

func (p *Poller) dispatch(ctx context.Context, updates []tgbotapi.Update) {
	if len(updates) == 0 {
		return
	}

	if p.cfg.Workers == 1 {
		for _, upd := range updates {
			p.dispatcher.HandleUpdate(ctx, upd)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(p.cfg.Workers)
		for _, upd := range updates {
			upd := upd
			g.Go(func() error {
				p.dispatcher.HandleUpdate(ctx, upd)
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, upd := range updates {
		if upd.UpdateID >= p.offset {
			p.offset = upd.UpdateID + 1
		}
	}
}

// Offset is the next update id the poller will ask for.
func (p *Poller) Offset() int {
	return p.offset
}
