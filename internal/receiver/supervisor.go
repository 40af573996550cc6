package receiver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/kitbuilder587/startbot/internal/metrics"
)

var (
	ErrRestartsExhausted = errors.New("receiver restarts exhausted")
	errStopped           = errors.New("receiver stopped without shutdown")
)

type SupervisorConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// MaxAttempts bounds consecutive restarts; 0 means unlimited.
	MaxAttempts int
	// ResetAfter is how long a run must last for the delay to start over.
	ResetAfter time.Duration
}

// Supervisor keeps a Receiver running, restarting it with exponential backoff
// after it fails or panics.
type Supervisor struct {
	receiver Receiver
	cfg      SupervisorConfig
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewSupervisor(r Receiver, cfg SupervisorConfig, logger *zap.Logger, m *metrics.Metrics) *Supervisor {
	return &Supervisor{
		receiver: r,
		cfg:      cfg,
		logger:   logger.Named("supervisor"),
		metrics:  m,
	}
}

func (s *Supervisor) newBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.cfg.InitialDelay
	eb.MaxInterval = s.cfg.MaxDelay
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	eb.Reset()

	if s.cfg.MaxAttempts > 0 {
		return backoff.WithMaxRetries(eb, uint64(s.cfg.MaxAttempts))
	}
	return eb
}

// Run returns nil when ctx is cancelled and ErrRestartsExhausted once
// MaxAttempts consecutive restarts have failed.
func (s *Supervisor) Run(ctx context.Context) error {
	b := s.newBackOff()
	restarts := 0

	for {
		started := time.Now()
		err := s.runOnce(ctx)
		if ctx.Err() != nil {
			s.logger.Info("receiver shut down", zap.Int("restarts", restarts))
			return nil
		}
		if err == nil {
			err = errStopped
		}

		uptime := time.Since(started)
		if uptime >= s.cfg.ResetAfter {
			b.Reset()
		}

		delay := b.NextBackOff()
		if delay == backoff.Stop {
			s.logger.Error("receiver failed, giving up",
				zap.Error(err),
				zap.Int("restarts", restarts),
			)
			return fmt.Errorf("%w: %w", ErrRestartsExhausted, err)
		}

		restarts++
		s.logger.Warn("receiver failed, restarting",
			zap.Error(err),
			zap.Duration("uptime", uptime),
			zap.Duration("delay", delay),
			zap.Int("restart", restarts),
		)
		if s.metrics != nil {
			s.metrics.RecordRestart()
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("receiver shut down", zap.Int("restarts", restarts))
			return nil
		case <-timer.C:
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("receiver panic: %v", r)
		}
	}()
	return s.receiver.Run(ctx)
}
