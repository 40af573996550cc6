package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/startbot/internal/config"
	"github.com/kitbuilder587/startbot/internal/metrics"
	"github.com/kitbuilder587/startbot/internal/receiver"
	"github.com/kitbuilder587/startbot/internal/server"
	"github.com/kitbuilder587/startbot/internal/telegram"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	admin, err := telegram.ParseDestination(cfg.Telegram.ChannelID)
	if err != nil {
		return fmt.Errorf("admin channel: %w", err)
	}

	api, err := telegram.NewAPI(telegram.BotConfig{
		Token:   cfg.Telegram.Token,
		Debug:   cfg.Telegram.Debug,
		Timeout: cfg.Receiver.PollTimeout + cfg.Receiver.RequestTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to create telegram client", zap.Error(err))
		return err
	}

	handler := telegram.NewHandler(api, admin, logger.Named("handler"), m)

	rcv, err := receiver.New(receiver.Config{
		Mode:        cfg.Receiver.Mode,
		Token:       cfg.Telegram.Token,
		WebhookURL:  cfg.Receiver.WebhookURL,
		PollTimeout: cfg.Receiver.PollTimeout,
		Workers:     cfg.Receiver.Workers,
	}, api, handler, logger, m)
	if err != nil {
		return err
	}

	var webhookRoute *server.Route
	if wh, ok := rcv.(*receiver.Webhook); ok {
		webhookRoute = &server.Route{Path: wh.Path(), Handler: wh}
	}

	supervisor := receiver.NewSupervisor(rcv, receiver.SupervisorConfig{
		InitialDelay: cfg.Restart.InitialDelay,
		MaxDelay:     cfg.Restart.MaxDelay,
		MaxAttempts:  cfg.Restart.MaxAttempts,
		ResetAfter:   cfg.Restart.ResetAfter,
	}, logger, m)

	liveness := server.New("liveness", cfg.HTTP.Addr(), server.LivenessRouter(webhookRoute), logger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.RunLiveness(gCtx, liveness, webhookRoute != nil)
	})

	if cfg.Metrics.Enabled() {
		metricsServer := server.New("metrics", cfg.Metrics.Addr, server.MetricsRouter(m.Handler()), logger)
		g.Go(func() error {
			return metricsServer.Run(gCtx)
		})
	}

	g.Go(func() error {
		return supervisor.Run(gCtx)
	})

	logger.Info("bot started",
		zap.String("mode", cfg.Receiver.Mode),
		zap.String("admin", admin.String()),
		zap.String("addr", liveness.Addr()),
	)

	if err := g.Wait(); err != nil {
		logger.Error("bot stopped with error", zap.Error(err))
		return err
	}

	logger.Info("bot stopped")
	return nil
}
