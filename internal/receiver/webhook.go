package receiver

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/startbot/internal/metrics"
	"github.com/kitbuilder587/startbot/internal/telegram"
)

// Webhook registers the bot's public URL with the platform and serves the
// pushed updates on Path.
type Webhook struct {
	api        telegram.BotAPI
	dispatcher Dispatcher
	baseURL    string
	token      string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewWebhook(api telegram.BotAPI, d Dispatcher, baseURL, token string, logger *zap.Logger, m *metrics.Metrics) *Webhook {
	return &Webhook{
		api:        api,
		dispatcher: d,
		baseURL:    baseURL,
		token:      token,
		logger:     logger.Named("webhook"),
		metrics:    m,
	}
}

// Path is the secret route the platform posts updates to.
func (w *Webhook) Path() string {
	return "/" + w.token + "/"
}

// Run replaces any previous registration and then blocks until ctx is done.
func (w *Webhook) Run(ctx context.Context) error {
	if _, err := w.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	wh, err := tgbotapi.NewWebhook(w.baseURL + w.Path())
	if err != nil {
		return fmt.Errorf("build webhook: %w", err)
	}
	if _, err := w.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	w.logger.Info("webhook registered", zap.String("base_url", w.baseURL))

	<-ctx.Done()
	w.logger.Info("webhook receiver stopped")
	return nil
}

func (w *Webhook) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	update, err := w.api.HandleUpdate(r)
	if err != nil {
		w.logger.Warn("failed to decode webhook update", zap.Error(err))
		w.record(http.StatusBadRequest)
		http.Error(rw, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	w.dispatcher.HandleUpdate(r.Context(), *update)

	w.record(http.StatusOK)
	rw.WriteHeader(http.StatusOK)
}

func (w *Webhook) record(code int) {
	if w.metrics != nil {
		w.metrics.RecordWebhookRequest(code)
	}
}
