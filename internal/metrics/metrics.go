package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "startbot"

type Metrics struct {
	registry *prometheus.Registry

	UpdatesTotal   *prometheus.CounterVec
	HandleDuration prometheus.Histogram

	OutboundCallsTotal *prometheus.CounterVec

	WebhookRequestsTotal *prometheus.CounterVec

	ReceiverRestartsTotal prometheus.Counter
}

// New registers all collectors on a fresh registry so that several instances
// can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		UpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "updates_total",
				Help:      "Total number of updates received, by outcome",
			},
			[]string{"outcome"},
		),
		HandleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "start_handle_duration_seconds",
				Help:      "Time spent handling a /start command",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),

		OutboundCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbound_calls_total",
				Help:      "Total number of calls made to the messaging platform",
			},
			[]string{"call", "status"},
		),

		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_requests_total",
				Help:      "Total number of webhook requests, by HTTP status",
			},
			[]string{"code"},
		),

		ReceiverRestartsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "receiver_restarts_total",
				Help:      "Number of times the update receiver was restarted after a failure",
			},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordUpdate(outcome string) {
	m.UpdatesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHandle(duration time.Duration) {
	m.HandleDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordCall(call string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.OutboundCallsTotal.WithLabelValues(call, status).Inc()
}

func (m *Metrics) RecordWebhookRequest(code int) {
	m.WebhookRequestsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Metrics) RecordRestart() {
	m.ReceiverRestartsTotal.Inc()
}
