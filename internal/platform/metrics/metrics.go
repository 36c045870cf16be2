package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors del servicio sobre un registry propio
// (evita colisiones con el registry global en tests).
type Metrics struct {
	Registry *prometheus.Registry

	StatusTransitions *prometheus.CounterVec
	SaveFailures      prometheus.Counter
	NotifyFailures    *prometheus.CounterVec
	RecurringTriggers prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medrem",
			Name:      "dose_status_transitions_total",
			Help:      "Dose status changes applied, by resulting status.",
		}, []string{"status"}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medrem",
			Name:      "snapshot_save_failures_total",
			Help:      "Snapshot saves that failed; in-memory state kept.",
		}),
		NotifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medrem",
			Name:      "notifier_failures_total",
			Help:      "Notification delivery calls that failed, by operation.",
		}, []string{"op"}),
		RecurringTriggers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "medrem",
			Name:      "recurring_triggers",
			Help:      "Recurring triggers in the last derived set.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medrem",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method and status code.",
		}, []string{"method", "code"}),
	}

	reg.MustRegister(
		m.StatusTransitions,
		m.SaveFailures,
		m.NotifyFailures,
		m.RecurringTriggers,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler expone /metrics para este registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
