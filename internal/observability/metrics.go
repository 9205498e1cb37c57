package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for the alert service.
type Metrics struct {
	AlertsReported       *prometheus.CounterVec // labels: emergency={true,false}
	StatusTransitions    *prometheus.CounterVec // labels: status={pending,in_progress,resolved}
	NotificationsCreated prometheus.Counter
	OpenAlerts           prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AlertsReported,
		m.StatusTransitions,
		m.NotificationsCreated,
		m.OpenAlerts,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AlertsReported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "powerline",
			Name:      "alerts_reported_total",
			Help:      "Total alerts reported, by emergency flag.",
		}, []string{"emergency"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "powerline",
			Name:      "status_transitions_total",
			Help:      "Total alert status updates, by resulting status.",
		}, []string{"status"}),
		NotificationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "powerline",
			Name:      "notifications_created_total",
			Help:      "Total notifications added to the feed.",
		}),
		OpenAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "powerline",
			Name:      "open_alerts",
			Help:      "Alerts currently pending or in progress.",
		}),
	}
}
