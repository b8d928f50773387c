package router

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcome label values.
const (
	outcomeMatched          = "matched"
	outcomeNotFound         = "not_found"
	outcomeMethodNotAllowed = "method_not_allowed"
	outcomeHandlerError     = "handler_error"
)

// Metrics records dispatch outcomes. Collectors live on a private registry
// so multiple routers can coexist in one process.
type Metrics struct {
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	registry         *prometheus.Registry
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "router"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Total number of dispatched requests by outcome",
		},
		[]string{"method", "outcome"},
	)

	m.dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Request dispatch duration in seconds",
			Buckets: []float64{
				.0001, .0005, .001, .005, .01,
				.05, .1, .5, 1, 5,
			},
		},
		[]string{"method", "outcome"},
	)

	m.registry.MustRegister(m.dispatchTotal, m.dispatchDuration)

	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// observe records one dispatch. Nil-safe so a router without metrics skips
// recording.
func (m *Metrics) observe(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(method, outcome).Inc()
	m.dispatchDuration.WithLabelValues(method, outcome).Observe(elapsed.Seconds())
}
