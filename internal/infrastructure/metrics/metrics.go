package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "crm",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "crm",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint", "status"},
	)

	BackendOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "crm",
			Name:      "backend_operations_total",
			Help:      "Remote backend calls by table, operation and outcome",
		},
		[]string{"table", "operation", "outcome"},
	)

	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "crm",
			Name:      "backend_duration_seconds",
			Help:      "Remote backend call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"table", "operation"},
	)

	FetchDiscardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "crm",
			Name:      "fetch_discarded_total",
			Help:      "Fetch responses dropped because a newer fetch was already applied",
		},
		[]string{"resource"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "crm",
			Name:      "notifications_total",
			Help:      "User notifications emitted by severity",
		},
		[]string{"severity"},
	)

	LiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jan",
			Subsystem: "crm",
			Name:      "live_notification_clients",
			Help:      "Connected websocket notification clients",
		},
	)
)

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(duration)
}

// RecordBackendCall records one remote backend operation.
func RecordBackendCall(table, operation string, err error, duration float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	BackendOperationsTotal.WithLabelValues(table, operation, outcome).Inc()
	BackendDuration.WithLabelValues(table, operation).Observe(duration)
}
