package keycloak

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики исходящих вызовов Keycloak
var (
	// upstreamRequestsTotal - количество запросов к Keycloak по операциям и статусам.
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "om_keycloak_requests_total",
			Help: "Общее количество запросов OAuth Module к Keycloak",
		},
		[]string{"operation", "status"},
	)

	// upstreamRequestDuration - длительность запросов к Keycloak.
	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "om_keycloak_request_duration_seconds",
			Help:    "Длительность запросов OAuth Module к Keycloak в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// observeUpstream записывает результат одного запроса. status - HTTP-код или "error".
func observeUpstream(op, status string, start time.Time) {
	upstreamRequestsTotal.WithLabelValues(op, status).Inc()
	upstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
