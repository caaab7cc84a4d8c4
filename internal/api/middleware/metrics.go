// metrics.go - Prometheus HTTP метрики OAuth Module.
// Регистрирует метрики: om_http_requests_total, om_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal - общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "om_http_requests_total",
			Help: "Общее количество HTTP-запросов к OAuth Module",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration - гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "om_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к OAuth Module в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			normalizedPath := normalizePath(r.URL.Path)

			rec := recordResponse(w)
			next.ServeHTTP(rec, r)

			status := strconv.Itoa(rec.status)
			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath заменяет идентификаторы в пути на шаблоны,
// чтобы не раздувать кардинальность метрик.
// /users/abc/roles/def → /users/{id}/roles/{role_id}
func normalizePath(path string) string {
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/login", "/refresh", "/users", "/roles":
		return path
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(segments) == 2 && segments[0] == "users":
		return "/users/{id}"
	case len(segments) == 3 && segments[0] == "users" && segments[2] == "roles":
		return "/users/{id}/roles"
	case len(segments) == 4 && segments[0] == "users" && segments[2] == "roles":
		return "/users/{id}/roles/{role_id}"
	case len(segments) == 2 && segments[0] == "roles":
		return "/roles/{id}"
	}

	return "other"
}
