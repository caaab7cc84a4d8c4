// health.go - пробы Kubernetes и экспорт метрик.
package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/goartstore/oauth-module/internal/config"
)

const (
	serviceName = "oauth-module"

	probeOK       = "ok"
	probeDegraded = "degraded"
	probeFail     = "fail"
)

// ReadinessChecker сообщает состояние зависимости: "ok", "degraded" или "fail".
type ReadinessChecker interface {
	CheckReady() (status string, message string)
}

// HealthHandler обслуживает /health/live, /health/ready и /metrics.
type HealthHandler struct {
	keycloak ReadinessChecker
	extra    []namedCheck
	metrics  http.Handler
}

type namedCheck struct {
	name    string
	checker ReadinessChecker
}

// NewHealthHandler создаёт обработчик проб. При nil checker readiness всегда fail.
func NewHealthHandler(keycloak ReadinessChecker) *HealthHandler {
	return &HealthHandler{keycloak: keycloak, metrics: promhttp.Handler()}
}

// AddCheck добавляет проверку в /health/ready. Её "fail" понижает ответ
// до "degraded": решение о 503 принимает только прямая проверка Keycloak.
func (h *HealthHandler) AddCheck(name string, checker ReadinessChecker) {
	h.extra = append(h.extra, namedCheck{name: name, checker: checker})
}

type probeResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type probeResponse struct {
	Status    string                 `json:"status"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	CheckedAt time.Time              `json:"timestamp"`
	Checks    map[string]probeResult `json:"checks,omitempty"`
}

func probe(status string) probeResponse {
	return probeResponse{
		Status:    status,
		Service:   serviceName,
		Version:   config.Version,
		CheckedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// HealthLive отвечает 200, пока процесс обслуживает запросы.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, probe(probeOK))
}

// HealthReady проверяет Keycloak. "fail" → 503, иначе 200.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	kc := probeResult{Status: probeFail, Message: "не инициализирован"}
	if h.keycloak != nil {
		kc.Status, kc.Message = h.keycloak.CheckReady()
	}

	resp := probe(kc.Status)
	resp.Checks = map[string]probeResult{"keycloak": kc}
	for _, c := range h.extra {
		var res probeResult
		res.Status, res.Message = c.checker.CheckReady()
		resp.Checks[c.name] = res
		if res.Status != probeOK && resp.Status == probeOK {
			resp.Status = probeDegraded
		}
	}

	code := http.StatusOK
	if kc.Status == probeFail {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// GetMetrics отдаёт Prometheus метрики процесса и app_dependency_*.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
