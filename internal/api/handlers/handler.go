// handler.go - основной обработчик API, реализующий ServerInterface.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/oauth-module/internal/api/errors"
	"github.com/bigkaa/goartstore/oauth-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
	"github.com/bigkaa/goartstore/oauth-module/internal/service"
)

// maxBodyBytes - максимальный размер тела запроса.
const maxBodyBytes = 1 << 20

// APIHandler - основной обработчик API OAuth Module.
type APIHandler struct {
	health *HealthHandler
	auth   *service.AuthService
	users  *service.UserService
	roles  *service.RoleService
	logger *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	auth *service.AuthService,
	users *service.UserService,
	roles *service.RoleService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health: health,
		auth:   auth,
		users:  users,
		roles:  roles,
		logger: logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive - liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady - readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics - Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает JSON-тело запроса в dst.
// При ошибке пишет 400 VALIDATION_ERROR и возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			apierrors.ValidationError(w, "invalid input: request body is empty")
			return false
		}
		apierrors.ValidationError(w, "invalid input: malformed JSON: "+err.Error())
		return false
	}
	return true
}

// parseForm разбирает application/x-www-form-urlencoded тело.
// При ошибке пишет 400 VALIDATION_ERROR и возвращает false.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		apierrors.ValidationError(w, "invalid input: malformed form: "+err.Error())
		return false
	}
	return true
}

// bearer возвращает заголовок Authorization, сохранённый middleware.
func bearer(r *http.Request) string {
	return middleware.BearerFromContext(r.Context())
}

// fail логирует ошибку сервисного слоя и пишет ответ по таксономии.
// Ошибки клиента - WARN, ошибки Keycloak и внутренние - ERROR.
func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	attrs = append(attrs, slog.String("error", err.Error()))
	switch apperror.KindOf(err) {
	case apperror.KindExternal, 0:
		h.logger.ErrorContext(r.Context(), msg, attrs...)
	default:
		h.logger.WarnContext(r.Context(), msg, attrs...)
	}
	apierrors.WriteAppError(w, err)
}
