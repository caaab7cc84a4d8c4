// Пакет errors - ответы с ошибками в формате OAuth Module.
// Единый формат: {"error": {"code": "...", "status": 404, "message": "...", "source": "oauth-module"}}.
// Все HTTP-ответы с ошибками должны использовать WriteError или WriteAppError.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
)

// Коды ошибок API.
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeForbidden            = "FORBIDDEN"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeExternalServiceError = "EXTERNAL_SERVICE_ERROR"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// Source - источник ошибки в теле ответа.
const Source = "oauth-module"

// errorBody - структура тела ответа ошибки.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail - детали ошибки.
type errorDetail struct {
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// WriteError записывает ответ ошибки.
// statusCode - HTTP статус-код, code - машиночитаемый код, message - описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Status:  statusCode,
			Message: message,
			Source:  Source,
		},
	})
}

// WriteAppError отображает ошибку сервисного слоя в HTTP-ответ.
// Ошибки вне таксономии отдаются как 500 без деталей.
func WriteAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		InternalError(w, "internal server error")
		return
	}
	WriteError(w, StatusOf(appErr), appErr.Kind.String(), clientMessage(appErr))
}

// upstreamFailureMessage - текст ответа при транспортной ошибке или ошибке разбора ответа Keycloak.
// Подробности (адрес, причина) остаются только в журнале.
const upstreamFailureMessage = "external service error: identity provider request failed"

func clientMessage(appErr *apperror.Error) string {
	if appErr.Kind == apperror.KindExternal && appErr.Status == 0 {
		return upstreamFailureMessage
	}
	return appErr.Error()
}

// StatusOf возвращает HTTP-статус для ошибки таксономии.
// Для внешних ошибок используется статус Keycloak, если это 4xx/5xx, иначе 502.
func StatusOf(appErr *apperror.Error) int {
	switch appErr.Kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindInvalidCredentials, apperror.KindInvalidToken:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindExternal:
		if appErr.Status >= 400 && appErr.Status <= 599 {
			return appErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// --- Конструкторы для типичных ошибок ---

// ValidationError - 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// InvalidToken - 401 отсутствует или отклонён bearer-токен.
func InvalidToken(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeInvalidToken, message)
}

// InternalError - 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
