// Пакет apperror - единая таксономия ошибок OAuth Module.
// Адаптеры Keycloak классифицируют статусы upstream в Kind,
// сервисный слой добавляет только ошибки валидации,
// HTTP-слой отображает Kind в статус ответа.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind - категория ошибки.
type Kind int

const (
	// KindValidation - входные данные отклонены до обращения к Keycloak.
	KindValidation Kind = iota + 1
	// KindInvalidCredentials - Keycloak отклонил логин/пароль.
	KindInvalidCredentials
	// KindInvalidToken - Keycloak отклонил bearer-токен.
	KindInvalidToken
	// KindForbidden - недостаточно прав в Keycloak.
	KindForbidden
	// KindNotFound - ресурс отсутствует или логически удалён.
	KindNotFound
	// KindConflict - нарушение уникальности в Keycloak.
	KindConflict
	// KindExternal - любой другой неуспешный ответ, транспортная ошибка или ошибка разбора.
	KindExternal
)

// String возвращает машиночитаемое имя категории.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindInvalidToken:
		return "INVALID_TOKEN"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindExternal:
		return "EXTERNAL_SERVICE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error - ошибка с категорией и числовым кодом.
// Status - для upstream-ошибок статус Keycloak (0 при транспортной ошибке),
// для остальных - канонический HTTP-статус категории.
type Error struct {
	Kind     Kind
	Status   int
	Resource string
	ID       string
	Details  string
	Err      error
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return "invalid input: " + e.Details
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindInvalidToken:
		return "invalid or expired token"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
	case KindConflict:
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Details)
	case KindExternal:
		return "external service error: " + e.Details
	default:
		return e.Details
	}
}

// Unwrap возвращает исходную ошибку (транспорт, JSON).
func (e *Error) Unwrap() error {
	return e.Err
}

// --- Конструкторы ---

// Validation - ошибка валидации входных данных.
func Validation(details string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Details: details}
}

// InvalidCredentials - неверные учётные данные.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Status: http.StatusUnauthorized}
}

// InvalidToken - невалидный или просроченный токен.
func InvalidToken() *Error {
	return &Error{Kind: KindInvalidToken, Status: http.StatusUnauthorized}
}

// Forbidden - отказ авторизации в Keycloak.
func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Status: http.StatusForbidden}
}

// NotFound - ресурс resource с идентификатором id не найден.
func NotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Resource: resource, ID: id}
}

// Conflict - конфликт уникальности ресурса.
func Conflict(resource, details string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Resource: resource, Details: details}
}

// External - неожиданный ответ Keycloak. status - статус upstream, body - сырое тело.
func External(status int, body string) *Error {
	return &Error{Kind: KindExternal, Status: status, Details: body}
}

// Transport - сетевая ошибка или ошибка разбора ответа Keycloak.
func Transport(details string, err error) *Error {
	return &Error{Kind: KindExternal, Details: details, Err: err}
}

// --- Проверки ---

// As извлекает *Error из цепочки ошибок.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf возвращает категорию ошибки или 0, если ошибка не из таксономии.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return 0
}

// Is проверяет, относится ли err к категории kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
