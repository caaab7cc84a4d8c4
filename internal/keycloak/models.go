// models.go - тела запросов и ответов Keycloak с фиксированной структурой.
// Представления пользователей и ролей читаются как map, чтобы при
// read-modify-write сохранять поля, которые модуль не знает.
package keycloak

import (
	"encoding/json"
	"math"
)

// tokenResponse - ответ token endpoint.
// Сроки жизни читаются как есть и приводятся к int32 отдельно.
type tokenResponse struct {
	AccessToken      string          `json:"access_token"` //nolint:gosec // G117: структура токена OAuth2
	TokenType        string          `json:"token_type"`
	ExpiresIn        json.RawMessage `json:"expires_in"`
	RefreshToken     string          `json:"refresh_token"` //nolint:gosec // G117: структура токена OAuth2
	RefreshExpiresIn json.RawMessage `json:"refresh_expires_in"`
}

// credentialRepresentation - пароль пользователя.
type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// userCreateRequest - тело создания пользователя. Email повторяет username.
type userCreateRequest struct {
	Username    string                     `json:"username"`
	Email       string                     `json:"email"`
	FirstName   string                     `json:"firstName"`
	LastName    string                     `json:"lastName"`
	Enabled     bool                       `json:"enabled"`
	Credentials []credentialRepresentation `json:"credentials"`
}

// roleCreateRequest - тело создания realm-роли.
type roleCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Composite   bool    `json:"composite"`
	ClientRole  bool    `json:"clientRole"`
	ContainerID string  `json:"containerId"`
}

// rolePatchRequest - частичное обновление роли, отсутствующие поля не передаются.
type rolePatchRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Composite   *bool   `json:"composite,omitempty"`
	ClientRole  *bool   `json:"clientRole,omitempty"`
	ContainerID *string `json:"containerId,omitempty"`
}

// roleMapping - элемент тела role-mappings.
type roleMapping struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// toInt32 приводит срок жизни к int32. Дробные, нечисловые и
// выходящие за диапазон значения дают 0.
func toInt32(raw json.RawMessage) int32 {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	v, err := n.Int64()
	if err != nil || v < math.MinInt32 || v > math.MaxInt32 {
		return 0
	}
	return int32(v)
}
