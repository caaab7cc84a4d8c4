// Пакет model - доменные модели OAuth Module.
// Ни одна модель не хранится локально: источник истины - Keycloak.
package model

// Credentials - учётные данные для password grant.
type Credentials struct {
	// Username - логин пользователя (email)
	Username string
	// Password - пароль
	Password string
}

// Session - токены, выданные Keycloak при успешном логине.
type Session struct {
	// TokenType - тип токена (обычно Bearer)
	TokenType string `json:"token_type"`
	// AccessToken - access token для последующих вызовов
	AccessToken string `json:"access_token"` //nolint:gosec // G117: структура токена OAuth2
	// ExpiresIn - срок жизни access token в секундах
	ExpiresIn int32 `json:"expires_in"`
	// RefreshToken - refresh token
	RefreshToken string `json:"refresh_token"` //nolint:gosec // G117: структура токена OAuth2
	// RefreshExpiresIn - срок жизни refresh token в секундах
	RefreshExpiresIn int32 `json:"refresh_expires_in"`
}
