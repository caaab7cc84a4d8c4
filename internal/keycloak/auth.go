package keycloak

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

// AuthAdapter - выдача токенов через token endpoint realm.
type AuthAdapter struct {
	c *Client
}

// NewAuthAdapter создаёт адаптер аутентификации.
func NewAuthAdapter(c *Client) *AuthAdapter {
	return &AuthAdapter{c: c}
}

// Login выполняет password grant.
// 400 → Validation с телом Keycloak, 401 → InvalidCredentials,
// прочие неуспешные статусы → External.
func (a *AuthAdapter) Login(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	resp, err := a.c.doForm(ctx, "login", url.Values{
		"grant_type":    {"password"},
		"client_id":     {a.c.clientID},
		"client_secret": {a.c.clientSecret},
		"username":      {creds.Username},
		"password":      {creds.Password},
	})
	if err != nil {
		return nil, err
	}

	switch {
	case resp.ok():
		return decodeSession("login", resp)
	case resp.status == http.StatusBadRequest:
		return nil, apperror.Validation(string(resp.body))
	case resp.status == http.StatusUnauthorized:
		return nil, apperror.InvalidCredentials()
	default:
		return nil, apperror.External(resp.status, string(resp.body))
	}
}

// Refresh обменивает refresh token на новую пару токенов.
// 400 и 401 означают просроченный или отозванный refresh token → InvalidToken.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*model.Session, error) {
	resp, err := a.c.doForm(ctx, "refresh", url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {a.c.clientID},
		"client_secret": {a.c.clientSecret},
		"refresh_token": {refreshToken},
	})
	if err != nil {
		return nil, err
	}

	switch {
	case resp.ok():
		return decodeSession("refresh", resp)
	case resp.status == http.StatusBadRequest, resp.status == http.StatusUnauthorized:
		return nil, apperror.InvalidToken()
	default:
		return nil, apperror.External(resp.status, string(resp.body))
	}
}

// decodeSession разбирает ответ token endpoint.
func decodeSession(op string, resp *response) (*model.Session, error) {
	var token tokenResponse
	if err := json.Unmarshal(resp.body, &token); err != nil {
		return nil, apperror.Transport(op+": декодирование токена Keycloak", err)
	}

	return &model.Session{
		TokenType:        token.TokenType,
		AccessToken:      token.AccessToken,
		ExpiresIn:        toInt32(token.ExpiresIn),
		RefreshToken:     token.RefreshToken,
		RefreshExpiresIn: toInt32(token.RefreshExpiresIn),
	}, nil
}
