// auth.go - обработчики /login и /refresh.
// Оба принимают application/x-www-form-urlencoded и не требуют Authorization.
package handlers

import (
	"net/http"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

// Login - POST /login. Обменивает логин и пароль на токены Keycloak.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	creds := model.Credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	session, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		h.fail(w, r, "Ошибка входа", err, "username", creds.Username)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Refresh - POST /refresh. Обновляет сессию по refresh_token.
func (h *APIHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	session, err := h.auth.Refresh(r.Context(), r.PostForm.Get("refresh_token"))
	if err != nil {
		h.fail(w, r, "Ошибка обновления токена", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
