// users.go - обработчики /users endpoints.
// Создание, поиск, обновление, смена пароля, логическое удаление
// и управление realm-ролями пользователя.
package handlers

import (
	"net/http"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

// CreateUser - POST /users.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), bearer(r), req)
	if err != nil {
		h.fail(w, r, "Ошибка создания пользователя", err, "username", req.Username)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// ListUsers - GET /users. Возвращает только активных пользователей.
func (h *APIHandler) ListUsers(w http.ResponseWriter, r *http.Request, params ListUsersParams) {
	users, err := h.users.List(r.Context(), bearer(r), params.Filter())
	if err != nil {
		h.fail(w, r, "Ошибка получения списка пользователей", err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// GetUser - GET /users/{id}.
func (h *APIHandler) GetUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.users.Get(r.Context(), bearer(r), id)
	if err != nil {
		h.fail(w, r, "Ошибка получения пользователя", err, "user_id", id)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUser - PUT /users/{id}. Отсутствующие поля не меняются.
func (h *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request, id string) {
	var req model.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Update(r.Context(), bearer(r), id, req)
	if err != nil {
		h.fail(w, r, "Ошибка обновления пользователя", err, "user_id", id)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUserPassword - PATCH /users/{id}. Тело ответа пустое.
func (h *APIHandler) UpdateUserPassword(w http.ResponseWriter, r *http.Request, id string) {
	var req model.PasswordUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.users.UpdatePassword(r.Context(), bearer(r), id, req); err != nil {
		h.fail(w, r, "Ошибка смены пароля", err, "user_id", id)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteUser - DELETE /users/{id}. Пользователь отключается (enabled=false).
func (h *APIHandler) DeleteUser(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.users.Delete(r.Context(), bearer(r), id); err != nil {
		h.fail(w, r, "Ошибка удаления пользователя", err, "user_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUserRoles - GET /users/{id}/roles.
func (h *APIHandler) ListUserRoles(w http.ResponseWriter, r *http.Request, id string) {
	roles, err := h.users.ListRoles(r.Context(), bearer(r), id)
	if err != nil {
		h.fail(w, r, "Ошибка получения ролей пользователя", err, "user_id", id)
		return
	}

	writeJSON(w, http.StatusOK, roles)
}

// AddUserRole - POST /users/{id}/roles.
func (h *APIHandler) AddUserRole(w http.ResponseWriter, r *http.Request, id string) {
	var req model.AssignRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.users.AddRole(r.Context(), bearer(r), id, req); err != nil {
		h.fail(w, r, "Ошибка назначения роли", err, "user_id", id, "role_id", req.RoleID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveUserRole - DELETE /users/{id}/roles/{role_id}.
func (h *APIHandler) RemoveUserRole(w http.ResponseWriter, r *http.Request, id string, roleID string) {
	if err := h.users.RemoveRole(r.Context(), bearer(r), id, roleID); err != nil {
		h.fail(w, r, "Ошибка снятия роли", err, "user_id", id, "role_id", roleID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
