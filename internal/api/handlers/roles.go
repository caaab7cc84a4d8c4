// roles.go - обработчики /roles endpoints.
package handlers

import (
	"net/http"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

// CreateRole - POST /roles.
func (h *APIHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, err := h.roles.Create(r.Context(), bearer(r), req)
	if err != nil {
		h.fail(w, r, "Ошибка создания роли", err, "name", req.Name)
		return
	}

	writeJSON(w, http.StatusCreated, role)
}

// ListRoles - GET /roles. Удалённые роли не возвращаются.
func (h *APIHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.List(r.Context(), bearer(r))
	if err != nil {
		h.fail(w, r, "Ошибка получения списка ролей", err)
		return
	}

	writeJSON(w, http.StatusOK, roles)
}

// GetRole - GET /roles/{id}.
func (h *APIHandler) GetRole(w http.ResponseWriter, r *http.Request, id string) {
	role, err := h.roles.Get(r.Context(), bearer(r), id)
	if err != nil {
		h.fail(w, r, "Ошибка получения роли", err, "role_id", id)
		return
	}

	writeJSON(w, http.StatusOK, role)
}

// UpdateRole - PUT /roles/{id}. Полная замена редактируемых полей.
func (h *APIHandler) UpdateRole(w http.ResponseWriter, r *http.Request, id string) {
	var req model.CreateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, err := h.roles.Update(r.Context(), bearer(r), id, req)
	if err != nil {
		h.fail(w, r, "Ошибка обновления роли", err, "role_id", id)
		return
	}

	writeJSON(w, http.StatusOK, role)
}

// PatchRole - PATCH /roles/{id}. Меняются только переданные поля.
func (h *APIHandler) PatchRole(w http.ResponseWriter, r *http.Request, id string) {
	var req model.PatchRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, err := h.roles.Patch(r.Context(), bearer(r), id, req)
	if err != nil {
		h.fail(w, r, "Ошибка частичного обновления роли", err, "role_id", id)
		return
	}

	writeJSON(w, http.StatusOK, role)
}

// DeleteRole - DELETE /roles/{id}. Роль помечается удалённой.
func (h *APIHandler) DeleteRole(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.roles.Delete(r.Context(), bearer(r), id); err != nil {
		h.fail(w, r, "Ошибка удаления роли", err, "role_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
