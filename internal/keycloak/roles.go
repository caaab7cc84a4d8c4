package keycloak

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

const resourceRole = "role"

// RoleAdapter - операции над realm-ролями.
// Удаление логическое: роль получает attributes.deleted=["true"] и
// перестаёт быть видимой в List и Get.
type RoleAdapter struct {
	c *Client
}

// NewRoleAdapter создаёт адаптер ролей.
func NewRoleAdapter(c *Client) *RoleAdapter {
	return &RoleAdapter{c: c}
}

func rolePath(id string) string {
	return "/roles-by-id/" + url.PathEscape(id)
}

// Create создаёт роль и возвращает её полное представление.
// Keycloak указывает в Location имя роли (/roles/{name}) либо ID
// (/roles-by-id/{id}); повторное чтение идёт по тому же адресу.
func (a *RoleAdapter) Create(ctx context.Context, bearer string, req model.CreateRoleRequest) (*model.Role, error) {
	body := roleCreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Composite:   req.Composite,
		ClientRole:  req.ClientRole,
		ContainerID: req.ContainerID,
	}

	resp, err := a.c.doAdmin(ctx, "create_role", bearer, http.MethodPost, "/roles", body)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusCreated {
		return nil, classify(resp, resourceRole, req.Name)
	}

	key, err := locationID(resp)
	if err != nil {
		return nil, err
	}

	path := "/roles/" + url.PathEscape(key)
	if strings.Contains(resp.header.Get("Location"), "/roles-by-id/") {
		path = rolePath(key)
	}

	resp, err = a.c.doAdmin(ctx, "create_role", bearer, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, classify(resp, resourceRole, key)
	}

	raw, err := decodeObject("create_role", resp)
	if err != nil {
		return nil, err
	}
	role := roleFromMap(raw)
	return &role, nil
}

// List возвращает роли realm без логически удалённых.
// briefRepresentation=false нужен, чтобы Keycloak вернул attributes.
func (a *RoleAdapter) List(ctx context.Context, bearer string) ([]model.Role, error) {
	resp, err := a.c.doAdmin(ctx, "list_roles", bearer, http.MethodGet, "/roles?briefRepresentation=false", nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, classify(resp, resourceRole, "")
	}

	items, err := decodeArray("list_roles", resp)
	if err != nil {
		return nil, err
	}
	return visibleRoles(items), nil
}

// Get возвращает роль по ID. Логически удалённая роль → NotFound.
func (a *RoleAdapter) Get(ctx context.Context, bearer, id string) (*model.Role, error) {
	resp, err := a.c.doAdmin(ctx, "get_role", bearer, http.MethodGet, rolePath(id), nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, classify(resp, resourceRole, id)
	}

	raw, err := decodeObject("get_role", resp)
	if err != nil {
		return nil, err
	}
	if isRoleDeleted(raw) {
		return nil, apperror.NotFound(resourceRole, id)
	}

	role := roleFromMap(raw)
	return &role, nil
}

// Update выполняет read-modify-write. Логически удалённую роль изменить нельзя.
// description (если не передан), attributes и неизвестные модулю поля сохраняются.
func (a *RoleAdapter) Update(ctx context.Context, bearer, id string, req model.CreateRoleRequest) (*model.Role, error) {
	raw, err := a.c.readCurrent(ctx, "update_role", bearer, rolePath(id), resourceRole, id)
	if err != nil {
		return nil, err
	}
	if isRoleDeleted(raw) {
		return nil, apperror.Validation("role " + id + " is deleted")
	}

	raw["name"] = req.Name
	raw["composite"] = req.Composite
	raw["clientRole"] = req.ClientRole
	raw["containerId"] = req.ContainerID
	if req.Description != nil {
		raw["description"] = *req.Description
	}

	resp, err := a.c.doAdmin(ctx, "update_role", bearer, http.MethodPut, rolePath(id), raw)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		if resp.status == http.StatusConflict {
			return nil, classify(resp, resourceRole, req.Name)
		}
		return nil, classify(resp, resourceRole, id)
	}

	role := roleFromMap(raw)
	return &role, nil
}

// Patch отправляет только переданные поля и возвращает свежее представление роли.
// Логически удалённая роль не изменяется и отдаётся как NotFound.
func (a *RoleAdapter) Patch(ctx context.Context, bearer, id string, req model.PatchRoleRequest) (*model.Role, error) {
	current, err := a.c.readCurrent(ctx, "patch_role", bearer, rolePath(id), resourceRole, id)
	if err != nil {
		return nil, err
	}
	if isRoleDeleted(current) {
		return nil, apperror.NotFound(resourceRole, id)
	}

	body := rolePatchRequest{
		Name:        req.Name,
		Description: req.Description,
		Composite:   req.Composite,
		ClientRole:  req.ClientRole,
		ContainerID: req.ContainerID,
	}

	resp, err := a.c.doAdmin(ctx, "patch_role", bearer, http.MethodPut, rolePath(id), body)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		if resp.status == http.StatusConflict && req.Name != nil {
			return nil, classify(resp, resourceRole, *req.Name)
		}
		return nil, classify(resp, resourceRole, id)
	}

	return a.Get(ctx, bearer, id)
}

// Delete помечает роль удалённой: attributes.deleted=["true"].
// Остальные атрибуты и поля роли сохраняются.
func (a *RoleAdapter) Delete(ctx context.Context, bearer, id string) error {
	raw, err := a.c.readCurrent(ctx, "delete_role", bearer, rolePath(id), resourceRole, id)
	if err != nil {
		return err
	}

	MarkDeleted(raw)

	resp, err := a.c.doAdmin(ctx, "delete_role", bearer, http.MethodPut, rolePath(id), raw)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return classify(resp, resourceRole, id)
	}
	return nil
}
