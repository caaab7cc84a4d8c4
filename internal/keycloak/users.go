package keycloak

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

const resourceUser = "user"

// UserAdapter - операции над пользователями realm.
// Удаление логическое: пользователь отключается (enabled=false).
type UserAdapter struct {
	c *Client
}

// NewUserAdapter создаёт адаптер пользователей.
func NewUserAdapter(c *Client) *UserAdapter {
	return &UserAdapter{c: c}
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

// Create создаёт включённого пользователя с постоянным паролем.
// ID берётся из Location header ответа 201.
func (a *UserAdapter) Create(ctx context.Context, bearer string, req model.CreateUserRequest) (*model.User, error) {
	body := userCreateRequest{
		Username:  req.Username,
		Email:     req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Enabled:   true,
		Credentials: []credentialRepresentation{
			{Type: "password", Value: req.Password, Temporary: false},
		},
	}

	resp, err := a.c.doAdmin(ctx, "create_user", bearer, http.MethodPost, "/users", body)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusCreated {
		return nil, classify(resp, resourceUser, req.Username)
	}

	id, err := locationID(resp)
	if err != nil {
		return nil, err
	}

	return &model.User{
		ID:        id,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Enabled:   true,
	}, nil
}

// List возвращает только включённых пользователей.
func (a *UserAdapter) List(ctx context.Context, bearer string, filter model.UserFilter) ([]model.User, error) {
	q := url.Values{"enabled": {"true"}}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.First != nil {
		q.Set("first", strconv.Itoa(*filter.First))
	}
	if filter.Max != nil {
		q.Set("max", strconv.Itoa(*filter.Max))
	}

	resp, err := a.c.doAdmin(ctx, "list_users", bearer, http.MethodGet, "/users?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, classify(resp, resourceUser, "")
	}

	items, err := decodeArray("list_users", resp)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(items))
	for _, item := range items {
		users = append(users, userFromMap(item))
	}
	return users, nil
}

// Get возвращает пользователя по ID, включая отключённых.
func (a *UserAdapter) Get(ctx context.Context, bearer, id string) (*model.User, error) {
	resp, err := a.c.doAdmin(ctx, "get_user", bearer, http.MethodGet, userPath(id), nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, classify(resp, resourceUser, id)
	}

	raw, err := decodeObject("get_user", resp)
	if err != nil {
		return nil, err
	}
	user := userFromMap(raw)
	return &user, nil
}

// Update выполняет read-modify-write: накладывает переданные поля на текущее
// представление и сохраняет его целиком. Неизвестные модулю поля сохраняются.
func (a *UserAdapter) Update(ctx context.Context, bearer, id string, req model.UpdateUserRequest) (*model.User, error) {
	raw, err := a.c.readCurrent(ctx, "update_user", bearer, userPath(id), resourceUser, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		raw["username"] = *req.Username
		raw["email"] = *req.Username
	}
	if req.FirstName != nil {
		raw["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		raw["lastName"] = *req.LastName
	}

	resp, err := a.c.doAdmin(ctx, "update_user", bearer, http.MethodPut, userPath(id), raw)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		if resp.status == http.StatusConflict && req.Username != nil {
			return nil, classify(resp, resourceUser, *req.Username)
		}
		return nil, classify(resp, resourceUser, id)
	}

	// Ответ строится по пути запроса, если Keycloak не вернул id или enabled
	user := userFromMap(raw)
	user.ID = id
	if _, ok := raw["enabled"]; !ok {
		user.Enabled = true
	}
	return &user, nil
}

// UpdatePassword устанавливает постоянный пароль.
func (a *UserAdapter) UpdatePassword(ctx context.Context, bearer, id, password string) error {
	cred := credentialRepresentation{Type: "password", Value: password, Temporary: false}

	resp, err := a.c.doAdmin(ctx, "reset_password", bearer, http.MethodPut, userPath(id)+"/reset-password", cred)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return classify(resp, resourceUser, id)
	}
	return nil
}

// Delete отключает пользователя. Повторный вызов для отключённого пользователя успешен.
func (a *UserAdapter) Delete(ctx context.Context, bearer, id string) error {
	resp, err := a.c.doAdmin(ctx, "disable_user", bearer, http.MethodPut, userPath(id), map[string]any{"enabled": false})
	if err != nil {
		return err
	}
	if !resp.ok() {
		return classify(resp, resourceUser, id)
	}
	return nil
}

// AddRole назначает пользователю realm-роль. Логически удалённую роль назначить нельзя.
func (a *UserAdapter) AddRole(ctx context.Context, bearer, userID, roleID string) error {
	role, err := a.lookupRole(ctx, "add_user_role", bearer, roleID)
	if err != nil {
		return err
	}
	if isRoleDeleted(role) {
		return apperror.Validation("role " + roleID + " is deleted")
	}
	return a.changeMapping(ctx, "add_user_role", bearer, http.MethodPost, userID, role)
}

// RemoveRole снимает с пользователя realm-роль.
func (a *UserAdapter) RemoveRole(ctx context.Context, bearer, userID, roleID string) error {
	role, err := a.lookupRole(ctx, "remove_user_role", bearer, roleID)
	if err != nil {
		return err
	}
	return a.changeMapping(ctx, "remove_user_role", bearer, http.MethodDelete, userID, role)
}

// ListRoles возвращает realm-роли пользователя без логически удалённых.
func (a *UserAdapter) ListRoles(ctx context.Context, bearer, userID string) ([]model.Role, error) {
	resp, err := a.c.doAdmin(ctx, "list_user_roles", bearer, http.MethodGet, userPath(userID)+"/role-mappings/realm", nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, classify(resp, resourceUser, userID)
	}

	items, err := decodeArray("list_user_roles", resp)
	if err != nil {
		return nil, err
	}
	return visibleRoles(items), nil
}

// lookupRole читает роль по ID для получения её канонического имени.
func (a *UserAdapter) lookupRole(ctx context.Context, op, bearer, roleID string) (map[string]any, error) {
	return a.c.readCurrent(ctx, op, bearer, rolePath(roleID), resourceRole, roleID)
}

// changeMapping отправляет [{id, name}] в realm role-mappings пользователя.
func (a *UserAdapter) changeMapping(ctx context.Context, op, bearer, method, userID string, role map[string]any) error {
	body := []roleMapping{{
		ID:   stringField(role, "id"),
		Name: stringField(role, "name"),
	}}

	resp, err := a.c.doAdmin(ctx, op, bearer, method, userPath(userID)+"/role-mappings/realm", body)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return classify(resp, resourceUser, userID)
	}
	return nil
}
