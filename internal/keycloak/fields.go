package keycloak

import "github.com/bigkaa/goartstore/oauth-module/internal/domain/model"

// Keycloak и прокси перед ним отдают поля в разных нотациях.
// Значение ищется по ключам в указанном порядке.
var (
	userUsernameKeys  = []string{"username", "email"}
	userFirstNameKeys = []string{"firstName", "first-name", "first_name"}
	userLastNameKeys  = []string{"lastName", "last-name", "last_name"}

	roleClientRoleKeys  = []string{"clientRole", "client-role", "client_role"}
	roleContainerIDKeys = []string{"containerId", "container-id", "container_id"}
)

// stringField возвращает первое строковое значение по списку ключей или "".
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

// boolField возвращает первое булево значение по списку ключей или false.
func boolField(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := m[k].(bool); ok {
			return b
		}
	}
	return false
}

// userFromMap преобразует UserRepresentation Keycloak в model.User.
// Отсутствующие поля дают пустые значения, а не ошибку.
func userFromMap(m map[string]any) model.User {
	return model.User{
		ID:        stringField(m, "id"),
		Username:  stringField(m, userUsernameKeys...),
		FirstName: stringField(m, userFirstNameKeys...),
		LastName:  stringField(m, userLastNameKeys...),
		Enabled:   boolField(m, "enabled"),
	}
}

// roleFromMap преобразует RoleRepresentation Keycloak в model.Role.
func roleFromMap(m map[string]any) model.Role {
	return model.Role{
		ID:          stringField(m, "id"),
		Name:        stringField(m, "name"),
		Description: stringField(m, "description"),
		Composite:   boolField(m, "composite"),
		ClientRole:  boolField(m, roleClientRoleKeys...),
		ContainerID: stringField(m, roleContainerIDKeys...),
	}
}

// visibleRoles отбрасывает логически удалённые роли и преобразует остальные.
func visibleRoles(items []map[string]any) []model.Role {
	roles := make([]model.Role, 0, len(items))
	for _, item := range items {
		if isRoleDeleted(item) {
			continue
		}
		roles = append(roles, roleFromMap(item))
	}
	return roles
}
