package model

import "encoding/json"

// Role - realm-роль Keycloak в стабильном представлении API.
// Логически удалённые роли (attributes.deleted) наружу не попадают.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Composite   bool   `json:"composite"`
	ClientRole  bool   `json:"client_role"`
	ContainerID string `json:"container_id"`
}

// RoleList - ответ на запрос списка ролей.
type RoleList struct {
	Roles []Role `json:"roles"`
}

var (
	roleNameKeys        = []string{"name"}
	roleDescriptionKeys = []string{"description"}
	roleCompositeKeys   = []string{"composite"}
	roleClientRoleKeys  = []string{"client_role", "clientRole", "client-role"}
	roleContainerIDKeys = []string{"container_id", "containerId", "container-id"}
)

// CreateRoleRequest - создание или полное обновление роли.
// Description не обязателен: при обновлении nil сохраняет текущее описание.
type CreateRoleRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Composite   bool    `json:"composite"`
	ClientRole  bool    `json:"client_role"`
	ContainerID string  `json:"container_id"`
}

// UnmarshalJSON принимает альтернативные написания полей.
func (r *CreateRoleRequest) UnmarshalJSON(data []byte) error {
	f, err := parseAliasFields(data)
	if err != nil {
		return err
	}

	var out CreateRoleRequest
	if err := f.stringValue(&out.Name, roleNameKeys...); err != nil {
		return err
	}
	if out.Description, err = f.optString(roleDescriptionKeys...); err != nil {
		return err
	}
	if err := f.boolValue(&out.Composite, roleCompositeKeys...); err != nil {
		return err
	}
	if err := f.boolValue(&out.ClientRole, roleClientRoleKeys...); err != nil {
		return err
	}
	if err := f.stringValue(&out.ContainerID, roleContainerIDKeys...); err != nil {
		return err
	}

	*r = out
	return nil
}

// PatchRoleRequest - частичное обновление роли. nil-поле не изменяется.
type PatchRoleRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Composite   *bool   `json:"composite,omitempty"`
	ClientRole  *bool   `json:"client_role,omitempty"`
	ContainerID *string `json:"container_id,omitempty"`
}

// UnmarshalJSON принимает альтернативные написания полей.
func (r *PatchRoleRequest) UnmarshalJSON(data []byte) error {
	f, err := parseAliasFields(data)
	if err != nil {
		return err
	}

	var out PatchRoleRequest
	if out.Name, err = f.optString(roleNameKeys...); err != nil {
		return err
	}
	if out.Description, err = f.optString(roleDescriptionKeys...); err != nil {
		return err
	}
	if out.Composite, err = f.optBool(roleCompositeKeys...); err != nil {
		return err
	}
	if out.ClientRole, err = f.optBool(roleClientRoleKeys...); err != nil {
		return err
	}
	if out.ContainerID, err = f.optString(roleContainerIDKeys...); err != nil {
		return err
	}

	*r = out
	return nil
}

// Empty сообщает, что ни одно поле не задано.
func (r PatchRoleRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Composite == nil &&
		r.ClientRole == nil && r.ContainerID == nil
}

var (
	_ json.Unmarshaler = (*CreateRoleRequest)(nil)
	_ json.Unmarshaler = (*PatchRoleRequest)(nil)
)
