package model

import "encoding/json"

// User - пользователь Keycloak в стабильном представлении API.
// Удаление логическое: Enabled=false.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Enabled   bool   `json:"enabled"`
}

// UserList - ответ на запрос списка пользователей.
type UserList struct {
	Users []User `json:"users"`
}

// UserFilter - параметры постраничного поиска, передаются в Keycloak как есть.
type UserFilter struct {
	// Search - строка поиска (username, email, firstName, lastName)
	Search string
	// First - смещение (nil - по умолчанию Keycloak)
	First *int
	// Max - размер страницы (nil - по умолчанию Keycloak)
	Max *int
}

// Ключи и их допустимые варианты написания во входящих запросах.
var (
	usernameKeys  = []string{"username", "email", "userName", "user_name", "user-name"}
	firstNameKeys = []string{"first_name", "firstName", "first-name"}
	lastNameKeys  = []string{"last_name", "lastName", "last-name"}
	passwordKeys  = []string{"password"}
	roleIDKeys    = []string{"role_id", "roleId", "role-id"}
)

// CreateUserRequest - запрос на создание пользователя.
type CreateUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UnmarshalJSON принимает альтернативные написания полей.
func (r *CreateUserRequest) UnmarshalJSON(data []byte) error {
	f, err := parseAliasFields(data)
	if err != nil {
		return err
	}

	var out CreateUserRequest
	if err := f.stringValue(&out.Username, usernameKeys...); err != nil {
		return err
	}
	if err := f.stringValue(&out.Password, passwordKeys...); err != nil {
		return err
	}
	if err := f.stringValue(&out.FirstName, firstNameKeys...); err != nil {
		return err
	}
	if err := f.stringValue(&out.LastName, lastNameKeys...); err != nil {
		return err
	}

	*r = out
	return nil
}

// UpdateUserRequest - частичное обновление пользователя.
// nil-поле не изменяется.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// UnmarshalJSON принимает альтернативные написания полей.
func (r *UpdateUserRequest) UnmarshalJSON(data []byte) error {
	f, err := parseAliasFields(data)
	if err != nil {
		return err
	}

	var out UpdateUserRequest
	if out.Username, err = f.optString(usernameKeys...); err != nil {
		return err
	}
	if out.FirstName, err = f.optString(firstNameKeys...); err != nil {
		return err
	}
	if out.LastName, err = f.optString(lastNameKeys...); err != nil {
		return err
	}

	*r = out
	return nil
}

// PasswordUpdateRequest - смена пароля пользователя.
type PasswordUpdateRequest struct {
	Password string `json:"password"`
}

// AssignRoleRequest - назначение realm-роли пользователю.
type AssignRoleRequest struct {
	RoleID string `json:"role_id"`
}

// UnmarshalJSON принимает role_id, roleId и role-id.
func (r *AssignRoleRequest) UnmarshalJSON(data []byte) error {
	f, err := parseAliasFields(data)
	if err != nil {
		return err
	}
	var out AssignRoleRequest
	if err := f.stringValue(&out.RoleID, roleIDKeys...); err != nil {
		return err
	}
	*r = out
	return nil
}

var (
	_ json.Unmarshaler = (*CreateUserRequest)(nil)
	_ json.Unmarshaler = (*UpdateUserRequest)(nil)
	_ json.Unmarshaler = (*AssignRoleRequest)(nil)
)
