// Пакет service - сценарии OAuth Module: валидация запроса и один вызов провайдера.
// providers.go - интерфейсы провайдеров, реализуемые адаптерами Keycloak.
package service

import (
	"context"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

// AuthProvider - выдача токенов.
type AuthProvider interface {
	Login(ctx context.Context, creds model.Credentials) (*model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*model.Session, error)
}

// UserProvider - операции над пользователями.
// bearer - заголовок Authorization вызывающего, передаётся провайдеру без изменений.
type UserProvider interface {
	Create(ctx context.Context, bearer string, req model.CreateUserRequest) (*model.User, error)
	List(ctx context.Context, bearer string, filter model.UserFilter) ([]model.User, error)
	Get(ctx context.Context, bearer, id string) (*model.User, error)
	Update(ctx context.Context, bearer, id string, req model.UpdateUserRequest) (*model.User, error)
	UpdatePassword(ctx context.Context, bearer, id, password string) error
	Delete(ctx context.Context, bearer, id string) error
	AddRole(ctx context.Context, bearer, userID, roleID string) error
	RemoveRole(ctx context.Context, bearer, userID, roleID string) error
	ListRoles(ctx context.Context, bearer, userID string) ([]model.Role, error)
}

// RoleProvider - операции над ролями.
type RoleProvider interface {
	Create(ctx context.Context, bearer string, req model.CreateRoleRequest) (*model.Role, error)
	List(ctx context.Context, bearer string) ([]model.Role, error)
	Get(ctx context.Context, bearer, id string) (*model.Role, error)
	Update(ctx context.Context, bearer, id string, req model.CreateRoleRequest) (*model.Role, error)
	Patch(ctx context.Context, bearer, id string, req model.PatchRoleRequest) (*model.Role, error)
	Delete(ctx context.Context, bearer, id string) error
}
