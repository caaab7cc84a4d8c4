package service

import (
	"context"
	"log/slog"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
	"github.com/bigkaa/goartstore/oauth-module/internal/validation"
)

// UserService - управление пользователями realm.
type UserService struct {
	provider UserProvider
	logger   *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(provider UserProvider, logger *slog.Logger) *UserService {
	return &UserService{
		provider: provider,
		logger:   logger.With(slog.String("component", "user_service")),
	}
}

// Create создаёт пользователя.
func (s *UserService) Create(ctx context.Context, bearer string, req model.CreateUserRequest) (*model.User, error) {
	if err := validation.Err(validation.CreateUser(req)); err != nil {
		return nil, err
	}

	user, err := s.provider.Create(ctx, bearer, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Пользователь создан",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// List возвращает включённых пользователей.
func (s *UserService) List(ctx context.Context, bearer string, filter model.UserFilter) (*model.UserList, error) {
	users, err := s.provider.List(ctx, bearer, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return &model.UserList{Users: users}, nil
}

// Get возвращает пользователя по ID.
func (s *UserService) Get(ctx context.Context, bearer, id string) (*model.User, error) {
	return s.provider.Get(ctx, bearer, id)
}

// Update применяет частичное обновление.
func (s *UserService) Update(ctx context.Context, bearer, id string, req model.UpdateUserRequest) (*model.User, error) {
	if err := validation.Err(validation.UpdateUser(req)); err != nil {
		return nil, err
	}

	user, err := s.provider.Update(ctx, bearer, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Пользователь обновлён", slog.String("user_id", id))
	return user, nil
}

// UpdatePassword устанавливает новый пароль.
func (s *UserService) UpdatePassword(ctx context.Context, bearer, id string, req model.PasswordUpdateRequest) error {
	if err := validation.Err(validation.Password(req.Password)); err != nil {
		return err
	}

	if err := s.provider.UpdatePassword(ctx, bearer, id, req.Password); err != nil {
		return err
	}

	s.logger.Info("Пароль пользователя изменён", slog.String("user_id", id))
	return nil
}

// Delete отключает пользователя.
func (s *UserService) Delete(ctx context.Context, bearer, id string) error {
	if err := s.provider.Delete(ctx, bearer, id); err != nil {
		return err
	}

	s.logger.Info("Пользователь отключён", slog.String("user_id", id))
	return nil
}

// AddRole назначает роль. Пустой role_id отклоняется без обращения к провайдеру.
func (s *UserService) AddRole(ctx context.Context, bearer, userID string, req model.AssignRoleRequest) error {
	if err := validation.Err(validation.RoleID(req.RoleID)); err != nil {
		return err
	}

	if err := s.provider.AddRole(ctx, bearer, userID, req.RoleID); err != nil {
		return err
	}

	s.logger.Info("Роль назначена",
		slog.String("user_id", userID),
		slog.String("role_id", req.RoleID),
	)
	return nil
}

// RemoveRole снимает роль с пользователя.
func (s *UserService) RemoveRole(ctx context.Context, bearer, userID, roleID string) error {
	if err := s.provider.RemoveRole(ctx, bearer, userID, roleID); err != nil {
		return err
	}

	s.logger.Info("Роль снята",
		slog.String("user_id", userID),
		slog.String("role_id", roleID),
	)
	return nil
}

// ListRoles возвращает realm-роли пользователя.
func (s *UserService) ListRoles(ctx context.Context, bearer, userID string) (*model.RoleList, error) {
	roles, err := s.provider.ListRoles(ctx, bearer, userID)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []model.Role{}
	}
	return &model.RoleList{Roles: roles}, nil
}
