package service

import (
	"context"
	"log/slog"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
	"github.com/bigkaa/goartstore/oauth-module/internal/validation"
)

// RoleService - управление realm-ролями.
type RoleService struct {
	provider RoleProvider
	logger   *slog.Logger
}

// NewRoleService создаёт сервис ролей.
func NewRoleService(provider RoleProvider, logger *slog.Logger) *RoleService {
	return &RoleService{
		provider: provider,
		logger:   logger.With(slog.String("component", "role_service")),
	}
}

// Create создаёт роль.
func (s *RoleService) Create(ctx context.Context, bearer string, req model.CreateRoleRequest) (*model.Role, error) {
	if err := validation.Err(validation.CreateRole(req)); err != nil {
		return nil, err
	}

	role, err := s.provider.Create(ctx, bearer, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Роль создана",
		slog.String("role_id", role.ID),
		slog.String("name", role.Name),
	)
	return role, nil
}

// List возвращает роли без логически удалённых.
func (s *RoleService) List(ctx context.Context, bearer string) (*model.RoleList, error) {
	roles, err := s.provider.List(ctx, bearer)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []model.Role{}
	}
	return &model.RoleList{Roles: roles}, nil
}

// Get возвращает роль по ID.
func (s *RoleService) Get(ctx context.Context, bearer, id string) (*model.Role, error) {
	return s.provider.Get(ctx, bearer, id)
}

// Update полностью обновляет роль.
func (s *RoleService) Update(ctx context.Context, bearer, id string, req model.CreateRoleRequest) (*model.Role, error) {
	if err := validation.Err(validation.UpdateRole(req)); err != nil {
		return nil, err
	}

	role, err := s.provider.Update(ctx, bearer, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Роль обновлена", slog.String("role_id", id))
	return role, nil
}

// Patch обновляет переданные поля роли.
func (s *RoleService) Patch(ctx context.Context, bearer, id string, req model.PatchRoleRequest) (*model.Role, error) {
	if err := validation.Err(validation.PatchRole(req)); err != nil {
		return nil, err
	}

	role, err := s.provider.Patch(ctx, bearer, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Роль изменена", slog.String("role_id", id))
	return role, nil
}

// Delete логически удаляет роль.
func (s *RoleService) Delete(ctx context.Context, bearer, id string) error {
	if err := s.provider.Delete(ctx, bearer, id); err != nil {
		return err
	}

	s.logger.Info("Роль помечена удалённой", slog.String("role_id", id))
	return nil
}
