package service

import (
	"context"
	"log/slog"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
	"github.com/bigkaa/goartstore/oauth-module/internal/validation"
)

// AuthService - логин и обновление токенов.
type AuthService struct {
	provider AuthProvider
	logger   *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(provider AuthProvider, logger *slog.Logger) *AuthService {
	return &AuthService{
		provider: provider,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Login проверяет учётные данные и выполняет password grant.
func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	if err := validation.Err(validation.Login(creds)); err != nil {
		return nil, err
	}

	session, err := s.provider.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Пользователь вошёл", slog.String("username", creds.Username))
	return session, nil
}

// Refresh обменивает refresh token на новую пару токенов.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.Session, error) {
	if err := validation.Err(validation.RefreshToken(refreshToken)); err != nil {
		return nil, err
	}
	return s.provider.Refresh(ctx, refreshToken)
}
