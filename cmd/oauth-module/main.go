// Точка входа OAuth Module - фасада над Keycloak для аутентификации,
// управления пользователями и ролями realm.
// Загружает конфигурацию, создаёт адаптеры Keycloak и сервисный слой,
// запускает мониторинг Keycloak (topologymetrics) и HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bigkaa/goartstore/oauth-module/internal/api/handlers"
	"github.com/bigkaa/goartstore/oauth-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/oauth-module/internal/config"
	"github.com/bigkaa/goartstore/oauth-module/internal/keycloak"
	"github.com/bigkaa/goartstore/oauth-module/internal/server"
	"github.com/bigkaa/goartstore/oauth-module/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("OAuth Module завершился с ошибкой", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newRootCmd создаёт корневую команду. Без подкоманды запускается сервер.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "oauth-module",
		Short:         "Keycloak facade: login, users and realm roles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Version)
		},
	})

	return rootCmd
}

// serve загружает конфигурацию, собирает зависимости и блокируется
// до сигнала завершения.
func serve() error {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("загрузка конфигурации: %w", err)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("OAuth Module запускается",
		slog.String("version", config.Version),
		slog.String("addr", cfg.HTTPAddr()),
		slog.String("keycloak", cfg.KeycloakURL()),
		slog.String("realm", cfg.KeycloakRealm),
	)

	// 3. HTTP-клиент Keycloak с явным таймаутом и опциональным CA
	httpClient := &http.Client{Timeout: cfg.KeycloakTimeout}
	if cfg.KeycloakCACertPath != "" {
		httpClient, err = buildHTTPClientWithCA(cfg.KeycloakCACertPath, cfg.KeycloakTimeout)
		if err != nil {
			return fmt.Errorf("загрузка CA-сертификата %s: %w", cfg.KeycloakCACertPath, err)
		}
		logger.Info("CA-сертификат загружен", slog.String("path", cfg.KeycloakCACertPath))
	}

	// 4. Адаптеры Keycloak
	kcClient := keycloak.New(keycloak.Options{
		BaseURL:      cfg.KeycloakURL(),
		Realm:        cfg.KeycloakRealm,
		ClientID:     cfg.KeycloakClientID,
		ClientSecret: cfg.KeycloakClientSecret,
		HTTPClient:   httpClient,
		Logger:       logger,
	})

	// 5. Сервисный слой
	authService := service.NewAuthService(keycloak.NewAuthAdapter(kcClient), logger)
	userService := service.NewUserService(keycloak.NewUserAdapter(kcClient), logger)
	roleService := service.NewRoleService(keycloak.NewRoleAdapter(kcClient), logger)

	// 6. Мониторинг Keycloak (topologymetrics)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dhCfg := service.DephealthConfig{
		ServiceID:     "oauth-module",
		Group:         cfg.DephealthGroup,
		DiscoveryURL:  cfg.KeycloakDiscoveryURL(),
		CheckInterval: cfg.DephealthCheckInterval,
	}
	if cfg.KeycloakCACertPath != "" {
		dhCfg.HTTPClient = httpClient
	}
	dephealthSvc, err := service.NewDephealthService(dhCfg, logger)
	if err != nil {
		logger.Warn("Мониторинг Keycloak отключён", slog.String("error", err.Error()))
	} else if err := dephealthSvc.Start(ctx); err != nil {
		logger.Warn("Не удалось запустить мониторинг Keycloak", slog.String("error", err.Error()))
		dephealthSvc = nil
	}
	defer func() {
		if dephealthSvc != nil {
			dephealthSvc.Stop()
		}
	}()

	// 7. Middleware защищённых маршрутов
	bearerAuth := middleware.NewBearerAuth(logger)
	if cfg.JWTVerify {
		bearerAuth, err = middleware.NewVerifyingBearerAuth(
			cfg.JWTJWKSURL, httpClient, cfg.JWTIssuer, cfg.JWKSRefreshInterval, logger)
		if err != nil {
			return fmt.Errorf("инициализация проверки JWT: %w", err)
		}
		logger.Info("Проверка подписи JWT включена",
			slog.String("jwks_url", cfg.JWTJWKSURL),
			slog.String("issuer", cfg.JWTIssuer),
		)
	}

	// 8. HTTP handlers и сервер
	healthHandler := handlers.NewHealthHandler(kcClient)
	if dephealthSvc != nil {
		healthHandler.AddCheck("dependencies", dephealthSvc)
	}
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		authService,
		userService,
		roleService,
		logger,
	)

	srv := server.New(cfg, logger, apiHandler, bearerAuth)
	if err := srv.Run(); err != nil {
		return err
	}

	logger.Info("OAuth Module остановлен")
	return nil
}

// buildHTTPClientWithCA создаёт HTTP-клиент с кастомным CA-сертификатом
// поверх системного пула.
func buildHTTPClientWithCA(caCertPath string, timeout time.Duration) (*http.Client, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, err
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("файл не содержит PEM-сертификатов")
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				RootCAs:    caCertPool,
				MinVersion: tls.VersionTLS12,
			},
		},
	}, nil
}
