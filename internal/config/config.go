// Пакет config - загрузка и валидация конфигурации OAuth Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации OAuth Module.
// Заполняется один раз при старте и передаётся в конструкторы явно.
type Config struct {
	// --- Сервер ---

	// Адрес прослушивания HTTP-сервера
	Host string `envconfig:"OM_HOST" default:"0.0.0.0"`
	// Порт HTTP-сервера
	Port int `envconfig:"OM_PORT" default:"8181"`
	// Уровень логирования (debug, info, warn, error)
	LogLevelName string `envconfig:"OM_LOG_LEVEL" default:"info"`
	// Формат логов (json, text)
	LogFormat string `envconfig:"OM_LOG_FORMAT" default:"json"`
	// Разобранный уровень логирования
	LogLevel slog.Level `ignored:"true"`

	// --- Keycloak ---

	// Протокол Keycloak (http, https)
	KeycloakProtocol string `envconfig:"KEYCLOAK_INTERNAL_PROTOCOL" default:"http"`
	// Хост Keycloak
	KeycloakHost string `envconfig:"KEYCLOAK_INTERNAL_HOST" default:"localhost"`
	// Порт Keycloak
	KeycloakPort string `envconfig:"KEYCLOAK_INTERNAL_API_PORT" default:"8080"`
	// Имя realm
	KeycloakRealm string `envconfig:"KEYCLOAK_REALM" required:"true"`
	// Client ID для password/refresh grant
	KeycloakClientID string `envconfig:"KEYCLOAK_CLIENT_ID" required:"true"`
	// Client Secret
	KeycloakClientSecret string `envconfig:"KEYCLOAK_CLIENT_SECRET" required:"true"`
	// Таймаут одного исходящего запроса к Keycloak
	KeycloakTimeout time.Duration `envconfig:"OM_KEYCLOAK_TIMEOUT" default:"15s"`
	// Путь к CA-сертификату Keycloak (опционально)
	KeycloakCACertPath string `envconfig:"OM_KEYCLOAK_CA_CERT_PATH"`

	// --- JWT (предварительная проверка, окончательное решение за Keycloak) ---

	// Проверять подпись bearer-токена по JWKS до обращения к Keycloak
	JWTVerify bool `envconfig:"OM_JWT_VERIFY" default:"false"`
	// Issuer JWT (авто-вычисляется, если не задан)
	JWTIssuer string `envconfig:"OM_JWT_ISSUER"`
	// URL JWKS endpoint (авто-вычисляется, если не задан)
	JWTJWKSURL string `envconfig:"OM_JWT_JWKS_URL"`
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration `envconfig:"OM_JWKS_REFRESH_INTERVAL" default:"15m"`

	// --- Входящий трафик ---

	// Разрешённые CORS origins (через запятую, пусто - CORS выключен)
	CORSAllowedOrigins []string `envconfig:"OM_CORS_ALLOWED_ORIGINS"`
	// Лимит запросов /login и /refresh в минуту с одного IP (0 - без лимита)
	LoginRateLimit int `envconfig:"OM_LOGIN_RATE_LIMIT" default:"20"`
	// Брать IP клиента из X-Forwarded-For/X-Real-IP. Включать только за
	// доверенным прокси, иначе клиент подменяет ключ rate limit.
	TrustProxyHeaders bool `envconfig:"OM_TRUST_PROXY_HEADERS" default:"false"`

	// --- Мониторинг зависимостей ---

	// Интервал проверки Keycloak через topologymetrics
	DephealthCheckInterval time.Duration `envconfig:"OM_DEPHEALTH_CHECK_INTERVAL" default:"15s"`
	// Группа в метриках topologymetrics
	DephealthGroup string `envconfig:"OM_DEPHEALTH_GROUP" default:"oauth"`

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration `envconfig:"OM_SHUTDOWN_TIMEOUT" default:"5s"`
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("чтение переменных окружения: %w", err)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("OM_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	level, err := parseLogLevel(cfg.LogLevelName)
	if err != nil {
		return nil, fmt.Errorf("OM_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("OM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	cfg.KeycloakProtocol = strings.ToLower(cfg.KeycloakProtocol)
	if cfg.KeycloakProtocol != "http" && cfg.KeycloakProtocol != "https" {
		return nil, fmt.Errorf("KEYCLOAK_INTERNAL_PROTOCOL: недопустимое значение %q, допустимые: http, https", cfg.KeycloakProtocol)
	}

	if cfg.KeycloakTimeout <= 0 {
		return nil, fmt.Errorf("OM_KEYCLOAK_TIMEOUT: таймаут должен быть положительным, получено %s", cfg.KeycloakTimeout)
	}

	if cfg.LoginRateLimit < 0 {
		return nil, fmt.Errorf("OM_LOGIN_RATE_LIMIT: значение %d не может быть отрицательным", cfg.LoginRateLimit)
	}

	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = fmt.Sprintf("%s/realms/%s", cfg.KeycloakURL(), cfg.KeycloakRealm)
	}
	if cfg.JWTJWKSURL == "" {
		cfg.JWTJWKSURL = fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", cfg.KeycloakURL(), cfg.KeycloakRealm)
	}

	return cfg, nil
}

// KeycloakURL возвращает базовый URL Keycloak без trailing slash.
func (c *Config) KeycloakURL() string {
	return fmt.Sprintf("%s://%s:%s", c.KeycloakProtocol, c.KeycloakHost, c.KeycloakPort)
}

// KeycloakDiscoveryURL возвращает URL OIDC discovery документа realm.
func (c *Config) KeycloakDiscoveryURL() string {
	return fmt.Sprintf("%s/realms/%s/.well-known/openid-configuration", c.KeycloakURL(), c.KeycloakRealm)
}

// HTTPAddr возвращает адрес прослушивания HTTP-сервера.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
