// dephealth.go - мониторинг Keycloak через topologymetrics SDK.
//
// Проверяется OIDC discovery документ realm: Keycloak /health доступен
// только на management порту, а discovery подтверждает доступность realm.
// Метрики app_dependency_* публикуются на /metrics.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker для Keycloak
)

// keycloakDependency - имя зависимости в метриках и Health().
const keycloakDependency = "keycloak"

// DephealthConfig - параметры мониторинга Keycloak.
type DephealthConfig struct {
	// ServiceID - имя вершины графа текущего приложения
	ServiceID string
	// Group - группа в метриках (OM_DEPHEALTH_GROUP)
	Group string
	// DiscoveryURL - URL OIDC discovery документа realm
	DiscoveryURL string
	// CheckInterval - интервал проверки (OM_DEPHEALTH_CHECK_INTERVAL)
	CheckInterval time.Duration
	// HTTPClient - клиент с CA Keycloak (OM_KEYCLOAK_CA_CERT_PATH).
	// nil - встроенная HTTP-проверка SDK с системными корневыми сертификатами.
	HTTPClient *http.Client
}

// DephealthService периодически проверяет доступность realm.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга Keycloak.
// Без extra-опций метрики регистрируются в глобальном registry,
// тесты передают dephealth.WithRegisterer.
func NewDephealthService(cfg DephealthConfig, logger *slog.Logger, extra ...dephealth.Option) (*DephealthService, error) {
	target, err := url.Parse(cfg.DiscoveryURL)
	if err != nil || target.Host == "" {
		return nil, fmt.Errorf("некорректный discovery URL %q", cfg.DiscoveryURL)
	}

	depOpts := []dephealth.DependencyOption{
		dephealth.FromURL(cfg.DiscoveryURL),
		dephealth.CheckInterval(cfg.CheckInterval),
		dephealth.Critical(true),
	}

	var keycloak dephealth.Option
	if cfg.HTTPClient != nil {
		checker := &discoveryChecker{client: cfg.HTTPClient, url: cfg.DiscoveryURL}
		keycloak = dephealth.AddDependency(keycloakDependency, dephealth.TypeHTTP, checker, depOpts...)
	} else {
		depOpts = append(depOpts, dephealth.WithHTTPHealthPath(target.Path))
		keycloak = dephealth.HTTP(keycloakDependency, depOpts...)
	}

	opts := append([]dephealth.Option{dephealth.WithLogger(logger), keycloak}, extra...)
	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, opts...)
	if err != nil {
		return nil, fmt.Errorf("инициализация topologymetrics: %w", err)
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает фоновые проверки до вызова Stop.
func (ds *DephealthService) Start(ctx context.Context) error {
	if err := ds.dh.Start(ctx); err != nil {
		return err
	}
	ds.logger.Info("Мониторинг Keycloak запущен")
	return nil
}

// Stop останавливает фоновые проверки.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг Keycloak остановлен")
}

// Health - последнее известное состояние, ключ "имя:host:port".
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// CheckReady сводит Health() к статусу readiness: "ok", пока последние
// проверки Keycloak успешны или ещё не выполнялись, иначе "fail".
func (ds *DephealthService) CheckReady() (string, string) {
	seen := 0
	for key, healthy := range ds.Health() {
		if !strings.HasPrefix(key, keycloakDependency+":") {
			continue
		}
		seen++
		if !healthy {
			return "fail", "topologymetrics: " + key + " недоступен"
		}
	}
	if seen == 0 {
		return "ok", "topologymetrics: проверки ещё не выполнялись"
	}
	return "ok", "topologymetrics: keycloak доступен"
}

// discoveryChecker запрашивает discovery документ через клиент модуля,
// поэтому проверка доверяет тому же CA, что и адаптеры Keycloak.
type discoveryChecker struct {
	client *http.Client
	url    string
}

func (c *discoveryChecker) Check(ctx context.Context, _ dephealth.Endpoint) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", dephealth.ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

func (c *discoveryChecker) Type() string {
	return string(dephealth.TypeHTTP)
}
