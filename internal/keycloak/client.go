// client.go - HTTP-транспорт к Keycloak: token endpoint и Admin REST API.
// Токен вызывающего передаётся в Keycloak без изменений, собственный токен
// модуль не получает и не кэширует. Каждый вызов - один запрос без повторов,
// неуспешный статус классифицируется в apperror.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
)

// Options - параметры подключения к Keycloak.
type Options struct {
	// BaseURL - базовый URL Keycloak (например, http://keycloak:8080)
	BaseURL string
	// Realm - имя realm
	Realm string
	// ClientID, ClientSecret - клиент для password и refresh_token grant
	ClientID     string
	ClientSecret string
	// HTTPClient - HTTP-клиент с явным таймаутом (может содержать TLS конфигурацию)
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client - общий транспорт адаптеров Keycloak.
type Client struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string

	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент Keycloak. Без HTTPClient используется клиент с таймаутом 15s.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		realm:        opts.Realm,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		httpClient:   httpClient,
		logger:       logger.With(slog.String("component", "keycloak_client")),
	}
}

// tokenEndpoint возвращает URL endpoint'а получения токена.
func (c *Client) tokenEndpoint() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.baseURL, c.realm)
}

// discoveryEndpoint возвращает URL OIDC discovery документа realm.
func (c *Client) discoveryEndpoint() string {
	return fmt.Sprintf("%s/realms/%s/.well-known/openid-configuration", c.baseURL, c.realm)
}

// adminBaseURL возвращает базовый URL Admin REST API для realm.
func (c *Client) adminBaseURL() string {
	return fmt.Sprintf("%s/admin/realms/%s", c.baseURL, c.realm)
}

// --- HTTP helpers ---

// response - прочитанный ответ Keycloak.
type response struct {
	status int
	header http.Header
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// doAdmin выполняет запрос к Admin REST API с токеном вызывающего.
// bearer - значение заголовка Authorization входящего запроса.
func (c *Client) doAdmin(ctx context.Context, op, bearer, method, path string, payload any) (*response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, apperror.Transport(op+": сериализация тела запроса", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.adminBaseURL()+path, body)
	if err != nil {
		return nil, apperror.Transport(op+": создание запроса", err)
	}
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(op, req)
}

// doForm отправляет form-encoded запрос на token endpoint.
func (c *Client) doForm(ctx context.Context, op string, form url.Values) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperror.Transport(op+": создание запроса", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.send(op, req)
}

// send выполняет запрос, читает тело целиком и записывает метрики.
func (c *Client) send(op string, req *http.Request) (*response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeUpstream(op, "error", start)
		c.logger.Warn("Keycloak недоступен",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Transport(op+": "+err.Error(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	observeUpstream(op, strconv.Itoa(resp.StatusCode), start)
	if err != nil {
		return nil, apperror.Transport(op+": чтение ответа", err)
	}

	c.logger.Debug("Ответ Keycloak",
		slog.String("operation", op),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// classify переводит неуспешный статус Admin REST API в ошибку таксономии.
// resource и id попадают в NotFound и Conflict.
func classify(resp *response, resource, id string) error {
	switch resp.status {
	case http.StatusUnauthorized:
		return apperror.InvalidToken()
	case http.StatusForbidden:
		return apperror.Forbidden()
	case http.StatusNotFound:
		return apperror.NotFound(resource, id)
	case http.StatusConflict:
		return apperror.Conflict(resource, fmt.Sprintf("%s %q already exists", resource, id))
	default:
		return apperror.External(resp.status, string(resp.body))
	}
}

// readCurrent читает представление ресурса перед изменением.
// 404 → NotFound, любой другой неуспешный статус → External.
func (c *Client) readCurrent(ctx context.Context, op, bearer, path, resource, id string) (map[string]any, error) {
	resp, err := c.doAdmin(ctx, op, bearer, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.ok():
		return decodeObject(op, resp)
	case resp.status == http.StatusNotFound:
		return nil, apperror.NotFound(resource, id)
	default:
		return nil, apperror.External(resp.status, string(resp.body))
	}
}

// decodeObject разбирает JSON-объект ответа в обобщённую map.
func decodeObject(op string, resp *response) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(resp.body, &obj); err != nil {
		return nil, apperror.Transport(op+": декодирование ответа Keycloak", err)
	}
	if obj == nil {
		return nil, apperror.Transport(op+": пустой ответ Keycloak", nil)
	}
	return obj, nil
}

// decodeArray разбирает JSON-массив объектов ответа.
func decodeArray(op string, resp *response) ([]map[string]any, error) {
	var items []map[string]any
	if err := json.Unmarshal(resp.body, &items); err != nil {
		return nil, apperror.Transport(op+": декодирование ответа Keycloak", err)
	}
	return items, nil
}

// locationID извлекает последний сегмент пути из Location header.
// Keycloak возвращает Location с идентификатором созданного ресурса.
func locationID(resp *response) (string, error) {
	location := resp.header.Get("Location")
	if location == "" {
		return "", apperror.Transport("отсутствует Location header в ответе Keycloak", nil)
	}

	location = strings.TrimRight(location, "/")
	id := location[strings.LastIndex(location, "/")+1:]
	if id == "" {
		return "", apperror.Transport("не удалось извлечь ID из Location: "+location, nil)
	}
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	return id, nil
}

// --- Readiness checker ---

// CheckReady проверяет доступность realm через OIDC discovery документ.
// Реализует handlers.ReadinessChecker.
func (c *Client) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.discoveryEndpoint(), nil)
	if err != nil {
		return "fail", fmt.Sprintf("Keycloak недоступен: %v", err)
	}

	resp, err := c.send("discovery", req)
	if err != nil {
		return "fail", fmt.Sprintf("Keycloak недоступен: %v", err)
	}
	if resp.status != http.StatusOK {
		return "fail", fmt.Sprintf("Keycloak вернул статус %d для realm %s", resp.status, c.realm)
	}

	var doc struct {
		Issuer string `json:"issuer"`
	}
	if err := json.Unmarshal(resp.body, &doc); err != nil || doc.Issuer == "" {
		return "degraded", fmt.Sprintf("Некорректный discovery документ realm %s", c.realm)
	}

	return "ok", fmt.Sprintf("Realm %s доступен", c.realm)
}
