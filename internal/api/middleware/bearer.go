// bearer.go - middleware обязательного заголовка Authorization.
// Значение заголовка передаётся в Keycloak без изменений, окончательное
// решение о валидности токена принимает Keycloak.
// Опционально подпись проверяется заранее по JWKS realm'а.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/bigkaa/goartstore/oauth-module/internal/api/errors"
)

// contextKey - тип для ключей контекста (избегаем коллизий).
type contextKey string

// contextKeyBearer - исходное значение заголовка Authorization.
const contextKeyBearer contextKey = "bearer"

// WithBearer помещает значение заголовка Authorization в контекст.
func WithBearer(ctx context.Context, bearer string) context.Context {
	return context.WithValue(ctx, contextKeyBearer, bearer)
}

// BearerFromContext возвращает значение заголовка Authorization из контекста.
func BearerFromContext(ctx context.Context) string {
	bearer, _ := ctx.Value(contextKeyBearer).(string)
	return bearer
}

// tokenClaims - claims, которые используются для логирования.
type tokenClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
}

// BearerAuth - middleware защищённых маршрутов.
type BearerAuth struct {
	jwks   keyfunc.Keyfunc
	issuer string
	logger *slog.Logger
}

// NewBearerAuth создаёт middleware без проверки подписи:
// достаточно непустого заголовка Authorization.
func NewBearerAuth(logger *slog.Logger) *BearerAuth {
	return &BearerAuth{
		logger: logger.With(slog.String("component", "bearer_auth")),
	}
}

// NewVerifyingBearerAuth создаёт middleware с проверкой подписи по JWKS.
// httpClient используется для загрузки ключей (может быть nil).
// NoErrorReturnFirstHTTPReq - стартуем даже если Keycloak ещё недоступен.
func NewVerifyingBearerAuth(
	jwksURL string,
	httpClient *http.Client,
	issuer string,
	refreshInterval time.Duration,
	logger *slog.Logger,
) (*BearerAuth, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    httpClient,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	return NewBearerAuthWithKeyfunc(k, issuer, logger), nil
}

// NewBearerAuthWithKeyfunc создаёт middleware с предоставленной keyfunc.
func NewBearerAuthWithKeyfunc(kf keyfunc.Keyfunc, issuer string, logger *slog.Logger) *BearerAuth {
	return &BearerAuth{
		jwks:   kf,
		issuer: issuer,
		logger: logger.With(slog.String("component", "bearer_auth")),
	}
}

// Middleware возвращает HTTP middleware: без заголовка Authorization - 401,
// иначе заголовок сохраняется в контексте запроса.
func (b *BearerAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if strings.TrimSpace(authHeader) == "" {
				apierrors.InvalidToken(w, "missing authorization header")
				return
			}

			if b.jwks != nil {
				if err := b.verify(r.Context(), authHeader); err != nil {
					b.logger.Debug("JWT валидация не пройдена",
						slog.String("error", err.Error()),
						slog.String("remote_addr", r.RemoteAddr),
					)
					apierrors.InvalidToken(w, "invalid or expired token")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithBearer(r.Context(), authHeader)))
		})
	}
}

// verify проверяет подпись RS256, срок действия и issuer токена.
func (b *BearerAuth) verify(ctx context.Context, authHeader string) error {
	tokenString, ok := bearerToken(authHeader)
	if !ok {
		return fmt.Errorf("ожидается Bearer <token>")
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	}
	if b.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(b.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, b.jwks.KeyfuncCtx(ctx), parserOpts...)
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("невалидный токен")
	}
	return nil
}

// bearerToken извлекает токен из значения "Bearer <token>".
func bearerToken(authHeader string) (string, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// tokenSubject возвращает preferred_username (или sub) из токена без
// проверки подписи. Только для логов.
func tokenSubject(authHeader string) string {
	tokenString, ok := bearerToken(authHeader)
	if !ok {
		return ""
	}
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	if claims.PreferredUsername != "" {
		return claims.PreferredUsername
	}
	return claims.Subject
}
