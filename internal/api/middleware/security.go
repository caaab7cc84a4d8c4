// security.go - заголовки безопасности, CORS и ограничение частоты
// запросов к публичным эндпоинтам аутентификации.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	apierrors "github.com/bigkaa/goartstore/oauth-module/internal/api/errors"
)

// SecurityHeaders возвращает middleware стандартных заголовков безопасности.
// API отдаёт только JSON, поэтому CSP максимально строгая.
func SecurityHeaders() func(http.Handler) http.Handler {
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
	})
	return sec.Handler
}

// CORS возвращает middleware CORS для указанных origins.
// Пустой список - CORS не нужен, middleware ничего не делает.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// LoginRateLimit возвращает middleware ограничения запросов с одного IP
// в минуту. limit == 0 - без ограничения.
func LoginRateLimit(limit int) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			apierrors.WriteError(w, http.StatusTooManyRequests, apierrors.CodeRateLimited, "too many requests")
		}),
	)
}
