// logging.go - журнал входящих запросов через slog.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader - заголовок корреляции запросов.
const RequestIDHeader = "X-Request-Id"

// RequestLogger пишет одну запись на запрос. Входящий X-Request-Id
// переиспользуется, иначе генерируется UUID и возвращается клиенту.
// Субъект токена (preferred_username или sub) добавляется, если
// Authorization содержит разбираемый JWT.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			rec := recordResponse(w)
			next.ServeHTTP(rec, r)

			attrs := make([]slog.Attr, 0, 8)
			attrs = append(attrs,
				slog.String("request_id", id),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int64("bytes", rec.bytes),
				slog.Duration("duration", time.Since(started)),
				slog.String("remote_addr", r.RemoteAddr),
			)
			if sub := tokenSubject(r.Header.Get("Authorization")); sub != "" {
				attrs = append(attrs, slog.String("subject", sub))
			}

			logger.LogAttrs(r.Context(), levelForStatus(rec.status), "HTTP запрос", attrs...)
		})
	}
}
