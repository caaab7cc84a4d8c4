// Пакет server - HTTP-сервер OAuth Module.
// TLS завершается на API Gateway, внутри кластера обычный HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bigkaa/goartstore/oauth-module/internal/api/handlers"
	"github.com/bigkaa/goartstore/oauth-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/oauth-module/internal/config"
)

// Server оборачивает http.Server с маршрутами фасада.
type Server struct {
	http            *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// New собирает сервер. bearerAuth защищает все маршруты кроме
// /login, /refresh и служебных.
func New(cfg *config.Config, logger *slog.Logger, handler handlers.ServerInterface, bearerAuth *middleware.BearerAuth) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.HTTPAddr(),
			Handler:           NewRouter(cfg, logger, handler, bearerAuth),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger.With(slog.String("component", "http")),
	}
}

// NewRouter возвращает chi-роутер: общие middleware, затем маршруты
// с rate limit на публичной группе и bearer на защищённой.
// X-Forwarded-For учитывается только при OM_TRUST_PROXY_HEADERS,
// иначе rate limit считается по адресу сокета.
func NewRouter(cfg *config.Config, logger *slog.Logger, handler handlers.ServerInterface, bearerAuth *middleware.BearerAuth) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		chimw.Recoverer,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	return handlers.HandlerFromMux(handler, r, handlers.RouteOptions{
		Public:    []func(http.Handler) http.Handler{middleware.LoginRateLimit(cfg.LoginRateLimit)},
		Protected: []func(http.Handler) http.Handler{bearerAuth.Middleware()},
	})
}

// Run обслуживает запросы до SIGINT/SIGTERM.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx)
}

// Serve слушает адрес сервера до отмены ctx, затем дожидается
// завершения активных запросов не дольше shutdownTimeout.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.serveListener(ctx, ln)
}

func (s *Server) serveListener(ctx context.Context, ln net.Listener) error {
	served := make(chan error, 1)
	go func() {
		served <- s.http.Serve(ln)
	}()
	s.logger.Info("HTTP-сервер запущен", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP-сервер: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Остановка HTTP-сервера", slog.Duration("timeout", s.shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
