package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/martinmohammed/auth-service/config"
	"github.com/martinmohammed/auth-service/internal/adapter/http/handler"
	"github.com/martinmohammed/auth-service/internal/adapter/http/middleware"
	"github.com/martinmohammed/auth-service/pkg/logger"
	wrap "github.com/martinmohammed/auth-service/pkg/logger/wrapper"
)

const serviceName = "auth-service"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	auth   *handler.Auth
	health *handler.Health
}

// AuthService is everything the HTTP surface needs from the auth core:
// the four credential operations plus access token verification for the guard.
type AuthService interface {
	handler.AuthService
	middleware.AccessVerifier
}

func New(
	cfg config.Config,
	authService AuthService,
	healthDeps map[string]handler.Pinger,
	log logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	routes := &handlers{
		auth:   handler.NewAuth(authService, log),
		health: handler.NewHealth(serviceName, healthDeps, log),
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(authService, log),

		addr: fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		cfg:  cfg,
		log:  log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Metrics(serviceName)(a.mux))))
}
