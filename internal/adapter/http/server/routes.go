package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System health
	a.mux.HandleFunc("GET /health", a.routes.health.HealthCheck)

	a.setupSwaggerRoutes()
	a.setupMetricsRoute()
	a.setupAuthRoutes()
}

func (a *API) setupAuthRoutes() {
	a.mux.HandleFunc("POST /auth/register", a.routes.auth.Register)                        // Create a user, get a token pair
	a.mux.HandleFunc("POST /auth/login", a.routes.auth.Login)                              // Exchange credentials for a token pair
	a.mux.HandleFunc("POST /auth/refresh-token", a.routes.auth.Refresh)                    // Rotate the refresh token
	a.mux.HandleFunc("DELETE /auth/logout", a.routes.auth.Logout)                          // Revoke the refresh token
	a.mux.Handle("GET /auth/me", a.m.RequireAuth(http.HandlerFunc(a.routes.auth.Profile))) // Current user from access token claims
}

// setupSwaggerRoutes configures the Swagger UI endpoint
func (a *API) setupSwaggerRoutes() {
	a.mux.HandleFunc("/swagger/", httpSwagger.Handler())
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func (a *API) setupMetricsRoute() {
	a.mux.Handle("GET /metrics", promhttp.Handler())
}
