package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/martinmohammed/auth-service/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	serviceName string
	startedAt   time.Time
	deps        map[string]Pinger
	log         logger.Logger
}

func NewHealth(serviceName string, deps map[string]Pinger, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		startedAt:   time.Now().UTC(),
		deps:        deps,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the health status of the service and its dependencies
// @Tags         Health
// @Produce      json
// @Success      200 {object} map[string]any
// @Failure      503 {object} map[string]any
// @Router       /health [get]
func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := envelope{}
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			h.log.Warn(ctx, "dependency ping failed", "dependency", name)
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	response := envelope{
		"service":      h.serviceName,
		"status":       http.StatusText(status),
		"uptime":       time.Since(h.startedAt).Round(time.Second).String(),
		"dependencies": deps,
	}

	if err := writeJSON(w, status, response, nil); err != nil {
		h.log.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}
