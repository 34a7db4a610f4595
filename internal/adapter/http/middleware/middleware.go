package middleware

import (
	"context"

	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/pkg/logger"
)

type (
	// AccessVerifier is the stateless access-token check backing the guard.
	AccessVerifier interface {
		VerifyAccess(ctx context.Context, token string) (*models.Claims, error)
	}

	Middleware struct {
		verifier AccessVerifier
		log      logger.Logger
	}
)

func NewMiddleware(verifier AccessVerifier, log logger.Logger) *Middleware {
	return &Middleware{
		verifier: verifier,
		log:      log,
	}
}
