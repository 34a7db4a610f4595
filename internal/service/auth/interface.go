package auth

import (
	"context"
	"time"

	"github.com/martinmohammed/auth-service/internal/domain/models"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore is the key/value store holding the single live refresh token
// per user ID, with per-key expiry. A missing key reads as ("", nil).
type SessionStore interface {
	Set(ctx context.Context, userID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Del(ctx context.Context, userID string) error
}

type TokenProvider interface {
	MintPair(ctx context.Context, userID string) (*models.TokenPair, error)
	VerifyAccessToken(ctx context.Context, token string) (*models.Claims, error)
	VerifyRefreshToken(ctx context.Context, token string) (string, error)
	RevokeRefreshToken(ctx context.Context, userID string) error
}

// EventPublisher publishes auth lifecycle events. Publishing is best effort:
// auth flows never fail because of a broker problem.
type EventPublisher interface {
	PublishAuthEvent(ctx context.Context, msg models.AuthEventMessage) error
}
