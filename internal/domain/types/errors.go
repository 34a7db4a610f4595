package types

import "errors"

// Client-visible errors. The handler layer maps these to HTTP status codes;
// the message of each sentinel is the message the client sees.
var (
	ErrEmailAlreadyRegistered = errors.New("email is already been registered")
	ErrUserNotFound           = errors.New("user not registered")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrMissingRefreshToken    = errors.New("no refresh token was attached to body")
	ErrMissingAuthHeader      = errors.New("authorization header is required")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
	ErrRevokedToken = errors.New("revoked token")
)

// Infrastructure errors. Logged with full detail server-side, surfaced to
// clients only as a generic internal error.
var (
	ErrTokenSigning = errors.New("failed to sign token")
	ErrSessionWrite = errors.New("failed to persist refresh token")
	ErrSessionRead  = errors.New("failed to read refresh token state")
	ErrUserStore    = errors.New("user store failure")
)
