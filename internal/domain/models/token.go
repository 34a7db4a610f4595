package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminator values. The claim is carried in the payload but is
// informational: the effective discrimination is which signing key and TTL
// produced the token, plus session-store membership for refresh tokens.
const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh-token"
)

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Claims is the JWT payload shared by access and refresh tokens.
// Subject carries the user ID.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}
