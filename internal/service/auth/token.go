package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/internal/domain/types"
	"github.com/martinmohammed/auth-service/pkg/logger"
	wrap "github.com/martinmohammed/auth-service/pkg/logger/wrapper"
)

// TokenService mints and verifies the access/refresh token pair.
//
// Access tokens are stateless: possession plus a valid signature and an
// unexpired window is authorization. Refresh tokens are additionally bound to
// a session-store slot keyed by user ID; minting a new refresh token
// overwrites the slot and thereby revokes the previous token. That overwrite
// is the sole revocation mechanism — there is no blocklist.
type TokenService struct {
	sessions SessionStore

	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string

	accessTTL  time.Duration
	refreshTTL time.Duration

	log logger.Logger
}

func NewTokenService(
	sessions SessionStore,
	accessSecret, refreshSecret string,
	issuer, audience string,
	accessTTL, refreshTTL time.Duration,
	log logger.Logger,
) *TokenService {
	return &TokenService{
		sessions:      sessions,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		audience:      audience,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		log:           log,
	}
}

// MintPair mints a fresh access/refresh pair for the user. The refresh token
// is persisted to the session store before the pair is returned; any previous
// refresh token for this user stops verifying from that moment on.
func (s *TokenService) MintPair(ctx context.Context, userID string) (*models.TokenPair, error) {
	accessToken, accessExp, err := s.MintAccessToken(userID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	refreshToken, refreshExp, err := s.MintRefreshToken(ctx, userID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// MintAccessToken signs a stateless access token for the user. No side effects.
func (s *TokenService) MintAccessToken(userID string) (string, time.Time, error) {
	return s.sign(userID, models.AccessTokenType, s.accessSecret, s.accessTTL)
}

// MintRefreshToken signs a refresh token and writes userID -> token into the
// session store with the token's lifetime as expiry. If the store write fails
// the token is not returned: a refresh token that cannot be verified later is
// worse than none.
func (s *TokenService) MintRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	ctx = wrap.WithAction(ctx, types.ActionMintRefreshToken)

	token, expiresAt, err := s.sign(userID, models.RefreshTokenType, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return "", time.Time{}, err
	}

	if err := s.sessions.Set(ctx, userID, token, s.refreshTTL); err != nil {
		s.log.Error(ctx, "failed to persist refresh token", err)
		return "", time.Time{}, wrap.Error(ctx, types.ErrSessionWrite)
	}

	return token, expiresAt, nil
}

// VerifyAccessToken checks signature and expiry only. Expired and malformed
// tokens fail with distinguishable errors so callers can log accordingly;
// both surface to the client as the same unauthorized outcome.
func (s *TokenService) VerifyAccessToken(ctx context.Context, token string) (*models.Claims, error) {
	ctx = wrap.WithAction(ctx, types.ActionVerifyAccessToken)

	claims, err := s.parse(token, s.accessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, types.ErrExpiredToken)
		}
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}

	return claims, nil
}

// VerifyRefreshToken checks signature and expiry, then requires the presented
// token to byte-for-byte match the session-store entry for its subject. A
// missing entry or a mismatch means the token was never issued, already
// rotated, or revoked via logout.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, token string) (string, error) {
	ctx = wrap.WithAction(ctx, types.ActionVerifyRefreshToken)

	claims, err := s.parse(token, s.refreshSecret)
	if err != nil {
		return "", wrap.Error(ctx, types.ErrInvalidToken)
	}

	userID := claims.Subject
	if userID == "" {
		return "", wrap.Error(ctx, types.ErrInvalidToken)
	}
	ctx = wrap.WithUserID(ctx, userID)

	stored, err := s.sessions.Get(ctx, userID)
	if err != nil {
		// A store failure is an internal error, never "unauthorized".
		s.log.Error(ctx, "failed to read session entry", err)
		return "", wrap.Error(ctx, types.ErrSessionRead)
	}

	if stored == "" || stored != token {
		s.log.Warn(ctx, "refresh token not contained in session store")
		return "", wrap.Error(ctx, types.ErrRevokedToken)
	}

	return userID, nil
}

// RevokeRefreshToken deletes the session entry for the user. Idempotent.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, userID string) error {
	ctx = wrap.WithAction(wrap.WithUserID(ctx, userID), types.ActionRevokeRefreshToken)

	if err := s.sessions.Del(ctx, userID); err != nil {
		s.log.Error(ctx, "failed to delete session entry", err)
		return wrap.Error(ctx, types.ErrSessionWrite)
	}

	return nil
}

func (s *TokenService) sign(userID, tokenType string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(ttl)

	claims := models.Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, types.ErrTokenSigning
	}

	return token, expiresAt, nil
}

func (s *TokenService) parse(token string, secret []byte) (*models.Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&models.Claims{},
		func(t *jwt.Token) (any, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		// Reject base64url encodings with non-zero trailing bits: without
		// strict decoding the final signature character is malleable.
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*models.Claims)
	if !ok || !parsed.Valid {
		return nil, types.ErrInvalidToken
	}

	return claims, nil
}
