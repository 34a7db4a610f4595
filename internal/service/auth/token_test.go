package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinmohammed/auth-service/internal/adapter/redisstore"
	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/internal/domain/types"
	"github.com/martinmohammed/auth-service/pkg/logger"
)

const (
	testIssuer   = "auth-service"
	testAudience = "auth-service"
)

const testRefreshTTL = 8766 * time.Hour

func newTestTokenService(t *testing.T) (*TokenService, *miniredis.Miniredis) {
	return newTestTokenServiceTTL(t, 2*time.Hour, testRefreshTTL)
}

func newTestTokenServiceTTL(t *testing.T, accessTTL, refreshTTL time.Duration) (*TokenService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := redisstore.NewSessionStore(client, time.Second)
	log := logger.InitLogger("auth-test", logger.LevelError)

	return NewTokenService(sessions, "access-secret", "refresh-secret", testIssuer, testAudience, accessTTL, refreshTTL, log), mr
}

// tamperSignature flips a character in the middle of the signature segment,
// where every base64url bit is significant. (The final character is a bad
// choice: its two trailing bits are padding, so flips there can decode to the
// same raw signature.)
func tamperSignature(t *testing.T, token string) string {
	t.Helper()

	dot := strings.LastIndex(token, ".")
	require.Greater(t, dot, 0)

	sig := []byte(token[dot+1:])
	require.NotEmpty(t, sig)

	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}

	return token[:dot+1] + string(sig)
}

func TestMintPair_RefreshTokenRoundTrip(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	pair, err := svc.MintPair(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// the freshly minted refresh token must verify against the store
	userID, err := svc.VerifyRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyAccessToken_Claims(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	token, expiresAt, err := svc.MintAccessToken("user-1")
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, models.AccessTokenType, claims.TokenType)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	svc, _ := newTestTokenServiceTTL(t, -time.Minute, testRefreshTTL)
	ctx := context.Background()

	token, _, err := svc.MintAccessToken("user-1")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(ctx, token)
	assert.ErrorIs(t, err, types.ErrExpiredToken)
}

func TestVerifyAccessToken_TamperedSignature(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	token, _, err := svc.MintAccessToken("user-1")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(ctx, tamperSignature(t, token))
	assert.ErrorIs(t, err, types.ErrInvalidToken)
}

func TestVerifyAccessToken_NonCanonicalSignatureEncoding(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	token, _, err := svc.MintAccessToken("user-1")
	require.NoError(t, err)

	// A validly encoded signature always ends with two zero padding bits, so
	// 'B' (000001) can never be its final character. Without strict decoding
	// such a rewrite decodes to the same raw signature and would verify.
	require.NotEqual(t, byte('B'), token[len(token)-1])
	tampered := token[:len(token)-1] + "B"

	_, err = svc.VerifyAccessToken(ctx, tampered)
	assert.ErrorIs(t, err, types.ErrInvalidToken)
}

func TestVerifyAccessToken_Malformed(t *testing.T) {
	svc, _ := newTestTokenService(t)

	_, err := svc.VerifyAccessToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, types.ErrInvalidToken)
}

func TestVerifyAccessToken_RejectsRefreshToken(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	refresh, _, err := svc.MintRefreshToken(ctx, "user-1")
	require.NoError(t, err)

	// different signing key, so the refresh token must not pass the access check
	_, err = svc.VerifyAccessToken(ctx, refresh)
	assert.ErrorIs(t, err, types.ErrInvalidToken)
}

func TestVerifyRefreshToken_RotationRevokesPrevious(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	first, _, err := svc.MintRefreshToken(ctx, "user-1")
	require.NoError(t, err)

	second, _, err := svc.MintRefreshToken(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(ctx, first)
	assert.ErrorIs(t, err, types.ErrRevokedToken)

	userID, err := svc.VerifyRefreshToken(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyRefreshToken_NeverIssued(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	// signed correctly but never written to the store (store was flushed)
	token, _, err := svc.MintRefreshToken(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeRefreshToken(ctx, "user-1"))

	_, err = svc.VerifyRefreshToken(ctx, token)
	assert.ErrorIs(t, err, types.ErrRevokedToken)
}

func TestVerifyRefreshToken_StoreUnavailable(t *testing.T) {
	svc, mr := newTestTokenService(t)
	ctx := context.Background()

	token, _, err := svc.MintRefreshToken(ctx, "user-1")
	require.NoError(t, err)

	mr.Close()

	// infrastructure failure must not masquerade as unauthorized
	_, err = svc.VerifyRefreshToken(ctx, token)
	assert.ErrorIs(t, err, types.ErrSessionRead)
}

func TestMintRefreshToken_StoreWriteFailure(t *testing.T) {
	svc, mr := newTestTokenService(t)
	mr.Close()

	token, _, err := svc.MintRefreshToken(context.Background(), "user-1")
	assert.ErrorIs(t, err, types.ErrSessionWrite)
	assert.Empty(t, token, "a token with a failed store write must not be returned")
}

func TestRevokeRefreshToken_Idempotent(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	require.NoError(t, svc.RevokeRefreshToken(ctx, "user-without-session"))
	require.NoError(t, svc.RevokeRefreshToken(ctx, "user-without-session"))
}

func TestSessionEntry_TTLMatchesRefreshLifetime(t *testing.T) {
	svc, mr := newTestTokenService(t)
	ctx := context.Background()

	_, _, err := svc.MintRefreshToken(ctx, "user-1")
	require.NoError(t, err)

	ttl := mr.TTL("user-1")
	assert.InDelta(t, testRefreshTTL.Seconds(), ttl.Seconds(), 5)
}

func TestTokenFormat_ThreeSegments(t *testing.T) {
	svc, _ := newTestTokenService(t)

	token, _, err := svc.MintAccessToken("user-1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}
