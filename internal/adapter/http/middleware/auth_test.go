package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/martinmohammed/auth-service/internal/adapter/redisstore"
	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/internal/service/auth"
	"github.com/martinmohammed/auth-service/pkg/logger"
)

type tokenVerifier struct {
	tokens *auth.TokenService
}

func (v *tokenVerifier) VerifyAccess(ctx context.Context, token string) (*models.Claims, error) {
	return v.tokens.VerifyAccessToken(ctx, token)
}

func newGuardedHandler(t *testing.T, accessTTL time.Duration) (http.Handler, *auth.TokenService) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.InitLogger("auth-test", logger.LevelError)
	sessions := redisstore.NewSessionStore(client, time.Second)
	tokens := auth.NewTokenService(sessions, "access-secret", "refresh-secret", "auth-service", "auth-service", accessTTL, time.Hour, log)

	m := NewMiddleware(&tokenVerifier{tokens: tokens}, log)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := models.ClaimsFromContext(r.Context())
		if claims == nil {
			t.Error("expected claims in request context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(claims.Subject))
	})

	return m.RequireAuth(next), tokens
}

func TestRequireAuth_ValidToken(t *testing.T) {
	guard, tokens := newGuardedHandler(t, 2*time.Hour)

	token, _, err := tokens.MintAccessToken("user-1")
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "user-1" {
		t.Fatalf("expected subject in downstream handler, got %q", rec.Body.String())
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	guard, _ := newGuardedHandler(t, 2*time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Error.Status != http.StatusUnauthorized {
		t.Fatalf("expected status 401 in error body, got %d", body.Error.Status)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	guard, _ := newGuardedHandler(t, 2*time.Hour)

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc", "justatoken"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		guard.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	guard, tokens := newGuardedHandler(t, 2*time.Hour)

	token, _, err := tokens.MintAccessToken("user-1")
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	// Flip a character in the middle of the signature segment, where every
	// base64url bit is significant. The final character's trailing padding
	// bits are not, so a flip there may decode to the same raw signature.
	dot := strings.LastIndex(token, ".")
	sig := []byte(token[dot+1:])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	tampered := token[:dot+1] + string(sig)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tampered)
	rec := httptest.NewRecorder()

	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	guard, tokens := newGuardedHandler(t, -time.Minute)

	token, _, err := tokens.MintAccessToken("user-1")
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
