package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/martinmohammed/auth-service/internal/adapter/redisstore"
	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/internal/service/auth"
	"github.com/martinmohammed/auth-service/pkg/logger"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by email
	next  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*models.User)}
}

func (r *stubUserRepo) CreateUser(ctx context.Context, user *models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	id := "user-" + strconv.Itoa(r.next)

	stored := *user
	stored.ID = id
	r.users[user.Email] = &stored

	return id, nil
}

func (r *stubUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	return user, nil
}

type errorBodyEnvelope struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestMux(t *testing.T) *http.ServeMux {
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
	tokens := auth.NewTokenService(sessions, "access-secret", "refresh-secret", "auth-service", "auth-service", 2*time.Hour, 24*time.Hour, log)
	service := auth.NewAuthService(newStubUserRepo(), tokens, nil, log)

	h := NewAuth(service, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/refresh-token", h.Refresh)
	mux.HandleFunc("DELETE /auth/logout", h.Logout)

	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	return rec
}

func decodeTokenPair(t *testing.T, rec *httptest.ResponseRecorder) (access, refresh string) {
	t.Helper()

	var body struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid token pair body: %v", err)
	}
	if body.AccessToken == "" || body.RefreshToken == "" {
		t.Fatalf("expected both tokens in response, got %s", rec.Body.String())
	}
	return body.AccessToken, body.RefreshToken
}

func TestRegister_ReturnsTokenPair(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeTokenPair(t, rec)
}

func TestRegister_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first registration: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/auth/register", `{"email":"Alice@Example.COM","password":"other"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var body errorBodyEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Error.Status != http.StatusConflict || body.Error.Message == "" {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestRegister_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"missing email", `{"password":"secret"}`, http.StatusUnprocessableEntity},
		{"not an email", `{"email":"not-an-email","password":"secret"}`, http.StatusUnprocessableEntity},
		{"missing password", `{"email":"alice@example.com"}`, http.StatusUnprocessableEntity},
		{"unknown field", `{"email":"alice@example.com","password":"secret","extra":1}`, http.StatusBadRequest},
	}

	mux := newTestMux(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/auth/register", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestLogin_UnknownUserVersusWrongPassword(t *testing.T) {
	mux := newTestMux(t)

	doJSON(t, mux, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret"}`)

	rec := doJSON(t, mux, http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"secret"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", rec.Code)
	}
	var body errorBodyEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Error.Message != "user not registered" {
		t.Fatalf("unexpected message: %q", body.Error.Message)
	}

	rec = doJSON(t, mux, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Error.Message != "invalid username or password" {
		t.Fatalf("unexpected message: %q", body.Error.Message)
	}
}

func TestLogin_Success(t *testing.T) {
	mux := newTestMux(t)

	doJSON(t, mux, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret"}`)

	rec := doJSON(t, mux, http.MethodPost, "/auth/login", `{"email":"Alice@Example.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeTokenPair(t, rec)
}

func TestRefresh_MissingTokenIsBadRequest(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/refresh-token", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRefresh_RotationInvalidatesPreviousToken(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret"}`)
	_, firstRefresh := decodeTokenPair(t, rec)

	rec = doJSON(t, mux, http.MethodPost, "/auth/refresh-token", `{"refreshToken":"`+firstRefresh+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first refresh: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	_, secondRefresh := decodeTokenPair(t, rec)
	if secondRefresh == firstRefresh {
		t.Fatal("expected a new refresh token after rotation")
	}

	// The replaced token no longer verifies.
	rec = doJSON(t, mux, http.MethodPost, "/auth/refresh-token", `{"refreshToken":"`+firstRefresh+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("replayed refresh: expected 401, got %d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret"}`)
	_, refresh := decodeTokenPair(t, rec)

	rec = doJSON(t, mux, http.MethodDelete, "/auth/logout", `{"refreshToken":"`+refresh+`"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	// Logged-out token cannot be used again, for logout or refresh.
	rec = doJSON(t, mux, http.MethodDelete, "/auth/logout", `{"refreshToken":"`+refresh+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("second logout: expected 401, got %d", rec.Code)
	}
	rec = doJSON(t, mux, http.MethodPost, "/auth/refresh-token", `{"refreshToken":"`+refresh+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: expected 401, got %d", rec.Code)
	}
}

func TestLogout_NeverIssuedToken(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodDelete, "/auth/logout", `{"refreshToken":"not-a-real-token"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}
