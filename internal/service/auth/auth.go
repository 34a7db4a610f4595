package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/internal/domain/types"
	"github.com/martinmohammed/auth-service/pkg/logger"
	wrap "github.com/martinmohammed/auth-service/pkg/logger/wrapper"
	"github.com/martinmohammed/auth-service/pkg/metrics"
	"github.com/martinmohammed/auth-service/pkg/passhash"
)

const serviceName = "auth"

// AuthService coordinates registration, login, refresh and logout across the
// credential store and the token service. It holds no per-user state; the
// session store's last-write-wins semantics are the only ordering mechanism
// for concurrent logins/refreshes of the same user.
type AuthService struct {
	userRepo     UserRepo
	tokenService TokenProvider
	events       EventPublisher
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, tokenService TokenProvider, events EventPublisher, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		events:       events,
		log:          log,
	}
}

// Register creates a new user and returns a freshly minted token pair.
// If minting fails after the user document was created, the user is NOT
// rolled back: an identity without a usable token pair can still log in later.
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, types.ActionRegister)

	email := NormalizeEmail(req.Email)
	ctx = wrap.WithEmail(ctx, email)

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrUserStore, err))
	}
	if existing != nil {
		return nil, wrap.Error(ctx, types.ErrEmailAlreadyRegistered)
	}

	// Hash before persisting; the store layer never sees the plaintext.
	hash, err := passhash.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "failed to hash password", err)
		return nil, wrap.Error(ctx, fmt.Errorf("failed to hash password: %w", err))
	}

	id, err := s.userRepo.CreateUser(ctx, &models.User{
		Email:    email,
		Password: hash,
	})
	if err != nil {
		if errors.Is(err, types.ErrEmailAlreadyRegistered) {
			return nil, wrap.Error(ctx, err)
		}
		s.log.Error(ctx, "failed to save user", err)
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrUserStore, err))
	}
	ctx = wrap.WithUserID(ctx, id)

	pair, err := s.tokenService.MintPair(ctx, id)
	if err != nil {
		// Accepted inconsistency: the identity exists without a token pair.
		s.log.Error(ctx, "user registered but token pair could not be issued", err)
		return nil, wrap.Error(ctx, err)
	}

	metrics.RegistrationsTotal.WithLabelValues(serviceName).Inc()
	s.publish(ctx, models.AuthEventMessage{
		EventType:  models.EventUserRegistered,
		UserID:     id,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	})

	return pair, nil
}

// Login validates credentials and mints a fresh pair, overwriting any
// previous refresh token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, types.ActionLogin)

	email = NormalizeEmail(email)
	ctx = wrap.WithEmail(ctx, email)

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrUserStore, err))
	}
	if user == nil {
		metrics.LoginsTotal.WithLabelValues(serviceName, "not_found").Inc()
		return nil, wrap.Error(ctx, types.ErrUserNotFound)
	}
	ctx = wrap.WithUserID(ctx, user.ID)

	ok, err := passhash.VerifyPassword(password, user.Password)
	if err != nil {
		s.log.Error(ctx, "failed to compare password hash", err)
		return nil, wrap.Error(ctx, fmt.Errorf("failed to compare password hash: %w", err))
	}
	if !ok {
		s.log.Warn(ctx, "user entered the wrong password")
		metrics.LoginsTotal.WithLabelValues(serviceName, "bad_credentials").Inc()
		return nil, wrap.Error(ctx, types.ErrInvalidCredentials)
	}

	pair, err := s.tokenService.MintPair(ctx, user.ID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.LoginsTotal.WithLabelValues(serviceName, "success").Inc()
	s.publish(ctx, models.AuthEventMessage{
		EventType:  models.EventUserLoggedIn,
		UserID:     user.ID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	})

	return pair, nil
}

// Refresh rotates the token pair. After a successful rotation the presented
// token no longer matches the session slot and fails verification if reused.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, types.ActionRefreshToken)

	if refreshToken == "" {
		return nil, wrap.Error(ctx, types.ErrMissingRefreshToken)
	}

	userID, err := s.tokenService.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues(serviceName, "rejected").Inc()
		return nil, wrap.Error(ctx, err)
	}
	ctx = wrap.WithUserID(ctx, userID)

	pair, err := s.tokenService.MintPair(ctx, userID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.TokenRefreshesTotal.WithLabelValues(serviceName, "success").Inc()

	return pair, nil
}

// Logout revokes the user's refresh token. The token must still be valid:
// verification precedes revocation, so a second logout with the same token
// fails as unauthorized.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	ctx = wrap.WithAction(ctx, types.ActionLogout)

	if refreshToken == "" {
		return wrap.Error(ctx, types.ErrMissingRefreshToken)
	}

	userID, err := s.tokenService.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	ctx = wrap.WithUserID(ctx, userID)

	if err := s.tokenService.RevokeRefreshToken(ctx, userID); err != nil {
		return wrap.Error(ctx, err)
	}

	metrics.LogoutsTotal.WithLabelValues(serviceName).Inc()
	s.publish(ctx, models.AuthEventMessage{
		EventType:  models.EventUserLoggedOut,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})

	s.log.Debug(ctx, "user was successfully logged out")

	return nil
}

// VerifyAccess is the stateless check used by the access guard.
func (s *AuthService) VerifyAccess(ctx context.Context, token string) (*models.Claims, error) {
	return s.tokenService.VerifyAccessToken(ctx, token)
}

func (s *AuthService) publish(ctx context.Context, msg models.AuthEventMessage) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishAuthEvent(ctx, msg); err != nil {
		s.log.Warn(ctx, "failed to publish auth event", "event_type", msg.EventType)
	}
}

// NormalizeEmail lowercases and trims an email so that uniqueness and lookups
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
