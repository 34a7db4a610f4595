package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore holds the single live refresh token per user:
// one key per user ID, value = current refresh token string, TTL = token lifetime.
// SET on an existing key overwrites it, which is the revocation mechanism for
// the previously issued token.
type SessionStore struct {
	client    *redis.Client
	opTimeout time.Duration
}

func NewSessionStore(client *redis.Client, opTimeout time.Duration) *SessionStore {
	return &SessionStore{
		client:    client,
		opTimeout: opTimeout,
	}
}

// Set stores userID -> token with the given expiry, replacing any previous value.
func (s *SessionStore) Set(ctx context.Context, userID, token string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, userID, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session entry: %w", err)
	}

	return nil
}

// Get returns the refresh token currently stored for the user,
// or "" with a nil error when no entry exists.
func (s *SessionStore) Get(ctx context.Context, userID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get session entry: %w", err)
	}

	return value, nil
}

// Del removes the session entry. Deleting a non-existent key is not an error.
func (s *SessionStore) Del(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, userID).Err(); err != nil {
		return fmt.Errorf("failed to delete session entry: %w", err)
	}

	return nil
}
