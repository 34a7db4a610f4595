package models

import "time"

// Auth event types published to the broker.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
	EventUserLoggedOut  = "user.logged_out"
)

// AuthEventMessage is the payload published for auth lifecycle events.
type AuthEventMessage struct {
	EventType     string    `json:"event_type"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
