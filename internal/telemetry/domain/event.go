package domain

import "time"

// Event types emitted by the service.
const (
	EventSignUp      = "auth.signup"
	EventSignIn      = "auth.signin"
	EventSignOut     = "auth.signout"
	EventRefresh     = "auth.refresh"
	EventHTTPRequest = "http_request"
)

// Event is one telemetry event. UserID and SessionID are optional.
type Event struct {
	UserID    string         `json:"user_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	EventType string         `json:"event_type"`
	Source    string         `json:"source"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
