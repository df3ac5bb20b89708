package domain

import "time"

// AuditLog is one recorded security event. UserID is empty when the actor is unknown
// (e.g. a failed sign-in for an unregistered email).
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
