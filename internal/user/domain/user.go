package domain

import (
	"errors"
	"time"
)

// ErrEmailTaken is returned by the repository when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// User is the core user entity. PasswordHash is empty for accounts without a
// local password; such accounts cannot sign in with credentials.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	RoleID       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public projection of a user. It never carries the password hash.
type Profile struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// Profile returns the public projection of u.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.RoleID <= 0 {
		return errors.New("role is required")
	}
	return nil
}
