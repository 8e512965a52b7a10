// Package identity is the identity-directory collaborator of the
// lending engine: it answers authenticate/register and hands the HTTP
// layer a user id and role. The lending core never imports it.
package identity

import (
	"errors"
	"time"
)

// Roles recognized by the directory.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var (
	// ErrUnauthorized is returned when credentials do not match.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAlreadyExists is returned when registering an email that is taken.
	ErrAlreadyExists = errors.New("email already registered")
	// ErrNotFound is returned when a user is not in the directory.
	ErrNotFound = errors.New("user not found")
)

// User is a directory entry. Password holds a bcrypt hash, never the
// plaintext, and is excluded from JSON.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
