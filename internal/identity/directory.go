package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Directory is an in-memory credential store keyed by email. Unlike
// the lending stores it synchronizes itself, since nothing else
// serializes access to it.
type Directory struct {
	mu      sync.RWMutex
	users   []User
	byEmail map[string]int
}

// NewDirectory creates a directory seeded with the given users. Seed
// passwords must already be bcrypt hashes.
func NewDirectory(seed ...User) *Directory {
	d := &Directory{
		byEmail: make(map[string]int, len(seed)),
	}
	for _, u := range seed {
		d.byEmail[strings.ToLower(u.Email)] = len(d.users)
		d.users = append(d.users, u)
	}
	return d
}

// Authenticate checks the credentials and returns the matching user.
// It never distinguishes an unknown email from a wrong password.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.byEmail[strings.ToLower(email)]
	if !ok || !VerifyPassword(d.users[i].Password, password) {
		return User{}, ErrUnauthorized
	}
	return d.users[i], nil
}

// Register adds a new user with the USER role, hashing the password
// before it is stored.
func (d *Directory) Register(ctx context.Context, name, email, password string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := d.byEmail[key]; ok {
		return User{}, ErrAlreadyExists
	}
	u := User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	d.byEmail[key] = len(d.users)
	d.users = append(d.users, u)
	return u, nil
}

// Find returns the user with the given id.
func (d *Directory) Find(ctx context.Context, id string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}
