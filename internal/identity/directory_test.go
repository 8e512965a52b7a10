package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()

	u, err := d.Register(ctx, "Alice", "alice@example.com", "Str0ngPass")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEqual(t, "Str0ngPass", u.Password, "stored password is a hash, never the plaintext")

	got, err := d.Authenticate(ctx, "alice@example.com", "Str0ngPass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestDirectory_Authenticate_Failures(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()
	_, err := d.Register(ctx, "Alice", "alice@example.com", "Str0ngPass")
	require.NoError(t, err)

	_, err = d.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Unknown email is indistinguishable from a wrong password.
	_, err = d.Authenticate(ctx, "nobody@example.com", "Str0ngPass")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDirectory_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()

	_, err := d.Register(ctx, "Alice", "alice@example.com", "Str0ngPass")
	require.NoError(t, err)

	_, err = d.Register(ctx, "Impostor", "ALICE@example.com", "Other1Pass")
	assert.ErrorIs(t, err, ErrAlreadyExists, "email uniqueness is case-insensitive")
}

func TestDirectory_Find(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()
	u, err := d.Register(ctx, "Alice", "alice@example.com", "Str0ngPass")
	require.NoError(t, err)

	got, err := d.Find(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = d.Find(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Str0ngPass")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "Str0ngPass"))
	assert.False(t, VerifyPassword(hash, "str0ngpass"))
}
