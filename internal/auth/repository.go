package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// Repository contains all DB interactions needed by the auth service.
type Repository interface {
	InsertUser(ctx context.Context, username, email, passwordHash string, role Role) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
