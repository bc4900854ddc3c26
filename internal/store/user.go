package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmallek/cities-api/internal/domain"
)

// UserStore persists the accounts behind registration and login. The store
// owns password hashing: callers hand it a User carrying a plaintext
// Password, and only the hash ever reaches the database.
type UserStore interface {
	// Create saves a new user, hashing the plaintext password first.
	// Returns ErrEmailExists if the email is already taken, or the domain
	// validation error if the user data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address, as done on login.
	// Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user. The user must be complete,
	// including HashedPassword; if a plaintext Password is set it is
	// rehashed. Returns ErrUserNotFound if absent and ErrEmailExists when
	// changing to an email another account holds.
	Update(ctx context.Context, user *domain.User) error

	// Delete permanently removes a user by ID.
	// Returns ErrUserNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction, so a
	// service can group operations under one commit.
	WithTx(tx *sql.Tx) UserStore
}
