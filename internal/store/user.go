package store

import (
	"context"

	"github.com/taskfolio/taskfolio-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
// Users are write-once: there is no update or delete flow.
type UserStore interface {
	// Create saves a new user to the store. The user's plaintext Password
	// is hashed before persisting and cleared from the returned entity;
	// the store assigns ID and CreatedAt.
	// Returns ErrEmailExists if the (case-normalized) email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by their case-normalized email address.
	// The returned user includes HashedPassword so callers can verify
	// credentials; it must never be serialized to a response.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by their unique ID. The returned user does
	// not include the password hash.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
