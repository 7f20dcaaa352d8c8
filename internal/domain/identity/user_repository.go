package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create stores a new user. A taken username fails with ALREADY_EXISTS.
	Create(ctx context.Context, user *User) error

	// FindByUsername returns the user with the given username, or ErrNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByPublicID returns the user carrying publicID, or ErrNotFound
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*User, error)

	// ExistsByUsername checks if a username is already taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
