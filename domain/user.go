package domain

import (
	"context"
	"time"
)

// User represents a user entity in the system.
// A user can register, login, publish posts and follow other users.
type User struct {
	ID        int64     // Unique identifier
	Name      string    // Display name
	Username  string    // Login username (unique)
	Email     string    // Contact email, optional
	Password  string    // Bcrypt hashed password
	CreatedAt time.Time // Account creation timestamp
	UpdatedAt time.Time // Last profile update timestamp
}

// UserRepository defines the contract for user data persistence.
// It is the identity source the feed aggregation resolves authors against.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByIDs retrieves users by given IDs. Missing IDs are simply
	// absent from the result, not an error.
	GetByIDs(ctx context.Context, userIDs []int64) ([]User, error)

	// GetByUsername retrieves a user by their username.
	// Used during login to verify credentials.
	GetByUsername(ctx context.Context, username string) (User, error)

	// Insert creates a new user account.
	// Backfills the ID in the provided User object upon success.
	Insert(ctx context.Context, u *User) error

	// Update modifies an existing user's information.
	Update(ctx context.Context, u *User) error

	// FetchIDs lists user IDs after the cursor, used to seed the bloom filter.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
}

// ProfileCache is a time-bounded in-process cache of user profiles.
// The aggregator consults it before hitting UserRepository so that a hot
// author is resolved once per TTL window, not once per follower rebuild.
type ProfileCache interface {
	Get(userID int64) (User, bool)
	Set(u User)
}

// UserUsecase defines the business logic contract for user operations.
type UserUsecase interface {
	// Register creates a new user account.
	// Returns ErrConflict if the username already exists.
	Register(ctx context.Context, name, username, email, password string) error

	// Login verifies user credentials and returns a JWT token.
	// Returns ErrNotFound if the user doesn't exist.
	// Returns ErrBadParamInput if the password is incorrect.
	Login(ctx context.Context, username, password string) (string, error)

	// GetByID retrieves a user's public profile.
	GetByID(ctx context.Context, id int64) (User, error)
}
