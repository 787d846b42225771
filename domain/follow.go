package domain

import (
	"context"
	"time"
)

// Follow is representing one directed edge of the social graph:
// the follower receives the followee's posts in their feed.
type Follow struct {
	FollowerID int64
	FolloweeID int64
	CreatedAt  time.Time
}

// FollowRepository defines the contract for social graph persistence.
type FollowRepository interface {
	// Store creates a follow edge.
	// Returns ErrConflict if the edge already exists.
	Store(ctx context.Context, f *Follow) error

	// Delete removes a follow edge.
	// Returns ErrNotFound if the edge doesn't exist.
	Delete(ctx context.Context, followerID, followeeID int64) error

	// GetFollowing lists the IDs of users that userID follows.
	GetFollowing(ctx context.Context, userID int64) ([]int64, error)

	// GetFollowers lists the IDs of users following userID.
	GetFollowers(ctx context.Context, userID int64) ([]int64, error)
}

// FollowUsecase defines the business logic contract for follow operations.
type FollowUsecase interface {
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	Following(ctx context.Context, userID int64) ([]int64, error)
	Followers(ctx context.Context, userID int64) ([]int64, error)
}
