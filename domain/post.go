package domain

import (
	"context"
	"time"
)

// Post is representing the Post data struct
type Post struct {
	ID        int64     // Unique identifier for the post
	Content   string    // Post body content
	User      User      // Author information
	UpdatedAt time.Time // Last update timestamp
	CreatedAt time.Time // Creation timestamp
	Likes     int64     // Number of likes, used as the trending score
}

// PostRepository defines the contract for post data persistence.
// It is the content source the feed aggregation pulls from.
type PostRepository interface {
	// GetByID retrieves a single post by its ID.
	// Returns ErrNotFound if the post doesn't exist.
	GetByID(ctx context.Context, id int64) (Post, error)

	// GetByAuthor retrieves the author's most recent posts,
	// newest first, capped at limit.
	GetByAuthor(ctx context.Context, authorID int64, limit int64) ([]Post, error)

	// FetchRecent retrieves a page of the global post stream, newest first.
	FetchRecent(ctx context.Context, limit, offset int64) ([]Post, error)

	// FetchTrending retrieves posts created within the window ending now,
	// ordered by likes then recency. May return fewer than limit.
	FetchTrending(ctx context.Context, limit int64, window time.Duration) ([]Post, error)

	// Store creates a new post in the repository.
	Store(ctx context.Context, p *Post) error

	// Delete removes a post by its ID.
	// Returns ErrNotFound if not exists.
	Delete(ctx context.Context, id int64) error
}

// PostUsecase defines the business logic contract for post operations.
type PostUsecase interface {
	GetByID(ctx context.Context, id int64) (Post, error)
	Store(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id int64, userID int64) error
}
