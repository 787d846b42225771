package domain

import (
	"context"
	"time"
)

// FeedItem is an immutable snapshot of a post at aggregation time.
// A stale item is never patched in place, it is only corrected by
// invalidating and rebuilding the whole feed.
type FeedItem struct {
	PostID         int64     `json:"post_id"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// UserFeed is the materialized reverse-chronological feed of one user.
// Items are sorted by CreatedAt descending at construction time.
// TotalItems is the full cached length, Items is the requested page.
type UserFeed struct {
	UserID      int64
	Items       []FeedItem
	LastUpdated time.Time
	TotalItems  int64
}

// TrendingFeed is the public trending view, independent of any user.
type TrendingFeed struct {
	Items      []FeedItem
	Timeframe  Timeframe
	TotalItems int64
}

// RecentFeed is the public recent-posts view, independent of the social graph.
type RecentFeed struct {
	Items      []FeedItem
	TotalItems int64
}

// Timeframe enumerates the trending lookback windows.
type Timeframe string

const (
	TimeframeHour  Timeframe = "1h"
	TimeframeDay   Timeframe = "24h"
	TimeframeWeek  Timeframe = "7d"
	TimeframeMonth Timeframe = "30d"
)

// ParseTimeframe validates a raw query value.
// Returns ErrBadParamInput for anything outside the enumeration.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeHour, TimeframeDay, TimeframeWeek, TimeframeMonth:
		return Timeframe(s), nil
	default:
		return "", ErrBadParamInput
	}
}

// Duration converts the timeframe into a lookback window.
func (t Timeframe) Duration() time.Duration {
	switch t {
	case TimeframeHour:
		return time.Hour
	case TimeframeWeek:
		return 7 * 24 * time.Hour
	case TimeframeMonth:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// FeedCache defines the contract for the derived per-user feed storage.
// The cache is disposable: every entry can be rebuilt from source systems.
type FeedCache interface {
	// SaveFeed fully replaces the user's cached feed. The item list and its
	// metadata are written in one atomic batch so a crash can never leave
	// one without the other. An empty items slice still writes metadata,
	// materializing a valid empty feed.
	SaveFeed(ctx context.Context, userID int64, items []FeedItem) error

	// GetFeed returns the requested page and the cached totals.
	// Returns ErrCacheMiss when no feed is materialized for the user;
	// an existing feed with zero items after offset is a valid empty
	// page, not a miss.
	GetFeed(ctx context.Context, userID int64, limit, offset int64) (UserFeed, error)

	// InvalidateFeed deletes the user's feed and its metadata together.
	InvalidateFeed(ctx context.Context, userID int64) error

	// InvalidateMany deletes all feeds for the given users in one
	// batched multi-key call, never N sequential deletes.
	InvalidateMany(ctx context.Context, userIDs []int64) error
}

// FeedUsecase is the single entry point for all feed reads and invalidations.
type FeedUsecase interface {
	// GetFeed serves the user's feed cache-first; on miss it rebuilds from
	// source systems. An absent or empty feed is not an error condition.
	GetFeed(ctx context.Context, userID, limit, offset int64) (UserFeed, error)

	// GetTimeline is presently GetFeed with a larger default page size.
	// Kept distinct because its semantics are permitted to diverge.
	GetTimeline(ctx context.Context, userID, limit, offset int64) (UserFeed, error)

	// GetTrending bypasses the per-user cache entirely.
	// Failures degrade to an empty result, never to a request error.
	GetTrending(ctx context.Context, limit int64, timeframe Timeframe) (TrendingFeed, error)

	// GetRecent serves the global recent stream, same degradation policy.
	GetRecent(ctx context.Context, limit, offset int64) (RecentFeed, error)

	// RefreshFeed unconditionally rebuilds and overwrites the cached feed.
	RefreshFeed(ctx context.Context, userID int64) error

	// InvalidateFeed deletes the cached feed without rebuilding;
	// the next read rebuilds lazily.
	InvalidateFeed(ctx context.Context, userID int64) error

	// InvalidateMany batch-deletes cached feeds for the given users.
	InvalidateMany(ctx context.Context, userIDs []int64) error

	// OnNewPost invalidates the cached feeds of all the author's followers.
	// Never fails: resolution errors are logged and swallowed so the
	// post-creation path is never blocked.
	OnNewPost(ctx context.Context, authorID int64)

	// OnFollowChange invalidates only this user's own feed: their following
	// set changed, so their feed content changed. Followers' feeds are
	// unaffected by this event.
	OnFollowChange(ctx context.Context, userID int64)
}
