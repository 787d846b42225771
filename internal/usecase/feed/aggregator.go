package feed

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

const (
	// FanoutBatchSize bounds how many followees are fetched concurrently.
	// Kept small so one rebuild cannot overwhelm the content store.
	FanoutBatchSize = 3

	// PostsPerFollowee caps how many recent posts each followee contributes
	// before the merge.
	PostsPerFollowee = 10

	// MaxFeedSize is the materialized feed length; truncation drops the oldest.
	MaxFeedSize = 100

	defaultFetchTimeout = 5 * time.Second
)

// result is the outcome of one upstream sub-fetch. Recording it per call
// keeps the drop-or-continue policy an explicit branch instead of an
// implicit error swallow.
type result[T any] struct {
	value T
	err   error
}

// followeeData pairs the two independent sub-fetches for one followee.
// A followee contributes items only when both resolve; posts without a
// resolvable author are dropped, never emitted as partial records.
type followeeData struct {
	followeeID int64
	posts      result[[]domain.Post]
	profile    result[domain.User]
}

// aggregator builds a fresh feed from the source systems.
type aggregator struct {
	postRepo     domain.PostRepository
	userRepo     domain.UserRepository
	followRepo   domain.FollowRepository
	profiles     domain.ProfileCache
	fetchTimeout time.Duration
}

func newAggregator(postRepo domain.PostRepository, userRepo domain.UserRepository,
	followRepo domain.FollowRepository, profiles domain.ProfileCache) *aggregator {
	return &aggregator{
		postRepo:     postRepo,
		userRepo:     userRepo,
		followRepo:   followRepo,
		profiles:     profiles,
		fetchTimeout: defaultFetchTimeout,
	}
}

// BuildFeed aggregates the user's followees into a merged, sorted, truncated
// item list. The only error it can return is a failure to list the following
// set; every per-followee failure degrades to that followee contributing
// nothing.
func (a *aggregator) BuildFeed(ctx context.Context, userID int64) ([]domain.FeedItem, error) {
	following, err := a.followRepo.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	followeeIDs := make([]int64, 0, len(following))
	for _, id := range following {
		if id <= 0 {
			logrus.Warnf("dropping malformed followee id %d for user %d", id, userID)
			continue
		}
		followeeIDs = append(followeeIDs, id)
	}
	if len(followeeIDs) == 0 {
		return []domain.FeedItem{}, nil
	}

	items := make([]domain.FeedItem, 0, len(followeeIDs)*PostsPerFollowee)
	// 外层按批串行, 批内并发, 限制对上游的瞬时压力
	for start := 0; start < len(followeeIDs); start += FanoutBatchSize {
		end := min(start+FanoutBatchSize, len(followeeIDs))
		batch := a.collectBatch(ctx, followeeIDs[start:end])
		items = append(items, a.mergeBatch(batch)...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > MaxFeedSize {
		items = items[:MaxFeedSize]
	}

	return items, nil
}

// collectBatch runs the posts and profile fetches for every followee in the
// batch concurrently. Tasks record their own success or failure and never
// return an error, so one slow or failing call cannot cancel its siblings.
func (a *aggregator) collectBatch(ctx context.Context, batch []int64) []followeeData {
	data := make([]followeeData, len(batch))
	g, gctx := errgroup.WithContext(ctx)

	for i, id := range batch {
		i, id := i, id
		data[i].followeeID = id

		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, a.fetchTimeout)
			defer cancel()
			posts, err := a.postRepo.GetByAuthor(cctx, id, PostsPerFollowee)
			data[i].posts = result[[]domain.Post]{value: posts, err: err}
			return nil
		})

		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, a.fetchTimeout)
			defer cancel()
			user, err := a.resolveProfile(cctx, id)
			data[i].profile = result[domain.User]{value: user, err: err}
			return nil
		})
	}

	_ = g.Wait()
	return data
}

// mergeBatch converts the resolved posts into feed items, applying the drop
// policy for failed sub-fetches and incomplete records.
func (a *aggregator) mergeBatch(batch []followeeData) []domain.FeedItem {
	items := make([]domain.FeedItem, 0)
	for _, fd := range batch {
		if fd.posts.err != nil {
			logrus.Warnf("skipping followee %d, posts fetch failed: %v", fd.followeeID, fd.posts.err)
			continue
		}
		if fd.profile.err != nil {
			logrus.Warnf("skipping followee %d, profile fetch failed: %v", fd.followeeID, fd.profile.err)
			continue
		}

		for _, p := range fd.posts.value {
			item, ok := newFeedItem(p, fd.profile.value)
			if !ok {
				logrus.Warnf("dropping incomplete post %d from followee %d", p.ID, fd.followeeID)
				continue
			}
			items = append(items, item)
		}
	}
	return items
}

// resolveProfile consults the TTL profile cache before the identity store.
func (a *aggregator) resolveProfile(ctx context.Context, userID int64) (domain.User, error) {
	if u, ok := a.profiles.Get(userID); ok {
		return u, nil
	}
	u, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	a.profiles.Set(u)
	return u, nil
}

// ResolveAuthors turns a single upstream batch (trending or recent) into
// feed items with the same resolve-author-then-emit policy as the fan-out
// path, sorted newest first. Posts whose author cannot be resolved are
// dropped.
func (a *aggregator) ResolveAuthors(ctx context.Context, posts []domain.Post) []domain.FeedItem {
	if len(posts) == 0 {
		return []domain.FeedItem{}
	}

	missing := make([]int64, 0, len(posts))
	seen := make(map[int64]bool)
	users := make(map[int64]domain.User)
	for _, p := range posts {
		uid := p.User.ID
		if seen[uid] {
			continue
		}
		seen[uid] = true
		if u, ok := a.profiles.Get(uid); ok {
			users[uid] = u
			continue
		}
		missing = append(missing, uid)
	}

	if len(missing) > 0 {
		cctx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
		defer cancel()
		fetched, err := a.userRepo.GetByIDs(cctx, missing)
		if err != nil {
			logrus.Warnf("failed to resolve %d authors, their posts will be dropped: %v", len(missing), err)
		}
		for _, u := range fetched {
			users[u.ID] = u
			a.profiles.Set(u)
		}
	}

	items := make([]domain.FeedItem, 0, len(posts))
	for _, p := range posts {
		u, ok := users[p.User.ID]
		if !ok {
			logrus.Warnf("dropping post %d, author %d not resolvable", p.ID, p.User.ID)
			continue
		}
		item, ok := newFeedItem(p, u)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

// newFeedItem snapshots a post; ok is false when a required field is missing.
func newFeedItem(p domain.Post, author domain.User) (domain.FeedItem, bool) {
	if p.ID <= 0 || author.ID <= 0 || p.Content == "" {
		return domain.FeedItem{}, false
	}
	return domain.FeedItem{
		PostID:         p.ID,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Content:        p.Content,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}, true
}
