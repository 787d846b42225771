package feed

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

const (
	// cacheTimeout bounds cache round trips; a slow cache degrades to a miss.
	cacheTimeout = 500 * time.Millisecond
)

// Service is the feed engine: the single entry point for feed reads and for
// the invalidation events fired by the write side.
type Service struct {
	feedCache  domain.FeedCache
	postRepo   domain.PostRepository
	userRepo   domain.UserRepository
	followRepo domain.FollowRepository
	bloomRepo  domain.BloomRepository
	fanout     domain.FanoutWorker
	agg        *aggregator

	rebuildGroup singleflight.Group
}

var _ domain.FeedUsecase = (*Service)(nil)

// NewService will create a new feed service object
func NewService(fc domain.FeedCache, p domain.PostRepository, u domain.UserRepository,
	f domain.FollowRepository, profiles domain.ProfileCache,
	bloom domain.BloomRepository, fanout domain.FanoutWorker) *Service {
	return &Service{
		feedCache:  fc,
		postRepo:   p,
		userRepo:   u,
		followRepo: f,
		bloomRepo:  bloom,
		fanout:     fanout,
		agg:        newAggregator(p, u, f, profiles),
	}
}

// GetFeed serves the user's feed cache-first. A miss (or any cache read
// failure) triggers a full rebuild from source systems; the rebuilt result
// is persisted best-effort and served either way. An empty aggregation is a
// valid empty feed, not an error.
func (s *Service) GetFeed(ctx context.Context, userID, limit, offset int64) (domain.UserFeed, error) {
	if userID <= 0 || limit < 1 || limit > MaxFeedSize || offset < 0 {
		return domain.UserFeed{}, domain.ErrBadParamInput
	}

	// 布隆过滤器拦截从未注册过的用户ID, 避免缓存穿透
	exists, err := s.bloomRepo.Exists(ctx, userID)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says user %d does not exist", userID)
		return domain.UserFeed{}, domain.ErrNotFound
	}

	cctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	feed, err := s.feedCache.GetFeed(cctx, userID, limit, offset)
	cancel()
	if err == nil {
		return feed, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		// 读缓存失败按未命中处理
		logrus.Warnf("cache get error for user %d, treating as miss: %v", userID, err)
	}

	items, err := s.rebuild(ctx, userID)
	if err != nil {
		logrus.Errorf("failed to rebuild feed for user %d: %v", userID, err)
		return emptyFeed(userID), nil
	}

	return pageOf(userID, items, limit, offset), nil
}

// GetTimeline is presently GetFeed with a larger default page size applied
// by the handler layer. It stays a distinct operation so its semantics can
// diverge without touching GetFeed's contract.
func (s *Service) GetTimeline(ctx context.Context, userID, limit, offset int64) (domain.UserFeed, error) {
	return s.GetFeed(ctx, userID, limit, offset)
}

// RefreshFeed unconditionally rebuilds and overwrites the cached feed.
// Aggregation failures are logged and swallowed: the stale entry stays until
// TTL or the next successful rebuild, which beats poisoning the cache.
func (s *Service) RefreshFeed(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return domain.ErrBadParamInput
	}
	if _, err := s.rebuild(ctx, userID); err != nil {
		logrus.Errorf("refresh failed for user %d: %v", userID, err)
	}
	return nil
}

// InvalidateFeed deletes the cached feed without rebuilding.
func (s *Service) InvalidateFeed(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return domain.ErrBadParamInput
	}
	return s.feedCache.InvalidateFeed(ctx, userID)
}

// InvalidateMany batch-deletes cached feeds in one multi-key call.
func (s *Service) InvalidateMany(ctx context.Context, userIDs []int64) error {
	valid := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		if id <= 0 {
			logrus.Warnf("dropping malformed user id %d from batch invalidation", id)
			continue
		}
		valid = append(valid, id)
	}
	if len(valid) == 0 {
		return nil
	}
	return s.feedCache.InvalidateMany(ctx, valid)
}

// GetTrending serves the public trending view. It bypasses the per-user
// cache; an empty trending response falls back to the global recent stream,
// and any failure degrades to an empty result rather than a request error.
func (s *Service) GetTrending(ctx context.Context, limit int64, timeframe domain.Timeframe) (domain.TrendingFeed, error) {
	if limit < 1 || limit > MaxFeedSize {
		return domain.TrendingFeed{}, domain.ErrBadParamInput
	}
	if _, err := domain.ParseTimeframe(string(timeframe)); err != nil {
		return domain.TrendingFeed{}, domain.ErrBadParamInput
	}

	posts, err := s.postRepo.FetchTrending(ctx, limit, timeframe.Duration())
	if err != nil {
		logrus.Warnf("trending fetch failed, falling back to recent: %v", err)
		posts = nil
	}
	if len(posts) == 0 {
		posts, err = s.postRepo.FetchRecent(ctx, limit, 0)
		if err != nil {
			logrus.Warnf("recent fallback failed, serving empty trending: %v", err)
			posts = nil
		}
	}

	items := s.agg.ResolveAuthors(ctx, posts)
	return domain.TrendingFeed{
		Items:      items,
		Timeframe:  timeframe,
		TotalItems: int64(len(items)),
	}, nil
}

// GetRecent serves the global recent stream, independent of the social graph.
func (s *Service) GetRecent(ctx context.Context, limit, offset int64) (domain.RecentFeed, error) {
	if limit < 1 || limit > MaxFeedSize || offset < 0 {
		return domain.RecentFeed{}, domain.ErrBadParamInput
	}

	posts, err := s.postRepo.FetchRecent(ctx, limit, offset)
	if err != nil {
		logrus.Warnf("recent fetch failed, serving empty result: %v", err)
		posts = nil
	}

	items := s.agg.ResolveAuthors(ctx, posts)
	return domain.RecentFeed{
		Items:      items,
		TotalItems: int64(len(items)),
	}, nil
}

// OnNewPost fans the invalidation out to every follower of the author via
// the batching worker. It never returns an error: a failure here must not
// block the post-creation path that triggered it.
func (s *Service) OnNewPost(ctx context.Context, authorID int64) {
	if authorID <= 0 {
		logrus.Warnf("ignoring new-post event with malformed author id %d", authorID)
		return
	}
	followers, err := s.followRepo.GetFollowers(ctx, authorID)
	if err != nil {
		logrus.Errorf("failed to resolve followers of %d, their feeds will expire by TTL: %v", authorID, err)
		return
	}
	for _, f := range followers {
		s.fanout.Send(f)
	}
}

// OnFollowChange invalidates only the user's own feed: their following set
// changed, so their feed content changed. Followers' feeds are unaffected.
func (s *Service) OnFollowChange(ctx context.Context, userID int64) {
	if userID <= 0 {
		return
	}
	if err := s.feedCache.InvalidateFeed(ctx, userID); err != nil {
		logrus.Errorf("failed to invalidate feed for user %d: %v", userID, err)
	}
}

// rebuild aggregates and persists one user's feed, deduplicating concurrent
// rebuilds of the same user. Duplicate rebuilds would still be safe (full
// replace, last writer wins), singleflight just avoids the wasted fan-out.
func (s *Service) rebuild(ctx context.Context, userID int64) ([]domain.FeedItem, error) {
	v, err, _ := s.rebuildGroup.Do(strconv.FormatInt(userID, 10), func() (any, error) {
		items, err := s.agg.BuildFeed(ctx, userID)
		if err != nil {
			return nil, err
		}

		cctx, cancel := context.WithTimeout(ctx, cacheTimeout)
		defer cancel()
		if err := s.feedCache.SaveFeed(cctx, userID, items); err != nil {
			// best-effort caching: still serve the in-memory result
			logrus.Warnf("failed to persist feed for user %d: %v", userID, err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.FeedItem), nil
}

func emptyFeed(userID int64) domain.UserFeed {
	return domain.UserFeed{
		UserID:      userID,
		Items:       []domain.FeedItem{},
		LastUpdated: time.Now(),
		TotalItems:  0,
	}
}

func pageOf(userID int64, items []domain.FeedItem, limit, offset int64) domain.UserFeed {
	total := int64(len(items))
	page := []domain.FeedItem{}
	if offset < total {
		end := min(offset+limit, total)
		page = items[offset:end]
	}
	return domain.UserFeed{
		UserID:      userID,
		Items:       page,
		LastUpdated: time.Now(),
		TotalItems:  total,
	}
}
