package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	KeyFeedItems = "feed:user:%d:items"
	KeyFeedMeta  = "feed:user:%d:meta"

	MetaFieldLastUpdated = "last_updated"
	MetaFieldTotalItems  = "total_items"

	DefaultFeedTTL = time.Hour
)

// feedCache stores one materialized feed per user as a pair of keys:
// a LIST of JSON items (index 0 = newest) and a HASH of metadata.
// Both keys always share one logical expiration.
type feedCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ domain.FeedCache = (*feedCache)(nil)

func NewFeedCache(client *redis.Client, ttl time.Duration) *feedCache {
	if ttl <= 0 {
		ttl = DefaultFeedTTL
	}
	return &feedCache{
		client: client,
		ttl:    ttl,
	}
}

// SaveFeed 全量替换：删旧列表、写新列表、写元数据、设置过期，单个事务完成
func (c *feedCache) SaveFeed(ctx context.Context, userID int64, items []domain.FeedItem) error {
	itemsKey := fmt.Sprintf(KeyFeedItems, userID)
	metaKey := fmt.Sprintf(KeyFeedMeta, userID)

	vals := make([]any, 0, len(items))
	for i := range items {
		data, err := json.Marshal(items[i])
		if err != nil {
			logrus.Warnf("failed to marshal feed item for cache, post ID: %d, err: %v", items[i].PostID, err)
			continue
		}
		vals = append(vals, data)
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, itemsKey, metaKey)
	if len(vals) > 0 {
		// RPush preserves slice order, so index 0 stays the newest item
		pipe.RPush(ctx, itemsKey, vals...)
		pipe.Expire(ctx, itemsKey, c.ttl)
	}
	pipe.HSet(ctx, metaKey,
		MetaFieldLastUpdated, time.Now().Format(time.RFC3339Nano),
		MetaFieldTotalItems, len(vals),
	)
	pipe.Expire(ctx, metaKey, c.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

func (c *feedCache) GetFeed(ctx context.Context, userID int64, limit, offset int64) (domain.UserFeed, error) {
	itemsKey := fmt.Sprintf(KeyFeedItems, userID)
	metaKey := fmt.Sprintf(KeyFeedMeta, userID)

	pipe := c.client.Pipeline()
	metaCmd := pipe.HGetAll(ctx, metaKey)
	listCmd := pipe.LRange(ctx, itemsKey, offset, offset+limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.UserFeed{}, err
	}

	meta := metaCmd.Val()
	if len(meta) == 0 {
		// 元数据不存在即为未命中; 空列表但有元数据是合法的空页
		return domain.UserFeed{}, domain.ErrCacheMiss
	}

	total, err := strconv.ParseInt(meta[MetaFieldTotalItems], 10, 64)
	if err != nil {
		logrus.Warnf("corrupt feed meta for user %d: %v", userID, err)
		return domain.UserFeed{}, domain.ErrCacheMiss
	}
	lastUpdated, err := time.Parse(time.RFC3339Nano, meta[MetaFieldLastUpdated])
	if err != nil {
		lastUpdated = time.Time{}
	}

	raw := listCmd.Val()
	items := make([]domain.FeedItem, 0, len(raw))
	for _, data := range raw {
		var item domain.FeedItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			logrus.Warnf("corrupt feed item for user %d: %v", userID, err)
			continue
		}
		items = append(items, item)
	}

	return domain.UserFeed{
		UserID:      userID,
		Items:       items,
		LastUpdated: lastUpdated,
		TotalItems:  total,
	}, nil
}

func (c *feedCache) InvalidateFeed(ctx context.Context, userID int64) error {
	return c.client.Del(ctx,
		fmt.Sprintf(KeyFeedItems, userID),
		fmt.Sprintf(KeyFeedMeta, userID),
	).Err()
}

// InvalidateMany deletes all list+meta pairs in one multi-key DEL so that a
// large fan-out never degrades into N round trips.
func (c *feedCache) InvalidateMany(ctx context.Context, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, 2*len(userIDs))
	for _, uid := range userIDs {
		keys = append(keys,
			fmt.Sprintf(KeyFeedItems, uid),
			fmt.Sprintf(KeyFeedMeta, uid),
		)
	}
	return c.client.Del(ctx, keys...).Err()
}
