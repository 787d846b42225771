package cache

import (
	"sync"
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

// profileEntry 支持逻辑过期的缓存条目
type profileEntry struct {
	user      domain.User
	ExpireAt  time.Time // 逻辑过期时间
	CreatedAt time.Time // 创建时间，用于调试
}

// isExpired 检查是否逻辑过期
func (e *profileEntry) isExpired() bool {
	return time.Now().After(e.ExpireAt)
}

// ProfileCache is an in-process time-bounded map of user profiles.
// Expiration is checked on read; an expired entry is evicted and reported
// as a miss, which sends the aggregator back to the identity repository.
type ProfileCache struct {
	mu      sync.RWMutex
	entries map[int64]profileEntry
	ttl     time.Duration
}

var _ domain.ProfileCache = (*ProfileCache)(nil)

func NewProfileCache(ttl time.Duration) *ProfileCache {
	return &ProfileCache{
		entries: make(map[int64]profileEntry),
		ttl:     ttl,
	}
}

func (c *ProfileCache) Get(userID int64) (domain.User, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok {
		return domain.User{}, false
	}
	if entry.isExpired() {
		c.mu.Lock()
		// recheck under write lock, a Set may have refreshed it
		if cur, ok := c.entries[userID]; ok && cur.isExpired() {
			delete(c.entries, userID)
		}
		c.mu.Unlock()
		return domain.User{}, false
	}

	return entry.user, true
}

func (c *ProfileCache) Set(u domain.User) {
	now := time.Now()
	c.mu.Lock()
	c.entries[u.ID] = profileEntry{
		user:      u,
		ExpireAt:  now.Add(c.ttl),
		CreatedAt: now,
	}
	c.mu.Unlock()
}

// Len reports the number of entries, expired ones included.
func (c *ProfileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
