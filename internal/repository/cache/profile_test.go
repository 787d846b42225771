package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

func TestProfileCacheHit(t *testing.T) {
	c := NewProfileCache(time.Minute)
	c.Set(domain.User{ID: 1, Username: "alice"})

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)
}

func TestProfileCacheMiss(t *testing.T) {
	c := NewProfileCache(time.Minute)

	_, ok := c.Get(42)
	assert.False(t, ok)
}

func TestProfileCacheExpiryEvictsOnRead(t *testing.T) {
	c := NewProfileCache(30 * time.Millisecond)
	c.Set(domain.User{ID: 1, Username: "alice"})

	time.Sleep(50 * time.Millisecond)

	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Zero(t, c.Len(), "expired entry should be evicted by the read")
}

func TestProfileCacheSetRefreshesExpiry(t *testing.T) {
	c := NewProfileCache(40 * time.Millisecond)
	c.Set(domain.User{ID: 1, Username: "alice"})

	time.Sleep(25 * time.Millisecond)
	c.Set(domain.User{ID: 1, Username: "alice"})
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get(1)
	assert.True(t, ok, "refreshed entry should still be live")
}
