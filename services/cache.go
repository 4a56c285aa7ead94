package services

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"foodshare-api/models"
)

type cacheItem struct {
	posts     []models.Post
	expiresAt time.Time
}

// PostCache holds post listings keyed by filter. Any mutation purges the
// whole cache so the next read re-fetches from the store.
type PostCache struct {
	lruCache *lru.Cache[string, cacheItem]
	ttl      time.Duration
}

func NewPostCache(size int, ttl time.Duration) (*PostCache, error) {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create post cache: %w", err)
	}
	return &PostCache{lruCache: l, ttl: ttl}, nil
}

// Get returns a copy of the cached listing, or false if missing or expired
func (c *PostCache) Get(key string) ([]models.Post, bool) {
	if c == nil {
		return nil, false
	}
	item, ok := c.lruCache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		c.lruCache.Remove(key)
		return nil, false
	}
	posts := make([]models.Post, len(item.posts))
	copy(posts, item.posts)
	return posts, true
}

func (c *PostCache) Set(key string, posts []models.Post) {
	if c == nil || c.ttl <= 0 {
		return
	}
	stored := make([]models.Post, len(posts))
	copy(stored, posts)
	c.lruCache.Add(key, cacheItem{posts: stored, expiresAt: time.Now().Add(c.ttl)})
}

func (c *PostCache) Invalidate() {
	if c == nil {
		return
	}
	c.lruCache.Purge()
}

func (c *PostCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lruCache.Len()
}
