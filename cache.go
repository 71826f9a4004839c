package pagesblog

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/pagesblog/loader"
	"github.com/eringen/pagesblog/post"
	"github.com/eringen/pagesblog/search"
)

// Snapshot is one consistent view of the post index.
type Snapshot struct {
	Posts  []post.Post
	Tags   []string
	Engine *search.Engine
}

// PostCache is an in-memory cache of the post index with TTL. Every reload
// rebuilds the tag cloud and the search engine.
type PostCache struct {
	mu      sync.RWMutex
	snap    *Snapshot
	fetched time.Time
	ttl     time.Duration
	loader  ContentLoader
}

// NewPostCache creates a PostCache backed by the given loader.
func NewPostCache(l ContentLoader, ttl time.Duration) *PostCache {
	return &PostCache{loader: l, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.snap != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.loader.LoadIndex(ctx)
	if err != nil {
		return err
	}
	c.snap = &Snapshot{
		Posts:  posts,
		Tags:   search.Tags(posts),
		Engine: search.NewEngine(posts),
	}
	c.fetched = time.Now()
	return nil
}

// Snapshot returns the cached index after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	if c.valid() {
		snap := c.snap
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.snap, nil
}

// ListPosts returns the cached posts.
func (c *PostCache) ListPosts(ctx context.Context) ([]post.Post, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Posts, nil
}

// GetArticle loads file's document while the index comes from the cache.
func (c *PostCache) GetArticle(ctx context.Context, file string) (post.Article, error) {
	return loader.LoadArticle(ctx, file, c.ListPosts, c.loader.LoadDocument)
}
