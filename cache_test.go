package pagesblog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eringen/pagesblog/loader"
	"github.com/eringen/pagesblog/post"
)

type countingLoader struct {
	mu    sync.Mutex
	calls int
	posts []post.Post
	err   error
	docs  map[string]string
}

func (l *countingLoader) LoadIndex(context.Context) ([]post.Post, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.posts, l.err
}

func (l *countingLoader) LoadDocument(_ context.Context, file string) (string, error) {
	doc, ok := l.docs[file]
	if !ok {
		return "", &loader.LoadError{Resource: file, Status: 404}
	}
	return doc, nil
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func cachePosts() []post.Post {
	return []post.Post{
		{File: "a.md", Title: "Alpha", Date: "2024-01-02", Tags: []string{"go", "web"}},
		{File: "b.md", Title: "Beta", Date: "2024-02-03", Tags: []string{"go"}},
	}
}

func TestPostCacheReusesSnapshot(t *testing.T) {
	l := &countingLoader{posts: cachePosts()}
	c := NewPostCache(l, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Snapshot(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if got := l.count(); got != 1 {
		t.Fatalf("LoadIndex calls = %d, want 1", got)
	}

	c.Invalidate()
	if _, err := c.ListPosts(ctx); err != nil {
		t.Fatal(err)
	}
	if got := l.count(); got != 2 {
		t.Fatalf("LoadIndex calls after Invalidate = %d, want 2", got)
	}
}

func TestPostCacheExpires(t *testing.T) {
	l := &countingLoader{posts: cachePosts()}
	c := NewPostCache(l, time.Millisecond)
	ctx := context.Background()

	if _, err := c.Snapshot(ctx); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := c.Snapshot(ctx); err != nil {
		t.Fatal(err)
	}
	if got := l.count(); got != 2 {
		t.Fatalf("LoadIndex calls = %d, want 2", got)
	}
}

func TestPostCacheSnapshotContents(t *testing.T) {
	c := NewPostCache(&countingLoader{posts: cachePosts()}, time.Minute)
	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Posts) != 2 {
		t.Errorf("posts = %d, want 2", len(snap.Posts))
	}
	if len(snap.Tags) != 2 || snap.Tags[0] != "go" || snap.Tags[1] != "web" {
		t.Errorf("tags = %v", snap.Tags)
	}
	if got := snap.Engine.Search("beta", snap.Posts); len(got) != 1 || got[0].File != "b.md" {
		t.Errorf("engine search = %v", got)
	}
}

func TestPostCacheErrorNotCached(t *testing.T) {
	l := &countingLoader{err: &loader.LoadError{Resource: "posts.json", Status: 500}}
	c := NewPostCache(l, time.Minute)
	ctx := context.Background()

	_, err := c.Snapshot(ctx)
	if !errors.Is(err, loader.ErrResourceLoad) {
		t.Fatalf("err = %v, want ErrResourceLoad", err)
	}

	l.mu.Lock()
	l.err, l.posts = nil, cachePosts()
	l.mu.Unlock()
	if _, err := c.Snapshot(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestPostCacheGetArticle(t *testing.T) {
	l := &countingLoader{
		posts: cachePosts(),
		docs:  map[string]string{"a.md": "---\ntitle: Alpha!\n---\nbody", "c.md": "orphan"},
	}
	c := NewPostCache(l, time.Minute)
	ctx := context.Background()

	a, err := c.GetArticle(ctx, "a.md")
	if err != nil {
		t.Fatal(err)
	}
	if a.Title != "Alpha!" || a.Body != "body" {
		t.Errorf("article = %+v", a)
	}

	if _, err := c.GetArticle(ctx, "c.md"); !errors.Is(err, loader.ErrMetadataNotFound) {
		t.Errorf("orphan err = %v", err)
	}
	if _, err := c.GetArticle(ctx, "b.md"); !errors.Is(err, loader.ErrResourceLoad) {
		t.Errorf("missing doc err = %v", err)
	}
	if got := l.count(); got != 1 {
		t.Errorf("LoadIndex calls = %d, want 1", got)
	}
}
