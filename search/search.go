// Package search implements case-insensitive text search, filtering and
// suggestions over the in-memory post collection.
package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/eringen/pagesblog/post"
)

// Options narrows an advanced search. Every set field must hold for a post to
// be kept.
type Options struct {
	Tags     []string  // post must carry all of them
	Category string    // exact match
	DateFrom time.Time // inclusive, zero means unbounded
	DateTo   time.Time // inclusive, zero means unbounded
}

// IsZero reports whether no filter is set.
func (o Options) IsZero() bool {
	return len(o.Tags) == 0 && o.Category == "" && o.DateFrom.IsZero() && o.DateTo.IsZero()
}

// ParseOptions builds Options from raw request values. tags is a
// comma-separated list; from and to are dates. Empty values leave the filter
// unset.
func ParseOptions(tags, category, from, to string) (Options, error) {
	var opts Options
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			opts.Tags = append(opts.Tags, t)
		}
	}
	opts.Category = strings.TrimSpace(category)
	if from = strings.TrimSpace(from); from != "" {
		d, err := post.ParseDate(from)
		if err != nil {
			return Options{}, fmt.Errorf("invalid from date %q: %w", from, err)
		}
		opts.DateFrom = d
	}
	if to = strings.TrimSpace(to); to != "" {
		d, err := post.ParseDate(to)
		if err != nil {
			return Options{}, fmt.Errorf("invalid to date %q: %w", to, err)
		}
		opts.DateTo = d
	}
	return opts, nil
}

// Engine searches a post collection through its index. Build a new Engine
// whenever the collection changes.
type Engine struct {
	index *Index
}

// NewEngine indexes posts and returns an engine over them.
func NewEngine(posts []post.Post) *Engine {
	return &Engine{index: BuildIndex(posts)}
}

// Index returns the engine's index.
func (e *Engine) Index() *Index {
	return e.index
}

// Search returns the posts whose title, excerpt, tags or category contain
// query, ignoring case. Order is preserved. A blank query returns posts
// unchanged.
func (e *Engine) Search(query string, posts []post.Post) []post.Post {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return posts
	}
	results := []post.Post{}
	for _, p := range posts {
		entry, ok := e.index.Lookup(p.File)
		if !ok {
			continue
		}
		if entry.matches(term) {
			results = append(results, p)
		}
	}
	return results
}

// AdvancedSearch applies Search and then every filter in opts. Posts with an
// unparsable date are dropped whenever a date bound is set.
func (e *Engine) AdvancedSearch(query string, posts []post.Post, opts Options) []post.Post {
	if strings.TrimSpace(query) == "" && opts.IsZero() {
		return posts
	}
	results := e.Search(query, posts)
	filtered := []post.Post{}
	for _, p := range results {
		if keep(p, opts) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func keep(p post.Post, opts Options) bool {
	for _, t := range opts.Tags {
		if !p.HasTag(t) {
			return false
		}
	}
	if opts.Category != "" && p.Category != opts.Category {
		return false
	}
	if opts.DateFrom.IsZero() && opts.DateTo.IsZero() {
		return true
	}
	day, ok := p.Day()
	if !ok {
		return false
	}
	if !opts.DateFrom.IsZero() && day.Before(opts.DateFrom) {
		return false
	}
	if !opts.DateTo.IsZero() && day.After(opts.DateTo) {
		return false
	}
	return true
}

// Tags returns every distinct tag in posts, sorted.
func Tags(posts []post.Post) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Related returns the posts sharing at least one tag with current, ignoring
// case, excluding current itself.
func Related(current post.Post, posts []post.Post) []post.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []post.Post
	for _, p := range posts {
		if p.File == current.File {
			continue
		}
		for _, t := range p.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}
