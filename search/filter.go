package search

import "github.com/eringen/pagesblog/post"

// TagFilter holds the single active tag of the listing's tag buttons.
// Selecting the active tag clears it; selecting another replaces it.
type TagFilter struct {
	active string
}

// NewTagFilter returns a filter with active selected ("" for none).
func NewTagFilter(active string) *TagFilter {
	return &TagFilter{active: active}
}

// Active returns the selected tag, or "" when unfiltered.
func (f *TagFilter) Active() string {
	return f.active
}

// Next returns the tag that would be active after selecting tag.
func (f *TagFilter) Next(tag string) string {
	if tag == f.active {
		return ""
	}
	return tag
}

// Toggle selects tag and returns posts filtered by the new selection.
func (f *TagFilter) Toggle(tag string, posts []post.Post) []post.Post {
	f.active = f.Next(tag)
	return Apply(f.active, posts)
}

// Clear drops the selection.
func (f *TagFilter) Clear() {
	f.active = ""
}

// Apply returns the posts carrying tag, or posts unchanged for an empty tag.
func Apply(tag string, posts []post.Post) []post.Post {
	if tag == "" {
		return posts
	}
	filtered := []post.Post{}
	for _, p := range posts {
		if p.HasTag(tag) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
