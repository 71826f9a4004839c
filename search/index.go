package search

import (
	"strings"

	"github.com/eringen/pagesblog/post"
)

// Entry is the lower-cased projection of a post's searchable fields.
type Entry struct {
	File     string
	Title    string
	Excerpt  string
	Tags     []string
	Category string
}

// matches reports whether term, already lower-cased, occurs in any field.
func (e Entry) matches(term string) bool {
	if strings.Contains(e.Title, term) || strings.Contains(e.Excerpt, term) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(t, term) {
			return true
		}
	}
	return e.Category != "" && strings.Contains(e.Category, term)
}

// Index maps post files to their search entries. It is built once per post
// collection and never patched.
type Index struct {
	entries map[string]Entry
}

// BuildIndex returns an index holding one entry per post file.
func BuildIndex(posts []post.Post) *Index {
	idx := &Index{entries: make(map[string]Entry, len(posts))}
	for _, p := range posts {
		tags := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = strings.ToLower(t)
		}
		idx.entries[p.File] = Entry{
			File:     p.File,
			Title:    strings.ToLower(p.Title),
			Excerpt:  strings.ToLower(p.Excerpt),
			Tags:     tags,
			Category: strings.ToLower(p.Category),
		}
	}
	return idx
}

// Lookup returns the entry for file.
func (idx *Index) Lookup(file string) (Entry, bool) {
	e, ok := idx.entries[file]
	return e, ok
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}
