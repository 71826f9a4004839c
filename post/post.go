// Package post defines the blog's content types: index records loaded from
// posts.json and the articles joined from an index record and its document.
package post

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/eringen/pagesblog/frontmatter"
)

// Post is one record of the post index. File is the unique identifier, a path
// relative to the pages directory.
type Post struct {
	File     string   `json:"file"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	Category string   `json:"category,omitempty"`
}

// Day returns the post date as a calendar day. ok is false when the date
// cannot be parsed.
func (p Post) Day() (time.Time, bool) {
	d, err := ParseDate(p.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// HasTag reports whether the post carries tag exactly.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ParseDate parses an ISO-ish date string and truncates it to the calendar
// day it names, expressed at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// Article is a fully loaded post: index metadata overlaid with the document's
// front matter, plus the markdown body.
type Article struct {
	Post
	Meta frontmatter.FrontMatter
	Body string
}

// Join merges a document's front matter over its index record. Title, date,
// category and tags from the document win when present.
func Join(meta Post, body string, fm frontmatter.FrontMatter) Article {
	p := meta
	if v := fm.String("title"); v != "" {
		p.Title = v
	}
	if v := fm.String("date"); v != "" {
		p.Date = v
	}
	if v := fm.String("category"); v != "" {
		p.Category = v
	}
	if tags, ok := fm.Strings("tags"); ok {
		p.Tags = tags
	}
	return Article{Post: p, Meta: fm, Body: body}
}
