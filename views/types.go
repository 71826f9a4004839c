package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/pagesblog/post"
	"github.com/eringen/pagesblog/theme"
)

// SiteConfig holds site-wide settings populated from environment variables.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "Blog")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
	DateLayout  string // DATE_LAYOUT (default "2006년 1월 2일")
	Lang        string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// Chrome is the per-request state the layout needs.
type Chrome struct {
	Site      SiteConfig
	Theme     theme.Theme
	Explicit  bool // theme chosen by the reader rather than the system
	CSRFToken string
	Path      string // request URI, used as the theme forms' return target
}

// Filters echoes the listing's query parameters back into the forms.
type Filters struct {
	Query     string
	ActiveTag string
	Tags      string
	Category  string
	From      string
	To        string
}

// Advanced reports whether any advanced search field is set.
func (f Filters) Advanced() bool {
	return f.Tags != "" || f.Category != "" || f.From != "" || f.To != ""
}

// ListingPage is the home page: search, tag filters and post cards.
type ListingPage struct {
	Chrome
	Filters
	Posts       []post.Post
	AllTags     []string
	Suggestions []string
	Total       int
	// Error replaces the post grid when the index could not be loaded.
	Error string
}

// PostPage is a single article.
type PostPage struct {
	Chrome
	Article  post.Article
	Related  []post.Post
	Body     templ.Component
	Comments templ.Component
	// Error replaces the article content when it could not be loaded.
	Error string
}
