package pagesblog

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/pagesblog/post"
	"github.com/eringen/pagesblog/views"
)

// ContentLoader reads the post index and post documents.
// *loader.Loader satisfies it.
type ContentLoader interface {
	LoadIndex(ctx context.Context) ([]post.Post, error)
	LoadDocument(ctx context.Context, file string) (string, error)
}

// ViewFuncs holds the templ components the handlers render. DefaultViews
// provides the built-in templates; any of them can be replaced.
type ViewFuncs struct {
	Home        func(l views.ListingPage) templ.Component
	BlogSection func(l views.ListingPage) templ.Component
	Post        func(p views.PostPage) templ.Component
	NotFound    func(c views.Chrome) templ.Component
	ServerError func(c views.Chrome) templ.Component
}

// DefaultViews returns the built-in templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		BlogSection: views.BlogSection,
		Post:        views.Post,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// PostsResponse is the JSON body of /api/posts.
type PostsResponse struct {
	Query string      `json:"query"`
	Tag   string      `json:"tag,omitempty"`
	Total int         `json:"total"`
	Posts []post.Post `json:"posts"`
}

// SuggestResponse is the JSON body of /api/suggest.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}
