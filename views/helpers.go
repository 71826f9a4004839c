package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/pagesblog/post"
	"github.com/eringen/pagesblog/search"
)

// DefaultDateLayout renders dates the way ko-KR long dates read.
const DefaultDateLayout = "2006년 1월 2일"

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the site-relative link to a post.
func PostURL(file string) string {
	return "/post.html?file=" + url.QueryEscape(file)
}

// AbsPostURL is the canonical link to a post under base.
func AbsPostURL(base, file string) string {
	return strings.TrimRight(base, "/") + PostURL(file)
}

// TagToggleURL is where clicking tag leads: the filtered listing, or the
// full listing when tag is already active.
func TagToggleURL(active, tag string) string {
	next := search.NewTagFilter(active).Next(tag)
	if next == "" {
		return "/"
	}
	return "/?tag=" + url.QueryEscape(next)
}

// FormatDate renders a post date with layout, or returns it unchanged when it
// does not parse.
func FormatDate(layout, date string) string {
	d, err := post.ParseDate(date)
	if err != nil {
		return date
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return d.Format(layout)
}

// highlighted writes text escaped, wrapping occurrences of term in the
// search highlight mark.
func highlighted(p *page, text, term string) {
	for _, seg := range search.Segments(text, term) {
		if seg.Match {
			p.raw(`<mark class="search-highlight">`)
			p.text(seg.Text)
			p.raw(`</mark>`)
			continue
		}
		p.text(seg.Text)
	}
}

// TagClass returns CSS classes for a tag filter button, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag-filter active"
	}
	return "tag-filter"
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for an article.
func BlogPostingJsonLD(cfg SiteConfig, a post.Article) string {
	postURL := AbsPostURL(cfg.URL, a.File)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      a.Title,
		"description":   a.Excerpt,
		"datePublished": a.Date,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(a.Tags) > 0 {
		data["keywords"] = strings.Join(a.Tags, ", ")
	}
	if a.Category != "" {
		data["articleSection"] = a.Category
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
