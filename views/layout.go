package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/pagesblog/theme"
)

// Layout wraps content in the site shell: head metadata, theme controls and
// footer. The applied theme is rendered server side as data-theme.
func Layout(c Chrome, meta PageMeta, content templ.Component) templ.Component {
	return component(func(p *page) {
		lang := c.Site.Lang
		if lang == "" {
			lang = "ko"
		}
		applied := c.Theme
		if !applied.Valid() {
			applied = theme.Light
		}

		p.raw(`<!DOCTYPE html><html`)
		p.attr("lang", lang)
		p.attr("data-theme", string(applied))
		if c.Explicit {
			p.attr("data-theme-explicit", "true")
		}
		p.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<meta name="color-scheme" content="light dark">`)

		title := c.Site.Name
		if meta.Title != "" && meta.Title != c.Site.Name {
			title = meta.Title + " | " + c.Site.Name
		}
		p.raw(`<title>`)
		p.text(title)
		p.raw(`</title>`)
		if meta.Description != "" {
			p.raw(`<meta name="description"`)
			p.attr("content", meta.Description)
			p.raw(`>`)
		}
		if meta.URL != "" {
			p.raw(`<link rel="canonical"`)
			p.attr("href", meta.URL)
			p.raw(`><meta property="og:url"`)
			p.attr("content", meta.URL)
			p.raw(`>`)
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		p.raw(`<meta property="og:type"`)
		p.attr("content", ogType)
		p.raw(`><meta property="og:title"`)
		p.attr("content", title)
		p.raw(`>`)

		p.raw(`<link rel="stylesheet" href="/public/style.css">`)
		p.raw(`<link rel="stylesheet" id="chroma-style"`)
		p.attr("href", ChromaStylesheet(applied))
		p.raw(`>`)
		p.raw(`<link rel="alternate" type="application/rss+xml"`)
		p.attr("title", c.Site.Name)
		p.raw(` href="/feed.xml">`)
		p.raw(`<script src="/public/blog.js"></script>`)
		if meta.JSONLD != "" {
			p.raw(`<script type="application/ld+json">`)
			p.raw(meta.JSONLD)
			p.raw(`</script>`)
		}
		p.raw(`</head><body>`)

		p.raw(`<header class="site-header"><a href="/" class="site-title">`)
		p.text(c.Site.Name)
		p.raw(`</a><div class="theme-controls">`)
		themeForm(p, c, "/theme/toggle/", toggleLabel(applied), "theme-toggle")
		if c.Explicit {
			themeForm(p, c, "/theme/reset/", "시스템 설정", "theme-reset")
		}
		p.raw(`</div></header>`)

		p.raw(`<main class="container">`)
		p.component(content)
		p.raw(`</main>`)

		p.raw(`<footer class="site-footer"><p>`)
		p.text(c.Site.Name)
		if c.Site.Author != "" {
			p.text(" · " + c.Site.Author)
		}
		p.raw(`</p><a href="/feed.xml">RSS</a></footer>`)
		p.raw(`</body></html>`)
	})
}

func themeForm(p *page, c Chrome, action, label, class string) {
	p.raw(`<form method="post"`)
	p.attr("action", action)
	p.attr("class", class)
	p.raw(`><input type="hidden" name="_csrf"`)
	p.attr("value", c.CSRFToken)
	p.raw(`><input type="hidden" name="return"`)
	p.attr("value", c.Path)
	p.raw(`><button type="submit"`)
	p.attr("aria-label", label)
	p.raw(`>`)
	p.text(label)
	p.raw(`</button></form>`)
}

func toggleLabel(applied theme.Theme) string {
	if applied == theme.Dark {
		return "☀️ 라이트 모드"
	}
	return "🌙 다크 모드"
}

// ChromaStylesheet is the code highlighting stylesheet for a theme.
func ChromaStylesheet(t theme.Theme) string {
	if t == theme.Dark {
		return "/public/chroma-dark.css"
	}
	return "/public/chroma-light.css"
}
