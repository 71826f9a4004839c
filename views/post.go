package views

import (
	"github.com/a-h/templ"
)

// Post renders a single article page.
func Post(pp PostPage) templ.Component {
	a := pp.Article
	meta := PageMeta{
		Title:       a.Title,
		Description: a.Excerpt,
		OGType:      "article",
	}
	if a.File != "" {
		meta.URL = AbsPostURL(pp.Site.URL, a.File)
	}
	if pp.Error == "" {
		meta.JSONLD = BlogPostingJsonLD(pp.Site, a)
	}
	return Layout(pp.Chrome, meta, Article(pp))
}

// Article renders the article body, or the inline error in its place.
func Article(pp PostPage) templ.Component {
	return component(func(p *page) {
		a := pp.Article
		p.raw(`<article class="post">`)
		if pp.Error != "" {
			p.raw(`<div id="post-content" class="post-content"><div class="error-message"><h2>❌ 오류</h2><p>`)
			p.text(pp.Error)
			p.raw(`</p><p><a href="/">← 목록으로</a></p></div></div></article>`)
			return
		}

		p.raw(`<header class="post-header"><h1 id="post-title" class="post-title">`)
		p.text(a.Title)
		p.raw(`</h1><div class="post-meta">`)
		if a.Date != "" {
			p.raw(`<time id="post-date"`)
			p.attr("datetime", a.Date)
			p.raw(`>`)
			p.text(FormatDate(pp.Site.DateLayout, a.Date))
			p.raw(`</time>`)
		}
		if a.Category != "" {
			p.raw(`<span id="post-category"><span class="post-category">`)
			p.text(a.Category)
			p.raw(`</span></span>`)
		}
		p.raw(`<div id="post-tags" class="post-tags">`)
		for _, tag := range a.Tags {
			p.raw(`<a class="post-tag"`)
			p.attr("href", TagToggleURL("", tag))
			p.raw(`>`)
			p.text(tag)
			p.raw(`</a>`)
		}
		p.raw(`</div></div></header>`)

		p.raw(`<div id="post-content" class="post-content">`)
		p.component(pp.Body)
		p.raw(`</div>`)

		if len(pp.Related) > 0 {
			p.raw(`<aside class="related-posts"><h2>관련 게시글</h2><ul>`)
			for _, r := range pp.Related {
				p.raw(`<li><a`)
				p.attr("href", PostURL(r.File))
				p.raw(`>`)
				p.text(r.Title)
				p.raw(`</a></li>`)
			}
			p.raw(`</ul></aside>`)
		}

		p.component(pp.Comments)
		p.raw(`</article>`)
	})
}
