package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pagesblog/post"
)

// Home renders the listing page.
func Home(l ListingPage) templ.Component {
	meta := PageMeta{
		Title:       l.Site.Name,
		Description: l.Site.Description,
		URL:         buildURL(l.Site.URL),
		OGType:      "website",
		JSONLD:      WebsiteJsonLD(l.Site),
	}
	return Layout(l.Chrome, meta, BlogSection(l))
}

// BlogSection renders the search controls, tag filters and post grid.
func BlogSection(l ListingPage) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="blog-section">`)
		searchForm(p, l)
		tagFilters(p, l)

		if l.Error != "" {
			p.raw(`<div id="no-posts" class="no-posts error-message"><p>❌ `)
			p.text(l.Error)
			p.raw(`</p></div></section>`)
			return
		}

		if l.Query != "" || l.Advanced() {
			p.raw(`<p class="search-summary">`)
			p.text("검색 결과: " + strconv.Itoa(len(l.Posts)) + "개 게시글")
			p.raw(` <a href="/" class="search-clear">초기화</a></p>`)
		}

		if len(l.Posts) == 0 {
			p.raw(`<div id="no-posts" class="no-posts"><p>검색 결과가 없습니다.</p></div></section>`)
			return
		}
		p.raw(`<div id="posts-grid" class="posts-grid">`)
		for _, item := range l.Posts {
			postCard(p, item, l.Query, l.Site.DateLayout)
		}
		p.raw(`</div></section>`)
	})
}

func searchForm(p *page, l ListingPage) {
	p.raw(`<form method="get" action="/" class="search-box" role="search">`)
	p.raw(`<input type="search" id="search-input" name="q" list="search-suggestions" autocomplete="off" placeholder="게시글 검색..."`)
	p.attr("value", l.Query)
	p.raw(`><button type="submit" id="search-btn">검색</button>`)
	p.raw(`<datalist id="search-suggestions">`)
	for _, s := range l.Suggestions {
		p.raw(`<option`)
		p.attr("value", s)
		p.raw(`>`)
	}
	p.raw(`</datalist>`)

	p.raw(`<details class="advanced-search"`)
	if l.Advanced() {
		p.raw(` open`)
	}
	p.raw(`><summary>상세 검색</summary>`)
	field(p, "tags", "태그 (쉼표로 구분)", "text", l.Filters.Tags)
	field(p, "category", "카테고리", "text", l.Category)
	field(p, "from", "시작일", "date", l.From)
	field(p, "to", "종료일", "date", l.To)
	p.raw(`</details></form>`)
}

func field(p *page, name, label, typ, value string) {
	p.raw(`<label>`)
	p.text(label)
	p.raw(`<input`)
	p.attr("type", typ)
	p.attr("name", name)
	p.attr("value", value)
	p.raw(`></label>`)
}

func tagFilters(p *page, l ListingPage) {
	if len(l.AllTags) == 0 {
		return
	}
	p.raw(`<nav id="tag-filters" class="tag-filters">`)
	for _, tag := range l.AllTags {
		p.raw(`<a`)
		p.attr("href", TagToggleURL(l.ActiveTag, tag))
		p.attr("class", TagClass(tag == l.ActiveTag))
		p.attr("data-tag", tag)
		p.raw(`>`)
		p.text(tag)
		p.raw(`</a>`)
	}
	p.raw(`</nav>`)
}

func postCard(p *page, pp post.Post, query, layout string) {
	p.raw(`<a class="post-card"`)
	p.attr("href", PostURL(pp.File))
	p.raw(`><h3 class="post-card-title">`)
	highlighted(p, pp.Title, query)
	p.raw(`</h3><p class="post-card-excerpt">`)
	highlighted(p, pp.Excerpt, query)
	p.raw(`</p><div class="post-card-meta"><div class="post-card-tags">`)
	for _, tag := range pp.Tags {
		p.raw(`<span class="post-card-tag">`)
		highlighted(p, tag, query)
		p.raw(`</span>`)
	}
	p.raw(`</div>`)
	if pp.Category != "" {
		p.raw(`<span class="post-card-category">`)
		highlighted(p, pp.Category, query)
		p.raw(`</span>`)
	}
	p.raw(`<time`)
	p.attr("datetime", pp.Date)
	p.raw(`>`)
	p.text(FormatDate(layout, pp.Date))
	p.raw(`</time></div></a>`)
}
