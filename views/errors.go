package views

import "github.com/a-h/templ"

// NotFound renders the 404 page.
func NotFound(c Chrome) templ.Component {
	return Layout(c, PageMeta{Title: "404"}, errorBody("404", "페이지를 찾을 수 없습니다."))
}

// ServerError renders the 500 page.
func ServerError(c Chrome) templ.Component {
	return Layout(c, PageMeta{Title: "500"}, errorBody("500", "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."))
}

func errorBody(code, message string) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="error-page"><h1>`)
		p.text(code)
		p.raw(`</h1><p>`)
		p.text(message)
		p.raw(`</p><a href="/">← 홈으로</a></section>`)
	})
}
