package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// page accumulates the first write error so components read top to bottom.
type page struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (p *page) attr(name, value string) {
	p.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (p *page) component(c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(p.ctx, p.w)
}

func component(fn func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{ctx: ctx, w: w}
		fn(p)
		return p.err
	})
}
