// Package markdown renders post bodies to sanitized HTML with highlighted
// code blocks, exposed as templ components.
package markdown

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New returns a renderer with GFM, hard line breaks, heading ids and chroma
// highlighting for fenced code.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(newCodeBlockRenderer(), 200),
			),
		),
	)
	return &Renderer{md: md, policy: newPolicy()}
}

// newPolicy allows user content plus the classes chroma and the code block
// wrapper emit.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("span", "pre", "code", "div")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Render writes the sanitized HTML for content to w.
func (r *Renderer) Render(w io.Writer, content string) error {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return err
	}
	_, err := w.Write(r.policy.SanitizeBytes(buf.Bytes()))
	return err
}

// HTML returns the sanitized HTML for content.
func (r *Renderer) HTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Component returns a templ.Component that renders content as HTML.
func (r *Renderer) Component(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return r.Render(w, content)
	})
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
)

// Markdown returns a templ.Component that renders content with the default
// renderer.
func Markdown(content string) templ.Component {
	defaultOnce.Do(func() {
		defaultRenderer = New()
	})
	return defaultRenderer.Component(content)
}
