package markdown

import (
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

const (
	LightStyle = "github"
	DarkStyle  = "github-dark"
)

var formatter = chromahtml.New(chromahtml.WithClasses(true))

// StyleCSS writes the chroma stylesheet for the light or dark palette.
func StyleCSS(w io.Writer, dark bool) error {
	name := LightStyle
	if dark {
		name = DarkStyle
	}
	return formatter.WriteCSS(w, styles.Get(name))
}

type codeBlockRenderer struct{}

func newCodeBlockRenderer() renderer.NodeRenderer {
	return &codeBlockRenderer{}
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := strings.ToLower(string(n.Language(source)))

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	if lang == "" {
		_, _ = w.WriteString(`<pre class="code-block"><code>`)
		_, _ = w.WriteString(html.EscapeString(code.String()))
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkSkipChildren, nil
	}

	escapedLang := html.EscapeString(lang)
	_, _ = w.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-` + escapedLang + `">` + escapedLang + `</span>`)
	if !highlight(w, lang, code.String()) {
		_, _ = w.WriteString(`<pre class="code-block"><code class="language-` + escapedLang + `">`)
		_, _ = w.WriteString(html.EscapeString(code.String()))
		_, _ = w.WriteString("</code></pre>")
	}
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

// highlight formats code with the lexer registered for lang. It reports false
// when no lexer matches, leaving w untouched.
func highlight(w io.Writer, lang, code string) bool {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return false
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return false
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, styles.Get(LightStyle), iterator); err != nil {
		return false
	}
	_, _ = io.WriteString(w, buf.String())
	return true
}
