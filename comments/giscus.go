// Package comments renders the giscus comment embed for a post.
package comments

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pagesblog/theme"
)

// Origin is the host the embed loads from.
const Origin = "https://giscus.app"

const clientURL = Origin + "/client.js"

// Giscus configures the GitHub Discussions embed.
type Giscus struct {
	Repo          string `env:"REPO"`
	RepoID        string `env:"REPO_ID"`
	Category      string `env:"CATEGORY" envDefault:"General"`
	CategoryID    string `env:"CATEGORY_ID"`
	Mapping       string `env:"MAPPING" envDefault:"pathname"`
	Strict        bool   `env:"STRICT"`
	Reactions     bool   `env:"REACTIONS" envDefault:"true"`
	EmitMetadata  bool   `env:"EMIT_METADATA" envDefault:"true"`
	InputPosition string `env:"INPUT_POSITION" envDefault:"bottom"`
	Lang          string `env:"LANG"` // defaults to the site language
	Lazy          bool   `env:"LAZY" envDefault:"true"`
}

// Configured reports whether the repository and category ids are set.
func (g Giscus) Configured() bool {
	return g.Repo != "" && g.RepoID != "" && g.CategoryID != ""
}

// ErrorMessage replaces the embed when the client script fails to load.
const ErrorMessage = "댓글 시스템을 불러올 수 없습니다. GitHub Discussions가 활성화되어 있는지 확인해주세요."

// Attrs returns the data attributes in the order giscus documents them.
func (g Giscus) Attrs(t theme.Theme) [][2]string {
	attrs := [][2]string{
		{"data-repo", g.Repo},
		{"data-repo-id", g.RepoID},
		{"data-category", g.Category},
		{"data-category-id", g.CategoryID},
		{"data-mapping", g.Mapping},
		{"data-strict", flag(g.Strict)},
		{"data-reactions-enabled", flag(g.Reactions)},
		{"data-emit-metadata", flag(g.EmitMetadata)},
		{"data-input-position", g.InputPosition},
		{"data-theme", Theme(t)},
		{"data-lang", g.Lang},
	}
	if g.Lazy {
		attrs = append(attrs, [2]string{"data-loading", "lazy"})
	}
	return attrs
}

// Theme maps an applied theme to a giscus theme name.
func Theme(t theme.Theme) string {
	if t.Valid() {
		return string(t)
	}
	return "preferred_color_scheme"
}

// Embed renders the comments section. The client script reports load
// failures through data-error-message, which the page script swaps in.
func (g Giscus) Embed(t theme.Theme) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="giscus-comments" class="comments">`)
		if !g.Configured() {
			b.WriteString(`<p class="comments-loading">Comments are not configured.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<script src="` + clientURL + `"`)
		for _, a := range g.Attrs(t) {
			b.WriteString(" " + a[0] + `="` + templ.EscapeString(a[1]) + `"`)
		}
		b.WriteString(` data-error-message="` + templ.EscapeString(ErrorMessage) + `"`)
		b.WriteString(` crossorigin="anonymous" async></script>`)
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
