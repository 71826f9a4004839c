package pagesblog

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pagesblog/loader"
	"github.com/eringen/pagesblog/post"
	"github.com/eringen/pagesblog/search"
	"github.com/eringen/pagesblog/theme"
	"github.com/eringen/pagesblog/views"
)

const (
	msgIndexLoad    = "게시글을 불러올 수 없습니다. posts.json 파일을 확인해주세요."
	msgMissingFile  = "게시글 파일을 찾을 수 없습니다."
	msgMetadataMiss = "게시글 메타데이터를 찾을 수 없습니다: "
	msgPostLoad     = "게시글을 불러올 수 없습니다: "
)

func (a *App) chrome(c echo.Context, ts *theme.Store) views.Chrome {
	return views.Chrome{
		Site:      a.Config.View(),
		Theme:     ts.Applied(),
		Explicit:  ts.Explicit(),
		CSRFToken: CsrfToken(c),
		Path:      c.Request().URL.RequestURI(),
	}
}

func filtersFrom(c echo.Context) views.Filters {
	return views.Filters{
		Query:     c.QueryParam("q"),
		ActiveTag: c.QueryParam("tag"),
		Tags:      c.QueryParam("tags"),
		Category:  c.QueryParam("category"),
		From:      c.QueryParam("from"),
		To:        c.QueryParam("to"),
	}
}

// listing applies the request's filters to snap. A text or advanced search
// clears the single-tag filter.
func listing(snap *Snapshot, f *views.Filters) ([]post.Post, error) {
	opts, err := search.ParseOptions(f.Tags, f.Category, f.From, f.To)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if f.Query != "" || !opts.IsZero() {
		f.ActiveTag = ""
		return snap.Engine.AdvancedSearch(f.Query, snap.Posts, opts), nil
	}
	return search.Apply(f.ActiveTag, snap.Posts), nil
}

func (a *App) handleHome(c echo.Context) error {
	ts := a.themeStore(c)
	l := views.ListingPage{
		Chrome:  a.chrome(c, ts),
		Filters: filtersFrom(c),
	}

	status := http.StatusOK
	snap, err := a.Cache.Snapshot(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("load index: %v", err)
		l.Error = msgIndexLoad
		status = http.StatusBadGateway
	} else {
		posts, err := listing(snap, &l.Filters)
		if err != nil {
			return err
		}
		l.Posts = posts
		l.AllTags = snap.Tags
		l.Total = len(snap.Posts)
		l.Suggestions = search.Suggest(l.Query, snap.Posts)
	}

	if c.QueryParam("partial") == "blog" {
		return RenderStatus(c, status, a.Views.BlogSection(l))
	}
	return RenderStatus(c, status, a.Views.Home(l))
}

func (a *App) handlePost(c echo.Context) error {
	ts := a.themeStore(c)
	page := views.PostPage{Chrome: a.chrome(c, ts)}

	file := c.QueryParam("file")
	if file == "" {
		page.Error = msgMissingFile
		return RenderStatus(c, http.StatusNotFound, a.Views.Post(page))
	}

	ctx := c.Request().Context()
	article, err := a.Cache.GetArticle(ctx, file)
	switch {
	case errors.Is(err, loader.ErrMetadataNotFound):
		page.Error = msgMetadataMiss + file
		return RenderStatus(c, http.StatusNotFound, a.Views.Post(page))
	case err != nil:
		c.Logger().Errorf("load post %s: %v", file, err)
		page.Error = msgPostLoad + err.Error()
		return RenderStatus(c, http.StatusBadGateway, a.Views.Post(page))
	}

	page.Article = article
	page.Body = a.Renderer.Component(article.Body)
	embedTheme := theme.Unset
	if ts.Explicit() {
		embedTheme = ts.Applied()
	}
	page.Comments = a.Config.Giscus.Embed(embedTheme)
	if posts, err := a.Cache.ListPosts(ctx); err == nil {
		page.Related = search.Related(article.Post, posts)
	}
	return Render(c, a.Views.Post(page))
}

func (a *App) handleAPIPosts(c echo.Context) error {
	snap, err := a.Cache.Snapshot(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("load index: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, msgIndexLoad)
	}
	f := filtersFrom(c)
	posts, err := listing(snap, &f)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []post.Post{}
	}
	return c.JSON(http.StatusOK, PostsResponse{
		Query: f.Query,
		Tag:   f.ActiveTag,
		Total: len(posts),
		Posts: posts,
	})
}

func (a *App) handleAPISuggest(c echo.Context) error {
	ip := c.RealIP()
	if !a.suggestLimiter.Allow(ip) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
	}
	c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(a.suggestLimiter.Remaining(ip)))
	q := c.QueryParam("q")
	snap, err := a.Cache.Snapshot(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("load index: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, msgIndexLoad)
	}
	return c.JSON(http.StatusOK, SuggestResponse{
		Query:       q,
		Suggestions: search.Suggest(q, snap.Posts),
	})
}

func (a *App) handleThemeInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, a.themeStore(c).Info())
}

func (a *App) handleThemeToggle(c echo.Context) error {
	ts := a.themeStore(c)
	ts.Toggle()
	return a.themeDone(c, ts)
}

func (a *App) handleThemeReset(c echo.Context) error {
	ts := a.themeStore(c)
	ts.Reset()
	return a.themeDone(c, ts)
}

func (a *App) handleThemeSet(c echo.Context) error {
	ts := a.themeStore(c)
	if err := ts.Set(theme.Theme(c.FormValue("theme"))); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return a.themeDone(c, ts)
}

// themeDone answers a theme change with the new state for scripts, or a
// redirect back to the page the form was on.
func (a *App) themeDone(c echo.Context, ts *theme.Store) error {
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, ts.Info())
	}
	target := safeReturn(c.FormValue("return"))
	if target == "" {
		target = refererPath(c.Request().Referer(), c.Request().Host)
	}
	if target == "" {
		target = "/"
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (a *App) handleChromaCSS(dark bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		css := a.lightCSS
		if dark {
			css = a.darkCSS
		}
		return c.Blob(http.StatusOK, "text/css; charset=utf-8", css)
	}
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.staticDir, "favicon.svg"))
}

func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	body := "User-agent: *\nAllow: /\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if wantsJSON(c) || isAPI(c) {
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.chrome(c, a.themeStore(c))))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.chrome(c, a.themeStore(c))))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}
