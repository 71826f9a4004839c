// Package pagesblog serves a blog whose posts live in a posts.json index and
// markdown documents under pages/, read from a directory or a static site.
//
// It provides the listing with search and tag filters, post pages with
// highlighted code and giscus comments, light/dark theme switching, RSS and
// a sitemap. Templates are templ components supplied through ViewFuncs.
package pagesblog

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/pagesblog/loader"
	"github.com/eringen/pagesblog/markdown"
)

// App is the central pagesblog application. It wires together the content
// loader, cache, handlers, middleware, and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Cache    *PostCache
	Views    ViewFuncs
	Renderer *markdown.Renderer

	loader         ContentLoader
	httpClient     *http.Client
	suggestLimiter *RateLimiter
	customRoutes   []func(*App)
	staticDir      string

	lightCSS []byte
	darkCSS  []byte
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		Renderer:  markdown.New(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(ParseLogLevel(cfg.LogLevel))

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// ParseLogLevel maps a LOG_LEVEL value to a gommon level, defaulting to info.
func ParseLogLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}

// NewContentLoader builds the loader for cfg.ContentSource: an HTTP source
// for URLs, the filesystem otherwise.
func NewContentLoader(cfg SiteConfig, client *http.Client) (*loader.Loader, error) {
	if cfg.RemoteContent() {
		if client == nil {
			client = &http.Client{Timeout: cfg.FetchTimeout}
		}
		src, err := loader.NewHTTPSource(cfg.ContentSource, client)
		if err != nil {
			return nil, err
		}
		return loader.New(src, cfg.IndexPath, cfg.PagesDir), nil
	}
	info, err := os.Stat(cfg.ContentSource)
	if err != nil {
		return nil, fmt.Errorf("content source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content source %s: not a directory", cfg.ContentSource)
	}
	return loader.New(loader.FSSource{FS: os.DirFS(cfg.ContentSource)}, cfg.IndexPath, cfg.PagesDir), nil
}

// Setup builds the cache, middleware and routes. Start calls it; tests call
// it directly and drive a.Echo.
func (a *App) Setup() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pagesblog: SessionSecret is required")
	}

	if a.loader == nil {
		l, err := NewContentLoader(a.Config, a.httpClient)
		if err != nil {
			return fmt.Errorf("pagesblog: init loader: %w", err)
		}
		a.loader = l
	}
	a.Cache = NewPostCache(a.loader, a.Config.PostCacheTTL)
	a.suggestLimiter = NewRateLimiter(a.Config.SuggestLimit, a.Config.SuggestWindow)

	var light, dark bytes.Buffer
	if err := markdown.StyleCSS(&light, false); err != nil {
		return fmt.Errorf("pagesblog: chroma css: %w", err)
	}
	if err := markdown.StyleCSS(&dark, true); err != nil {
		return fmt.Errorf("pagesblog: chroma css: %w", err)
	}
	a.lightCSS, a.darkCSS = light.Bytes(), dark.Bytes()

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	return a.Serve()
}

// Serve listens on Config.Addr. Setup must have run.
func (a *App) Serve() error {
	a.Echo.Logger.Infof("serving %s from %s", a.Config.Addr, a.Config.ContentSource)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets are served under /public/ and fall through to the
	// user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/style.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/blog.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/chroma-light.css", a.handleChromaCSS(false))
	e.GET("/public/chroma-dark.css", a.handleChromaCSS(true))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/index.html", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/")
	})
	e.GET("/post.html", a.handlePost)

	e.GET("/api/posts", a.handleAPIPosts)
	e.GET("/api/suggest", a.handleAPISuggest)
	e.GET("/api/theme", a.handleThemeInfo)

	e.POST("/theme/", a.handleThemeSet)
	e.POST("/theme/toggle/", a.handleThemeToggle)
	e.POST("/theme/reset/", a.handleThemeReset)
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.suggestLimiter != nil {
		a.suggestLimiter.Stop()
	}
	return nil
}
