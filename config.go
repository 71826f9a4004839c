package pagesblog

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/eringen/pagesblog/comments"
	"github.com/eringen/pagesblog/loader"
	"github.com/eringen/pagesblog/views"
)

// SiteConfig holds all configuration for a pagesblog site.
type SiteConfig struct {
	Name        string `env:"SITE_NAME"`        // Site name (default "Blog")
	URL         string `env:"SITE_URL"`         // Canonical URL (default "http://localhost:3000")
	Description string `env:"SITE_DESCRIPTION"` // Site description for RSS and meta tags
	Author      string `env:"SITE_AUTHOR"`      // Author name for JSON-LD
	Lang        string `env:"SITE_LANG"`        // html lang (default "ko")

	Addr string `env:"ADDR"` // Listen address (default ":3000")

	// ContentSource is a directory or an http(s) base URL holding the index
	// and the pages directory (default ".").
	ContentSource string `env:"CONTENT_SOURCE"`
	IndexPath     string `env:"INDEX_PATH"` // default "posts.json"
	PagesDir      string `env:"PAGES_DIR"`  // default "pages"
	SettingsPath  string `env:"SETTINGS_PATH"`

	SessionSecret string `env:"SESSION_SECRET"` // Required: session encryption secret
	CookieSecure  bool   `env:"COOKIE_SECURE"`  // Set true for HTTPS

	PostCacheTTL time.Duration `env:"POST_CACHE_TTL"` // Index cache TTL (default 5min)
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT"`  // Remote content timeout (default 10s)
	LogLevel     string        `env:"LOG_LEVEL"`      // debug, info, warn, error (default info)
	DateLayout   string        `env:"DATE_LAYOUT"`    // Go time layout for displayed dates

	SuggestLimit  int           `env:"SUGGEST_LIMIT"`  // suggest requests per window (default 30)
	SuggestWindow time.Duration `env:"SUGGEST_WINDOW"` // default 1min

	Giscus comments.Giscus `envPrefix:"GISCUS_"`
}

// LoadConfig reads a .env file when present, then the environment.
// Explicit files must exist.
func LoadConfig(files ...string) (SiteConfig, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return SiteConfig{}, fmt.Errorf("load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Lang == "" {
		c.Lang = "ko"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentSource == "" {
		c.ContentSource = "."
	}
	if c.IndexPath == "" {
		c.IndexPath = loader.DefaultIndexPath
	}
	if c.PagesDir == "" {
		c.PagesDir = loader.DefaultPagesDir
	}
	if c.SettingsPath == "" {
		c.SettingsPath = "data/settings.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DateLayout == "" {
		c.DateLayout = views.DefaultDateLayout
	}
	if c.SuggestLimit == 0 {
		c.SuggestLimit = 30
	}
	if c.SuggestWindow == 0 {
		c.SuggestWindow = time.Minute
	}
	if c.Giscus.Mapping == "" {
		c.Giscus.Mapping = "pathname"
	}
	if c.Giscus.InputPosition == "" {
		c.Giscus.InputPosition = "bottom"
	}
	if c.Giscus.Lang == "" {
		c.Giscus.Lang = c.Lang
	}
}

// RemoteContent reports whether ContentSource is a URL.
func (c SiteConfig) RemoteContent() bool {
	return strings.HasPrefix(c.ContentSource, "http://") || strings.HasPrefix(c.ContentSource, "https://")
}

// View returns the subset of the config templates see.
func (c SiteConfig) View() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		DateLayout:  c.DateLayout,
		Lang:        c.Lang,
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLoader replaces the content loader built from ContentSource.
func WithLoader(l ContentLoader) Option {
	return func(a *App) {
		a.loader = l
	}
}

// WithHTTPClient sets the client used for a remote ContentSource.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}

// WithViews replaces the default templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
