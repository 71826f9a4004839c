package pagesblog

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/pagesblog/comments"
	"github.com/eringen/pagesblog/theme"
)

const (
	sessionName = "blog_session"
	// systemThemeCookie mirrors prefers-color-scheme for browsers without
	// client hints; blog.js keeps it current.
	systemThemeCookie = "system-theme"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/public/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		ContentSecurityPolicy: fmt.Sprintf(
			"default-src 'self'; script-src 'self' %[1]s; frame-src %[1]s; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
			comments.Origin,
		),
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/" ||
				strings.HasPrefix(p, "/public") ||
				strings.HasPrefix(p, "/api/") ||
				path.Ext(p) != ""
		},
	}))

	e.Use(cacheControlMiddleware)
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/public/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/theme") || strings.HasPrefix(path, "/api/theme"):
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			// Pages carry the reader's theme.
			c.Response().Header().Set("Cache-Control", "private, no-cache")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// sessionPersister keeps a visitor's explicit theme in the session cookie.
type sessionPersister struct {
	c echo.Context
}

func (p sessionPersister) session() (*sessions.Session, error) {
	sess, err := session.Get(sessionName, p.c)
	if sess == nil {
		return nil, fmt.Errorf("%w: %v", theme.ErrPersistenceUnavailable, err)
	}
	// A cookie that no longer decodes yields a fresh session; overwriting it
	// is fine.
	return sess, nil
}

func (p sessionPersister) Load() (theme.Theme, error) {
	sess, err := p.session()
	if err != nil {
		return theme.Unset, err
	}
	v, _ := sess.Values[theme.StorageKey].(string)
	return theme.Theme(v), nil
}

func (p sessionPersister) Save(t theme.Theme) error {
	sess, err := p.session()
	if err != nil {
		return err
	}
	sess.Values[theme.StorageKey] = string(t)
	if err := sess.Save(p.c.Request(), p.c.Response()); err != nil {
		return fmt.Errorf("%w: %v", theme.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (p sessionPersister) Clear() error {
	sess, err := p.session()
	if err != nil {
		return err
	}
	delete(sess.Values, theme.StorageKey)
	if err := sess.Save(p.c.Request(), p.c.Response()); err != nil {
		return fmt.Errorf("%w: %v", theme.ErrPersistenceUnavailable, err)
	}
	return nil
}

// systemTheme reads the visitor's color scheme from the client hint, then
// from the cookie blog.js maintains.
func systemTheme(c echo.Context) theme.Theme {
	hint := strings.Trim(c.Request().Header.Get("Sec-CH-Prefers-Color-Scheme"), `"`)
	if t := theme.Parse(hint); t != theme.Unset {
		return t
	}
	if ck, err := c.Cookie(systemThemeCookie); err == nil {
		return theme.Parse(ck.Value)
	}
	return theme.Unset
}

// themeStore builds the theme store for one request.
func (a *App) themeStore(c echo.Context) *theme.Store {
	c.Response().Header().Set("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
	addVary(c.Response().Header(), "Sec-CH-Prefers-Color-Scheme")
	return theme.New(
		sessionPersister{c: c},
		func() theme.Theme { return systemTheme(c) },
		theme.WithLogger(c.Logger()),
	)
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
