package pagesblog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/eringen/pagesblog/loader"
	"github.com/eringen/pagesblog/theme"
)

const testIndex = `[
  {"file": "go-intro.md", "title": "Go 입문", "excerpt": "Go 언어 기초", "date": "2024-03-01", "tags": ["go", "basics"], "category": "dev"},
  {"file": "rust-notes.md", "title": "Rust Notes", "excerpt": "ownership", "date": "2024-04-10", "tags": ["rust", "basics"], "category": "dev"},
  {"file": "travel.md", "title": "Jeju Trip", "excerpt": "island days", "date": "2023-08-20", "tags": ["travel"], "category": "life"},
  {"file": "gone.md", "title": "Gone", "excerpt": "no document", "date": "2024-01-01", "tags": []}
]`

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"posts.json":          {Data: []byte(testIndex)},
		"pages/go-intro.md":   {Data: []byte("---\ntitle: Go 시작하기\n---\n# Hello\n\n```go\nfunc main() {}\n```\n")},
		"pages/rust-notes.md": {Data: []byte("Borrow **checker**.")},
		"pages/travel.md":     {Data: []byte("Sunny.")},
		"pages/orphan.md":     {Data: []byte("not in the index")},
	}
}

func newTestApp(t *testing.T, fsys fstest.MapFS, mutate func(*SiteConfig)) *App {
	t.Helper()
	cfg := SiteConfig{
		Name:          "Test Blog",
		URL:           "https://blog.example.com",
		SessionSecret: "test-secret-test-secret-test-secret",
		SuggestLimit:  100,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	a := New(cfg,
		WithLoader(loader.New(loader.FSSource{FS: fsys}, "", "")),
		WithStaticDir(t.TempDir()),
	)
	if err := a.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func do(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string) *httptest.ResponseRecorder {
	return do(a, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestSetupRequiresSecret(t *testing.T) {
	a := New(SiteConfig{}, WithLoader(loader.New(loader.FSSource{FS: testContent()}, "", "")))
	if err := a.Setup(); err == nil {
		t.Fatal("expected error without SessionSecret")
	}
}

func TestHomeListsPosts(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	rec := get(a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Go 입문", "Rust Notes", "Jeju Trip", `data-tag="rust"`, `data-theme="light"`} {
		if !strings.Contains(body, want) {
			t.Errorf("home missing %q", want)
		}
	}
	if got := rec.Header().Get("Cache-Control"); got != "private, no-cache" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestHomeSearch(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	rec := get(a, "/?q=rust")
	body := rec.Body.String()
	if !strings.Contains(body, "검색 결과: 1개 게시글") {
		t.Errorf("missing result summary in %s", body)
	}
	if strings.Contains(body, "Jeju Trip") {
		t.Error("unmatched post rendered")
	}
	if !strings.Contains(body, `<mark class="search-highlight">Rust</mark>`) {
		t.Error("title match not highlighted")
	}
}

func TestHomeTagFilter(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	body := get(a, "/?tag=travel").Body.String()
	if !strings.Contains(body, "Jeju Trip") || strings.Contains(body, "Rust Notes") {
		t.Errorf("tag filter not applied: %s", body)
	}
	if !strings.Contains(body, `class="tag-filter active"`) {
		t.Error("active tag not marked")
	}
}

func TestHomeSearchClearsTag(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	body := get(a, "/?tag=travel&q=rust").Body.String()
	if !strings.Contains(body, "Rust Notes") {
		t.Error("search should ignore the tag filter")
	}
	if strings.Contains(body, `class="tag-filter active"`) {
		t.Error("tag still active after search")
	}
}

func TestHomeAdvancedSearch(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	body := get(a, "/?category=dev&from=2024-04-01").Body.String()
	if !strings.Contains(body, "Rust Notes") || strings.Contains(body, "Go 입문") {
		t.Errorf("advanced filter not applied: %s", body)
	}
}

func TestHomeBadDate(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	if rec := get(a, "/?from=garbage"); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHomeNoResults(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	body := get(a, "/?q=zzzz").Body.String()
	if !strings.Contains(body, "검색 결과가 없습니다.") {
		t.Error("missing empty state")
	}
}

func TestHomePartial(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	body := get(a, "/?q=go&partial=blog").Body.String()
	if strings.Contains(body, "<html") {
		t.Error("partial should not include the layout")
	}
	if !strings.HasPrefix(body, `<section class="blog-section">`) {
		t.Errorf("unexpected partial: %.80s", body)
	}
}

func TestHomeIndexUnavailable(t *testing.T) {
	a := newTestApp(t, fstest.MapFS{}, nil)
	rec := get(a, "/")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgIndexLoad) {
		t.Error("missing inline index error")
	}
}

func TestIndexHTMLRedirect(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	rec := get(a, "/index.html")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPostPage(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	rec := get(a, "/post.html?file=go-intro.md")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Go 시작하기 | Test Blog</title>",
		`<h1 id="hello">Hello</h1>`,
		`code-lang-go`,
		`application/ld+json`,
		"Rust Notes", // related through "basics"
		`id="giscus-comments"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("post page missing %q", want)
		}
	}
}

func TestPostPageErrors(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/post.html", http.StatusNotFound, msgMissingFile},
		{"/post.html?file=orphan.md", http.StatusNotFound, msgMetadataMiss + "orphan.md"},
		{"/post.html?file=gone.md", http.StatusBadGateway, msgPostLoad},
		{"/post.html?file=../posts.json", http.StatusBadGateway, msgPostLoad},
	}
	for _, tt := range tests {
		rec := get(a, tt.target)
		if rec.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.target, rec.Code, tt.status)
		}
		if !strings.Contains(rec.Body.String(), tt.want) {
			t.Errorf("%s: body missing %q", tt.target, tt.want)
		}
	}
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	rec := get(a, "/missing.html")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "페이지를 찾을 수 없습니다.") {
		t.Error("missing 404 page")
	}
}

func TestAPIPosts(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	rec := get(a, "/api/posts?tag=go")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp PostsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Posts[0].File != "go-intro.md" || resp.Tag != "go" {
		t.Errorf("got %+v", resp)
	}

	rec = get(a, "/api/posts?q=nothing-matches")
	if !strings.Contains(rec.Body.String(), `"posts":[]`) {
		t.Errorf("empty result should be an array: %s", rec.Body.String())
	}
}

func TestAPISuggest(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	rec := get(a, "/api/suggest?q=ru")
	var resp SuggestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Suggestions) != 2 || resp.Suggestions[0] != "Rust Notes" || resp.Suggestions[1] != "rust" {
		t.Errorf("suggestions = %v", resp.Suggestions)
	}
}

func TestAPISuggestRateLimited(t *testing.T) {
	a := newTestApp(t, testContent(), func(c *SiteConfig) { c.SuggestLimit = 2 })
	for i, remaining := range []string{"1", "0"} {
		rec := get(a, "/api/suggest?q=go")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != remaining {
			t.Errorf("request %d: remaining = %q, want %q", i, got, remaining)
		}
	}
	if rec := get(a, "/api/suggest?q=go"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

// csrfCookie fetches a page to obtain the CSRF cookie.
func csrfCookie(t *testing.T, a *App) *http.Cookie {
	t.Helper()
	for _, c := range get(a, "/").Result().Cookies() {
		if c.Name == "_csrf" {
			return c
		}
	}
	t.Fatal("no _csrf cookie")
	return nil
}

func themePost(a *App, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
		if c.Name == "_csrf" {
			req.Header.Set("X-CSRF-Token", c.Value)
		}
	}
	return do(a, req)
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName {
			return c
		}
	}
	return nil
}

func TestThemeToggleRequiresCSRF(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	if rec := themePost(a, "/theme/toggle/", url.Values{}); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestThemeToggleAndReset(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	csrf := csrfCookie(t, a)

	rec := themePost(a, "/theme/toggle/", url.Values{"return": {"/?tag=go"}}, csrf)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("toggle status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?tag=go" {
		t.Errorf("Location = %q", loc)
	}
	sess := sessionCookie(rec)
	if sess == nil {
		t.Fatal("toggle did not save the session")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sess)
	body := do(a, req).Body.String()
	if !strings.Contains(body, `data-theme="dark"`) || !strings.Contains(body, `data-theme-explicit="true"`) {
		t.Error("explicit dark theme not applied")
	}
	if !strings.Contains(body, "/public/chroma-dark.css") {
		t.Error("dark code style not linked")
	}

	rec = themePost(a, "/theme/reset/", url.Values{}, csrf, sess)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("reset: %d %q", rec.Code, rec.Header().Get("Location"))
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(rec))
	req.AddCookie(&http.Cookie{Name: systemThemeCookie, Value: "dark"})
	body = do(a, req).Body.String()
	if strings.Contains(body, "data-theme-explicit") {
		t.Error("reset left an explicit theme")
	}
	if !strings.Contains(body, `data-theme="dark"`) {
		t.Error("reset should follow the system theme")
	}
}

func TestThemeSetJSON(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	csrf := csrfCookie(t, a)

	req := httptest.NewRequest(http.MethodPost, "/theme/", strings.NewReader("theme=dark"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CSRF-Token", csrf.Value)
	req.AddCookie(csrf)
	rec := do(a, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var info theme.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.Current != theme.Dark || !info.IsDark || info.Stored != theme.Dark {
		t.Errorf("info = %+v", info)
	}

	if rec := themePost(a, "/theme/", url.Values{"theme": {"sepia"}}, csrf); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid theme status = %d, want 400", rec.Code)
	}
}

func TestThemeRejectsOffsiteReturn(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	csrf := csrfCookie(t, a)
	rec := themePost(a, "/theme/toggle/", url.Values{"return": {"//evil.example"}}, csrf)
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestThemeInfoFollowsClientHint(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/theme", nil)
	req.Header.Set("Sec-CH-Prefers-Color-Scheme", `"dark"`)
	rec := do(a, req)
	var info theme.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.Current != theme.Dark || info.System != theme.Dark || info.Stored != theme.Unset {
		t.Errorf("info = %+v", info)
	}
	if rec.Header().Get("Accept-CH") == "" {
		t.Error("missing Accept-CH")
	}
}

func TestFeed(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	rec := get(a, "/feed.xml")
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Test Blog</title>",
		"<link>https://blog.example.com/post.html?file=rust-notes.md</link>",
		"<category>dev</category>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("feed missing %q", want)
		}
	}
}

func TestSitemap(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	body := get(a, "/sitemap.xml").Body.String()
	for _, want := range []string{
		"<loc>https://blog.example.com/post.html?file=go-intro.md</loc>",
		"<lastmod>2024-03-01</lastmod>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
}

func TestRobotsGenerated(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	body := get(a, "/robots.txt").Body.String()
	if !strings.Contains(body, "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Errorf("robots = %q", body)
	}
}

func TestEmbeddedAssets(t *testing.T) {
	a := newTestApp(t, testContent(), nil)
	for _, target := range []string{"/public/style.css", "/public/blog.js", "/public/chroma-light.css", "/public/chroma-dark.css"} {
		rec := get(a, target)
		if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
			t.Errorf("%s: status %d, %d bytes", target, rec.Code, rec.Body.Len())
		}
	}

	checks := map[string][]string{
		"/public/style.css": {`[data-theme="dark"] img { filter: brightness(0.8) contrast(1.2); }`},
		"/public/blog.js":   {`addEventListener("keydown"`, `form.theme-toggle`, `data-error-message`},
	}
	for target, wants := range checks {
		body := get(a, target).Body.String()
		for _, want := range wants {
			if !strings.Contains(body, want) {
				t.Errorf("%s missing %q", target, want)
			}
		}
	}
}
