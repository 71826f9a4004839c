package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"testing/fstest"
)

const indexJSON = `[
  {"file": "hello.md", "title": "Hello", "excerpt": "first", "date": "2024-01-01", "tags": ["intro"]},
  {"file": "go tips.md", "title": "Go Tips", "excerpt": "tips", "date": "2024-02-01", "tags": ["go"], "category": "dev"}
]`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"posts.json":        {Data: []byte(indexJSON)},
		"pages/hello.md":    {Data: []byte("---\ntitle: Hello, World\ntags: [\"intro\", \"meta\"]\n---\n# Hi\n")},
		"pages/go tips.md":  {Data: []byte("no header here")},
		"pages/orphan.md":   {Data: []byte("orphan")},
		"pages/sub/deep.md": {Data: []byte("deep")},
	}
}

func TestLoadIndexFS(t *testing.T) {
	l := New(FSSource{FS: testFS()}, "", "")
	posts, err := l.LoadIndex(context.Background())
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len = %d, want 2", len(posts))
	}
	if posts[1].Category != "dev" || posts[0].Category != "" {
		t.Errorf("categories = %q, %q", posts[0].Category, posts[1].Category)
	}
}

func TestLoadIndexInvalidJSON(t *testing.T) {
	fsys := fstest.MapFS{"posts.json": {Data: []byte("{not json")}}
	_, err := New(FSSource{FS: fsys}, "", "").LoadIndex(context.Background())
	if !errors.Is(err, ErrResourceLoad) {
		t.Fatalf("err = %v, want ErrResourceLoad", err)
	}
}

func TestLoadIndexMissing(t *testing.T) {
	_, err := New(FSSource{FS: fstest.MapFS{}}, "", "").LoadIndex(context.Background())
	if !errors.Is(err, ErrResourceLoad) {
		t.Fatalf("err = %v, want ErrResourceLoad", err)
	}
}

func TestLoadDocumentPaths(t *testing.T) {
	l := New(FSSource{FS: testFS()}, "", "")
	ctx := context.Background()

	doc, err := l.LoadDocument(ctx, "sub/deep.md")
	if err != nil || doc != "deep" {
		t.Errorf("LoadDocument(sub/deep.md) = %q, %v", doc, err)
	}
	for _, bad := range []string{"", "../posts.json", "sub/../../posts.json", "/hello.md", "./hello.md", `sub\deep.md`} {
		if _, err := l.LoadDocument(ctx, bad); !errors.Is(err, ErrResourceLoad) {
			t.Errorf("LoadDocument(%q) err = %v, want ErrResourceLoad", bad, err)
		}
	}
}

func TestLoadArticleJoinsFrontMatter(t *testing.T) {
	l := New(FSSource{FS: testFS()}, "", "")
	a, err := l.LoadArticle(context.Background(), "hello.md")
	if err != nil {
		t.Fatalf("LoadArticle: %v", err)
	}
	if a.Title != "Hello, World" {
		t.Errorf("Title = %q, want front matter title", a.Title)
	}
	if !reflect.DeepEqual(a.Tags, []string{"intro", "meta"}) {
		t.Errorf("Tags = %v", a.Tags)
	}
	if a.Excerpt != "first" || a.Date != "2024-01-01" {
		t.Errorf("index metadata lost: %+v", a.Post)
	}
	if a.Body != "# Hi\n" {
		t.Errorf("Body = %q", a.Body)
	}
}

func TestLoadArticleWithoutHeader(t *testing.T) {
	l := New(FSSource{FS: testFS()}, "", "")
	a, err := l.LoadArticle(context.Background(), "go tips.md")
	if err != nil {
		t.Fatalf("LoadArticle: %v", err)
	}
	if a.Title != "Go Tips" || a.Body != "no header here" || a.Meta.Len() != 0 {
		t.Errorf("article = %+v", a)
	}
}

func TestLoadArticleMetadataNotFound(t *testing.T) {
	l := New(FSSource{FS: testFS()}, "", "")
	_, err := l.LoadArticle(context.Background(), "orphan.md")
	if !errors.Is(err, ErrMetadataNotFound) {
		t.Fatalf("err = %v, want ErrMetadataNotFound", err)
	}
}

func TestLoadArticleMissingDocument(t *testing.T) {
	fsys := testFS()
	delete(fsys, "pages/hello.md")
	_, err := New(FSSource{FS: fsys}, "", "").LoadArticle(context.Background(), "hello.md")
	if !errors.Is(err, ErrResourceLoad) {
		t.Fatalf("err = %v, want ErrResourceLoad", err)
	}
}

func TestHTTPSource(t *testing.T) {
	fsys := testFS()
	srv := httptest.NewServer(http.FileServer(http.FS(fsys)))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/", srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}
	l := New(src, "", "")

	a, err := l.LoadArticle(context.Background(), "go tips.md")
	if err != nil {
		t.Fatalf("LoadArticle: %v", err)
	}
	if a.Body != "no header here" {
		t.Errorf("Body = %q", a.Body)
	}
}

func TestHTTPSourceStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}
	_, err = New(src, "", "").LoadIndex(context.Background())

	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
	if le.Status != http.StatusNotFound || le.Resource != "posts.json" {
		t.Errorf("LoadError = %+v", le)
	}
	if !errors.Is(err, ErrResourceLoad) {
		t.Error("LoadError should unwrap to ErrResourceLoad")
	}
}

func TestHTTPSourceBasePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/blog", srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}
	if _, err := New(src, "", "").LoadIndex(context.Background()); err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if gotPath != "/blog/posts.json" {
		t.Errorf("path = %q, want /blog/posts.json", gotPath)
	}
}

func TestNewHTTPSourceRejectsScheme(t *testing.T) {
	if _, err := NewHTTPSource("ftp://example.com", nil); err == nil {
		t.Error("expected error for ftp scheme")
	}
}
