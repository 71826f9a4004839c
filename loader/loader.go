// Package loader reads the post index and post documents from a content
// source and joins them into articles.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/pagesblog/frontmatter"
	"github.com/eringen/pagesblog/post"
)

var (
	// ErrResourceLoad reports a resource that could not be fetched or parsed.
	ErrResourceLoad = errors.New("resource load failed")
	// ErrMetadataNotFound reports a document with no entry in the index.
	ErrMetadataNotFound = errors.New("post metadata not found")
)

// LoadError describes a failed fetch. Status is the HTTP status when the
// source answered with one.
type LoadError struct {
	Resource string
	Status   int
	Err      error
}

func (e *LoadError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("load %s: %d %s", e.Resource, e.Status, http.StatusText(e.Status))
	case e.Err != nil:
		return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
	}
	return "load " + e.Resource
}

// Unwrap exposes ErrResourceLoad alongside the underlying cause.
func (e *LoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrResourceLoad, e.Err}
	}
	return []error{ErrResourceLoad}
}

const (
	DefaultIndexPath = "posts.json"
	DefaultPagesDir  = "pages"
)

// Loader fetches content through a Source.
type Loader struct {
	src       Source
	indexPath string
	pagesDir  string
}

// New returns a loader. Empty paths fall back to posts.json and pages.
func New(src Source, indexPath, pagesDir string) *Loader {
	if indexPath == "" {
		indexPath = DefaultIndexPath
	}
	if pagesDir == "" {
		pagesDir = DefaultPagesDir
	}
	return &Loader{src: src, indexPath: indexPath, pagesDir: strings.Trim(pagesDir, "/")}
}

// LoadIndex reads and decodes the post index.
func (l *Loader) LoadIndex(ctx context.Context) ([]post.Post, error) {
	rc, err := l.src.Open(ctx, l.indexPath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var posts []post.Post
	if err := json.NewDecoder(rc).Decode(&posts); err != nil {
		return nil, &LoadError{Resource: l.indexPath, Err: fmt.Errorf("decode index: %w", err)}
	}
	return posts, nil
}

// LoadDocument reads the raw markdown for file.
func (l *Loader) LoadDocument(ctx context.Context, file string) (string, error) {
	name, err := l.documentPath(file)
	if err != nil {
		return "", err
	}
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", &LoadError{Resource: name, Err: err}
	}
	return string(b), nil
}

// LoadArticle fetches the index and the document concurrently and joins them.
func (l *Loader) LoadArticle(ctx context.Context, file string) (post.Article, error) {
	return LoadArticle(ctx, file, l.LoadIndex, l.LoadDocument)
}

// LoadArticle runs index and document fetches in an errgroup so either
// failure cancels the other. The post cache passes its cached index here.
func LoadArticle(
	ctx context.Context,
	file string,
	index func(context.Context) ([]post.Post, error),
	document func(context.Context, string) (string, error),
) (post.Article, error) {
	var (
		posts []post.Post
		doc   string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = index(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		doc, err = document(gctx, file)
		return err
	})
	if err := g.Wait(); err != nil {
		return post.Article{}, err
	}

	meta, ok := Find(posts, file)
	if !ok {
		return post.Article{}, fmt.Errorf("%s: %w", file, ErrMetadataNotFound)
	}
	return Join(meta, doc), nil
}

// Join parses doc and merges its front matter over meta.
func Join(meta post.Post, doc string) post.Article {
	body, fm := frontmatter.Parse(doc)
	return post.Join(meta, body, fm)
}

// Find returns the index record for file.
func Find(posts []post.Post, file string) (post.Post, bool) {
	for _, p := range posts {
		if p.File == file {
			return p, true
		}
	}
	return post.Post{}, false
}

func (l *Loader) documentPath(file string) (string, error) {
	if file == "" || strings.Contains(file, "\\") {
		return "", &LoadError{Resource: file, Err: errors.New("invalid file name")}
	}
	clean := path.Clean("/" + file)
	if clean == "/" || clean != "/"+file {
		return "", &LoadError{Resource: file, Err: errors.New("invalid file name")}
	}
	return path.Join(l.pagesDir, clean[1:]), nil
}
