package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
)

// Source opens named resources relative to a content root.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// HTTPSource fetches resources below a base URL, such as a GitHub Pages site.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource returns a source rooted at base. A nil client uses
// http.DefaultClient.
func NewHTTPSource(base string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse content url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("content url %q: unsupported scheme", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: u, client: client}, nil
}

// Open issues a GET for name. Non-2xx responses are LoadErrors carrying the
// status code.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(escapePath(name))
	if err != nil {
		return nil, &LoadError{Resource: name, Err: err}
	}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &LoadError{Resource: name, Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &LoadError{Resource: name, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &LoadError{Resource: name, Status: resp.StatusCode}
	}
	return resp.Body, nil
}

// escapePath percent-encodes each segment so names with spaces or '?' stay
// part of the path.
func escapePath(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// FSSource reads resources from a filesystem, usually os.DirFS.
type FSSource struct {
	FS fs.FS
}

// Open opens name in the filesystem.
func (s FSSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := s.FS.Open(name)
	if err != nil {
		return nil, &LoadError{Resource: name, Err: err}
	}
	return f, nil
}
