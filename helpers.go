package pagesblog

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/pagesblog/views"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostLink is the absolute URL of a post on this site.
func PostLink(base, file string) string {
	return views.AbsPostURL(base, file)
}

// safeReturn accepts only same-site paths as redirect targets.
func safeReturn(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return ""
	}
	u, err := url.Parse(target)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return target
}

// refererPath returns the path and query of a same-host referer.
func refererPath(referer, host string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Host != host {
		return ""
	}
	return safeReturn(u.RequestURI())
}
