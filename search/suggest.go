package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/eringen/pagesblog/post"
)

const (
	minSuggestLen  = 2
	maxSuggestions = 5
)

// Suggest returns up to five distinct titles, tags and categories containing
// query, in order of first appearance. Queries shorter than two characters
// once trimmed yield nothing; matching uses the query as typed, spaces
// included.
func Suggest(query string, posts []post.Post) []string {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < minSuggestLen {
		return []string{}
	}
	term := strings.ToLower(query)

	seen := make(map[string]struct{})
	suggestions := []string{}
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		suggestions = append(suggestions, s)
	}
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), term) {
			add(p.Title)
		}
		for _, t := range p.Tags {
			if strings.Contains(strings.ToLower(t), term) {
				add(t)
			}
		}
		if p.Category != "" && strings.Contains(strings.ToLower(p.Category), term) {
			add(p.Category)
		}
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// Segment is a run of text, marked when it matched the highlighted term.
type Segment struct {
	Text  string
	Match bool
}

// Segments splits text into runs around every case-insensitive occurrence of
// term. A blank term yields a single unmarked segment.
func Segments(text, term string) []Segment {
	if strings.TrimSpace(term) == "" || text == "" {
		return []Segment{{Text: text}}
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	var segs []Segment
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segs = append(segs, Segment{Text: text[last:loc[0]]})
		}
		segs = append(segs, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	return segs
}

// Highlight wraps every case-insensitive occurrence of term in a
// <mark class="search-highlight"> element. text is not escaped.
func Highlight(text, term string) string {
	var b strings.Builder
	for _, s := range Segments(text, term) {
		if s.Match {
			b.WriteString(`<mark class="search-highlight">`)
			b.WriteString(s.Text)
			b.WriteString(`</mark>`)
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
