// Package frontmatter splits a markdown document into its leading
// "---"-delimited key/value header and its body.
//
// The header format is deliberately small: one "key: value" pair per line,
// optional surrounding quotes, and a bracketed list for tags. Parsing never
// fails; a document without a well-formed header is all body.
package frontmatter

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	delimiter = "---\n"
	closing   = "\n---\n"
)

// Value is a front-matter value: either a single string or a list of strings.
type Value struct {
	str    string
	list   []string
	isList bool
}

// StringValue returns a scalar Value.
func StringValue(s string) Value {
	return Value{str: s}
}

// ListValue returns a list Value.
func ListValue(items []string) Value {
	return Value{list: append([]string{}, items...), isList: true}
}

// IsList reports whether v holds a list.
func (v Value) IsList() bool {
	return v.isList
}

// String returns the scalar value, or the list items joined with ", ".
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ", ")
	}
	return v.str
}

// List returns the list items. A scalar value yields a one-element list, or
// nil when the scalar is empty.
func (v Value) List() []string {
	if v.isList {
		return append([]string{}, v.list...)
	}
	if v.str == "" {
		return nil
	}
	return []string{v.str}
}

// MarshalJSON encodes a scalar as a JSON string and a list as a JSON array.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		items := v.list
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.str)
}

// FrontMatter is an ordered mapping of header keys to values. Keys keep the
// position of their first occurrence; a repeated key overwrites the value.
type FrontMatter struct {
	keys   []string
	values map[string]Value
}

// Set stores v under key.
func (fm *FrontMatter) Set(key string, v Value) {
	if fm.values == nil {
		fm.values = make(map[string]Value)
	}
	if _, ok := fm.values[key]; !ok {
		fm.keys = append(fm.keys, key)
	}
	fm.values[key] = v
}

// Get returns the value stored under key.
func (fm FrontMatter) Get(key string) (Value, bool) {
	v, ok := fm.values[key]
	return v, ok
}

// String returns the string form of key, or "" when absent.
func (fm FrontMatter) String(key string) string {
	v, ok := fm.values[key]
	if !ok {
		return ""
	}
	return v.String()
}

// Strings returns key as a list. ok is false when the key is absent.
func (fm FrontMatter) Strings(key string) ([]string, bool) {
	v, ok := fm.values[key]
	if !ok {
		return nil, false
	}
	return v.List(), true
}

// Keys returns the keys in header order.
func (fm FrontMatter) Keys() []string {
	return append([]string{}, fm.keys...)
}

// Len returns the number of keys.
func (fm FrontMatter) Len() int {
	return len(fm.keys)
}

// MarshalJSON encodes the mapping as a JSON object in header order.
func (fm FrontMatter) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range fm.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := fm.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// Parse splits doc into body and metadata. When doc does not open with a
// "---" header closed by a "---" line, the whole input is returned as body
// with empty metadata.
func Parse(doc string) (string, FrontMatter) {
	var fm FrontMatter
	if !strings.HasPrefix(doc, delimiter) {
		return doc, fm
	}
	rest := doc[len(delimiter):]
	end := strings.Index(rest, closing)
	if end < 0 {
		return doc, fm
	}
	header, body := rest[:end], rest[end+len(closing):]

	for _, line := range strings.Split(header, "\n") {
		colon := strings.Index(line, ":")
		if colon <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		value := unquote(strings.TrimSpace(line[colon+1:]))

		if key == "tags" && strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			fm.Set(key, ListValue(parseList(value)))
			continue
		}
		fm.Set(key, StringValue(value))
	}
	return body, fm
}

// Format serializes meta and body back into a document. Lists are written as
// JSON arrays so Parse reads them back unchanged.
func Format(meta FrontMatter, body string) string {
	var b strings.Builder
	b.WriteString(delimiter)
	for _, k := range meta.keys {
		v := meta.values[k]
		b.WriteString(k)
		b.WriteString(": ")
		if v.isList {
			enc, _ := v.MarshalJSON()
			b.Write(enc)
		} else {
			b.WriteString(v.str)
		}
		b.WriteByte('\n')
	}
	b.WriteString(delimiter)
	b.WriteString(body)
	return b.String()
}

// unquote strips one layer of matching double or single quotes. A lone quote
// character counts as both ends and unquotes to the empty string.
func unquote(s string) string {
	if s == "" {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		if len(s) == 1 {
			return ""
		}
		return s[1 : len(s)-1]
	}
	return s
}

// parseList reads a bracketed list. Strict JSON arrays are used as-is;
// anything else is split on commas with stray quotes trimmed per item.
func parseList(s string) []string {
	if gjson.Valid(s) {
		if parsed := gjson.Parse(s); parsed.IsArray() {
			items := []string{}
			for _, item := range parsed.Array() {
				items = append(items, item.String())
			}
			return items
		}
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 0 && isQuote(p[0]) {
			p = p[1:]
		}
		if len(p) > 0 && isQuote(p[len(p)-1]) {
			p = p[:len(p)-1]
		}
		parts[i] = p
	}
	return parts
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}
