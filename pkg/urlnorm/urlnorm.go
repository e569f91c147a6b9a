package urlnorm

import (
	"net/url"
	"strings"
)

// Canonicalize applies a deterministic normalization to a URL, producing a canonical form.
// It maps equivalent URL spellings to a single canonical representation.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Path is cleaned (trailing slashes removed, except for root "/")
//   - Fragments are removed
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//   - Query strings are kept as-is; they participate in equality
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: Canonicalize(Canonicalize(u)) == Canonicalize(u)
//   - Context-free: does not depend on crawl history
func Canonicalize(sourceURL url.URL) url.URL {
	canonical := sourceURL

	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
	} else if canonical.Path == "" {
		canonical.Path = "/"
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""

	return canonical
}

// String renders the canonical form deterministically, independent of how the
// original URL happened to escape its query string.
func String(u url.URL) string {
	c := Canonicalize(u)
	return c.String()
}

// SameDomain compares two hosts after stripping a single leading "www." from
// each. Subdomains beyond that are not merged: "blog.example.com" and
// "example.com" are different domains.
func SameDomain(a, b string) bool {
	return stripWWW(lowerASCII(a)) == stripWWW(lowerASCII(b))
}

var nonHTMLExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "pdf": {}, "zip": {}, "exe": {},
	"dmg": {}, "mp3": {}, "mp4": {}, "avi": {}, "mov": {}, "css": {}, "js": {},
	"ico": {}, "xml": {}, "txt": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {},
	"ppt": {}, "pptx": {},
}

// IsNonHTMLResource reports whether the URL's path ends, case-insensitively,
// with an extension that this crawler never treats as a fetchable HTML page.
func IsNonHTMLResource(u url.URL) bool {
	path := lowerASCII(u.Path)
	idx := strings.LastIndexByte(path, '.')
	if idx == -1 || idx == len(path)-1 {
		return false
	}
	ext := path[idx+1:]
	_, isNonHTML := nonHTMLExtensions[ext]
	return isNonHTML
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
