// Package patternmatch compiles the include/exclude pattern strings accepted
// by the crawl config into matchers usable against candidate URLs.
//
// A pattern is one of two things:
//   - a wildcard, if it contains '*' and does not start with '^': '*' is
//     translated to ".*", '?' to ".", and the result is anchored at both ends
//   - otherwise, a regular expression used as-is
//
// Invalid patterns (on either path) are dropped silently rather than
// rejected, matching the permissive behavior of the source this was ported
// from: a typo in one exclude pattern should not abort a crawl.
package patternmatch

import (
	"regexp"
	"strings"
)

type Pattern struct {
	source string
	regexp *regexp.Regexp
}

// Compile translates each raw pattern string into a Pattern, dropping any
// pattern that does not compile to a valid regular expression.
func Compile(rawPatterns []string) []Pattern {
	compiled := make([]Pattern, 0, len(rawPatterns))
	for _, raw := range rawPatterns {
		re, ok := compileOne(raw)
		if !ok {
			continue
		}
		compiled = append(compiled, Pattern{source: raw, regexp: re})
	}
	return compiled
}

func compileOne(raw string) (*regexp.Regexp, bool) {
	var exprSource string
	if strings.Contains(raw, "*") && !strings.HasPrefix(raw, "^") {
		exprSource = "^" + wildcardToRegexp(raw) + "$"
	} else {
		exprSource = raw
	}

	re, err := regexp.Compile(exprSource)
	if err != nil {
		return nil, false
	}
	return re, true
}

func wildcardToRegexp(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// Source returns the original, uncompiled pattern string.
func (p Pattern) Source() string {
	return p.source
}

// MatchAny reports whether candidate matches at least one compiled pattern.
// An empty pattern set never matches anything.
func MatchAny(candidate string, patterns []Pattern) bool {
	for _, p := range patterns {
		if p.regexp.MatchString(candidate) {
			return true
		}
	}
	return false
}
