package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// structuredDataSignals is the per-page structured-data tally: raw
// JSON-LD/microdata occurrence counts plus the deduplicated union of
// schema @type values found across both sources.
type structuredDataSignals struct {
	jsonLDCount   int
	microdata     int
	schemaTypes   []string
	hasStructured bool
}

// extractStructuredData collects every <script type="application/ld+json">
// and every [itemscope] element. JSON-LD parse failures are swallowed per
// the analyzer's best-effort contract: a malformed block simply
// contributes no types, it does not abort extraction.
func extractStructuredData(doc *goquery.Document) structuredDataSignals {
	seen := make(map[string]struct{})
	var types []string

	addType := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}

	var signals structuredDataSignals

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		signals.jsonLDCount++
		for _, t := range parseJSONLDTypes(s.Text()) {
			addType(t)
		}
	})

	doc.Find("[itemscope]").Each(func(_ int, s *goquery.Selection) {
		signals.microdata++
		itemtype, exists := s.Attr("itemtype")
		if !exists {
			return
		}
		if t := lastPathSegment(itemtype); t != "" {
			addType(t)
		}
	})

	signals.schemaTypes = types
	signals.hasStructured = len(types) > 0
	return signals
}

// parseJSONLDTypes extracts every @type value from a JSON-LD block,
// whether it is a single object, an array of objects, or an object whose
// @type is itself an array of strings.
func parseJSONLDTypes(raw string) []string {
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	switch v := parsed.(type) {
	case []interface{}:
		var out []string
		for _, el := range v {
			if m, ok := el.(map[string]interface{}); ok {
				out = append(out, typeFieldOf(m)...)
			}
		}
		return out
	case map[string]interface{}:
		return typeFieldOf(v)
	default:
		return nil
	}
}

func typeFieldOf(m map[string]interface{}) []string {
	t, ok := m["@type"]
	if !ok {
		return nil
	}
	switch tv := t.(type) {
	case string:
		return []string{tv}
	case []interface{}:
		var out []string
		for _, e := range tv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func lastPathSegment(itemtype string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(itemtype), "/")
	if trimmed == "" {
		return ""
	}
	idx := strings.LastIndexByte(trimmed, '/')
	if idx == -1 {
		return trimmed
	}
	return trimmed[idx+1:]
}
