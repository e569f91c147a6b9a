package analyzer

import (
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rohmanhakim/seo-auditor/pkg/urlnorm"
)

// linkSignals is the per-page link tally plus the resolved, absolute link
// targets the orchestrator feeds back into the frontier as discovered
// URLs.
type linkSignals struct {
	internal   int
	external   int
	discovered []url.URL
}

// extractLinks walks every <a href>, skipping fragment-only, mailto, tel,
// and javascript targets. A relative or root-relative href always counts
// as internal; an absolute href is classified by same_domain against
// finalURL.
func extractLinks(doc *goquery.Document, finalURL url.URL) linkSignals {
	var signals linkSignals

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		trimmed := strings.TrimSpace(href)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			return
		}

		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") || strings.HasPrefix(lower, "javascript:") {
			return
		}

		parsed, err := url.Parse(trimmed)
		if err != nil {
			return
		}

		var resolved url.URL
		var isInternal bool
		if parsed.Host == "" {
			resolved = *finalURL.ResolveReference(parsed)
			isInternal = true
		} else {
			resolved = *parsed
			isInternal = urlnorm.SameDomain(parsed.Host, finalURL.Host)
		}

		if isInternal {
			signals.internal++
		} else {
			signals.external++
		}
		signals.discovered = append(signals.discovered, resolved)
	})

	return signals
}

// imageSignals is the per-page image/alt-text tally.
type imageSignals struct {
	total          int
	withAlt        int
	withoutAlt     int
	altCoveragePct float64
}

// extractImages counts <img> elements and their alt-text coverage.
// Alt_Text_Coverage_pct is round(with_alt/total*100, 1), or 0 with no images.
func extractImages(doc *goquery.Document) imageSignals {
	var signals imageSignals

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		signals.total++
		alt, _ := s.Attr("alt")
		if strings.TrimSpace(alt) != "" {
			signals.withAlt++
		} else {
			signals.withoutAlt++
		}
	})

	if signals.total > 0 {
		pct := float64(signals.withAlt) / float64(signals.total) * 100
		signals.altCoveragePct = math.Round(pct*10) / 10
	}

	return signals
}
