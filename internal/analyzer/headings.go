package analyzer

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// headingSignals is the subset of SEORecord populated by walking the
// document's h1..h6 elements once, in document order.
type headingSignals struct {
	h1Count int
	h1_1    string

	h2Count int
	h2_1    string
	h2_2    string

	h3Count int
	h4Count int
	h5Count int
	h6Count int

	hierarchyValid bool
}

// extractHeadingSignals walks every h1-h6 element in document order,
// tallying per-level counts and capturing the first h1 and first two h2
// texts, while validating the heading hierarchy: level must never jump by
// more than +1 over the previous heading (first heading sets the
// baseline). A document with no headings is trivially valid.
func extractHeadingSignals(doc *goquery.Document) headingSignals {
	signals := headingSignals{hierarchyValid: true}

	prevLevel := 0
	first := true

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := headingLevel(goquery.NodeName(s))
		if level == 0 {
			return
		}

		text := collapseWhitespace(s.Text())
		switch level {
		case 1:
			signals.h1Count++
			if signals.h1Count == 1 {
				signals.h1_1 = text
			}
		case 2:
			signals.h2Count++
			if signals.h2Count == 1 {
				signals.h2_1 = text
			} else if signals.h2Count == 2 {
				signals.h2_2 = text
			}
		case 3:
			signals.h3Count++
		case 4:
			signals.h4Count++
		case 5:
			signals.h5Count++
		case 6:
			signals.h6Count++
		}

		if first {
			prevLevel = level
			first = false
			return
		}
		if level > prevLevel+1 {
			signals.hierarchyValid = false
		}
		prevLevel = level
	})

	return signals
}

func headingLevel(tag string) int {
	if len(tag) != 2 || tag[0] != 'h' {
		return 0
	}
	n, err := strconv.Atoi(tag[1:])
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}
