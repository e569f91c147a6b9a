package analyzer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

/*
Readability text extraction

Remove <script> <style> <nav> <footer> <header> <aside>; prefer the
content of the first <main>, <article>, or a <div> whose class matches
content|main|post|article; fall back to the body.
*/

var contentClassPattern = regexp.MustCompile(`(?i)(content|main|post|article)`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// extractReadabilityText walks a cloned copy of doc (the caller's original
// is left untouched for the other extraction passes) and returns the
// whitespace-collapsed text of the preferred content container.
func extractReadabilityText(doc *goquery.Document) string {
	cloned := goquery.CloneDocument(doc)
	cloned.Find("script, style, nav, footer, header, aside").Remove()

	container := selectContentContainer(cloned)
	raw := container.Text()
	return collapseWhitespace(raw)
}

func selectContentContainer(doc *goquery.Document) *goquery.Selection {
	if main := doc.Find("main").First(); main.Length() > 0 {
		return main
	}
	if article := doc.Find("article").First(); article.Length() > 0 {
		return article
	}

	var match *goquery.Selection
	doc.Find("div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if contentClassPattern.MatchString(class) {
			sel := s
			match = sel
			return false
		}
		return true
	})
	if match != nil {
		return match
	}

	return doc.Find("body").First()
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// wordCount is a whitespace-split length.
func wordCount(text string) int {
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// sentenceCount sums the occurrences of '.', '!', '?' in text.
func sentenceCount(text string) int {
	count := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			count++
		}
	}
	return count
}

// fleschReadingEase applies the standard formula and bands the result. An
// empty text yields score 0 and level "N/A".
func fleschReadingEase(text string) (score float64, level string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0, "N/A"
	}

	sentences := sentenceCount(text)
	if sentences < 1 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsF := float64(len(words))
	sentencesF := float64(sentences)
	syllablesF := float64(syllables)

	score = 206.835 - 1.015*(wordsF/sentencesF) - 84.6*(syllablesF/wordsF)
	return score, readabilityBand(score)
}

func readabilityBand(score float64) string {
	switch {
	case score >= 90:
		return "Very Easy"
	case score >= 80:
		return "Easy"
	case score >= 70:
		return "Fairly Easy"
	case score >= 60:
		return "Standard"
	case score >= 50:
		return "Fairly Difficult"
	case score >= 30:
		return "Difficult"
	default:
		return "Very Difficult"
	}
}

var vowelGroupPattern = regexp.MustCompile(`[aeiouy]+`)
var wordCharPattern = regexp.MustCompile(`[^a-z]`)

// countSyllables is a standard vowel-group heuristic: count runs of
// vowels, drop a trailing silent 'e', floor at one syllable per word.
func countSyllables(word string) int {
	w := wordCharPattern.ReplaceAllString(strings.ToLower(word), "")
	if w == "" {
		return 0
	}

	groups := vowelGroupPattern.FindAllString(w, -1)
	n := len(groups)

	if strings.HasSuffix(w, "e") && n > 1 {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}
