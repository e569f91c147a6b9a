package issues

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rohmanhakim/seo-auditor/internal/analyzer"
)

/*
Responsibilities

- Evaluate the per-page rules against every record
- Evaluate the cross-page duplicate rules (title, meta description, content)
- Sort the combined issue list by severity, preserving insertion order
  within a severity
- Reduce an issue list to a Summary, including the Health Score

DetectIssues never mutates records and never errors: a record that isn't a
parsed HTML page (redirects, non-HTML, fetch failures) is still eligible for
the Server Error rule, since that rule is envelope-only, but is skipped by
every on-page rule.
*/

var serverErrorStatusCodes = map[int]bool{
	404: true,
	500: true,
	502: true,
	503: true,
}

// DetectIssues runs every per-page and cross-page rule over records and
// returns the combined, severity-sorted issue list.
func DetectIssues(records []analyzer.SEORecord) []Issue {
	var issues []Issue

	titles := newGroupSet()
	metaDescriptions := newGroupSet()
	contentHashes := newGroupSet()

	for _, record := range records {
		if title := strings.TrimSpace(record.Title); title != "" {
			titles.add(title, record.Address)
		}
		if meta := strings.TrimSpace(record.MetaDescription); meta != "" {
			metaDescriptions.add(meta, record.Address)
		}
		if hash := record.ContentHash; hash != "" {
			contentHashes.add(hash, record.Address)
		}

		issues = append(issues, pageIssues(record)...)
	}

	issues = append(issues, duplicateIssues(titles, metaDescriptions, contentHashes)...)

	sort.SliceStable(issues, func(i, j int) bool {
		return severityRank(issues[i].Severity) < severityRank(issues[j].Severity)
	})

	return issues
}

// isAnalyzedPage reports whether record went through PageAnalyzer.Analyze,
// as opposed to being an envelope-only record for a redirect, non-HTML
// response, or fetch failure. Only analyzed pages are eligible for the
// on-page content rules; the Server Error rule is the one exception and is
// evaluated against the envelope directly.
func isAnalyzedPage(record analyzer.SEORecord) bool {
	if !strings.Contains(strings.ToLower(record.ContentType), "html") {
		return false
	}
	code, err := strconv.Atoi(record.StatusCode)
	if err != nil {
		return false
	}
	return code >= 200 && code < 300
}

// pageIssues evaluates the eleven per-page rules against a single record.
func pageIssues(record analyzer.SEORecord) []Issue {
	var issues []Issue

	if code, err := strconv.Atoi(record.StatusCode); err == nil && serverErrorStatusCodes[code] {
		issues = append(issues, Issue{
			Type:        "Server Error",
			URL:         record.Address,
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("HTTP %d error", code),
			Impact:      "Page cannot be indexed by search engines",
			Fix:         "Fix server configuration or restore missing content",
			Category:    categoryTechnicalSEO,
		})
	}

	if !isAnalyzedPage(record) {
		return issues
	}

	if strings.TrimSpace(record.Title) == "" {
		issues = append(issues, Issue{
			Type:        "Missing Title",
			URL:         record.Address,
			Severity:    SeverityCritical,
			Description: "Page has no title tag",
			Impact:      "Blocks proper indexing and search result display",
			Fix:         "Add a unique, descriptive title tag (50-60 characters)",
			Category:    categoryTechnicalSEO,
		})
	}

	if record.H1Count == 0 {
		issues = append(issues, Issue{
			Type:        "Missing H1",
			URL:         record.Address,
			Severity:    SeverityHigh,
			Description: "Page has no H1 heading",
			Impact:      "Reduces content structure and SEO effectiveness",
			Fix:         "Add a single, descriptive H1 tag that matches the page topic",
			Category:    categoryContent,
		})
	}
	if record.H1Count > 1 {
		issues = append(issues, Issue{
			Type:        "Multiple H1",
			URL:         record.Address,
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Page has %d H1 tags", record.H1Count),
			Impact:      "Confuses search engines about page topic hierarchy",
			Fix:         "Use only one H1 tag per page, convert others to H2-H6",
			Category:    categoryContent,
		})
	}

	if strings.TrimSpace(record.MetaDescription) == "" {
		issues = append(issues, Issue{
			Type:        "Missing Meta Description",
			URL:         record.Address,
			Severity:    SeverityHigh,
			Description: "Page has no meta description",
			Impact:      "Search engines will generate their own snippet",
			Fix:         "Add a compelling meta description (150-160 characters)",
			Category:    categoryTechnicalSEO,
		})
	}

	if record.TitleLength > 60 {
		issues = append(issues, Issue{
			Type:        "Title Too Long",
			URL:         record.Address,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Title tag is %d characters (recommended: 50-60)", record.TitleLength),
			Impact:      "Title may be truncated in search results",
			Fix:         "Shorten title to 50-60 characters while keeping it descriptive",
			Category:    categoryContent,
		})
	}

	if record.MetaDescriptionLength > 160 {
		issues = append(issues, Issue{
			Type:        "Meta Description Too Long",
			URL:         record.Address,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Meta description is %d characters (recommended: 150-160)", record.MetaDescriptionLength),
			Impact:      "Description may be truncated in search results",
			Fix:         "Shorten meta description to 150-160 characters",
			Category:    categoryTechnicalSEO,
		})
	}

	if record.WordCount < 300 {
		issues = append(issues, Issue{
			Type:        "Thin Content",
			URL:         record.Address,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Page has only %d words", record.WordCount),
			Impact:      "May be considered low-quality content by search engines",
			Fix:         "Expand content to at least 300 words with valuable information",
			Category:    categoryContent,
		})
	}

	if !record.HeadingHierarchyValid {
		issues = append(issues, Issue{
			Type:        "Poor Heading Hierarchy",
			URL:         record.Address,
			Severity:    SeverityMedium,
			Description: "Heading tags skip levels (e.g., H1 to H3)",
			Impact:      "Reduces content accessibility and SEO structure",
			Fix:         "Use heading tags in proper order: H1 -> H2 -> H3 -> H4",
			Category:    categoryContent,
		})
	}

	if record.ImagesWithoutAlt > 0 {
		issues = append(issues, Issue{
			Type:        "Missing Alt Text",
			URL:         record.Address,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("%d images missing alt text", record.ImagesWithoutAlt),
			Impact:      "Reduces accessibility and image SEO potential",
			Fix:         "Add descriptive alt text to all images",
			Category:    categoryAccessibility,
		})
	}

	if record.FleschScore < 30 {
		issues = append(issues, Issue{
			Type:        "Difficult Readability",
			URL:         record.Address,
			Severity:    SeverityLow,
			Description: fmt.Sprintf("Readability score: %.1f (Very Difficult)", record.FleschScore),
			Impact:      "Content may be hard for users to understand",
			Fix:         "Simplify language, use shorter sentences and paragraphs",
			Category:    categoryContent,
		})
	}

	if strings.TrimSpace(record.Canonical) == "" {
		issues = append(issues, Issue{
			Type:        "Missing Canonical Tag",
			URL:         record.Address,
			Severity:    SeverityLow,
			Description: "Page has no canonical tag",
			Impact:      "May cause duplicate content issues",
			Fix:         "Add self-referencing canonical tag or specify preferred URL",
			Category:    categoryTechnicalSEO,
		})
	}

	return issues
}

// groupSet buckets URLs by a shared key (title, meta description, content
// hash) while remembering first-occurrence order, so callers can walk groups
// deterministically instead of relying on Go's randomized map iteration.
type groupSet struct {
	order []string
	urls  map[string][]string
}

func newGroupSet() *groupSet {
	return &groupSet{urls: make(map[string][]string)}
}

func (g *groupSet) add(key, url string) {
	if _, seen := g.urls[key]; !seen {
		g.order = append(g.order, key)
	}
	g.urls[key] = append(g.urls[key], url)
}

// duplicateIssues evaluates the cross-page rules: any title, meta
// description, or content hash shared by two or more pages flags every page
// in the group, in the order those groups first appeared in records.
func duplicateIssues(titles, metaDescriptions, contentHashes *groupSet) []Issue {
	var issues []Issue

	for _, title := range titles.order {
		urls := titles.urls[title]
		if len(urls) < 2 {
			continue
		}
		preview := title
		if len(preview) > 50 {
			preview = preview[:50]
		}
		for _, url := range urls {
			issues = append(issues, Issue{
				Type:        "Duplicate Title",
				URL:         url,
				Severity:    SeverityHigh,
				Description: fmt.Sprintf("Title %q is used on %d pages", preview, len(urls)),
				Impact:      "Search engines cannot distinguish between pages",
				Fix:         "Create unique, descriptive titles for each page",
				Category:    categoryTechnicalSEO,
			})
		}
	}

	for _, meta := range metaDescriptions.order {
		urls := metaDescriptions.urls[meta]
		if len(urls) < 2 {
			continue
		}
		for _, url := range urls {
			issues = append(issues, Issue{
				Type:        "Duplicate Meta Description",
				URL:         url,
				Severity:    SeverityMedium,
				Description: fmt.Sprintf("Meta description is used on %d pages", len(urls)),
				Impact:      "Reduces uniqueness and click-through rates",
				Fix:         "Write unique meta descriptions for each page",
				Category:    categoryTechnicalSEO,
			})
		}
	}

	for _, hash := range contentHashes.order {
		urls := contentHashes.urls[hash]
		if len(urls) < 2 {
			continue
		}
		for _, url := range urls {
			issues = append(issues, Issue{
				Type:        "Duplicate Content",
				URL:         url,
				Severity:    SeverityMedium,
				Description: fmt.Sprintf("Page content is identical across %d pages", len(urls)),
				Impact:      "Search engines may only index one of the duplicate pages",
				Fix:         "Differentiate or consolidate duplicate content with canonical tags or redirects",
				Category:    categoryContent,
			})
		}
	}

	return issues
}

// Summarize reduces an issue list to per-severity and per-category counts
// plus the derived Health Score.
func Summarize(allIssues []Issue) Summary {
	summary := Summary{
		Total:      len(allIssues),
		Categories: make(map[string]int),
	}

	score := 100
	for _, issue := range allIssues {
		switch issue.Severity {
		case SeverityCritical:
			summary.Critical++
		case SeverityHigh:
			summary.High++
		case SeverityMedium:
			summary.Medium++
		case SeverityLow:
			summary.Low++
		}
		score -= issue.Severity.weight()

		category := issue.Category
		if category == "" {
			category = "Other"
		}
		summary.Categories[category]++
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	summary.HealthScore = score
	summary.HealthBand = healthBand(score)

	return summary
}
