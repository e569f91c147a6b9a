package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/seo-auditor/internal/analyzer"
)

func analyzeParams() analyzer.AnalyzeParams {
	return analyzer.AnalyzeParams{
		Address:         "https://example.com/page",
		FinalURL:        "https://example.com/page",
		StatusCode:      "200",
		ContentType:     "text/html; charset=utf-8",
		LoadTimeS:       0.25,
		CrawlDepth:      1,
		DiscoverySource: "discovered",
	}
}

func analyze(t *testing.T, params analyzer.AnalyzeParams, body string) analyzer.AnalysisResult {
	t.Helper()
	a := analyzer.NewPageAnalyzer(nil)
	return a.Analyze(params, []byte(body))
}

func TestAnalyze_StampsEnvelopeFields(t *testing.T) {
	result := analyze(t, analyzeParams(), "<html><head><title>Hi</title></head><body></body></html>")

	record := result.Record
	assert.Equal(t, "https://example.com/page", record.Address)
	assert.Equal(t, "https://example.com/page", record.FinalURL)
	assert.Equal(t, "200", record.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", record.ContentType)
	assert.Equal(t, 0.25, record.LoadTimeS)
	assert.Equal(t, 1, record.CrawlDepth)
	assert.Equal(t, "discovered", record.DiscoverySource)
}

func TestAnalyze_TitleAndMetaDescription(t *testing.T) {
	body := `<html><head>
		<title>  My   Page  </title>
		<meta name="description" content="A short description.">
	</head><body></body></html>`

	record := analyze(t, analyzeParams(), body).Record

	assert.Equal(t, "My Page", record.Title)
	assert.Equal(t, 7, record.TitleLength)
	assert.Equal(t, "A short description.", record.MetaDescription)
	assert.Equal(t, 20, record.MetaDescriptionLength)
}

func TestAnalyze_MissingTitleAndMetaLeftBlank(t *testing.T) {
	record := analyze(t, analyzeParams(), "<html><head></head><body><p>hello</p></body></html>").Record

	assert.Empty(t, record.Title)
	assert.Zero(t, record.TitleLength)
	assert.Empty(t, record.MetaDescription)
	assert.Zero(t, record.MetaDescriptionLength)
}

func TestAnalyze_HeadingSignals(t *testing.T) {
	body := `<html><body>
		<h1>First Heading</h1>
		<h2>Section One</h2>
		<h2>Section Two</h2>
		<h2>Section Three</h2>
		<h3>Subsection</h3>
	</body></html>`

	record := analyze(t, analyzeParams(), body).Record

	assert.Equal(t, 1, record.H1Count)
	assert.Equal(t, "First Heading", record.H1_1)
	assert.Equal(t, 13, record.H1_1Length)
	assert.Equal(t, 3, record.H2Count)
	assert.Equal(t, "Section One", record.H2_1)
	assert.Equal(t, "Section Two", record.H2_2)
	assert.Equal(t, 1, record.H3Count)
	assert.True(t, record.HeadingHierarchyValid)
}

func TestAnalyze_HeadingHierarchyInvalidOnLevelJump(t *testing.T) {
	body := `<html><body>
		<h1>Top</h1>
		<h3>Skipped a level</h3>
	</body></html>`

	record := analyze(t, analyzeParams(), body).Record

	assert.False(t, record.HeadingHierarchyValid)
}

func TestAnalyze_HeadingHierarchyFirstHeadingSetsBaseline(t *testing.T) {
	// Starting at h2 is fine: only jumps relative to the previous heading count.
	body := `<html><body>
		<h2>Intro</h2>
		<h3>Detail</h3>
		<h2>Next</h2>
	</body></html>`

	record := analyze(t, analyzeParams(), body).Record

	assert.True(t, record.HeadingHierarchyValid)
}

func TestAnalyze_NoHeadingsTriviallyValid(t *testing.T) {
	record := analyze(t, analyzeParams(), "<html><body><p>text</p></body></html>").Record

	assert.Zero(t, record.H1Count)
	assert.True(t, record.HeadingHierarchyValid)
}

func TestAnalyze_LinkClassification(t *testing.T) {
	body := `<html><body>
		<a href="/about">About</a>
		<a href="contact.html">Contact</a>
		<a href="https://www.example.com/pricing">Pricing</a>
		<a href="https://other.net/x">Elsewhere</a>
		<a href="#top">Top</a>
		<a href="mailto:hi@example.com">Mail</a>
		<a href="tel:+123">Call</a>
		<a href="javascript:void(0)">JS</a>
	</body></html>`

	record := analyze(t, analyzeParams(), body).Record

	// Relative and root-relative are internal; www.example.com matches
	// example.com after www-stripping; other.net is external. Fragment,
	// mailto, tel, and javascript targets are ignored entirely.
	assert.Equal(t, 3, record.InternalLinks)
	assert.Equal(t, 1, record.ExternalLinks)
	assert.Equal(t, 4, record.TotalLinks)
	assert.Equal(t, record.InternalLinks+record.ExternalLinks, record.TotalLinks)
}

func TestAnalyze_DiscoveredLinksResolvedAgainstFinalURL(t *testing.T) {
	params := analyzeParams()
	params.FinalURL = "https://example.com/docs/start"

	body := `<html><body><a href="../guide">Guide</a></body></html>`

	result := analyze(t, params, body)

	require.Len(t, result.Links, 1)
	assert.Equal(t, "https://example.com/guide", result.Links[0].String())
}

func TestAnalyze_ImageAltCoverage(t *testing.T) {
	body := `<html><body>
		<img src="a.png" alt="A diagram">
		<img src="b.png" alt="">
		<img src="c.png">
	</body></html>`

	record := analyze(t, analyzeParams(), body).Record

	assert.Equal(t, 3, record.TotalImages)
	assert.Equal(t, 1, record.ImagesWithAlt)
	assert.Equal(t, 2, record.ImagesWithoutAlt)
	assert.Equal(t, 33.3, record.AltTextCoveragePct)
}

func TestAnalyze_NoImagesZeroCoverage(t *testing.T) {
	record := analyze(t, analyzeParams(), "<html><body></body></html>").Record

	assert.Zero(t, record.TotalImages)
	assert.Zero(t, record.AltTextCoveragePct)
}

func TestAnalyze_ContentCountsPreferMainContainer(t *testing.T) {
	body := `<html><body>
		<nav>Skip this navigation text entirely</nav>
		<main><p>One two three four. Five six!</p></main>
		<footer>Also skipped</footer>
		<p>Outside main, still counted as a paragraph</p>
	</body></html>`

	record := analyze(t, analyzeParams(), body).Record

	// Word and sentence counts come from <main> only; paragraph count is
	// document-wide.
	assert.Equal(t, 6, record.WordCount)
	assert.Equal(t, 2, record.SentenceCount)
	assert.Equal(t, 2, record.ParagraphCount)
}

func TestAnalyze_ContentDivClassFallback(t *testing.T) {
	body := `<html><body>
		<div class="sidebar">ignored sidebar words here</div>
		<div class="post-content"><p>Body words live here now.</p></div>
	</body></html>`

	record := analyze(t, analyzeParams(), body).Record

	assert.Equal(t, 5, record.WordCount)
}

func TestAnalyze_EmptyBodyReadability(t *testing.T) {
	record := analyze(t, analyzeParams(), "<html><body></body></html>").Record

	assert.Zero(t, record.WordCount)
	assert.Zero(t, record.FleschScore)
	assert.Equal(t, "N/A", record.ReadabilityLevel)
	assert.Empty(t, record.ContentHash)
}

func TestAnalyze_SimpleTextReadsEasy(t *testing.T) {
	body := `<html><body><main><p>The cat sat. The dog ran. We all had fun.</p></main></body></html>`

	record := analyze(t, analyzeParams(), body).Record

	assert.Greater(t, record.FleschScore, 80.0)
	assert.Contains(t, []string{"Very Easy", "Easy"}, record.ReadabilityLevel)
	assert.NotEmpty(t, record.ContentHash)
}

func TestAnalyze_StructuredDataJSONLD(t *testing.T) {
	body := `<html><head>
		<script type="application/ld+json">{"@context":"https://schema.org","@type":"Article"}</script>
		<script type="application/ld+json">[{"@type":"Person"},{"@type":["Organization","Brand"]}]</script>
		<script type="application/ld+json">not even json</script>
	</head><body></body></html>`

	record := analyze(t, analyzeParams(), body).Record

	// The malformed block still counts as a JSON-LD occurrence but
	// contributes no types.
	assert.Equal(t, 3, record.JSONLDCount)
	assert.Equal(t, []string{"Article", "Person", "Organization", "Brand"}, record.SchemaTypes)
	assert.True(t, record.HasStructuredData)
}

func TestAnalyze_StructuredDataMicrodata(t *testing.T) {
	body := `<html><body>
		<div itemscope itemtype="https://schema.org/Product">
			<span itemprop="name">Widget</span>
		</div>
		<div itemscope itemtype="https://schema.org/Product/"></div>
	</body></html>`

	record := analyze(t, analyzeParams(), body).Record

	assert.Equal(t, 2, record.MicrodataCount)
	assert.Equal(t, []string{"Product"}, record.SchemaTypes)
	assert.True(t, record.HasStructuredData)
}

func TestAnalyze_NoStructuredData(t *testing.T) {
	record := analyze(t, analyzeParams(), "<html><body><p>plain</p></body></html>").Record

	assert.Zero(t, record.JSONLDCount)
	assert.Zero(t, record.MicrodataCount)
	assert.Empty(t, record.SchemaTypes)
	assert.False(t, record.HasStructuredData)
}

func TestAnalyze_MetaRobotsAndCanonical(t *testing.T) {
	body := `<html><head>
		<meta name="robots" content="index, follow">
		<link rel="canonical" href="https://example.com/canonical">
	</head><body></body></html>`

	record := analyze(t, analyzeParams(), body).Record

	assert.Equal(t, "index, follow", record.MetaRobots)
	assert.Equal(t, "https://example.com/canonical", record.Canonical)
	assert.Equal(t, analyzer.Indexable, record.Indexability)
}

func TestAnalyze_NoindexHonored(t *testing.T) {
	body := `<html><head><meta name="robots" content="NOINDEX, nofollow"></head>
		<body><a href="/next">Next</a></body></html>`

	result := analyze(t, analyzeParams(), body)

	assert.Equal(t, analyzer.NonIndexable, result.Record.Indexability)
	// noindex labels the page; it never suppresses link extraction.
	assert.Len(t, result.Links, 1)
}

func TestAnalyze_NoindexOverridden(t *testing.T) {
	params := analyzeParams()
	params.IgnoreNoindex = true

	body := `<html><head><meta name="robots" content="noindex"></head><body></body></html>`

	record := analyze(t, params, body).Record

	assert.Equal(t, analyzer.NonIndexableCrawledAnyway, record.Indexability)
}

func TestAnalyze_MalformedHTMLNeverErrors(t *testing.T) {
	// The parser is lenient: truncated tag soup still yields a record.
	body := `<html><head><title>Broken</head><body><div><p>unclosed`

	record := analyze(t, analyzeParams(), body).Record

	// <title> is raw text and is never closed, so its text runs to the end
	// of the input.
	assert.Equal(t, "Broken</head><body><div><p>unclosed", record.Title)
	assert.Equal(t, "200", record.StatusCode)
}
