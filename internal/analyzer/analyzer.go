package analyzer

import (
	"bytes"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/pkg/hashutil"
)

/*
Responsibilities

- Parse one text/html 2xx response into an SEORecord
- Extract links for the orchestrator to feed back into the frontier
- Never throw out of Analyze: every extraction step is best-effort

Analyze is only ever called for a text/html 2xx fetch; the caller is
responsible for envelope-only records (non-HTML, redirects, errors).
*/

// PageAnalyzer is the single entry point for on-page extraction.
type PageAnalyzer struct {
	metadataSink metadata.MetadataSink
}

// NewPageAnalyzer builds a PageAnalyzer that records parse failures
// through sink for observability only.
func NewPageAnalyzer(sink metadata.MetadataSink) PageAnalyzer {
	return PageAnalyzer{metadataSink: sink}
}

// AnalysisResult pairs the populated SEORecord with the absolute link
// targets discovered on the page, resolved against Final_URL.
type AnalysisResult struct {
	Record SEORecord
	Links  []url.URL
}

// Analyze parses body as HTML and populates every on-page field of the
// SEORecord, stamping params onto the fetch-envelope fields. A malformed
// document yields an envelope-only record rather than an error: parse
// failures are recorded via the metadata sink and otherwise swallowed.
func (a *PageAnalyzer) Analyze(params AnalyzeParams, body []byte) AnalysisResult {
	record := a.envelopeOnlyRecord(params)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		a.recordError(params.Address, &AnalyzerError{
			Message: err.Error(),
			Cause:   ErrCauseUnparseableHTML,
		})
		return AnalysisResult{Record: record}
	}

	finalURL, parseErr := url.Parse(params.FinalURL)
	if parseErr != nil {
		finalURL = &url.URL{}
	}

	record.Title = collapseWhitespace(doc.Find("title").First().Text())
	record.TitleLength = utf8.RuneCountInString(record.Title)

	metaDescription := doc.Find(`meta[name="description"]`).First().AttrOr("content", "")
	record.MetaDescription = collapseWhitespace(metaDescription)
	record.MetaDescriptionLength = utf8.RuneCountInString(record.MetaDescription)

	headings := extractHeadingSignals(doc)
	record.H1Count = headings.h1Count
	record.H1_1 = headings.h1_1
	record.H1_1Length = utf8.RuneCountInString(headings.h1_1)
	record.H2Count = headings.h2Count
	record.H2_1 = headings.h2_1
	record.H2_1Length = utf8.RuneCountInString(headings.h2_1)
	record.H2_2 = headings.h2_2
	record.H2_2Length = utf8.RuneCountInString(headings.h2_2)
	record.H3Count = headings.h3Count
	record.H4Count = headings.h4Count
	record.H5Count = headings.h5Count
	record.H6Count = headings.h6Count
	record.HeadingHierarchyValid = headings.hierarchyValid

	record.MetaRobots = doc.Find(`meta[name="robots"]`).First().AttrOr("content", "")
	record.Canonical = doc.Find(`link[rel="canonical"]`).First().AttrOr("href", "")

	text := extractReadabilityText(doc)
	record.WordCount = wordCount(text)
	record.ParagraphCount = doc.Find("p").Length()
	record.SentenceCount = sentenceCount(text)
	record.FleschScore, record.ReadabilityLevel = fleschReadingEase(text)
	record.ContentHash = a.contentHash(params.Address, text)

	links := extractLinks(doc, *finalURL)
	record.InternalLinks = links.internal
	record.ExternalLinks = links.external
	record.TotalLinks = links.internal + links.external

	images := extractImages(doc)
	record.TotalImages = images.total
	record.ImagesWithAlt = images.withAlt
	record.ImagesWithoutAlt = images.withoutAlt
	record.AltTextCoveragePct = images.altCoveragePct

	structured := extractStructuredData(doc)
	record.JSONLDCount = structured.jsonLDCount
	record.MicrodataCount = structured.microdata
	record.SchemaTypes = structured.schemaTypes
	record.HasStructuredData = structured.hasStructured

	record.Indexability = indexabilityLabel(record.MetaRobots, params.IgnoreNoindex)

	return AnalysisResult{Record: record, Links: links.discovered}
}

func (a *PageAnalyzer) envelopeOnlyRecord(params AnalyzeParams) SEORecord {
	return SEORecord{
		Address:         params.Address,
		FinalURL:        params.FinalURL,
		StatusCode:      params.StatusCode,
		ContentType:     params.ContentType,
		LoadTimeS:       params.LoadTimeS,
		CrawlDepth:      params.CrawlDepth,
		DiscoverySource: params.DiscoverySource,
	}
}

func (a *PageAnalyzer) contentHash(address string, text string) string {
	if text == "" {
		return ""
	}
	hash, err := hashutil.HashBytes([]byte(strings.ToLower(text)), hashutil.HashAlgoBLAKE3)
	if err != nil {
		a.recordError(address, &AnalyzerError{
			Message: err.Error(),
			Cause:   ErrCauseStructuredData,
		})
		return ""
	}
	return hash
}

func (a *PageAnalyzer) recordError(address string, err *AnalyzerError) {
	if a.metadataSink == nil {
		return
	}
	a.metadataSink.RecordError(
		time.Now(),
		"analyzer",
		"PageAnalyzer.Analyze",
		mapAnalyzerErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, address)},
	)
}

// indexabilityLabel applies the noindex rule: <meta name="robots"> is used
// for indexability labeling only, never to suppress link extraction.
func indexabilityLabel(metaRobots string, ignoreNoindex bool) Indexability {
	if strings.Contains(strings.ToLower(metaRobots), "noindex") {
		if ignoreNoindex {
			return NonIndexableCrawledAnyway
		}
		return NonIndexable
	}
	return Indexable
}
