package orchestrator

import (
	"context"
	"net/url"
	"time"

	"github.com/rohmanhakim/seo-auditor/internal/analyzer"
	"github.com/rohmanhakim/seo-auditor/internal/robots"
	"github.com/rohmanhakim/seo-auditor/internal/sitemap"
)

/*
Responsibilities

- Hold the progress callback shapes
- Hold the narrow collaborator interfaces the orchestrator drives, so tests
  can inject stand-ins without depending on the concrete robots/sitemap/
  analyzer implementations
- Hold the Stats projection returned to the host after a crawl

Crawl() itself lives in orchestrator.go.
*/

// ProgressFunc reports page-crawl progress: current count, the configured
// max_pages budget, and the URL that was just recorded.
type ProgressFunc func(current, total int, currentURL string)

// InitProgressFunc reports setup-phase progress against named milestones,
// before the frontier pop loop starts.
type InitProgressFunc func(percent int, status string)

// Robot is the subset of robots.CachedRobot the orchestrator drives:
// permission decisions plus sitemap-hint discovery.
type Robot interface {
	Init(userAgent string, allowInsecureTLS bool)
	Decide(target url.URL) (robots.Decision, error)
	SitemapHints(target url.URL) ([]string, error)
}

// SitemapResolver is the subset of sitemap.Resolver the orchestrator drives.
type SitemapResolver interface {
	Init(allowInsecureTLS bool)
	Resolve(ctx context.Context, startURL url.URL, hints []string) sitemap.ResolveResult
}

// Analyzer is the subset of analyzer.PageAnalyzer the orchestrator drives.
type Analyzer interface {
	Analyze(params analyzer.AnalyzeParams, body []byte) analyzer.AnalysisResult
}

// Stats is the host-facing projection of a finished crawl's aggregate
// counters.
type Stats struct {
	TotalPages      int
	SkippedURLs     int
	RobotsTxtStatus string
	CrawlDelayUsed  time.Duration
	SitemapStatus   string
	URLsFromCrawl   int
	URLsFromSitemap int
}

const (
	robotsStatusFetched   = "fetched"
	robotsStatusFetchNone = "fetched-none"
	robotsStatusIgnored   = "ignored"
)
