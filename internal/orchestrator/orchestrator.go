package orchestrator

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/seo-auditor/internal/analyzer"
	"github.com/rohmanhakim/seo-auditor/internal/config"
	"github.com/rohmanhakim/seo-auditor/internal/fetcher"
	"github.com/rohmanhakim/seo-auditor/internal/frontier"
	"github.com/rohmanhakim/seo-auditor/internal/issues"
	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/internal/robots"
	"github.com/rohmanhakim/seo-auditor/internal/sitemap"
	"github.com/rohmanhakim/seo-auditor/pkg/failure"
	"github.com/rohmanhakim/seo-auditor/pkg/limiter"
	"github.com/rohmanhakim/seo-auditor/pkg/retry"
	"github.com/rohmanhakim/seo-auditor/pkg/urlnorm"
)

/*
Responsibilities

- Wire robots, sitemap, frontier, fetcher, analyzer, and the rate limiter
  into a single crawl run
- Drive the admission-choke-point loop: Pop the frontier, fetch, analyze,
  feed discovered same-domain links back in, record one SEORecord per
  popped candidate
- Report init-phase progress against named milestones, then per-page
  progress during the main loop
- Reduce the finished record set to issues and a health summary

Orchestrator owns nothing durable: Crawl builds a fresh HTTP client, robot,
and frontier for every call, so the same Orchestrator value can run
multiple crawls sequentially without leaking state between them.
*/

// Orchestrator wires the crawl pipeline's collaborators together.
type Orchestrator struct {
	metadataSink    metadata.MetadataSink
	robot           Robot
	sitemapResolver SitemapResolver
	htmlFetcher     fetcher.Fetcher
	pageAnalyzer    Analyzer
	rateLimiter     limiter.RateLimiter

	stats metadata.CrawlStats
}

// New builds an Orchestrator wired to concrete production collaborators,
// all observing through sink.
func New(sink metadata.MetadataSink) *Orchestrator {
	robot := robots.NewCachedRobot(sink)
	resolver := sitemap.NewResolver(sink)
	htmlFetcher := fetcher.NewHtmlFetcher(sink)
	pageAnalyzer := analyzer.NewPageAnalyzer(sink)

	return NewWithDeps(sink, &robot, &resolver, &htmlFetcher, &pageAnalyzer, limiter.NewConcurrentRateLimiter())
}

// NewWithDeps builds an Orchestrator from injected collaborators, for tests
// that need to stand in for the network-facing packages.
func NewWithDeps(
	sink metadata.MetadataSink,
	robot Robot,
	sitemapResolver SitemapResolver,
	htmlFetcher fetcher.Fetcher,
	pageAnalyzer Analyzer,
	rateLimiter limiter.RateLimiter,
) *Orchestrator {
	return &Orchestrator{
		metadataSink:    sink,
		robot:           robot,
		sitemapResolver: sitemapResolver,
		htmlFetcher:     htmlFetcher,
		pageAnalyzer:    pageAnalyzer,
		rateLimiter:     rateLimiter,
	}
}

// Crawl runs one full crawl session to completion: it resolves robots.txt
// and the sitemap, seeds the frontier, then pops and fetches candidates
// until max_pages is reached or both queues are exhausted. It returns an
// error only on a fatal session setup failure; every per-page outcome,
// including fetch failures, is folded into the returned record set instead.
func (o *Orchestrator) Crawl(
	ctx context.Context,
	cfg config.CrawlConfig,
	initProgress InitProgressFunc,
	pageProgress ProgressFunc,
) ([]analyzer.SEORecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &OrchestratorError{Message: err.Error(), Cause: ErrCauseContextCanceled}
	}

	start := time.Now()
	report := func(percent int, status string) {
		if initProgress != nil {
			initProgress(percent, status)
		}
	}

	report(10, "initializing crawl session")

	seed := cfg.StartURL()
	httpClient := o.buildHTTPClient(cfg)
	o.htmlFetcher.Init(httpClient, cfg.UserAgent())
	o.htmlFetcher.SetReferer("")
	o.robot.Init(cfg.UserAgent(), cfg.AllowInsecureTLS())
	o.sitemapResolver.Init(cfg.AllowInsecureTLS())

	minDelay, maxDelay := cfg.DelayRange()
	o.rateLimiter.SetDelayRange(minDelay, maxDelay)
	o.rateLimiter.SetRandomSeed(cfg.RandomSeed())

	report(20, "resolving robots.txt")
	robotsTxtStatus, crawlDelayUsed, hints := o.resolveRobots(cfg, seed)

	var robotChecker frontier.RobotsChecker
	if cfg.RespectRobots() {
		robotChecker = o.robot
	}
	fr := frontier.New(cfg, robotChecker)

	report(40, "resolving sitemap")
	sitemapStatus := sitemap.StatusDisabled
	if cfg.UseSitemap() {
		result := o.sitemapResolver.Resolve(ctx, seed, hints)
		sitemapStatus = result.Status
		for _, u := range result.URLs {
			fr.EnqueueSitemap(frontier.NewCrawlAdmissionCandidate(u, frontier.SourceSeed, frontier.NewDiscoveryMetadata(0)))
		}
	}

	report(50, "seeding frontier")
	fr.EnqueueDiscovered(frontier.NewCrawlAdmissionCandidate(seed, frontier.SourceSeed, frontier.NewDiscoveryMetadata(0)))

	report(90, "crawling")
	retryParam := retry.NewRetryParam(cfg.RandomSeed(), cfg.MaxAttempt())

	var records []analyzer.SEORecord
	var urlsFromCrawl, urlsFromSitemap int

	for len(records) < cfg.MaxPages() {
		if ctx.Err() != nil {
			break
		}

		cand, source, ok := fr.Pop()
		if !ok {
			break
		}

		host := cand.TargetURL().Host
		if wait := o.rateLimiter.ResolveDelay(host); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}

		record := o.fetchAndAnalyze(ctx, cfg, cand, source, retryParam, fr)
		o.rateLimiter.MarkLastFetchAsNow(host)
		o.htmlFetcher.SetReferer(record.FinalURL)

		records = append(records, record)
		if source == frontier.QueueSitemap {
			urlsFromSitemap++
		} else {
			urlsFromCrawl++
		}

		if pageProgress != nil {
			pageProgress(len(records), cfg.MaxPages(), record.Address)
		}
	}

	report(95, "finalizing")

	o.stats = metadata.CrawlStats{
		TotalPages:      len(records),
		SkippedURLs:     len(fr.SkipRecords()),
		RobotsTxtStatus: robotsTxtStatus,
		CrawlDelayUsed:  crawlDelayUsed,
		SitemapStatus:   sitemapStatus,
		URLsFromCrawl:   urlsFromCrawl,
		URLsFromSitemap: urlsFromSitemap,
		DurationMs:      time.Since(start).Milliseconds(),
	}
	o.metadataSink.RecordFinalCrawlStats(o.stats)

	report(100, "done")

	return records, nil
}

// resolveRobots fetches robots.txt once for the seed host, purely for its
// crawl-delay directive and sitemap hints: the frontier performs its own
// per-URL Decide call and is the sole enforcement point for disallow rules.
// A fetch failure is permissive, matching the frontier's own robots
// semantics, and simply leaves crawlDelayUsed at zero and hints empty.
func (o *Orchestrator) resolveRobots(cfg config.CrawlConfig, seed url.URL) (status string, crawlDelay time.Duration, hints []string) {
	if !cfg.RespectRobots() && !cfg.UseSitemap() {
		return robotsStatusIgnored, 0, nil
	}

	decision, err := o.robot.Decide(seed)
	if err != nil {
		status = robotsStatusIgnored
	} else {
		status = robotsStatusFetched
		if decision.Reason == robots.EmptyRuleSet {
			status = robotsStatusFetchNone
		}
		if decision.CrawlDelay > 0 {
			crawlDelay = decision.CrawlDelay
			o.rateLimiter.SetCrawlDelay(seed.Host, decision.CrawlDelay)
		}
	}

	if fetchedHints, hintErr := o.robot.SitemapHints(seed); hintErr == nil {
		hints = fetchedHints
	}

	return status, crawlDelay, hints
}

// fetchAndAnalyze fetches one admitted candidate and produces its
// SEORecord. A transport failure yields an envelope-only record carrying
// the Timeout/Error status and the failure's message; a completed response
// always records its real numeric status code, and only a 2xx HTML
// response is handed to the analyzer, whose same-domain discovered links
// are fed back into the frontier at depth+1.
func (o *Orchestrator) fetchAndAnalyze(
	ctx context.Context,
	cfg config.CrawlConfig,
	cand frontier.CrawlAdmissionCandidate,
	source frontier.QueueSource,
	retryParam retry.RetryParam,
	fr *frontier.Frontier,
) analyzer.SEORecord {
	target := cand.TargetURL()
	depth := cand.DiscoveryMetadata().Depth()

	fetchStart := time.Now()
	result, err := o.htmlFetcher.Fetch(ctx, depth, target, retryParam)
	loadTimeS := time.Since(fetchStart).Seconds()

	if err != nil {
		return analyzer.SEORecord{
			Address:         target.String(),
			FinalURL:        target.String(),
			StatusCode:      statusCodeForError(err),
			LoadTimeS:       loadTimeS,
			CrawlDepth:      depth,
			DiscoverySource: string(source),
			Error:           err.Error(),
		}
	}

	statusCode := strconv.Itoa(result.Code())
	contentType := result.Headers()["Content-Type"]

	if result.Code() < 200 || result.Code() >= 300 || !fetcher.IsHTMLContent(contentType) {
		// A completed non-2xx or non-HTML response is a recorded outcome
		// with its real status code; there is nothing for the analyzer to
		// parse.
		finalURL := result.FinalURL()
		return analyzer.SEORecord{
			Address:         target.String(),
			FinalURL:        finalURL.String(),
			StatusCode:      statusCode,
			ContentType:     contentType,
			LoadTimeS:       loadTimeS,
			CrawlDepth:      depth,
			DiscoverySource: string(source),
		}
	}

	finalURL := result.FinalURL()
	params := analyzer.AnalyzeParams{
		Address:         target.String(),
		FinalURL:        finalURL.String(),
		StatusCode:      statusCode,
		ContentType:     contentType,
		LoadTimeS:       loadTimeS,
		CrawlDepth:      depth,
		DiscoverySource: string(source),
		IgnoreNoindex:   cfg.IgnoreNoindex(),
	}

	analysis := o.pageAnalyzer.Analyze(params, result.Body())

	rootHost := cfg.StartURL().Host
	for _, link := range analysis.Links {
		if !urlnorm.SameDomain(link.Host, rootHost) {
			continue
		}
		fr.EnqueueDiscovered(frontier.NewCrawlAdmissionCandidate(
			link,
			frontier.SourceCrawl,
			frontier.NewDiscoveryMetadata(depth+1),
		))
	}

	return analysis.Record
}

// statusCodeForError maps a transport-level fetch failure to the SEORecord
// Status_Code convention: "Timeout" for a classified timeout, including one
// buried in a retry-exhaustion message, and the generic "Error" otherwise.
// Completed HTTP responses never take this path; their real numeric status
// is recorded directly in fetchAndAnalyze.
func statusCodeForError(err failure.ClassifiedError) string {
	var fetchErr *fetcher.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Cause == fetcher.ErrCauseTimeout {
		return "Timeout"
	}
	if strings.Contains(strings.ToLower(err.Error()), string(fetcher.ErrCauseTimeout)) {
		return "Timeout"
	}
	return "Error"
}

func (o *Orchestrator) buildHTTPClient(cfg config.CrawlConfig) *http.Client {
	jar, _ := cookiejar.New(nil)

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.AllowInsecureTLS() {
		transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}

	client := &http.Client{
		Timeout:   cfg.RequestTimeout(),
		Jar:       jar,
		Transport: transport,
	}

	if !cfg.FollowRedirects() {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client
}

// DetectIssues runs the issue rules over a finished record set.
func (o *Orchestrator) DetectIssues(records []analyzer.SEORecord) []issues.Issue {
	return issues.DetectIssues(records)
}

// Summarize reduces an issue list to per-severity counts and the Health
// Score.
func (o *Orchestrator) Summarize(allIssues []issues.Issue) issues.Summary {
	return issues.Summarize(allIssues)
}

// Stats returns the aggregate counters from the most recently completed
// Crawl call.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		TotalPages:      o.stats.TotalPages,
		SkippedURLs:     o.stats.SkippedURLs,
		RobotsTxtStatus: o.stats.RobotsTxtStatus,
		CrawlDelayUsed:  o.stats.CrawlDelayUsed,
		SitemapStatus:   o.stats.SitemapStatus,
		URLsFromCrawl:   o.stats.URLsFromCrawl,
		URLsFromSitemap: o.stats.URLsFromSitemap,
	}
}
