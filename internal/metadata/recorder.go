package metadata

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, crawl ID)
*/

// Recorder is the default MetadataSink, backed by a structured zerolog.Logger.
type Recorder struct {
	log zerolog.Logger
}

// NewRecorder builds a Recorder that writes structured events to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{log: zerolog.New(w).With().Timestamp().Logger()}
}

func (r *Recorder) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	retryCount int,
	crawlDepth int,
) {
	r.log.Info().
		Str("url", fetchURL).
		Int("http_status", httpStatus).
		Dur("duration", duration).
		Str("content_type", contentType).
		Int("retry_count", retryCount).
		Int("crawl_depth", crawlDepth).
		Msg("fetch")
}

func (r *Recorder) RecordAssetFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	retryCount int,
) {
	r.log.Info().
		Str("url", fetchURL).
		Int("http_status", httpStatus).
		Dur("duration", duration).
		Int("retry_count", retryCount).
		Msg("asset_fetch")
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	if observedAt.IsZero() {
		observedAt = time.Now()
	}
	evt := r.log.Warn().
		Str("package", packageName).
		Str("action", action).
		Str("cause", cause.String()).
		Str("error", details).
		Time("observed_at", observedAt)
	for _, attr := range attrs {
		evt = evt.Str(string(attr.Key), attr.Value)
	}
	evt.Msg("error")
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	evt := r.log.Info().
		Str("path", path).
		Str("kind", string(kind))
	for _, attr := range attrs {
		evt = evt.Str(string(attr.Key), attr.Value)
	}
	evt.Msg("artifact")
}

func (r *Recorder) RecordFinalCrawlStats(stats CrawlStats) {
	r.log.Info().
		Int("total_pages", stats.TotalPages).
		Int("skipped_urls", stats.SkippedURLs).
		Str("robots_txt_status", stats.RobotsTxtStatus).
		Dur("crawl_delay_used", stats.CrawlDelayUsed).
		Str("sitemap_status", stats.SitemapStatus).
		Int("urls_from_crawling", stats.URLsFromCrawl).
		Int("urls_from_sitemap", stats.URLsFromSitemap).
		Int64("duration_ms", stats.DurationMs).
		Msg("crawl_complete")
}
