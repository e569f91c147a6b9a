package robots

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/internal/robots/cache"
	"github.com/temoto/robotstxt"
)

/*
Responsibilities

- Fetch robots.txt per host
- Cache rules for crawl duration
- Answer allow/disallow decisions for candidate URLs

Robots checks occur when the frontier pops a candidate, not at enqueue.
*/

// CachedRobot answers crawl-permission questions for a single user agent,
// fetching and caching robots.txt per host for the lifetime of the crawl.
type CachedRobot struct {
	sink      metadata.MetadataSink
	fetcher   *RobotsFetcher
	userAgent string
}

// NewCachedRobot builds a CachedRobot that records fetch and error
// observability through sink. Call Init or InitWithCache before Decide.
func NewCachedRobot(sink metadata.MetadataSink) CachedRobot {
	return CachedRobot{sink: sink}
}

// Init wires a fresh in-memory cache for userAgent. allowInsecureTLS
// mirrors the crawl config's TLS policy; certificate verification is only
// skipped when the caller explicitly opts in.
func (r *CachedRobot) Init(userAgent string, allowInsecureTLS bool) {
	r.InitWithCache(userAgent, allowInsecureTLS, cache.NewMemoryCache())
}

// InitWithCache wires a caller-provided cache, e.g. to share robots.txt
// results across robots instances or swap in a persistent implementation.
func (r *CachedRobot) InitWithCache(userAgent string, allowInsecureTLS bool, c cache.Cache) {
	r.userAgent = userAgent
	r.fetcher = NewRobotsFetcherWithClient(r.sink, userAgent, &http.Client{Timeout: 10 * time.Second}, allowInsecureTLS, c)
}

// Decide fetches (or reuses a cached) robots.txt for target's host and
// reports whether target may be crawled under this robot's user agent.
func (r *CachedRobot) Decide(target url.URL) (Decision, error) {
	result, fetchErr := r.fetcher.Fetch(context.Background(), target.Scheme, target.Host)
	if fetchErr != nil {
		r.recordError("Decide", target, fetchErr)
		return Decision{}, fetchErr
	}

	robotsData, err := robotstxt.FromStatusAndBytes(result.HTTPStatus, result.RawContent)
	if err != nil {
		parseErr := &RobotsError{
			Message:   fmt.Sprintf("failed to parse robots.txt for %s: %v", target.Host, err),
			Retryable: false,
			Cause:     ErrCauseParseError,
		}
		r.recordError("Decide", target, parseErr)
		return Decision{}, parseErr
	}

	group := robotsData.FindGroup(r.userAgent)
	allowed := group.Test(target.Path)

	reason := DisallowedByRobots
	switch {
	case len(result.RawContent) == 0:
		reason = EmptyRuleSet
	case allowed:
		reason = AllowedByRobots
	}

	return Decision{
		Url:        target,
		Allowed:    allowed,
		Reason:     reason,
		CrawlDelay: group.CrawlDelay,
	}, nil
}

// SitemapHints returns every `Sitemap:` URL advertised by target's host
// robots.txt. The result is empty when robots.txt declares none; when
// robots.txt could not be fetched, the fetch error is recorded and returned.
func (r *CachedRobot) SitemapHints(target url.URL) ([]string, error) {
	result, fetchErr := r.fetcher.Fetch(context.Background(), target.Scheme, target.Host)
	if fetchErr != nil {
		r.recordError("SitemapHints", target, fetchErr)
		return nil, fetchErr
	}
	return result.Response.Sitemaps, nil
}

func (r *CachedRobot) recordError(action string, target url.URL, err *RobotsError) {
	r.sink.RecordError(
		time.Now(),
		"robots",
		action,
		mapRobotsErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, target.String()),
			metadata.NewAttr(metadata.AttrHost, target.Host),
		},
	)
}
