package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gopherSitemap "github.com/oxffaa/gopher-parse-sitemap"

	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/pkg/urlnorm"
)

const fetchTimeout = 15 * time.Second

// wellKnownPaths are tried, in order, after the sitemap hints (skipping any
// that was already a hint); resolution stops at the first one that yields
// URLs.
var wellKnownPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemaps.xml"}

// Resolver recursively fetches sitemap and sitemap-index documents,
// starting from robots.txt hints plus the well-known paths, and returns the
// same-domain page URLs they advertise.
type Resolver struct {
	sink       metadata.MetadataSink
	httpClient *http.Client
}

func NewResolver(sink metadata.MetadataSink) Resolver {
	return Resolver{
		sink:       sink,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// Init configures the HTTP transport. allowInsecureTLS mirrors the crawl
// config's TLS policy; sitemaps are fetched over the same trust boundary as
// robots.txt and the pages themselves.
func (r *Resolver) Init(allowInsecureTLS bool) {
	transport := http.DefaultTransport
	if allowInsecureTLS {
		transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
	r.httpClient = &http.Client{Timeout: fetchTimeout, Transport: transport}
}

// Resolve fetches the union of hints and the well-known sitemap paths,
// recursing into sitemap-indexes, and returns every same-domain page URL
// found. Cycle safety is per-call: a sitemap URL already fetched during this
// Resolve invocation is never fetched again.
func (r *Resolver) Resolve(ctx context.Context, startURL url.URL, hints []string) ResolveResult {
	fetched := make(map[string]struct{})
	var collected []url.URL
	seenPage := make(map[string]struct{})

	orderedHints := dedupeNonEmpty(hints)
	for _, hint := range orderedHints {
		r.fetchRecursive(ctx, hint, startURL, fetched, &collected, seenPage)
	}

	base := fmt.Sprintf("%s://%s", startURL.Scheme, startURL.Host)
	hintSet := toSet(orderedHints)
	for _, path := range wellKnownPaths {
		candidate := base + path
		if _, already := hintSet[candidate]; already {
			continue
		}
		before := len(collected)
		r.fetchRecursive(ctx, candidate, startURL, fetched, &collected, seenPage)
		if len(collected) > before {
			break
		}
	}

	if len(collected) == 0 {
		return ResolveResult{Status: StatusNoneFound}
	}
	return ResolveResult{URLs: collected, Status: statusFound(len(collected))}
}

func (r *Resolver) fetchRecursive(
	ctx context.Context,
	sitemapURL string,
	startURL url.URL,
	fetched map[string]struct{},
	collected *[]url.URL,
	seenPage map[string]struct{},
) {
	canonicalKey := canonicalizeRaw(sitemapURL)
	if _, done := fetched[canonicalKey]; done {
		return
	}
	fetched[canonicalKey] = struct{}{}

	body, contentType, err := r.fetchBody(ctx, sitemapURL)
	if err != nil {
		r.recordError("Resolve", sitemapURL, err)
		return
	}

	if strings.Contains(contentType, "gzip") || strings.HasSuffix(strings.ToLower(sitemapURL), ".gz") {
		decompressed, gzErr := gunzip(body)
		if gzErr != nil {
			// Fall back to the raw bytes: some misconfigured servers set a
			// gzip content-type on an already-plain document.
			decompressed = body
		}
		body = decompressed
	}

	pageURLs := parseURLSet(body)
	if len(pageURLs) > 0 {
		for _, raw := range pageURLs {
			r.admitPageURL(raw, startURL, collected, seenPage)
		}
		return
	}

	nestedSitemaps := parseSitemapIndex(body)
	for _, nested := range nestedSitemaps {
		if !sameDomainRaw(nested, startURL) {
			continue
		}
		r.fetchRecursive(ctx, nested, startURL, fetched, collected, seenPage)
	}
}

func (r *Resolver) fetchBody(ctx context.Context, rawURL string) ([]byte, string, *SitemapError) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &SitemapError{Message: err.Error(), Cause: ErrCauseFetchFailure, URL: rawURL}
	}
	req.Header.Set("Accept", "application/xml,text/xml,*/*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", &SitemapError{Message: err.Error(), Cause: ErrCauseFetchFailure, URL: rawURL}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.sink.RecordFetch(rawURL, resp.StatusCode, time.Since(start), contentType, 0, 0)
		return nil, "", &SitemapError{
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
			Cause:   ErrCauseHttpStatus,
			URL:     rawURL,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &SitemapError{Message: err.Error(), Cause: ErrCauseFetchFailure, URL: rawURL}
	}

	r.sink.RecordFetch(rawURL, resp.StatusCode, time.Since(start), contentType, 0, 0)
	return body, contentType, nil
}

func (r *Resolver) recordError(action string, sitemapURL string, err *SitemapError) {
	r.sink.RecordError(
		time.Now(),
		"sitemap",
		action,
		mapSitemapErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, sitemapURL)},
	)
}

func (r *Resolver) admitPageURL(raw string, startURL url.URL, collected *[]url.URL, seenPage map[string]struct{}) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return
	}
	if !urlnorm.SameDomain(parsed.Host, startURL.Host) {
		return
	}
	canonical := urlnorm.Canonicalize(*parsed)
	key := urlnorm.String(canonical)
	if _, ok := seenPage[key]; ok {
		return
	}
	seenPage[key] = struct{}{}
	*collected = append(*collected, canonical)
}

// parseURLSet extracts <url><loc> entries from a plain sitemap document.
// A sitemap-index parsed this way simply yields no entries, which is how
// fetchRecursive decides to retry the body as an index instead.
func parseURLSet(body []byte) []string {
	var locs []string
	_ = gopherSitemap.Parse(bytes.NewReader(body), func(entry gopherSitemap.Entry) error {
		loc := entry.GetLocation()
		if loc != "" {
			locs = append(locs, loc)
		}
		return nil
	})
	return locs
}

// parseSitemapIndex extracts <sitemap><loc> entries from a sitemap-index
// document.
func parseSitemapIndex(body []byte) []string {
	var locs []string
	_ = gopherSitemap.ParseIndex(bytes.NewReader(body), func(entry gopherSitemap.IndexEntry) error {
		loc := entry.GetLocation()
		if loc != "" {
			locs = append(locs, loc)
		}
		return nil
	})
	return locs
}

func gunzip(body []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func dedupeNonEmpty(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func canonicalizeRaw(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	return urlnorm.String(*parsed)
}

func sameDomainRaw(rawURL string, startURL url.URL) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return urlnorm.SameDomain(parsed.Host, startURL.Host)
}
