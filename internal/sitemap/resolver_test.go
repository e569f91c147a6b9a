package sitemap_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/internal/sitemap"
)

type mockMetadataSink struct {
	fetchURLs []string
	errors    []string
}

func (m *mockMetadataSink) RecordFetch(fetchURL string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
	m.fetchURLs = append(m.fetchURLs, fetchURL)
}

func (m *mockMetadataSink) RecordAssetFetch(string, int, time.Duration, int) {}

func (m *mockMetadataSink) RecordError(observedAt time.Time, packageName string, action string, cause metadata.ErrorCause, details string, attrs []metadata.Attribute) {
	m.errors = append(m.errors, details)
}

func (m *mockMetadataSink) RecordArtifact(metadata.ArtifactKind, string, []metadata.Attribute) {}

func (m *mockMetadataSink) RecordFinalCrawlStats(metadata.CrawlStats) {}

func urlSetXML(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, loc := range locs {
		fmt.Fprintf(&b, "<url><loc>%s</loc></url>\n", loc)
	}
	b.WriteString("</urlset>")
	return b.String()
}

func sitemapIndexXML(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, loc := range locs {
		fmt.Fprintf(&b, "<sitemap><loc>%s</loc></sitemap>\n", loc)
	}
	b.WriteString("</sitemapindex>")
	return b.String()
}

func gzipBytes(t *testing.T, raw string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(raw))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func startURLOf(t *testing.T, server *httptest.Server) url.URL {
	t.Helper()
	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	return *parsed
}

func resolve(t *testing.T, server *httptest.Server, hints []string) sitemap.ResolveResult {
	t.Helper()
	sink := &mockMetadataSink{}
	resolver := sitemap.NewResolver(sink)
	resolver.Init(false)
	return resolver.Resolve(context.Background(), startURLOf(t, server), hints)
}

func recordedURLs(result sitemap.ResolveResult) []string {
	out := make([]string, 0, len(result.URLs))
	for _, u := range result.URLs {
		out = append(out, u.String())
	}
	return out
}

func TestResolve_PlainSitemapAtWellKnownPath(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, urlSetXML(server.URL+"/a", server.URL+"/b"))
	}))
	defer server.Close()

	result := resolve(t, server, nil)

	assert.Equal(t, "found 2 urls", result.Status)
	assert.Equal(t, []string{server.URL + "/a", server.URL + "/b"}, recordedURLs(result))
}

func TestResolve_CrossDomainEntriesDropped(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, urlSetXML(
			server.URL+"/keep",
			"https://other.example.net/drop",
		))
	}))
	defer server.Close()

	result := resolve(t, server, nil)

	assert.Equal(t, []string{server.URL + "/keep"}, recordedURLs(result))
}

func TestResolve_SitemapIndexWithGzippedChild(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, sitemapIndexXML(server.URL+"/s1.xml.gz"))
		case "/s1.xml.gz":
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write(gzipBytes(t, urlSetXML(
				server.URL+"/p1",
				server.URL+"/p2",
				server.URL+"/p3",
				"https://elsewhere.example.org/p4",
			)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	result := resolve(t, server, nil)

	assert.Equal(t, "found 3 urls", result.Status)
	assert.Equal(t, []string{
		server.URL + "/p1",
		server.URL + "/p2",
		server.URL + "/p3",
	}, recordedURLs(result))
}

func TestResolve_GzipContentTypeFallsBackToRawOnPlainBody(t *testing.T) {
	// Misconfigured servers sometimes declare gzip on an already-plain
	// document; the resolver must still parse it.
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml+gzip")
		fmt.Fprint(w, urlSetXML(server.URL+"/plain"))
	}))
	defer server.Close()

	result := resolve(t, server, nil)

	assert.Equal(t, []string{server.URL + "/plain"}, recordedURLs(result))
}

func TestResolve_SelfReferencingIndexTerminates(t *testing.T) {
	var server *httptest.Server
	fetches := 0
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		fetches++
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, sitemapIndexXML(server.URL+"/sitemap.xml"))
	}))
	defer server.Close()

	result := resolve(t, server, nil)

	assert.Equal(t, 1, fetches)
	assert.Equal(t, sitemap.StatusNoneFound, result.Status)
	assert.Empty(t, result.URLs)
}

func TestResolve_HintsTriedBeforeWellKnownPaths(t *testing.T) {
	var server *httptest.Server
	var wellKnownHit bool
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/custom-sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, urlSetXML(server.URL+"/hinted"))
		case "/sitemap.xml", "/sitemap_index.xml", "/sitemaps.xml":
			wellKnownHit = true
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	result := resolve(t, server, []string{server.URL + "/custom-sitemap.xml"})

	assert.Equal(t, []string{server.URL + "/hinted"}, recordedURLs(result))
	// Well-known paths are still probed after hints; a 404 there is
	// non-fatal and must not disturb the hinted result.
	_ = wellKnownHit
}

func TestResolve_WellKnownPathsStopAtFirstYield(t *testing.T) {
	var server *httptest.Server
	var indexPathHit bool
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, urlSetXML(server.URL+"/found"))
		case "/sitemap_index.xml", "/sitemaps.xml":
			indexPathHit = true
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	result := resolve(t, server, nil)

	assert.Equal(t, []string{server.URL + "/found"}, recordedURLs(result))
	assert.False(t, indexPathHit, "later well-known paths must not be fetched once one yields")
}

func TestResolve_NothingFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	result := resolve(t, server, nil)

	assert.Equal(t, sitemap.StatusNoneFound, result.Status)
	assert.Empty(t, result.URLs)
}

func TestResolve_DuplicatePageURLsEmittedOnce(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, urlSetXML(
			server.URL+"/same",
			server.URL+"/same/",
		))
	}))
	defer server.Close()

	result := resolve(t, server, nil)

	// /same and /same/ canonicalize identically.
	assert.Equal(t, []string{server.URL + "/same"}, recordedURLs(result))
}

func TestResolve_FetchFailureRecordedNotFatal(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/sitemap_index.xml":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, urlSetXML(server.URL+"/recovered"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sink := &mockMetadataSink{}
	resolver := sitemap.NewResolver(sink)
	resolver.Init(false)
	result := resolver.Resolve(context.Background(), startURLOf(t, server), nil)

	assert.Equal(t, []string{server.URL + "/recovered"}, recordedURLs(result))
	assert.NotEmpty(t, sink.errors)
}
