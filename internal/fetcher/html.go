package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/pkg/failure"
	"github.com/rohmanhakim/seo-auditor/pkg/retry"
)

/*
Responsibilities

- Perform HTTP requests
- Apply headers and timeouts
- Handle redirects safely

Fetch Semantics

- Retry applies to transport failures only (timeout, TLS, connection,
  truncated body); a completed response is a recorded outcome, whatever
  its status code, and is returned as a FetchResult
- Redirect chains are bounded by the http.Client
- All responses are logged with metadata

The fetcher never parses content; it only returns bytes and metadata. The
caller decides whether a result's status and Content-Type merit analysis.
*/

type HtmlFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
	userAgent    string
	referer      string
}

func NewHtmlFetcher(
	metadataSink metadata.MetadataSink,
) HtmlFetcher {
	return HtmlFetcher{
		metadataSink: metadataSink,
		httpClient:   &http.Client{},
	}
}

func (h *HtmlFetcher) Init(httpClient *http.Client, userAgent string) {
	h.httpClient = httpClient
	h.userAgent = userAgent
}

// SetReferer records the last-visited URL, sent as the Referer header on
// the next Fetch call. The orchestrator updates this after every
// successful fetch; an empty referer omits the header entirely.
func (h *HtmlFetcher) SetReferer(referer string) {
	h.referer = referer
}

func (h *HtmlFetcher) Fetch(
	ctx context.Context,
	crawlDepth int,
	fetchURL url.URL,
	retryParam retry.RetryParam,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "HtmlFetcher.Fetch"
	startTime := time.Now()

	result, attempts, err := h.fetchWithRetry(ctx, fetchURL, retryParam)

	duration := time.Since(startTime)

	var statusCode int
	var contentType string

	if err == nil {
		statusCode = result.Code()
		contentType = h.extractContentType(result.Headers())
	}

	h.metadataSink.RecordFetch(
		fetchURL.String(),
		statusCode,
		duration,
		contentType,
		attempts,
		crawlDepth,
	)

	if err != nil {
		var retryErr *retry.RetryError
		if errors.As(err, &retryErr) {
			h.recordRetryError(callerMethod, fetchURL, retryErr)
		} else {
			h.recordFetchError(callerMethod, fetchURL, err)
		}

		return FetchResult{}, err
	}

	return result, nil
}

func (h *HtmlFetcher) extractContentType(headers map[string]string) string {
	if ct, ok := headers["Content-Type"]; ok {
		return ct
	}
	return ""
}

func (h *HtmlFetcher) recordFetchError(callerMethod string, fetchURL url.URL, err failure.ClassifiedError) {
	var fetchError *FetchError
	if errors.As(err, &fetchError) {
		h.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			mapFetchErrorToMetadataCause(fetchError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, fetchURL.String()),
			},
		)
	}
}

func (h *HtmlFetcher) recordRetryError(callerMethod string, fetchURL url.URL, retryErr *retry.RetryError) {
	h.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		callerMethod,
		metadata.CauseRetryFailure,
		retryErr.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, fetchURL.String()),
		},
	)
}

// fetchWithRetry runs performFetch under retry.Retry and reports the number
// of attempts actually made, regardless of the outcome.
func (h *HtmlFetcher) fetchWithRetry(ctx context.Context, fetchURL url.URL, retryParam retry.RetryParam) (FetchResult, int, failure.ClassifiedError) {
	fetchTask := func() (FetchResult, failure.ClassifiedError) {
		return h.performFetch(ctx, fetchURL)
	}

	res := retry.Retry(retryParam, fetchTask)

	if res.IsFailure() {
		return FetchResult{}, res.Attempts(), res.Err()
	}

	return res.Value(), res.Attempts(), nil
}

func (h *HtmlFetcher) performFetch(ctx context.Context, fetchURL url.URL) (FetchResult, failure.ClassifiedError) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}

	headers := requestHeaders(h.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if h.referer != "" {
		req.Header.Set("Referer", h.referer)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		cause := FetchErrorCause(ErrCauseNetworkFailure)
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			cause = ErrCauseTimeout
		}
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     cause,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}

	responseHeaders := make(map[string]string)
	for key, values := range resp.Header {
		if len(values) > 0 {
			responseHeaders[key] = values[0]
		}
	}

	finalURL := fetchURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = *resp.Request.URL
	}

	result := FetchResult{
		url:       fetchURL,
		finalURL:  finalURL,
		body:      body,
		fetchedAt: start,
		meta: ResponseMeta{
			statusCode:      resp.StatusCode,
			duration:        time.Since(start),
			responseHeaders: responseHeaders,
		},
	}

	return result, nil
}

// IsHTMLContent reports whether a Content-Type header names an HTML
// document.
func IsHTMLContent(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml")
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":                userAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"DNT":                       "1",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
}
