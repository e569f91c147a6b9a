package fetcher

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rohmanhakim/seo-auditor/pkg/failure"
	"github.com/rohmanhakim/seo-auditor/pkg/retry"
)

type Fetcher interface {
	Init(httpClient *http.Client, userAgent string)
	SetReferer(referer string)
	Fetch(
		ctx context.Context,
		crawlDepth int,
		fetchURL url.URL,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}
