package sitemap

import (
	"fmt"
	"net/url"
)

/*
Responsibilities
- Fetch robots-advertised and well-known sitemap locations
- Recursively resolve sitemap-indexes into page URLs
- Stay cycle-safe across a single run
- Filter to same-domain page URLs

The resolver is a pure discovery component: it never touches the frontier
or visited set directly, it only returns a URL list for the orchestrator to
seed the frontier's sitemap queue with.
*/

// ResolveResult is the outcome of one sitemap resolution pass: the
// same-domain page URLs discovered, plus a human-readable status suitable
// for Stats().
type ResolveResult struct {
	URLs   []url.URL
	Status string
}

const (
	StatusDisabled   = "disabled"
	StatusNotFetched = "not fetched"
	StatusNoneFound  = "no urls found"
)

func statusFound(n int) string {
	return fmt.Sprintf("found %d urls", n)
}
