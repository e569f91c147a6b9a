package frontier

/*
 Frontier - manages crawl state & ordering
*/

import (
	"net/url"
)

// CrawlAdmissionCandidate represents a URL that has been handed to the
// frontier for admission checking at pop time.
//
// Invariants:
// - Depth bounds are enforced at enqueue time
// - Pattern/robots/extension admission runs when the candidate is popped
type CrawlAdmissionCandidate struct {
	targetURL url.URL

	// is it seed url or discovered during crawling?
	sourceContext SourceContext

	// additional information about the URL
	discoveryMetadata DiscoveryMetadata
}

func NewCrawlAdmissionCandidate(
	targetUrl url.URL,
	sourceContext SourceContext,
	discoveryMetadata DiscoveryMetadata,
) CrawlAdmissionCandidate {
	return CrawlAdmissionCandidate{
		targetURL:         targetUrl,
		sourceContext:     sourceContext,
		discoveryMetadata: discoveryMetadata,
	}
}

func (c *CrawlAdmissionCandidate) TargetURL() url.URL {
	return c.targetURL
}

func (c *CrawlAdmissionCandidate) SourceContext() SourceContext {
	return c.sourceContext
}

func (c *CrawlAdmissionCandidate) DiscoveryMetadata() DiscoveryMetadata {
	return c.discoveryMetadata
}

type SourceContext string

const (
	SourceSeed  = "Seed"
	SourceCrawl = "Crawl"
)

type DiscoveryMetadata struct {
	// the crawl depth: the number of link hops from the seed
	// seed and sitemap URLs -> depth = 0
	depth int
}

func NewDiscoveryMetadata(depth int) DiscoveryMetadata {
	return DiscoveryMetadata{
		depth: depth,
	}
}

func (d DiscoveryMetadata) Depth() int {
	return d.depth
}
