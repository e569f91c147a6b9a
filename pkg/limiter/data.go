package limiter

import "time"

// hostTiming tracks when a host was last fetched and what delay policy
// currently applies to it.
type hostTiming struct {
	lastFetchAt time.Time
	crawlDelay  time.Duration
	registered  bool
}

func (h hostTiming) CrawlDelay() time.Duration {
	return h.crawlDelay
}

func (h hostTiming) LastFetchAt() time.Time {
	return h.lastFetchAt
}
