package frontier

import (
	"net/url"

	"github.com/rohmanhakim/seo-auditor/internal/config"
	"github.com/rohmanhakim/seo-auditor/internal/robots"
	"github.com/rohmanhakim/seo-auditor/pkg/patternmatch"
	"github.com/rohmanhakim/seo-auditor/pkg/urlnorm"
)

/*
Frontier Responsibilities
- Maintain BFS ordering
- Deduplicate URLs
- Track crawl depth
- Prevent infinite traversal
- Knows nothing about:
	- fetching
	- extraction
	- markdown
	- storage

It is a data structure + policy module, not a pipeline executor.
*/

// QueueSource identifies which of the frontier's two FIFO queues a candidate
// travelled through, independent of CrawlAdmissionCandidate's SourceContext
// (which records whether the URL was a seed or discovered while crawling).
type QueueSource string

const (
	QueueDiscovered QueueSource = "discovered"
	QueueSitemap    QueueSource = "sitemap"
)

type SkipReason string

const (
	SkipExcludedByPattern    SkipReason = "excluded-by-pattern"
	SkipNotIncludedByPattern SkipReason = "not-included-by-pattern"
	SkipBlockedByRobots      SkipReason = "blocked-by-robots"
	SkipNonHTMLResource      SkipReason = "non-html-resource"
)

// SkipRecord is an append-only log entry for a candidate rejected during
// admission. It is never mutated once appended.
type SkipRecord struct {
	URL    url.URL
	Reason SkipReason
	Source QueueSource
}

// RobotsChecker is the subset of robots.CachedRobot the frontier needs to
// enforce the respect_robots admission check.
type RobotsChecker interface {
	Decide(target url.URL) (robots.Decision, error)
}

// Frontier holds crawl ordering state: two FIFO queues (discovered and
// sitemap), the visited set, and the skip log. The pattern, robots, and
// non-HTML admission checks run at Pop time, so a URL can sit in a queue for
// a while before it is accepted or rejected on those grounds. The visited
// check runs at both Enqueue and Pop: at Enqueue to avoid piling up queue
// slots for a URL already accepted, and at Pop because a duplicate can still
// be discovered from two different pages before either is popped.
type Frontier struct {
	cfg          config.CrawlConfig
	robotChecker RobotsChecker

	includePatterns []patternmatch.Pattern
	excludePatterns []patternmatch.Pattern

	discoveredQueue FIFOQueue[CrawlAdmissionCandidate]
	sitemapQueue    FIFOQueue[CrawlAdmissionCandidate]

	visited Set[string]
	skipped []SkipRecord
}

// New builds a Frontier bound to cfg's scope rules (max depth, include and
// exclude patterns, respect_robots) and an optional robots checker. checker
// may be nil, in which case the robots admission check is skipped entirely,
// equivalent to respect_robots=false.
func New(cfg config.CrawlConfig, checker RobotsChecker) *Frontier {
	return &Frontier{
		cfg:             cfg,
		robotChecker:    checker,
		includePatterns: cfg.CompiledIncludePatterns(),
		excludePatterns: cfg.CompiledExcludePatterns(),
		visited:         NewSet[string](),
	}
}

// EnqueueDiscovered adds a URL found via live link extraction to the
// discovered queue. Candidates beyond the configured max depth, or already
// visited, are dropped silently: they never occupy a queue slot or produce a
// Skip Record.
func (f *Frontier) EnqueueDiscovered(cand CrawlAdmissionCandidate) {
	if cand.DiscoveryMetadata().Depth() > f.cfg.MaxDepth() {
		return
	}
	if f.visited.Contains(f.canonicalKey(cand.TargetURL())) {
		return
	}
	f.discoveredQueue.Enqueue(cand)
}

// EnqueueSitemap adds a URL seeded from sitemap resolution to the sitemap
// queue, subject to the same depth and visited bounds as EnqueueDiscovered.
func (f *Frontier) EnqueueSitemap(cand CrawlAdmissionCandidate) {
	if cand.DiscoveryMetadata().Depth() > f.cfg.MaxDepth() {
		return
	}
	if f.visited.Contains(f.canonicalKey(cand.TargetURL())) {
		return
	}
	f.sitemapQueue.Enqueue(cand)
}

// Pop returns the next admitted candidate, preferring the discovered queue
// over the sitemap queue, and applying the admission checks (visited,
// exclude patterns, include patterns, robots, non-HTML extension) in order.
// Rejected candidates are recorded as Skip Records and do not stop the
// search for the next admitted candidate. Pop reports false once both
// queues are exhausted. The returned QueueSource tells the caller which
// queue produced the admitted candidate, for Discovery_Source reporting.
func (f *Frontier) Pop() (CrawlAdmissionCandidate, QueueSource, bool) {
	for {
		cand, queueSource, ok := f.dequeueNext()
		if !ok {
			return CrawlAdmissionCandidate{}, "", false
		}

		admitted, reason := f.admit(cand)
		if admitted {
			f.visited.Add(f.canonicalKey(cand.TargetURL()))
			return cand, queueSource, true
		}
		if reason != "" {
			f.skipped = append(f.skipped, SkipRecord{
				URL:    cand.TargetURL(),
				Reason: reason,
				Source: queueSource,
			})
		}
	}
}

func (f *Frontier) dequeueNext() (CrawlAdmissionCandidate, QueueSource, bool) {
	if cand, ok := f.discoveredQueue.Dequeue(); ok {
		return cand, QueueDiscovered, true
	}
	if cand, ok := f.sitemapQueue.Dequeue(); ok {
		return cand, QueueSitemap, true
	}
	return CrawlAdmissionCandidate{}, "", false
}

// admit applies the five ordered admission checks. An empty reason alongside
// a false admitted result means "already visited, skip silently" and must
// not produce a Skip Record.
func (f *Frontier) admit(cand CrawlAdmissionCandidate) (admitted bool, reason SkipReason) {
	canonical := urlnorm.Canonicalize(cand.TargetURL())
	key := urlnorm.String(canonical)

	if f.visited.Contains(key) {
		return false, ""
	}

	candidateStr := canonical.String()

	if patternmatch.MatchAny(candidateStr, f.excludePatterns) {
		return false, SkipExcludedByPattern
	}

	if len(f.includePatterns) > 0 && !patternmatch.MatchAny(candidateStr, f.includePatterns) {
		return false, SkipNotIncludedByPattern
	}

	if f.cfg.RespectRobots() && f.robotChecker != nil {
		decision, err := f.robotChecker.Decide(canonical)
		// Robots fetch failures are permissive: only an explicit disallow
		// decision blocks the URL.
		if err == nil && !decision.Allowed {
			return false, SkipBlockedByRobots
		}
	}

	if urlnorm.IsNonHTMLResource(canonical) {
		return false, SkipNonHTMLResource
	}

	return true, ""
}

func (f *Frontier) canonicalKey(u url.URL) string {
	return urlnorm.String(u)
}

// Visited reports whether u has already been popped and admitted.
func (f *Frontier) Visited(u url.URL) bool {
	return f.visited.Contains(f.canonicalKey(u))
}

// SkipRecords returns the append-only log of rejected candidates.
func (f *Frontier) SkipRecords() []SkipRecord {
	return f.skipped
}

// Remaining reports how many candidates are still queued across both
// queues, before admission checks are applied.
func (f *Frontier) Remaining() int {
	return f.discoveredQueue.Size() + f.sitemapQueue.Size()
}
