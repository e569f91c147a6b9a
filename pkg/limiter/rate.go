package limiter

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rohmanhakim/seo-auditor/pkg/timeutil"
)

// RateLimiter
// Specialized component to manage politeness delays during a crawl.
// Responsibilities:
//   - Bookkeep each hostname's last fetch timestamp
//   - Resolve the delay to honor before the next fetch to a host, respecting
//     a robots.txt Crawl-delay override when one is present
type RateLimiter interface {
	SetDelayRange(min, max time.Duration)
	SetRandomSeed(randomSeed int64)
	SetCrawlDelay(host string, delay time.Duration)
	MarkLastFetchAsNow(host string)
	ResolveDelay(host string) time.Duration
}

type ConcurrentRateLimiter struct {
	mu          sync.RWMutex
	rngMu       sync.Mutex
	minDelay    time.Duration
	maxDelay    time.Duration
	hostTimings map[string]hostTiming
	rng         *rand.Rand
}

func NewConcurrentRateLimiter() *ConcurrentRateLimiter {
	return &ConcurrentRateLimiter{
		hostTimings: make(map[string]hostTiming),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetDelayRange sets the [min, max) politeness delay used when a host has
// no explicit Crawl-delay directive.
func (r *ConcurrentRateLimiter) SetDelayRange(min, max time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.minDelay = min
	r.maxDelay = max
}

func (r *ConcurrentRateLimiter) SetRandomSeed(randomSeed int64) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	r.rng = rand.New(rand.NewSource(randomSeed))
}

// SetCrawlDelay records a robots.txt Crawl-delay override for host. It takes
// precedence over the uniform delay range.
func (r *ConcurrentRateLimiter) SetCrawlDelay(host string, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.crawlDelay = delay
	timing.registered = true
	r.hostTimings[host] = timing
}

// MarkLastFetchAsNow records that host was just fetched.
func (r *ConcurrentRateLimiter) MarkLastFetchAsNow(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timing := r.hostTimings[host]
	timing.lastFetchAt = time.Now()
	timing.registered = true
	r.hostTimings[host] = timing
}

// ResolveDelay returns how long to wait before the next fetch to host.
// If host has a Crawl-delay override, that value is the target delay;
// otherwise the target is drawn uniformly from [min, max). The return value
// is the remaining wait since host's last fetch, or zero if enough time has
// already elapsed.
func (r *ConcurrentRateLimiter) ResolveDelay(host string) time.Duration {
	r.mu.RLock()
	timing, exists := r.hostTimings[host]
	min, max := r.minDelay, r.maxDelay
	r.mu.RUnlock()

	if !exists {
		return 0
	}

	var target time.Duration
	if timing.crawlDelay > 0 {
		target = timing.crawlDelay
	} else {
		target = r.uniformDelay(min, max)
	}

	elapsed := time.Since(timing.lastFetchAt)
	if elapsed < target {
		return target - elapsed
	}
	return 0
}

func (r *ConcurrentRateLimiter) uniformDelay(min, max time.Duration) time.Duration {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return timeutil.UniformDelay(min, max, r.rng)
}
