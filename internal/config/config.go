package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/seo-auditor/pkg/patternmatch"
)

// CrawlConfig is the immutable, validated configuration for a single crawl.
// Construct it with WithDefault().WithX()...Build(); once built it is safe
// to share across goroutines.
type CrawlConfig struct {
	startURL url.URL

	maxPages int
	maxDepth int

	includePatterns []string
	excludePatterns []string

	ignoreNoindex bool

	requestTimeout time.Duration
	minDelay       time.Duration
	maxDelay       time.Duration

	respectRobots    bool
	followRedirects  bool
	useSitemap       bool
	allowInsecureTLS bool

	concurrency int
	randomSeed  int64
	maxAttempt  int
	userAgent   string

	outputDir string
	dryRun    bool
}

// WithDefault seeds a builder with the given start URL and sane defaults for
// everything else.
func WithDefault(startURL url.URL) *CrawlConfig {
	return &CrawlConfig{
		startURL:         startURL,
		maxPages:         100,
		maxDepth:         3,
		ignoreNoindex:    false,
		requestTimeout:   10 * time.Second,
		minDelay:         500 * time.Millisecond,
		maxDelay:         1500 * time.Millisecond,
		respectRobots:    true,
		followRedirects:  true,
		useSitemap:       true,
		allowInsecureTLS: false,
		concurrency:      10,
		randomSeed:       time.Now().UnixNano(),
		maxAttempt:       3,
		userAgent:        "seo-auditor/1.0",
		outputDir:        "output",
		dryRun:           false,
	}
}

func (c *CrawlConfig) WithMaxPages(pages int) *CrawlConfig {
	c.maxPages = pages
	return c
}

func (c *CrawlConfig) WithMaxDepth(depth int) *CrawlConfig {
	c.maxDepth = depth
	return c
}

func (c *CrawlConfig) WithIncludePatterns(patterns []string) *CrawlConfig {
	c.includePatterns = patterns
	return c
}

func (c *CrawlConfig) WithExcludePatterns(patterns []string) *CrawlConfig {
	c.excludePatterns = patterns
	return c
}

func (c *CrawlConfig) WithIgnoreNoindex(ignore bool) *CrawlConfig {
	c.ignoreNoindex = ignore
	return c
}

func (c *CrawlConfig) WithRequestTimeout(timeout time.Duration) *CrawlConfig {
	c.requestTimeout = timeout
	return c
}

func (c *CrawlConfig) WithDelayRange(min, max time.Duration) *CrawlConfig {
	c.minDelay = min
	c.maxDelay = max
	return c
}

func (c *CrawlConfig) WithRespectRobots(respect bool) *CrawlConfig {
	c.respectRobots = respect
	return c
}

func (c *CrawlConfig) WithFollowRedirects(follow bool) *CrawlConfig {
	c.followRedirects = follow
	return c
}

func (c *CrawlConfig) WithUseSitemap(use bool) *CrawlConfig {
	c.useSitemap = use
	return c
}

func (c *CrawlConfig) WithAllowInsecureTLS(allow bool) *CrawlConfig {
	c.allowInsecureTLS = allow
	return c
}

func (c *CrawlConfig) WithConcurrency(concurrency int) *CrawlConfig {
	c.concurrency = concurrency
	return c
}

func (c *CrawlConfig) WithRandomSeed(seed int64) *CrawlConfig {
	c.randomSeed = seed
	return c
}

func (c *CrawlConfig) WithMaxAttempt(attempts int) *CrawlConfig {
	c.maxAttempt = attempts
	return c
}

func (c *CrawlConfig) WithUserAgent(agent string) *CrawlConfig {
	c.userAgent = agent
	return c
}

func (c *CrawlConfig) WithOutputDir(dir string) *CrawlConfig {
	c.outputDir = dir
	return c
}

func (c *CrawlConfig) WithDryRun(dryRun bool) *CrawlConfig {
	c.dryRun = dryRun
	return c
}

// Build validates the accumulated settings and returns the immutable
// CrawlConfig. Configuration errors are raised synchronously, before any
// I/O is attempted.
func (c *CrawlConfig) Build() (CrawlConfig, error) {
	if c.startURL.Host == "" {
		return CrawlConfig{}, fmt.Errorf("%w: start_url must be an absolute URL", ErrInvalidConfig)
	}
	if c.maxPages < 1 {
		return CrawlConfig{}, fmt.Errorf("%w: max_pages must be >= 1", ErrInvalidConfig)
	}
	if c.maxDepth < 1 {
		return CrawlConfig{}, fmt.Errorf("%w: max_depth must be >= 1", ErrInvalidConfig)
	}
	if c.minDelay <= 0 || c.minDelay > c.maxDelay {
		return CrawlConfig{}, fmt.Errorf("%w: delay_range must satisfy 0 < min <= max", ErrInvalidConfig)
	}
	if c.requestTimeout <= 0 {
		return CrawlConfig{}, fmt.Errorf("%w: request_timeout_s must be positive", ErrInvalidConfig)
	}
	if c.maxAttempt < 1 {
		return CrawlConfig{}, fmt.Errorf("%w: max attempt must be >= 1", ErrInvalidConfig)
	}

	return *c, nil
}

func (c CrawlConfig) StartURL() url.URL {
	return c.startURL
}

func (c CrawlConfig) MaxPages() int {
	return c.maxPages
}

func (c CrawlConfig) MaxDepth() int {
	return c.maxDepth
}

func (c CrawlConfig) IncludePatterns() []string {
	patterns := make([]string, len(c.includePatterns))
	copy(patterns, c.includePatterns)
	return patterns
}

func (c CrawlConfig) ExcludePatterns() []string {
	patterns := make([]string, len(c.excludePatterns))
	copy(patterns, c.excludePatterns)
	return patterns
}

// CompiledIncludePatterns and CompiledExcludePatterns expose the pattern
// sets already compiled per the wildcard-or-regex rule, for callers that
// need to apply them without recompiling on every match.
func (c CrawlConfig) CompiledIncludePatterns() []patternmatch.Pattern {
	return patternmatch.Compile(c.includePatterns)
}

func (c CrawlConfig) CompiledExcludePatterns() []patternmatch.Pattern {
	return patternmatch.Compile(c.excludePatterns)
}

func (c CrawlConfig) IgnoreNoindex() bool {
	return c.ignoreNoindex
}

func (c CrawlConfig) RequestTimeout() time.Duration {
	return c.requestTimeout
}

func (c CrawlConfig) DelayRange() (min, max time.Duration) {
	return c.minDelay, c.maxDelay
}

func (c CrawlConfig) RespectRobots() bool {
	return c.respectRobots
}

func (c CrawlConfig) FollowRedirects() bool {
	return c.followRedirects
}

func (c CrawlConfig) UseSitemap() bool {
	return c.useSitemap
}

func (c CrawlConfig) AllowInsecureTLS() bool {
	return c.allowInsecureTLS
}

func (c CrawlConfig) Concurrency() int {
	return c.concurrency
}

func (c CrawlConfig) RandomSeed() int64 {
	return c.randomSeed
}

func (c CrawlConfig) MaxAttempt() int {
	return c.maxAttempt
}

func (c CrawlConfig) UserAgent() string {
	return c.userAgent
}

func (c CrawlConfig) OutputDir() string {
	return c.outputDir
}

func (c CrawlConfig) DryRun() bool {
	return c.dryRun
}
