// Command auditor is a thin reference host for the seo-auditor crawl
// engine: it parses flags into a config.CrawlConfig, runs one crawl to
// completion, prints a summary table, and optionally persists the run via
// internal/report. It is not the dashboard; it exists for manual runs and
// smoke-testing the public surface (Crawl/DetectIssues/Summarize).
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/seo-auditor/internal/analyzer"
	"github.com/rohmanhakim/seo-auditor/internal/build"
	"github.com/rohmanhakim/seo-auditor/internal/config"
	"github.com/rohmanhakim/seo-auditor/internal/issues"
	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/internal/orchestrator"
	"github.com/rohmanhakim/seo-auditor/internal/report"
	"github.com/spf13/cobra"
)

var (
	seedURL          string
	maxPages         int
	maxDepth         int
	includePatterns  []string
	excludePatterns  []string
	ignoreNoindex    bool
	requestTimeout   time.Duration
	minDelay         time.Duration
	maxDelay         time.Duration
	respectRobots    bool
	followRedirects  bool
	useSitemap       bool
	allowInsecureTLS bool
	userAgent        string
	outputDir        string
)

var rootCmd = &cobra.Command{
	Use:     "auditor",
	Short:   "An SEO site auditor.",
	Version: build.FullVersion(),
	Long: `auditor crawls a site starting from a seed URL, extracts on-page SEO
signals from every same-domain page it fetches, and reports a prioritized
list of issues plus an aggregate health score.

It is a reference host for the crawl engine: a dashboard, CSV export, or
any other consumer drives the same public surface (Crawl, DetectIssues,
Summarize) this command does.`,
	RunE: runAudit,
}

func init() {
	rootCmd.Flags().StringVar(&seedURL, "seed-url", "", "starting URL to crawl (scheme optional, https assumed)")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 100, "maximum number of pages to crawl")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 3, "maximum link depth from the seed URL")
	rootCmd.Flags().StringArrayVar(&includePatterns, "include", nil, "only crawl URLs matching one of these glob-or-regex patterns")
	rootCmd.Flags().StringArrayVar(&excludePatterns, "exclude", nil, "never crawl URLs matching one of these glob-or-regex patterns")
	rootCmd.Flags().BoolVar(&ignoreNoindex, "ignore-noindex", false, "label noindex pages \"Non-Indexable (crawled anyway)\" instead of \"Non-Indexable\" (noindex pages are crawled and recorded either way)")
	rootCmd.Flags().DurationVar(&requestTimeout, "timeout", 10*time.Second, "per-request timeout")
	rootCmd.Flags().DurationVar(&minDelay, "min-delay", 500*time.Millisecond, "minimum politeness delay between requests")
	rootCmd.Flags().DurationVar(&maxDelay, "max-delay", 1500*time.Millisecond, "maximum politeness delay between requests")
	rootCmd.Flags().BoolVar(&respectRobots, "respect-robots", true, "honor robots.txt disallow rules and crawl-delay")
	rootCmd.Flags().BoolVar(&followRedirects, "follow-redirects", true, "follow HTTP redirects")
	rootCmd.Flags().BoolVar(&useSitemap, "use-sitemap", true, "seed the frontier from robots.txt/sitemap URLs")
	rootCmd.Flags().BoolVar(&allowInsecureTLS, "allow-insecure-tls", false, "skip TLS certificate verification (opt-in; default is secure)")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", "seo-auditor/1.0", "User-Agent header sent with every request")
	rootCmd.Flags().StringVar(&outputDir, "out", "", "if set, write records/issues/summary NDJSON under this directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	sink := metadata.NewRecorder(os.Stderr)
	orch := orchestrator.New(sink)

	startedAt := time.Now()
	records, err := orch.Crawl(
		context.Background(),
		cfg,
		func(percent int, status string) {
			fmt.Fprintf(cmd.OutOrStdout(), "[%3d%%] %s\n", percent, status)
		},
		func(current, total int, currentURL string) {
			fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s\n", current, total, currentURL)
		},
	)
	if err != nil {
		return fmt.Errorf("crawl failed to start: %w", err)
	}

	allIssues := orch.DetectIssues(records)
	summary := orch.Summarize(allIssues)
	stats := orch.Stats()

	printSummary(cmd, records, summary, stats)

	if outputDir != "" {
		reportSink := report.NewLocalSink(sink)
		startURL := cfg.StartURL()
		result, werr := reportSink.Write(outputDir, startURL.String(), startedAt, records, allIssues, summary)
		if werr != nil {
			return fmt.Errorf("failed to write report: %w", werr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote report to %s\n", result.RecordsPath())
	}

	return nil
}

func buildConfig() (config.CrawlConfig, error) {
	if seedURL == "" {
		return config.CrawlConfig{}, fmt.Errorf("--seed-url is required")
	}

	normalized := seedURL
	if !strings.Contains(normalized, "://") {
		normalized = "https://" + normalized
	}

	parsed, err := url.Parse(normalized)
	if err != nil {
		return config.CrawlConfig{}, fmt.Errorf("invalid --seed-url %q: %w", seedURL, err)
	}

	return config.WithDefault(*parsed).
		WithMaxPages(maxPages).
		WithMaxDepth(maxDepth).
		WithIncludePatterns(includePatterns).
		WithExcludePatterns(excludePatterns).
		WithIgnoreNoindex(ignoreNoindex).
		WithRequestTimeout(requestTimeout).
		WithDelayRange(minDelay, maxDelay).
		WithRespectRobots(respectRobots).
		WithFollowRedirects(followRedirects).
		WithUseSitemap(useSitemap).
		WithAllowInsecureTLS(allowInsecureTLS).
		WithUserAgent(userAgent).
		WithOutputDir(outputDir).
		Build()
}

func printSummary(cmd *cobra.Command, records []analyzer.SEORecord, summary issues.Summary, stats orchestrator.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%d pages crawled (%d skipped)\n", stats.TotalPages, stats.SkippedURLs)
	fmt.Fprintf(out, "robots.txt: %s, sitemap: %s\n", stats.RobotsTxtStatus, stats.SitemapStatus)
	fmt.Fprintf(out, "issues: %d critical, %d high, %d medium, %d low (total %d)\n",
		summary.Critical, summary.High, summary.Medium, summary.Low, summary.Total)
	fmt.Fprintf(out, "health score: %d (%s)\n", summary.HealthScore, summary.HealthBand)
}
