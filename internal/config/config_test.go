package config_test

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/seo-auditor/internal/config"
)

func baseURL() url.URL {
	return url.URL{Scheme: "https", Host: "example.org"}
}

func TestWithDefault(t *testing.T) {
	built, err := config.WithDefault(baseURL()).Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if built.StartURL().Host != "example.org" {
		t.Errorf("expected StartURL host 'example.org', got %q", built.StartURL().Host)
	}
	if built.MaxDepth() != 3 {
		t.Errorf("expected MaxDepth 3, got %d", built.MaxDepth())
	}
	if built.MaxPages() != 100 {
		t.Errorf("expected MaxPages 100, got %d", built.MaxPages())
	}
	if built.Concurrency() != 10 {
		t.Errorf("expected Concurrency 10, got %d", built.Concurrency())
	}
	min, max := built.DelayRange()
	if min != 500*time.Millisecond || max != 1500*time.Millisecond {
		t.Errorf("expected delay range [500ms,1500ms], got [%v,%v]", min, max)
	}
	if built.RequestTimeout() != 10*time.Second {
		t.Errorf("expected RequestTimeout 10s, got %v", built.RequestTimeout())
	}
	if !built.RespectRobots() {
		t.Error("expected RespectRobots true by default")
	}
	if !built.FollowRedirects() {
		t.Error("expected FollowRedirects true by default")
	}
	if !built.UseSitemap() {
		t.Error("expected UseSitemap true by default")
	}
	if built.AllowInsecureTLS() {
		t.Error("expected AllowInsecureTLS false by default")
	}
	if built.UserAgent() != "seo-auditor/1.0" {
		t.Errorf("expected default UserAgent, got %q", built.UserAgent())
	}
	if built.RandomSeed() == 0 {
		t.Error("expected RandomSeed to be set to a non-zero value")
	}
}

func TestBuild_RejectsMissingHost(t *testing.T) {
	_, err := config.WithDefault(url.URL{}).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty start URL, got %v", err)
	}
}

func TestBuild_RejectsMaxPagesLessThanOne(t *testing.T) {
	_, err := config.WithDefault(baseURL()).WithMaxPages(0).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for max_pages < 1, got %v", err)
	}
}

func TestBuild_RejectsMaxDepthLessThanOne(t *testing.T) {
	_, err := config.WithDefault(baseURL()).WithMaxDepth(0).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for max_depth < 1, got %v", err)
	}
}

func TestBuild_RejectsInvertedDelayRange(t *testing.T) {
	_, err := config.WithDefault(baseURL()).WithDelayRange(2*time.Second, 1*time.Second).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for min > max delay, got %v", err)
	}
}

func TestBuild_RejectsZeroMinDelay(t *testing.T) {
	_, err := config.WithDefault(baseURL()).WithDelayRange(0, time.Second).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero min delay, got %v", err)
	}
}

func TestBuild_RejectsNonPositiveTimeout(t *testing.T) {
	_, err := config.WithDefault(baseURL()).WithRequestTimeout(0).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero timeout, got %v", err)
	}
}

func TestWithIncludeExcludePatterns(t *testing.T) {
	built, err := config.WithDefault(baseURL()).
		WithIncludePatterns([]string{"/blog/*"}).
		WithExcludePatterns([]string{"/admin/*"}).
		Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if len(built.IncludePatterns()) != 1 || built.IncludePatterns()[0] != "/blog/*" {
		t.Errorf("unexpected IncludePatterns: %v", built.IncludePatterns())
	}
	if len(built.ExcludePatterns()) != 1 || built.ExcludePatterns()[0] != "/admin/*" {
		t.Errorf("unexpected ExcludePatterns: %v", built.ExcludePatterns())
	}

	compiled := built.CompiledIncludePatterns()
	if len(compiled) != 1 {
		t.Fatalf("expected 1 compiled include pattern, got %d", len(compiled))
	}
}

func TestWithAllowInsecureTLS(t *testing.T) {
	built, err := config.WithDefault(baseURL()).WithAllowInsecureTLS(true).Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if !built.AllowInsecureTLS() {
		t.Error("expected AllowInsecureTLS true after WithAllowInsecureTLS(true)")
	}
}

func TestWithRespectRobotsAndFollowRedirects(t *testing.T) {
	built, err := config.WithDefault(baseURL()).
		WithRespectRobots(false).
		WithFollowRedirects(false).
		WithUseSitemap(false).
		Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if built.RespectRobots() {
		t.Error("expected RespectRobots false")
	}
	if built.FollowRedirects() {
		t.Error("expected FollowRedirects false")
	}
	if built.UseSitemap() {
		t.Error("expected UseSitemap false")
	}
}

func TestWithIgnoreNoindex(t *testing.T) {
	built, err := config.WithDefault(baseURL()).WithIgnoreNoindex(true).Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if !built.IgnoreNoindex() {
		t.Error("expected IgnoreNoindex true")
	}
}

func TestWithRandomSeed(t *testing.T) {
	built, err := config.WithDefault(baseURL()).WithRandomSeed(12345).Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if built.RandomSeed() != 12345 {
		t.Errorf("expected RandomSeed 12345, got %d", built.RandomSeed())
	}
}

func TestWithMaxAttempt(t *testing.T) {
	built, err := config.WithDefault(baseURL()).WithMaxAttempt(5).Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if built.MaxAttempt() != 5 {
		t.Errorf("expected MaxAttempt 5, got %d", built.MaxAttempt())
	}
}

func TestBuild_RejectsNonPositiveMaxAttempt(t *testing.T) {
	_, err := config.WithDefault(baseURL()).WithMaxAttempt(0).Build()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for max attempt < 1, got %v", err)
	}
}

func TestWithOutputDirAndDryRun(t *testing.T) {
	built, err := config.WithDefault(baseURL()).
		WithOutputDir("/tmp/custom-output").
		WithDryRun(true).
		Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if built.OutputDir() != "/tmp/custom-output" {
		t.Errorf("expected OutputDir '/tmp/custom-output', got %q", built.OutputDir())
	}
	if !built.DryRun() {
		t.Error("expected DryRun true")
	}
}

func TestIncludePatternsReturnsDefensiveCopy(t *testing.T) {
	built, err := config.WithDefault(baseURL()).WithIncludePatterns([]string{"/a"}).Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	patterns := built.IncludePatterns()
	patterns[0] = "/mutated"

	if built.IncludePatterns()[0] != "/a" {
		t.Error("IncludePatterns() should return a defensive copy, mutation leaked into config")
	}
}
