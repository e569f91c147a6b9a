package timeutil

import (
	"math/rand"
	"time"
)

// DurationPtr is a helper function to create a pointer to a time.Duration.
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}

// MaxDuration returns the largest duration in durations, or zero for an
// empty slice.
func MaxDuration(durations []time.Duration) time.Duration {
	var max time.Duration
	for i, d := range durations {
		if i == 0 || d > max {
			max = d
		}
	}
	return max
}

// RetryBackoffDelay computes the wait before retry attempt k (0-indexed):
// 2^k + U(0,1) seconds.
func RetryBackoffDelay(attempt int, rng *rand.Rand) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := float64(uint64(1) << uint(attempt))
	jitter := rng.Float64()
	return time.Duration((base + jitter) * float64(time.Second))
}

// UniformDelay returns a uniformly random duration in [min, max). If
// max <= min, min is returned.
func UniformDelay(min, max time.Duration, rng *rand.Rand) time.Duration {
	if max <= min {
		return min
	}
	span := int64(max - min)
	return min + time.Duration(rng.Int63n(span))
}
