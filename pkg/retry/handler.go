package retry

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rohmanhakim/seo-auditor/pkg/failure"
	"github.com/rohmanhakim/seo-auditor/pkg/timeutil"
)

// Result carries the outcome of a retried call: the value on success, the
// classified error on failure, and how many attempts were made.
type Result[T any] struct {
	value    T
	err      failure.ClassifiedError
	attempts int
}

func NewSuccessResult[T any](value T, attempts int) Result[T] {
	return Result[T]{value: value, attempts: attempts}
}

func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Err() failure.ClassifiedError {
	return r.err
}

func (r Result[T]) Attempts() int {
	return r.attempts
}

func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

func (r Result[T]) IsFailure() bool {
	return r.err != nil
}

// Retry executes fn up to retryParam.MaxAttempts times. Between retryable
// failures it sleeps 2^k + U(0,1) seconds, where k is the number of retries
// already made (so the first retry, k=0, waits between one and two
// seconds). Non-retryable errors return immediately without sleeping.
func Retry[T any](retryParam RetryParam, fn func() (T, failure.ClassifiedError)) Result[T] {
	var lastErr failure.ClassifiedError
	var zero T

	if retryParam.MaxAttempts < 1 {
		return Result[T]{
			value: zero,
			err: &RetryError{
				Message:   "max attempt cannot be 0",
				Cause:     ErrZeroAttempt,
				Retryable: true,
			},
			attempts: 0,
		}
	}

	rng := rand.New(rand.NewSource(retryParam.RandomSeed))

	for attempt := 1; attempt <= retryParam.MaxAttempts; attempt++ {
		result, err := fn()

		if err == nil {
			return NewSuccessResult(result, attempt)
		}

		lastErr = err

		if !isErrorRetryable(err) {
			return Result[T]{
				value:    zero,
				err:      err,
				attempts: attempt,
			}
		}

		if attempt == retryParam.MaxAttempts {
			break
		}

		backoffDelay := timeutil.RetryBackoffDelay(attempt-1, rng)
		time.Sleep(backoffDelay)
	}

	return Result[T]{
		value: zero,
		err: &RetryError{
			Message:   fmt.Sprintf("exhausted %d attempts. Last error: %v", retryParam.MaxAttempts, lastErr),
			Cause:     ErrExhaustedAttempts,
			Retryable: true,
		},
		attempts: retryParam.MaxAttempts,
	}
}

// isErrorRetryable checks if an error should be retried by looking for an
// IsRetryable() bool method; errors that don't implement it are treated as
// retryable by default.
func isErrorRetryable(err failure.ClassifiedError) bool {
	type hasRetryable interface {
		IsRetryable() bool
	}
	if r, ok := err.(hasRetryable); ok {
		return r.IsRetryable()
	}
	return true
}
