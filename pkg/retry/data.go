package retry

// RetryParam holds the parameters for retry logic. These parameters are
// passed from outside (e.g., config) and should not be known by the retry
// handler internally.
//
// MaxAttempts counts the first try plus retries: MaxAttempts=3 means one
// attempt followed by up to two retries, matching the fetch retry policy.
type RetryParam struct {
	RandomSeed  int64
	MaxAttempts int
}

// NewRetryParam creates a new RetryParam with the given settings.
func NewRetryParam(randomSeed int64, maxAttempts int) RetryParam {
	return RetryParam{
		RandomSeed:  randomSeed,
		MaxAttempts: maxAttempts,
	}
}
