package publish

import "time"

// RetryPolicy bounds a retried operation: at most Attempts tries, with
// a monotonically increasing pause between them. The policy is a pure
// function of the attempt number so callers decide how to wait.
type RetryPolicy struct {
	Attempts int
	Base     time.Duration
}

// Delay returns the pause to take after the given 1-based attempt has
// failed. The delay grows linearly: attempt * Base.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return time.Duration(attempt) * p.Base
}

// PublishRetry is the policy for the final rename. Contention on the
// destination is usually a virus scanner, indexer, or editor holding
// the file briefly; a second of accumulated patience covers it.
var PublishRetry = RetryPolicy{Attempts: 10, Base: 100 * time.Millisecond}

// CleanupRetry is the policy for temporary-file deletion. Smaller than
// PublishRetry: cleanup failure is reportable, not fatal, so there is
// no point stalling the exit path for long.
var CleanupRetry = RetryPolicy{Attempts: 5, Base: 50 * time.Millisecond}
