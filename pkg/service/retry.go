package service

import (
	"context"
	"math"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

const maxRetryWait = 30 * time.Second

// RetryTimeouts runs fn up to attempts times, retrying only when it fails
// with chain.ErrRequestTimeout. Waits grow by 1.5x per attempt from delay.
func RetryTimeouts(ctx context.Context, attempts uint, delay time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	return retry.Do(
		func() error { return fn(ctx) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.RetryIf(chain.IsTimeout),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			d, _ := GetBackoffDurationForAttempts(n, delay, maxRetryWait)
			return d
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Msg("Request timed out, backing off and trying again")
		}),
	)
}

// GetBackoffDurationForAttempts returns base*1.5^n capped at maxWait, and
// whether the cap was hit.
func GetBackoffDurationForAttempts(numAttempts uint, base time.Duration, maxWait time.Duration) (time.Duration, bool) {
	backoffBase := 1.5
	backoffDuration := time.Duration(math.Pow(backoffBase, float64(numAttempts)) * float64(base))

	maxReached := false
	if backoffDuration > maxWait || backoffDuration < 0 {
		maxReached = true
		backoffDuration = maxWait
	}

	return backoffDuration, maxReached
}
