package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	backoff "github.com/sethvargo/go-retry"

	"github.com/azulcreative/server/internal/domain"
)

// Policy governs how a generation attempt is retried. Delay is the base
// backoff; waits between attempts grow as Delay, 2*Delay, 4*Delay and so
// on. MaxRetries counts retries after the initial attempt, so a policy of
// {3, 2s} makes up to four attempts.
type Policy struct {
	MaxRetries uint64
	Delay      time.Duration
}

// Transient reports whether err is worth retrying. Only rate limiting and
// temporary overload qualify; revoked keys and malformed requests fail the
// same way on every attempt.
func Transient(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrServiceOverloaded)
}

// Do runs fn under the policy. Non-transient errors propagate immediately.
// When every attempt fails with a transient error the result is
// ErrQuotaExhausted wrapping the last failure, which callers surface as a
// billing problem rather than a bug.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	b := backoff.WithMaxRetries(policy.MaxRetries, backoff.NewExponential(policy.Delay))

	err := backoff.Do(ctx, b, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if Transient(err) {
				return backoff.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if Transient(err) {
		return fmt.Errorf("%w: %v", domain.ErrQuotaExhausted, err)
	}
	return err
}
