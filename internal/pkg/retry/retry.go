// Package retry retries operations that failed with errs.ErrStoreUnavailable using bounded
// exponential backoff. Any other error ends the retries at once.
package retry

import (
	"context"
	"errors"
	"time"

	"atelier/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds the retries of a single operation.
type Policy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries uint64
	// AttemptTimeout bounds each attempt. Zero leaves attempts unbounded.
	AttemptTimeout  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy retries three times within roughly two seconds.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:      3,
		AttemptTimeout:  5 * time.Second,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// Notify is called before each retry with the error that caused it.
type Notify func(err error, wait time.Duration)

// Do runs op until it succeeds, fails with a non transient error, exhausts the policy or
// ctx is done. The last error is returned unchanged.
func Do(ctx context.Context, p Policy, notify Notify, op func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0

	attempt := func() error {
		err := runAttempt(ctx, p.AttemptTimeout, op)
		if err == nil || errors.Is(err, errs.ErrStoreUnavailable) {
			return err
		}
		return backoff.Permanent(err)
	}

	var n backoff.Notify
	if notify != nil {
		n = backoff.Notify(notify)
	}
	return backoff.RetryNotify(attempt, backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx), n)
}

func runAttempt(ctx context.Context, timeout time.Duration, op func(ctx context.Context) error) error {
	if timeout <= 0 {
		return op(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := op(attemptCtx)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) &&
		!errors.Is(err, errs.ErrStoreUnavailable) {
		return errs.NewStoreUnavailableError("attempt timed out", err)
	}
	return err
}
