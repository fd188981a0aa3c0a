// Package retry runs an operation at a fixed interval until it succeeds,
// the attempt limit is reached, or the context ends.
//
// Scheduling is delegated to cenkalti/backoff; this package adds the attempt
// number, the retry hook, and a sentinel for an exhausted attempt limit.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExhausted is returned (wrapped together with the last operation error)
// when MaxAttempts is reached.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy describes how often and how long to retry.
type Policy struct {
	// Interval is the delay between attempts.
	Interval time.Duration

	// MaxAttempts bounds the total number of attempts. Zero retries forever.
	MaxAttempts int

	// Timer waits out each delay. Nil uses a real timer.
	Timer backoff.Timer

	// OnRetry, if set, is called after a failed attempt and before waiting.
	OnRetry func(attempt int, err error, delay time.Duration)
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = backoff.NewConstantBackOff(p.Interval)
	if p.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}

// Do calls op until it returns nil. The attempt number passed to op starts
// at 1. Do returns nil on success, the context error (wrapping the last
// operation error) when ctx ends, or ErrExhausted when MaxAttempts is hit.
func Do(ctx context.Context, p Policy, op func(ctx context.Context, attempt int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	attempt := 0
	var lastErr error
	operation := func() error {
		attempt++
		lastErr = op(ctx, attempt)
		return lastErr
	}
	notify := func(err error, delay time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, delay)
		}
	}

	err := backoff.RetryNotifyWithTimer(operation, p.backOff(ctx), notify, p.Timer)
	if err == nil {
		return nil
	}

	if cerr := ctx.Err(); cerr != nil {
		if lastErr != nil && !errors.Is(lastErr, cerr) {
			return fmt.Errorf("%w (last error: %w)", cerr, lastErr)
		}
		return cerr
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
	}
	return err
}
