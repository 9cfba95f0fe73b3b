// Package retry provides bounded, fixed-interval retry for driver
// interactions that race against the console's asynchronous state changes.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Permanent is an error classifier: when it reports true the error is
// returned immediately instead of being retried.
type Permanent func(error) bool

// None treats every error as retryable.
func None(error) bool { return false }

// Do runs fn up to attempts times, sleeping delay between attempts. The
// first nil return wins. Context cancellation and permanent errors abort
// the loop.
func Do(ctx context.Context, attempts int, delay time.Duration, permanent Permanent, fn func(context.Context) error) error {
	if permanent == nil {
		permanent = None
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if permanent(err) || errors.Is(err, context.Canceled) {
			return err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
