package browser

import (
	"context"
	"time"
)

// Await polls cond every interval until it reports true, the timeout
// elapses, or the context is cancelled. A timeout is an expected outcome,
// not an exception: it is reported through the boolean (false, nil), so
// callers branch on it instead of unwrapping errors. A timeout <= 0 means
// the wait is unbounded; server-side processing has no upper bound.
func Await(ctx context.Context, interval, timeout time.Duration, cond func() (bool, error)) (bool, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline:
			return false, nil
		case <-ticker.C:
		}
	}
}
