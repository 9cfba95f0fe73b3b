package uploader

import (
	"context"
	"strings"
	"time"

	"studioup/internal/services/browser"
	"studioup/internal/utils"
)

// ProgressMonitor reads the upload dialog's progress label. The console
// mutates it asynchronously through the whole upload/processing/publish
// pipeline, so the monitor exposes it as a polled status stream.
type ProgressMonitor struct {
	sess *Session
}

// NewProgressMonitor creates a monitor bound to the session's page.
func NewProgressMonitor(sess *Session) *ProgressMonitor {
	return &ProgressMonitor{sess: sess}
}

// Statuses returns a lazy, infinite stream of progress label values,
// emitting only changes. The stream ends when ctx is cancelled; transient
// read failures are swallowed. Calling Statuses again restarts the
// sequence from the current label.
func (m *ProgressMonitor) Statuses(ctx context.Context) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)
		ticker := time.NewTicker(Waits.ProgressPoll)
		defer ticker.Stop()

		var last string
		for {
			status, err := m.sess.Page.Text(selProgressLabel)
			if err != nil {
				utils.LogDebug("Progress read failed: %v", err)
			} else if status != "" && status != last {
				last = status
				select {
				case out <- status:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

// LogUntilCancelled drains a status stream into the batch log. Returns a
// stop function that cancels the stream and waits for it to finish.
func (m *ProgressMonitor) LogUntilCancelled(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for status := range m.Statuses(ctx) {
			utils.LogInfo("%s", status)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// AwaitSignal blocks until the console shows text containing the given
// terminal-state marker ("Upload complete", "Checks complete"). The wait is
// unbounded: server-side processing has no deadline.
func (m *ProgressMonitor) AwaitSignal(ctx context.Context, marker string) error {
	utils.LogVerbose("Waiting for %q", marker)
	sel := browser.BySubstring(marker)
	_, err := browser.Await(ctx, Waits.ProgressPoll, 0, func() (bool, error) {
		found, err := m.sess.Page.Exists(sel)
		if err != nil {
			utils.LogDebug("Signal poll failed: %v", err)
			return false, nil
		}
		return found, nil
	})
	if err != nil {
		return err
	}
	utils.LogInfo("%s", strings.TrimSpace(marker))
	return nil
}
