package uploader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studioup/internal/services/browser"
	"studioup/internal/services/browser/fake"
)

func TestStatusesEmitsDistinctValues(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.SetText(selProgressLabel, "Uploading 10%")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := NewProgressMonitor(&Session{Page: page})
	statuses := monitor.Statuses(ctx)

	require.Equal(t, "Uploading 10%", <-statuses)

	page.SetText(selProgressLabel, "Processing")
	require.Equal(t, "Processing", <-statuses)

	cancel()
	_, open := <-statuses
	assert.False(t, open)
}

func TestStatusesSkipsUnchangedAndEmpty(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.SetText(selProgressLabel, "")

	ctx, cancel := context.WithCancel(context.Background())
	monitor := NewProgressMonitor(&Session{Page: page})
	statuses := monitor.Statuses(ctx)

	select {
	case status := <-statuses:
		t.Fatalf("unexpected status %q for an empty label", status)
	case <-time.After(30 * time.Millisecond):
	}

	cancel()
	for range statuses {
	}
}

func TestLogUntilCancelledStops(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.SetText(selProgressLabel, "Uploading")

	monitor := NewProgressMonitor(&Session{Page: page})
	stop := monitor.LogUntilCancelled(context.Background())

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not return")
	}
}

func TestAwaitSignal(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.Show(browser.BySubstring("Upload complete"))

	monitor := NewProgressMonitor(&Session{Page: page})
	err := monitor.AwaitSignal(context.Background(), "Upload complete")
	assert.NoError(t, err)
}

func TestAwaitSignalHonoursCancellation(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	monitor := NewProgressMonitor(&Session{Page: page})
	err := monitor.AwaitSignal(ctx, "Checks complete")
	assert.ErrorIs(t, err, context.Canceled)
}
