package uploader

import (
	"testing"
	"time"
)

// fastWaits shrinks every wait budget so the state machines, polled against
// the scripted fake at millisecond granularity, finish quickly. The
// originals are restored when the test ends.
func fastWaits(t *testing.T) {
	t.Helper()

	orig := Waits
	Waits = WaitBudget{
		Default: 50 * time.Millisecond,
		Short:   20 * time.Millisecond,

		SettleShort:  time.Millisecond,
		SettleMedium: time.Millisecond,
		SettleLong:   time.Millisecond,

		Recovery: time.Millisecond,

		PlaylistEntry: 20 * time.Millisecond,
		CardList:      20 * time.Millisecond,
		CardEntryPoll: 50 * time.Millisecond,
		PublishRetry:  time.Millisecond,
		ProgressPoll:  5 * time.Millisecond,
	}
	t.Cleanup(func() { Waits = orig })
}
