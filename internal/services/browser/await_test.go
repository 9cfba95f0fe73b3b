package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAwaitConditionAlreadyTrue(t *testing.T) {
	calls := 0
	ok, err := Await(context.Background(), time.Millisecond, time.Second, func() (bool, error) {
		calls++
		return true, nil
	})
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestAwaitConditionBecomesTrue(t *testing.T) {
	calls := 0
	ok, err := Await(context.Background(), time.Millisecond, time.Second, func() (bool, error) {
		calls++
		return calls >= 3, nil
	})
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestAwaitTimeoutIsNotAnError(t *testing.T) {
	ok, err := Await(context.Background(), time.Millisecond, 10*time.Millisecond, func() (bool, error) {
		return false, nil
	})
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestAwaitConditionError(t *testing.T) {
	boom := errors.New("boom")
	ok, err := Await(context.Background(), time.Millisecond, time.Second, func() (bool, error) {
		return false, boom
	})
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestAwaitCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := Await(ctx, time.Hour, 0, func() (bool, error) {
		return false, nil
	})
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAwaitUnboundedIgnoresZeroTimeout(t *testing.T) {
	// A zero timeout means unbounded, so the wait only ends when the
	// condition turns true.
	calls := 0
	ok, err := Await(context.Background(), time.Millisecond, 0, func() (bool, error) {
		calls++
		return calls >= 5, nil
	})
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 5, calls)
}

func TestSelectorKeys(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		want string
	}{
		{name: "css", sel: CSS("#close-button"), want: "#close-button"},
		{name: "css nth", sel: CSS("[id=\"textbox\"]").Nth(1), want: "[id=\"textbox\"][1]"},
		{name: "exact text", sel: ByText("Next"), want: "text:Next"},
		{name: "substring", sel: BySubstring("Upload complete"), want: "text*:Upload complete"},
		{name: "folded text lowercases", sel: ByText("Japanese").FoldCase(), want: "text~:japanese"},
		{name: "folded last", sel: ByText("Japanese").FoldCase().LastMatch(), want: "text~:japanese[last]"},
		{name: "enabled parent", sel: ByText("Next").EnabledParent(), want: "text:Next/parent"},
		{name: "text nth", sel: ByText("Create").Nth(1), want: "text:Create[1]"},
		{name: "index zero is the default", sel: ByText("Create").Nth(0), want: "text:Create"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.Key())
		})
	}
}
