package uploader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studioup/internal/services/browser/fake"
)

// cardsEditorPage scripts a cards editor where searching surfaces two
// playlist entries, the second of which matches.
func cardsEditorPage(duration string) *fake.Page {
	page := fake.New()
	page.Show(selDetailsStep, selAddCardButton, selCardSearch, selTimestampInput, selCardSave)
	page.SetAttribute(selCardsButton, "disabled", "")
	page.SetText(selTimestampShown, duration)
	page.SetCount(selCardEntryTitle, 2)
	page.SetText(selCardEntryTitle.Nth(0), "Other playlist")
	page.SetText(selCardEntryTitle.Nth(1), "My VODs")
	page.Show(selCardEntry, selCardEntry.Nth(1))
	return page
}

func TestCardLinkerAttachesCard(t *testing.T) {
	fastWaits(t)

	page := cardsEditorPage("45:30")
	sess := &Session{Page: page}

	err := (&CardLinker{}).link(context.Background(), sess, "My VODs")

	require.NoError(t, err)
	assert.Contains(t, page.Clicks, selDetailsStep.Key())
	assert.Contains(t, page.Clicks, selCardsButton.Key())
	assert.Contains(t, page.Clicks, selAddCardButton.Key())
	assert.Contains(t, page.Clicks, selCardEntry.Nth(1).Key())
	assert.Equal(t, selCardSave.Key(), page.Clicks[len(page.Clicks)-1])

	assert.Equal(t, "My VODs", page.TypedInto(selCardSearch))
	// The clamp probe is cleared before the real value is written, so only
	// the placed timestamp remains.
	assert.Equal(t, "44:30", page.TypedInto(selTimestampInput))
	assert.Len(t, page.Cleared, 2)
}

func TestCardLinkerPlacesFrameAccurateTimestamp(t *testing.T) {
	fastWaits(t)

	page := cardsEditorPage("1:23:45:67")
	sess := &Session{Page: page}

	err := (&CardLinker{}).link(context.Background(), sess, "My VODs")

	require.NoError(t, err)
	assert.Equal(t, "1:22:45:67", page.TypedInto(selTimestampInput))
}

func TestCardLinkerFailsWhenNoEntryMatches(t *testing.T) {
	fastWaits(t)

	page := cardsEditorPage("45:30")
	page.SetText(selCardEntryTitle.Nth(1), "Unrelated")
	sess := &Session{Page: page}

	err := (&CardLinker{}).link(context.Background(), sess, "My VODs")

	assert.ErrorContains(t, err, "no card entry")
}

func TestCardLinkerLinkNeverPanicsOnMissingEditor(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	sess := &Session{Page: page}

	// Best effort: a page without the editor logs a warning and returns.
	(&CardLinker{}).Link(context.Background(), sess, "My VODs")

	assert.Empty(t, page.Clicks)
}
