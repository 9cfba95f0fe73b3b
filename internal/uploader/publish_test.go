package uploader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studioup/internal/services/browser"
	"studioup/internal/services/browser/fake"
)

func reviewStepsPage() *fake.Page {
	page := fake.New()
	page.Show(selNextButton)
	return page
}

func TestSelectVisibilityClicksThroughSteps(t *testing.T) {
	fastWaits(t)

	page := reviewStepsPage()
	page.Show(browser.ByText("Public"))

	vis, err := (&PublishController{}).SelectVisibility(
		context.Background(), &Session{Page: page}, &VideoJob{Visibility: "public"})

	require.NoError(t, err)
	assert.Equal(t, VisibilityPublic, vis)

	var nextClicks int
	for _, key := range page.Clicks {
		if key == selNextButton.Key() {
			nextClicks++
		}
	}
	assert.Equal(t, 3, nextClicks)
	assert.Contains(t, page.Clicks, browser.ByText("Public").Key())
}

func TestSelectVisibilityDraftClicksNothing(t *testing.T) {
	fastWaits(t)

	page := reviewStepsPage()

	vis, err := (&PublishController{}).SelectVisibility(
		context.Background(), &Session{Page: page}, &VideoJob{Visibility: "draft"})

	require.NoError(t, err)
	assert.Equal(t, VisibilityDraft, vis)
	assert.Len(t, page.Clicks, 3)
}

func TestSelectVisibilityUnknownFallsBackToUnlisted(t *testing.T) {
	fastWaits(t)

	page := reviewStepsPage()
	page.Show(browser.ByText("Unlisted"))

	vis, err := (&PublishController{}).SelectVisibility(
		context.Background(), &Session{Page: page}, &VideoJob{Visibility: "bogus"})

	require.NoError(t, err)
	assert.Equal(t, VisibilityUnlisted, vis)
	assert.Contains(t, page.Clicks, browser.ByText("Unlisted").Key())
}

func TestCaptureURLWaitsForText(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.SetText(selVideoURL, "  https://youtu.be/abc123  ")

	url, err := (&PublishController{}).CaptureURL(context.Background(), &Session{Page: page})

	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc123", url)
}

func TestFinalizeReportsIncompleteSetup(t *testing.T) {
	fastWaits(t)

	page := fake.New()

	err := (&PublishController{}).Finalize(context.Background(), &Session{Page: page}, &VideoJob{})
	assert.ErrorIs(t, err, ErrSetupIncomplete)
}

func TestFinalizeCompletes(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.Show(selCloseButton, selCloseLabel)

	err := (&PublishController{}).Finalize(context.Background(), &Session{Page: page}, &VideoJob{Title: "t"})
	assert.NoError(t, err)
}

func TestFinalizeDelayedPublish(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.Show(selVisibilityStep, browser.ByText("Public"), selCloseButton, selCloseLabel)
	page.Show(selSaveButton)
	page.SetAttribute(selShareLink, "href", "https://youtu.be/final99")

	job := &VideoJob{Title: "t", DelayedPublic: true}
	err := (&PublishController{}).Finalize(context.Background(), &Session{Page: page}, job)

	require.NoError(t, err)
	assert.Contains(t, page.Clicks, selVisibilityStep.Key())
	assert.Contains(t, page.Clicks, browser.ByText("Public").Key())
	// The publish button is missing here, so the save button takes over.
	assert.NotContains(t, page.Clicks, selPublishButton.Key())
	assert.Contains(t, page.Clicks, selSaveButton.Key())
}

func TestFinalizeDelayedPublishRetriesFlickeringButton(t *testing.T) {
	fastWaits(t)

	page := fake.New()
	page.Show(selVisibilityStep, browser.ByText("Public"), selCloseButton, selCloseLabel)
	page.SetAttribute(selShareLink, "href", "https://youtu.be/final99")

	attempts := 0
	page.OnClick = func(p *fake.Page, key string) error {
		if key != selPublishButton.Key() {
			return nil
		}
		attempts++
		if attempts < 3 {
			return assert.AnError
		}
		return nil
	}
	page.Show(selPublishButton)

	job := &VideoJob{Title: "t", DelayedPublic: true}
	err := (&PublishController{}).Finalize(context.Background(), &Session{Page: page}, job)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}
