package uploader

import (
	"context"
	"time"

	"studioup/internal/services/browser"
)

// Selectors for the console, shared across the workflow steps. Text-based
// selectors depend on the UI language being English, which is why the
// session manager normalizes the locale before anything else runs.
var (
	selStudioShortcut = browser.CSS(".button.text-button.black-secondary")
	selUploadsDialog  = browser.CSS("ytcp-uploads-dialog")

	selEmailInput     = browser.CSS(`input[type="email"]`)
	selPasswordInput  = browser.CSS(`input[type="password"]:not([aria-hidden="true"])`)
	selChallengeInput = browser.CSS(`input[aria-label="Type the text you hear or see"]`)

	selSelectedLang     = browser.CSS(`[aria-selected="true"]`)
	selLoginLangEnglish = browser.CSS(`[role="presentation"]:not([aria-hidden="true"])>[data-value="en-GB"]`)
	selAvatarButton     = browser.CSS("button#avatar-btn")
	selHomeLangMenuItem = browser.CSS("yt-multi-page-menu-section-renderer+yt-multi-page-menu-section-renderer>#items>ytd-compact-link-renderer>a")
	selHomeLangEnglish  = browser.ByText("English (UK)")

	selConfirmRecovery      = browser.ByText("Confirm your recovery email")
	selEnterRecoveryAddress = browser.ByText("Enter recovery email address")

	selSelectFiles      = browser.ByText("Select files")
	selCloseLabel       = browser.ByText("Close")
	selThumbnailChooser = browser.CSS(`[class="remove-default-style style-scope ytcp-thumbnails-compact-editor-uploader"]`)

	selTextbox          = browser.CSS(`[id="textbox"]`)
	selNotForKids       = browser.BySubstring("No, it's")
	selShowMore         = browser.ByText("Show more")
	selPlaylistDropdown = browser.ByText("Select")
	selPlaylistSearch   = browser.CSS("#search-input")
	selPlaylistDone     = browser.ByText("Done")
	selNewPlaylist      = browser.ByText("New playlist")
	selCreatePlaylist   = browser.ByText("Create playlist")
	selPlaylistCreate   = browser.ByText("Create").Nth(1)
	selTagsInput        = browser.CSS(`[aria-label="Tags"]`)
	selVideoLanguage    = browser.ByText("Video language")

	selNextButton = browser.ByText("Next").EnabledParent()

	selProgressLabel = browser.CSS("tp-yt-paper-dialog .progress-label.style-scope.ytcp-video-upload-progress")
	selVideoURL      = browser.CSS(".video-url-fadeable")

	selDetailsStep    = browser.CSS("#step-badge-1")
	selVisibilityStep = browser.CSS("#step-badge-3")
	selCardsButton    = browser.CSS("#cards-button")
	selAddCardButton  = browser.CSS(".add-card-icon-button").Nth(1)
	selCardSearch     = browser.CSS("#search-any")
	selCardEntry      = browser.CSS("#inner-dialog ytcp-entity-card")
	selCardEntryTitle = browser.CSS("#inner-dialog ytcp-entity-card .title")
	selTimestampInput = browser.CSS("ytcp-media-timestamp-input input")
	selTimestampShown = browser.CSS("ytcp-media-timestamp-input #display")
	selCardSave       = browser.CSS("ytcp-button#save-button")

	selPublishButton = browser.ByText("Publish").EnabledParent()
	selSaveButton    = browser.ByText("Save").EnabledParent()
	selShareLink     = browser.CSS(`[href^="https://youtu.be"]`)
	selCloseButton   = browser.CSS("#close-button")
)

// WaitBudget holds the package's wait and polling budgets. Terminal
// processing waits are unbounded and use browser.Await directly.
type WaitBudget struct {
	Default time.Duration
	Short   time.Duration

	SettleShort  time.Duration
	SettleMedium time.Duration
	SettleLong   time.Duration

	// Recovery paces the recovery-email prompt, which rejects input that
	// arrives too quickly after render.
	Recovery time.Duration

	PlaylistEntry time.Duration
	CardList      time.Duration
	CardEntryPoll time.Duration
	PublishRetry  time.Duration
	ProgressPoll  time.Duration
}

// Waits is exported so tests driving a scripted page can shrink the budgets.
var Waits = WaitBudget{
	Default: 60 * time.Second,
	Short:   3 * time.Second,

	SettleShort:  1 * time.Second,
	SettleMedium: 2 * time.Second,
	SettleLong:   3 * time.Second,

	Recovery: 5 * time.Second,

	PlaylistEntry: 10 * time.Second,
	CardList:      5 * time.Second,
	CardEntryPoll: 60 * time.Second,
	PublishRetry:  5 * time.Second,
	ProgressPoll:  time.Second,
}

// settle pauses for the page to catch up, returning early on cancellation.
func settle(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
