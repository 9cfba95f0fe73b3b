package uploader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studioup/internal/retry"
	"studioup/internal/services/browser"
	"studioup/internal/utils"
)

const (
	publishAttempts = 10

	urlSentinel = "https://youtu.be/"
)

// PublishController walks the review steps and drives the video to its
// final visibility.
type PublishController struct{}

// SelectVisibility advances through the three review confirmations and
// picks the requested visibility. Draft means no click at all: closing the
// dialog later leaves the video as a draft.
func (c *PublishController) SelectVisibility(ctx context.Context, sess *Session, job *VideoJob) (Visibility, error) {
	page := sess.Page

	for i := 0; i < 3; i++ {
		if err := page.WaitVisible(ctx, selNextButton, Waits.Default); err != nil {
			return "", fmt.Errorf("next button not found on step %d: %w", i+1, err)
		}
		if err := page.Click(selNextButton); err != nil {
			return "", err
		}
	}

	visibility := NormalizeVisibility(job.Visibility)
	if visibility == VisibilityDraft {
		utils.LogVerbose("Leaving video as draft")
		return visibility, nil
	}

	option := browser.ByText(visibility.Label())
	if err := page.WaitVisible(ctx, option, Waits.Default); err != nil {
		return "", fmt.Errorf("visibility option %s not found: %w", visibility.Label(), err)
	}
	if err := page.Click(option); err != nil {
		return "", err
	}
	utils.LogInfo("Visibility selected: %s", visibility.Label())
	return visibility, nil
}

// CaptureURL waits until the dialog shows a non-placeholder video link and
// returns it.
func (c *PublishController) CaptureURL(ctx context.Context, sess *Session) (string, error) {
	page := sess.Page

	if err := page.WaitVisible(ctx, selVideoURL, Waits.Default); err != nil {
		return "", fmt.Errorf("video link element not found: %w", err)
	}

	var url string
	_, err := browser.Await(ctx, time.Second, 0, func() (bool, error) {
		text, err := page.Text(selVideoURL)
		if err != nil {
			return false, nil
		}
		url = strings.TrimSpace(text)
		return url != "", nil
	})
	if err != nil {
		return "", err
	}

	utils.LogSuccess("Video URL: %s", url)
	return url, nil
}

// Finalize finishes the dialog: flips a delayed-public video to public once
// checks are done, then waits for the completion dialog. A dialog that
// never completes is reported as a setup problem, not a crash.
func (c *PublishController) Finalize(ctx context.Context, sess *Session, job *VideoJob) error {
	page := sess.Page

	if job.DelayedPublic {
		if err := c.publishDelayed(ctx, sess); err != nil {
			return err
		}
	}

	if err := page.WaitVisible(ctx, selCloseButton, 2*Waits.Default); err != nil {
		return ErrSetupIncomplete
	}
	if err := page.WaitVisible(ctx, selCloseLabel, Waits.Default); err != nil {
		return ErrSetupIncomplete
	}
	settle(ctx, Waits.SettleMedium)

	utils.LogSuccess("Upload completed: %s", job.CleanTitle())
	return nil
}

// publishDelayed re-opens the visibility step after processing checks and
// clicks through to public. The publish button flickers between enabled
// and disabled while the console catches up, hence the slow retry loop.
func (c *PublishController) publishDelayed(ctx context.Context, sess *Session) error {
	page := sess.Page
	utils.LogInfo("Processing finished, switching video to public")

	if err := page.WaitVisible(ctx, selVisibilityStep, Waits.Default); err != nil {
		return fmt.Errorf("visibility step badge not found: %w", err)
	}
	if err := page.Click(selVisibilityStep); err != nil {
		return err
	}

	public := browser.ByText(VisibilityPublic.Label())
	if err := page.WaitVisible(ctx, public, Waits.Default); err != nil {
		return fmt.Errorf("public option not found: %w", err)
	}
	if err := page.Click(public); err != nil {
		return err
	}

	// The share link goes from the bare sentinel to the real short URL once
	// the console has assigned the final video ID.
	if err := page.WaitVisible(ctx, selShareLink, Waits.Default); err == nil {
		_, _ = browser.Await(ctx, 500*time.Millisecond, Waits.Default, func() (bool, error) {
			href, err := page.Attribute(selShareLink, "href")
			if err != nil {
				return false, nil
			}
			if href != "" && href != urlSentinel {
				utils.LogVerbose("Share link ready: %s", href)
				return true, nil
			}
			return false, nil
		})
	}

	err := retry.Do(ctx, publishAttempts, Waits.PublishRetry, nil, func(ctx context.Context) error {
		if err := page.Click(selPublishButton); err == nil {
			return nil
		}
		return page.Click(selSaveButton)
	})
	if err != nil {
		return fmt.Errorf("publish button never became clickable: %w", err)
	}

	if err := page.WaitVisible(ctx, selCloseLabel, Waits.Default); err != nil {
		return fmt.Errorf("close control missing after publish: %w", err)
	}
	return nil
}
