package uploader

import (
	"context"
	"fmt"

	"studioup/internal/retry"
	"studioup/internal/utils"
)

// Scripts evaluated in the page. The unload handler would otherwise block
// re-navigation between jobs, and the hidden close-button label would make
// later completion waits match the wrong element.
const (
	jsResetUnloadGuard = `() => { window.onbeforeunload = null }`

	jsNeutralizeCloseLabel = `() => {
		const r = document.evaluate("//*[normalize-space(text())='Close']", document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null)
		if (r.singleNodeValue) r.singleNodeValue.textContent = 'close-upload-prompt'
	}`
)

// BeginUpload opens the upload dialog and hands the video (and thumbnail,
// when present) to the console's file choosers. The job's thumbnail must
// already be a local path by the time this runs.
func BeginUpload(ctx context.Context, sess *Session, job *VideoJob) error {
	page := sess.Page
	utils.LogInfo("Uploading video: %s", job.Path)

	if err := page.Eval(jsResetUnloadGuard); err != nil {
		utils.LogDebug("Failed to reset unload guard: %v", err)
	}
	if err := page.Navigate(ctx, sess.UploadURL); err != nil {
		return fmt.Errorf("failed to open upload dialog: %w", err)
	}

	// The select button occasionally fails to render; one reload usually
	// fixes it.
	err := retry.Do(ctx, 2, 0, nil, func(ctx context.Context) error {
		if err := page.WaitVisible(ctx, selSelectFiles, Waits.Default); err != nil {
			_ = page.Eval(jsResetUnloadGuard)
			if navErr := page.Navigate(ctx, sess.UploadURL); navErr != nil {
				return navErr
			}
			return err
		}
		return page.WaitVisible(ctx, selCloseLabel, Waits.Default)
	})
	if err != nil {
		return fmt.Errorf("select files button never appeared: %w", err)
	}

	if err := page.Eval(jsNeutralizeCloseLabel); err != nil {
		utils.LogDebug("Failed to neutralize close label: %v", err)
	}

	if err := page.SetFiles(selSelectFiles, []string{job.Path}); err != nil {
		return fmt.Errorf("failed to select video file: %w", err)
	}
	utils.LogVerbose("Video file selected: %s", job.Path)

	if job.Thumbnail != "" {
		if err := page.WaitVisible(ctx, selThumbnailChooser, Waits.Default); err != nil {
			return fmt.Errorf("thumbnail chooser not found: %w", err)
		}
		if err := page.SetFiles(selThumbnailChooser, []string{job.Thumbnail}); err != nil {
			return fmt.Errorf("failed to select thumbnail: %w", err)
		}
		utils.LogVerbose("Thumbnail selected: %s", job.Thumbnail)
	}

	return nil
}

// ResolveThumbnail turns a job's thumbnail reference into a usable local
// path: remote URLs are downloaded next to the video, missing local files
// clear the request. Never fatal for the job.
func ResolveThumbnail(job *VideoJob) {
	if job.Thumbnail == "" {
		return
	}

	if utils.IsRemoteURL(job.Thumbnail) {
		dest := utils.SiblingImagePath(job.Path)
		if err := utils.DownloadFile(job.Thumbnail, dest); err != nil {
			utils.LogWarning("Thumbnail download failed, continuing without: %v", err)
			job.Thumbnail = ""
			return
		}
		utils.LogInfo("Thumbnail downloaded to %s", dest)
		job.Thumbnail = dest
		return
	}

	if !utils.FileExists(job.Thumbnail) {
		utils.LogWarning("Thumbnail image not found, continuing without: %s", job.Thumbnail)
		job.Thumbnail = ""
	}
}
