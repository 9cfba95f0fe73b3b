package uploader

import (
	"context"
	"fmt"
	"strings"

	"studioup/internal/services/browser"
	"studioup/internal/utils"
)

// FormFiller populates the details step of the upload dialog: title,
// description, audience, playlist, tags and language.
type FormFiller struct {
	// StrictPlaylists turns a playlist resolution failure into a job
	// failure instead of a logged warning.
	StrictPlaylists bool
}

// Fill writes the job's metadata into the form. The title and description
// inputs are the same element type, so the form is only considered ready
// once both exist.
func (f *FormFiller) Fill(ctx context.Context, sess *Session, job *VideoJob) error {
	page := sess.Page

	ok, err := browser.Await(ctx, Waits.SettleShort, Waits.Default, func() (bool, error) {
		n, err := page.Count(selTextbox)
		if err != nil {
			return false, nil
		}
		return n > 1, nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: expected title and description inputs", ErrFormFieldMissing)
	}

	if title := job.CleanTitle(); title != "" {
		if err := page.Focus(selTextbox); err != nil {
			return err
		}
		settle(ctx, Waits.SettleShort)
		if err := page.Type(selTextbox, title); err != nil {
			return err
		}
		utils.LogVerbose("Title written: %s", title)
	}

	if desc := job.CleanDescription(); desc != "" {
		if err := page.Type(selTextbox.Nth(1), desc); err != nil {
			return err
		}
		utils.LogVerbose("Description written (%d chars)", len(desc))
	}

	// Audience interstitial: always "not made for kids".
	if err := page.Click(selNotForKids); err != nil {
		return fmt.Errorf("audience option not found: %w", err)
	}

	if err := page.Click(selShowMore); err != nil {
		return fmt.Errorf("failed to expand advanced options: %w", err)
	}

	if job.Playlist != "" {
		if err := f.resolvePlaylist(ctx, page, job.Playlist); err != nil {
			if f.StrictPlaylists {
				return err
			}
			utils.LogWarning("Continuing without playlist: %v", err)
		} else {
			utils.LogVerbose("Playlist resolved: %s", job.Playlist)
		}
	}

	if tags := job.SerializedTags(); tags != "" {
		if err := page.Focus(selTagsInput); err != nil {
			return fmt.Errorf("tags input not found: %w", err)
		}
		if err := page.Type(selTagsInput, tags); err != nil {
			return err
		}
		utils.LogVerbose("Tags written: %s", tags)
	}

	if job.Language != "" {
		if err := f.selectLanguage(page, job.Language); err != nil {
			return err
		}
		utils.LogVerbose("Language selected: %s", job.Language)
	}

	return nil
}

// resolvePlaylist tries to select an existing playlist and falls back to
// creating one.
func (f *FormFiller) resolvePlaylist(ctx context.Context, page browser.Page, name string) error {
	selectErr := f.selectPlaylist(ctx, page, name)
	if selectErr == nil {
		return nil
	}
	utils.LogVerbose("Playlist %q not selectable, creating it: %v", name, selectErr)

	if createErr := f.createPlaylist(ctx, page, name); createErr != nil {
		return fmt.Errorf("%w: select: %v, create: %v", ErrPlaylistResolution, selectErr, createErr)
	}
	return nil
}

func (f *FormFiller) selectPlaylist(ctx context.Context, page browser.Page, name string) error {
	if err := page.Click(selPlaylistDropdown); err != nil {
		return err
	}
	if err := page.WaitVisible(ctx, selPlaylistSearch, Waits.Default); err != nil {
		return err
	}
	if err := page.Type(selPlaylistSearch, name); err != nil {
		return err
	}

	entry := browser.ByText(name)
	if err := page.WaitVisible(ctx, entry, Waits.PlaylistEntry); err != nil {
		return err
	}
	if err := page.Click(entry); err != nil {
		return err
	}
	return page.Click(selPlaylistDone)
}

func (f *FormFiller) createPlaylist(ctx context.Context, page browser.Page, name string) error {
	if err := page.Click(selPlaylistDropdown); err != nil {
		return err
	}

	// The create entry is labelled differently across console revisions.
	err := page.WaitVisible(ctx, selNewPlaylist, Waits.Short)
	create := selNewPlaylist
	if err != nil {
		if err := page.WaitVisible(ctx, selCreatePlaylist, Waits.Short); err != nil {
			return fmt.Errorf("create playlist entry not found: %w", err)
		}
		create = selCreatePlaylist
	}
	if err := page.Click(create); err != nil {
		return err
	}

	// Leading space keeps the console from treating the first character as
	// a keyboard shortcut.
	if err := page.TypeActive(" " + truncate(name, MaxPlaylistNameLen)); err != nil {
		return err
	}
	if err := page.Click(selPlaylistCreate); err != nil {
		return err
	}
	return page.Click(selPlaylistDone)
}

// selectLanguage opens the language menu and clicks the last entry whose
// text matches case-insensitively. Some menus render duplicate-looking
// entries where only the last one is interactive.
func (f *FormFiller) selectLanguage(page browser.Page, language string) error {
	if err := page.Click(selVideoLanguage); err != nil {
		return fmt.Errorf("language menu not found: %w", err)
	}

	option := browser.ByText(strings.ToLower(language)).FoldCase().LastMatch()
	if err := page.Click(option); err != nil {
		return fmt.Errorf("language option %q not found: %w", language, err)
	}
	return nil
}
