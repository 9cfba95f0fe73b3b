package uploader

import (
	"context"
	"fmt"
	"time"

	"studioup/internal/services/browser"
	"studioup/internal/utils"
)

const cardEntryPollInterval = 500 * time.Millisecond

// CardLinker attaches an end-of-video playlist card through the cards
// editor. Everything here is best-effort: card linking never fails a job.
type CardLinker struct{}

// Link attaches the card and logs instead of failing on any error.
func (l *CardLinker) Link(ctx context.Context, sess *Session, playlistName string) {
	if err := l.link(ctx, sess, playlistName); err != nil {
		utils.LogWarning("Card linking skipped: %v", err)
		return
	}
	utils.LogSuccess("Playlist card attached: %s", playlistName)
}

func (l *CardLinker) link(ctx context.Context, sess *Session, playlistName string) error {
	page := sess.Page

	if err := page.WaitVisible(ctx, selDetailsStep, Waits.Default); err != nil {
		return fmt.Errorf("details step badge not found: %w", err)
	}
	if err := page.Click(selDetailsStep); err != nil {
		return err
	}

	// The cards button stays disabled until server-side processing is far
	// enough along. No upper bound: processing time is the video's problem.
	if err := page.WaitVisible(ctx, selCardsButton, Waits.Default); err != nil {
		return fmt.Errorf("cards button not found: %w", err)
	}
	ok, err := browser.Await(ctx, time.Second, 0, func() (bool, error) {
		disabled, err := page.Attribute(selCardsButton, "disabled")
		if err != nil {
			return false, nil
		}
		return disabled == "", nil
	})
	if err != nil || !ok {
		return fmt.Errorf("cards button never enabled: %w", err)
	}
	if err := page.Click(selCardsButton); err != nil {
		return err
	}

	if err := page.WaitVisible(ctx, selAddCardButton, Waits.Default); err != nil {
		return fmt.Errorf("add card button not found: %w", err)
	}
	if err := page.Click(selAddCardButton); err != nil {
		return err
	}

	if err := page.WaitVisible(ctx, selCardSearch, Waits.Default); err != nil {
		return fmt.Errorf("card search input not found: %w", err)
	}
	if err := page.Focus(selCardSearch); err != nil {
		return err
	}
	if err := page.Type(selCardSearch, playlistName); err != nil {
		return err
	}
	settle(ctx, Waits.SettleMedium)

	if err := l.selectCardEntry(ctx, page, playlistName); err != nil {
		return err
	}
	settle(ctx, Waits.SettleShort)

	if err := l.placeTimestamp(ctx, page); err != nil {
		return err
	}

	if err := page.Focus(selCardSave); err != nil {
		return err
	}
	settle(ctx, Waits.SettleShort)
	return page.Click(selCardSave)
}

// selectCardEntry polls the result list until an entry's title matches the
// playlist name exactly, then clicks it.
func (l *CardLinker) selectCardEntry(ctx context.Context, page browser.Page, playlistName string) error {
	if err := page.WaitVisible(ctx, selCardEntry, Waits.CardList); err != nil {
		return fmt.Errorf("no card entries appeared: %w", err)
	}
	settle(ctx, Waits.SettleMedium)

	ok, err := browser.Await(ctx, cardEntryPollInterval, Waits.CardEntryPoll, func() (bool, error) {
		n, err := page.Count(selCardEntryTitle)
		if err != nil {
			return false, nil
		}
		for i := 0; i < n; i++ {
			title, err := page.Text(selCardEntryTitle.Nth(i))
			if err != nil {
				continue
			}
			if title == playlistName {
				return true, page.Click(selCardEntry.Nth(i))
			}
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no card entry titled %q", playlistName)
	}
	return nil
}

// placeTimestamp reads the video duration out of the timestamp input and
// writes back the computed card position. Typing an oversized value first
// makes the input clamp to the video's end, which is the only way the
// editor exposes the duration.
func (l *CardLinker) placeTimestamp(ctx context.Context, page browser.Page) error {
	if err := page.Focus(selTimestampInput); err != nil {
		return fmt.Errorf("timestamp input not found: %w", err)
	}
	if err := page.ClearInput(selTimestampInput); err != nil {
		return err
	}
	if err := page.Type(selTimestampInput, "999999"); err != nil {
		return err
	}
	if err := page.Focus(selCardSave); err != nil {
		return err
	}

	shown, err := page.Text(selTimestampShown)
	if err != nil {
		return fmt.Errorf("failed to read clamped duration: %w", err)
	}

	duration, err := ParseTimestamp(shown)
	if err != nil {
		return err
	}
	placed := duration.Place()
	utils.LogVerbose("Card placement: duration %s -> %s", shown, placed)

	if err := page.Focus(selTimestampInput); err != nil {
		return err
	}
	if err := page.ClearInput(selTimestampInput); err != nil {
		return err
	}
	if err := page.Type(selTimestampInput, placed.String()); err != nil {
		return err
	}
	if err := page.PressEnter(); err != nil {
		return err
	}
	settle(ctx, Waits.SettleShort)
	return nil
}
