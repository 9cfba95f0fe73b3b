package uploader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studioup/internal/retry"
	"studioup/internal/services/browser"
	"studioup/internal/utils"
)

const authAttempts = 2

// SessionManager owns login. It drives the credential prompts, detects
// verification challenges, and falls back to the recovery-email bypass when
// the console asks for confirmation instead of opening the upload dialog.
type SessionManager struct {
	creds     Credentials
	uploadURL string
}

// NewSessionManager builds a session manager for one batch. uploadURL may
// be empty to use the default console entry point.
func NewSessionManager(creds Credentials) *SessionManager {
	return &SessionManager{creds: creds, uploadURL: DefaultUploadURL}
}

// WithUploadURL overrides the console entry point.
func (m *SessionManager) WithUploadURL(url string) *SessionManager {
	if url != "" {
		m.uploadURL = url
	}
	return m
}

// Authenticate logs in and returns the authenticated session. The full
// login sequence is attempted at most twice; a challenge on any attempt
// aborts immediately since it cannot be solved programmatically.
func (m *SessionManager) Authenticate(ctx context.Context, page browser.Page) (*Session, error) {
	sess := &Session{Page: page, UploadURL: m.uploadURL}

	err := retry.Do(ctx, authAttempts, 0, func(err error) bool {
		return errors.Is(err, ErrChallengeDetected)
	}, func(ctx context.Context) error {
		return m.login(ctx, sess)
	})
	if err != nil {
		if errors.Is(err, ErrChallengeDetected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}

	sess.Authenticated = true
	sess.Locale = "en-GB"
	return sess, nil
}

// login runs one pass of the login state machine.
func (m *SessionManager) login(ctx context.Context, sess *Session) error {
	page := sess.Page

	if err := page.Navigate(ctx, m.uploadURL); err != nil {
		return fmt.Errorf("failed to open console: %w", err)
	}
	utils.LogVerbose("Login page: %s", page.URL())

	if err := m.normalizeLoginLocale(ctx, page); err != nil {
		return err
	}

	// An interstitial sometimes offers a direct shortcut into the studio.
	if err := page.WaitVisible(ctx, selStudioShortcut, Waits.Short); err == nil {
		utils.LogVerbose("Taking the studio shortcut")
		if err := page.Click(selStudioShortcut); err != nil {
			return err
		}
		if err := page.WaitStable(ctx, Waits.Default); err != nil {
			return fmt.Errorf("studio redirect did not settle: %w", err)
		}
		if u := page.URL(); u != "" {
			sess.UploadURL = u
		}
	}

	// The upload dialog showing up right away means the stored profile is
	// still signed in.
	if err := page.WaitVisible(ctx, selUploadsDialog, Waits.Short); err == nil {
		utils.LogInfo("Already logged in")
		return nil
	}

	if err := page.WaitVisible(ctx, selEmailInput, Waits.Default); err != nil {
		return fmt.Errorf("email prompt not found: %w", err)
	}
	if err := page.Type(selEmailInput, m.creds.Email); err != nil {
		return err
	}
	if err := page.PressEnter(); err != nil {
		return err
	}

	if err := page.WaitVisible(ctx, selPasswordInput, Waits.Default); err != nil {
		return fmt.Errorf("password prompt not found: %w", err)
	}
	settle(ctx, Waits.SettleLong)
	if err := page.Type(selPasswordInput, m.creds.Password); err != nil {
		return err
	}
	if err := page.PressEnter(); err != nil {
		return err
	}

	navErr := page.WaitStable(ctx, Waits.Default)
	if challenged, _ := page.Exists(selChallengeInput); challenged {
		return ErrChallengeDetected
	}
	if navErr != nil {
		return fmt.Errorf("post-submit navigation failed: %w", navErr)
	}

	if err := page.WaitVisible(ctx, selUploadsDialog, Waits.Default); err != nil {
		// No dialog after a normal login usually means the account wants
		// its recovery email confirmed.
		return m.recoveryBypass(ctx, page)
	}

	return nil
}

// recoveryBypass answers the recovery-email confirmation prompts. Any
// failure here surfaces as a plain auth failure, not a challenge.
func (m *SessionManager) recoveryBypass(ctx context.Context, page browser.Page) error {
	if m.creds.RecoveryEmail == "" {
		return fmt.Errorf("console asked for recovery confirmation but no recovery email is configured")
	}
	utils.LogInfo("Attempting recovery email bypass")

	if err := page.WaitVisible(ctx, selConfirmRecovery, Waits.Default); err != nil {
		utils.LogWarning("Recovery confirmation prompt not found: %v", err)
	} else if err := page.Click(selConfirmRecovery); err != nil {
		utils.LogWarning("Failed to click recovery confirmation: %v", err)
	}

	if err := page.WaitStable(ctx, Waits.Default); err != nil {
		return fmt.Errorf("recovery confirmation did not settle: %w", err)
	}

	if err := page.WaitVisible(ctx, selEnterRecoveryAddress, Waits.Default); err != nil {
		return fmt.Errorf("recovery email prompt not found: %w", err)
	}
	settle(ctx, Waits.Recovery)
	if err := page.Focus(selEmailInput); err != nil {
		return err
	}
	settle(ctx, Waits.SettleLong)
	if err := page.Type(selEmailInput, m.creds.RecoveryEmail); err != nil {
		return err
	}
	if err := page.PressEnter(); err != nil {
		return err
	}
	if err := page.WaitStable(ctx, Waits.Default); err != nil {
		return fmt.Errorf("recovery submit did not settle: %w", err)
	}

	if err := page.WaitVisible(ctx, selUploadsDialog, Waits.Default); err != nil {
		return fmt.Errorf("upload dialog missing after recovery bypass: %w", err)
	}
	return nil
}

// normalizeLoginLocale switches the account-chooser language to English so
// the text-based selectors used everywhere else resolve.
func (m *SessionManager) normalizeLoginLocale(ctx context.Context, page browser.Page) error {
	if err := page.WaitVisible(ctx, selSelectedLang, Waits.Default); err != nil {
		return fmt.Errorf("selected language control not found: %w", err)
	}

	current, err := page.Text(selSelectedLang)
	if err != nil {
		return fmt.Errorf("failed to read selected language: %w", err)
	}
	if current == "" {
		return fmt.Errorf("selected language control is empty")
	}
	if strings.Contains(current, "English") {
		return nil
	}

	utils.LogVerbose("Switching login page language from %q", current)
	if err := page.Click(selSelectedLang); err != nil {
		return err
	}
	settle(ctx, Waits.SettleShort)
	if err := page.WaitVisible(ctx, selLoginLangEnglish, Waits.Default); err != nil {
		return fmt.Errorf("english language option not found: %w", err)
	}
	if err := page.Click(selLoginLangEnglish); err != nil {
		return err
	}
	settle(ctx, Waits.SettleShort)
	return nil
}

// NormalizeHomeLocale switches the console home page to English once, right
// after login, then parks the session back on the upload URL.
func (m *SessionManager) NormalizeHomeLocale(ctx context.Context, sess *Session) error {
	page := sess.Page

	if err := page.Navigate(ctx, HomePageURL); err != nil {
		return fmt.Errorf("failed to open home page: %w", err)
	}
	if err := page.WaitVisible(ctx, selAvatarButton, Waits.Default); err != nil {
		return fmt.Errorf("avatar button not found: %w", err)
	}
	if err := page.Click(selAvatarButton); err != nil {
		return err
	}
	if err := page.WaitVisible(ctx, selHomeLangMenuItem, Waits.Default); err != nil {
		return fmt.Errorf("language menu item not found: %w", err)
	}

	current, err := page.Text(selHomeLangMenuItem)
	if err != nil {
		return fmt.Errorf("failed to read home page language: %w", err)
	}
	if current == "" {
		return fmt.Errorf("home page language menu item is empty")
	}
	if strings.Contains(current, "English") {
		return page.Navigate(ctx, sess.UploadURL)
	}

	utils.LogVerbose("Switching home page language from %q", current)
	if err := page.Click(selHomeLangMenuItem); err != nil {
		return err
	}
	if err := page.WaitVisible(ctx, selHomeLangEnglish, Waits.Default); err != nil {
		return fmt.Errorf("english menu entry not found: %w", err)
	}
	settle(ctx, Waits.SettleLong)
	if err := page.Click(selHomeLangEnglish); err != nil {
		return err
	}

	return page.Navigate(ctx, sess.UploadURL)
}
