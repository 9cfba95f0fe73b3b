package uploader

import "errors"

// Error taxonomy for the publishing workflow. Challenge detection is the
// only error that aborts a whole batch without retry; everything else is
// either retried in place or reflected in the job's result entry.
var (
	// ErrChallengeDetected means the login flow hit a verification
	// challenge that cannot be solved programmatically. Fatal for the batch.
	ErrChallengeDetected = errors.New("verification challenge detected")

	// ErrAuthFailure covers every non-challenge login failure after the
	// retry budget is spent.
	ErrAuthFailure = errors.New("authentication failed")

	// ErrFormFieldMissing means the title/description inputs never showed.
	ErrFormFieldMissing = errors.New("metadata form fields not found")

	// ErrPlaylistResolution means the playlist could be neither selected
	// nor created. Non-fatal unless strict playlist mode is on.
	ErrPlaylistResolution = errors.New("playlist selection and creation both failed")

	// ErrSetupIncomplete means the completion dialog never appeared,
	// usually because the channel's default visibility is misconfigured.
	ErrSetupIncomplete = errors.New("upload dialog never completed - check the channel's default visibility settings")
)
