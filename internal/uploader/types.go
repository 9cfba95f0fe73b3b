package uploader

import (
	"strings"
	"time"
	"unicode/utf8"

	"studioup/internal/services/browser"
)

// Field limits enforced by the console's metadata form, in characters.
const (
	MaxTitleLen        = 100
	MaxDescriptionLen  = 5000
	MaxTagsLen         = 495
	MaxPlaylistNameLen = 148
)

// Console URLs. The upload URL can be overridden for channels whose studio
// redirect lands elsewhere.
const (
	DefaultUploadURL = "https://www.youtube.com/upload"
	HomePageURL      = "https://www.youtube.com"
)

// Credentials identify the account driving the batch. Immutable once a
// batch starts. RecoveryEmail is only needed to pass the recovery
// confirmation prompt when the console asks for it.
type Credentials struct {
	Email         string
	Password      string
	RecoveryEmail string
}

// Visibility is the final state a published video ends up in.
type Visibility string

const (
	VisibilityDraft    Visibility = "draft"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPublic   Visibility = "public"
)

// NormalizeVisibility maps arbitrary input onto a supported visibility.
// Anything unrecognized becomes unlisted.
func NormalizeVisibility(s string) Visibility {
	switch Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case VisibilityDraft:
		return VisibilityDraft
	case VisibilityPrivate:
		return VisibilityPrivate
	case VisibilityPublic:
		return VisibilityPublic
	case VisibilityUnlisted:
		return VisibilityUnlisted
	default:
		return VisibilityUnlisted
	}
}

// Label returns the visibility as the console renders it ("Public" etc).
func (v Visibility) Label() string {
	if v == "" {
		return ""
	}
	return strings.ToUpper(string(v[:1])) + string(v[1:])
}

// VideoJob describes one video to publish.
type VideoJob struct {
	// Path is the local video file. A job whose file is missing is
	// reported as failed without touching the console.
	Path        string
	Title       string
	Description string
	Tags        []string
	// Language selects the video language menu entry, matched
	// case-insensitively.
	Language string
	// Playlist is resolved by selection first, creation as fallback.
	Playlist string
	// Thumbnail is a local path or a remote URL. Remote thumbnails are
	// downloaded next to the video file before the upload starts.
	Thumbnail string
	// Visibility is one of draft/private/unlisted/public; anything else
	// falls back to unlisted.
	Visibility string
	// DelayedPublic publishes unlisted/private first and flips the video
	// to public once the console reports its checks complete.
	DelayedPublic bool
	// EndCardPlaylist attaches an end-of-video playlist card when set.
	EndCardPlaylist string
	// OnSuccess is invoked with the public URL after the job finishes.
	OnSuccess func(url string) `yaml:"-"`
}

// CleanTitle returns the title truncated to the console's limit.
func (j *VideoJob) CleanTitle() string {
	return truncate(j.Title, MaxTitleLen)
}

// CleanDescription returns the description with carriage returns stripped
// and truncated to the console's limit.
func (j *VideoJob) CleanDescription() string {
	return truncate(strings.ReplaceAll(j.Description, "\r", ""), MaxDescriptionLen)
}

// SerializedTags joins the tags comma-separated, capped at the console's
// limit, with a trailing separator so the last tag commits.
func (j *VideoJob) SerializedTags() string {
	if len(j.Tags) == 0 {
		return ""
	}
	return truncate(strings.Join(j.Tags, ", "), MaxTagsLen) + ", "
}

// truncate caps s at max characters, not bytes, so a multibyte title is
// never cut mid-rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// UploadResult is the per-job outcome, collected in job order.
type UploadResult struct {
	JobIndex int
	Title    string
	URL      string
	Err      error
	Finished time.Time
}

// Succeeded reports whether the job produced a public link.
func (r UploadResult) Succeeded() bool {
	return r.Err == nil
}

// Session is the authenticated automation session shared by all jobs of a
// batch. It is owned by the orchestrator and used by one job at a time.
type Session struct {
	Page          browser.Page
	Authenticated bool
	// Locale is the console UI language after normalization.
	Locale string
	// UploadURL may be rewritten after the studio redirect.
	UploadURL string
}
