// Package browser exposes the UI automation driver used by the upload
// workflow. The engine only ever sees the narrow Page interface defined
// here; the rod-backed implementation lives in this package and a scripted
// fake for tests lives in the fake subpackage.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Selector identifies an element on the page either by CSS selector or by
// its visible text (whitespace-normalized, the way the console renders
// button labels).
type Selector struct {
	// CSS is a CSS selector. Mutually exclusive with Text.
	CSS string
	// Text matches elements by exact normalized text.
	Text string
	// Contains switches Text to substring matching.
	Contains bool
	// Fold makes the Text match case-insensitive.
	Fold bool
	// Last picks the last match instead of the first.
	Last bool
	// Index picks the nth match (0-based). Ignored when Last is set.
	Index int
	// Parent targets the non-disabled parent of the text match. Used for
	// console buttons whose label is a child node of the clickable element.
	Parent bool
}

// CSS builds a CSS-based selector.
func CSS(sel string) Selector { return Selector{CSS: sel} }

// ByText builds a selector matching exact visible text.
func ByText(text string) Selector { return Selector{Text: text} }

// BySubstring builds a selector matching elements containing text.
func BySubstring(text string) Selector { return Selector{Text: text, Contains: true} }

// Nth returns a copy of the selector picking the nth match.
func (s Selector) Nth(i int) Selector { s.Index = i; return s }

// LastMatch returns a copy of the selector picking the last match.
func (s Selector) LastMatch() Selector { s.Last = true; return s }

// FoldCase returns a copy of the selector with case-insensitive text match.
func (s Selector) FoldCase() Selector { s.Fold = true; return s }

// EnabledParent returns a copy targeting the non-disabled parent element.
func (s Selector) EnabledParent() Selector { s.Parent = true; return s }

// Key renders a stable string form of the selector, used for logging and by
// the scripted fake to index page state.
func (s Selector) Key() string {
	var k string
	switch {
	case s.CSS != "":
		k = s.CSS
	case s.Fold:
		k = "text~:" + strings.ToLower(s.Text)
	case s.Contains:
		k = "text*:" + s.Text
	default:
		k = "text:" + s.Text
	}
	if s.Parent {
		k += "/parent"
	}
	switch {
	case s.Last:
		k += "[last]"
	case s.Index > 0:
		k = fmt.Sprintf("%s[%d]", k, s.Index)
	}
	return k
}

// Page is the automation capability the workflow engine consumes: navigate,
// locate-and-wait, click, type, read, and file selection. Every blocking
// operation takes a context; bounded waits report timeouts as errors that
// satisfy errors.Is(err, ErrWaitTimeout).
type Page interface {
	// Navigate loads the given URL and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// URL returns the current page URL.
	URL() string

	// WaitStable waits until the page has settled after a navigation or
	// form submit.
	WaitStable(ctx context.Context, timeout time.Duration) error

	// WaitVisible waits until the selector resolves to a visible element.
	WaitVisible(ctx context.Context, sel Selector, timeout time.Duration) error

	// Exists reports whether the selector currently resolves to an element.
	Exists(sel Selector) (bool, error)

	// Count returns the number of elements matching the selector.
	Count(sel Selector) (int, error)

	// Click clicks the element.
	Click(sel Selector) error

	// Focus focuses the element.
	Focus(sel Selector) error

	// Type focuses the element and types text into it with human-ish pacing.
	Type(sel Selector, text string) error

	// TypeActive types into whatever element currently has focus.
	TypeActive(text string) error

	// PressEnter sends an Enter keypress to the focused element.
	PressEnter() error

	// ClearInput selects all text in the element and deletes it.
	ClearInput(sel Selector) error

	// Text returns the element's visible text.
	Text(sel Selector) (string, error)

	// Attribute returns the named attribute of the element, empty when unset.
	Attribute(sel Selector, name string) (string, error)

	// SetFiles delivers local file paths to the file chooser opened by the
	// element (the upload and thumbnail pickers).
	SetFiles(sel Selector, paths []string) error

	// Eval runs a JavaScript snippet in the page, ignoring its result.
	Eval(js string) error
}

// ErrWaitTimeout is returned by bounded waits when the element never showed.
var ErrWaitTimeout = fmt.Errorf("wait timed out")
