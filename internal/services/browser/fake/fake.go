// Package fake provides a scripted, in-memory implementation of the
// browser.Page interface. Tests describe the console as a set of visible
// elements and texts keyed by browser.Selector.Key(), and hook navigation
// and clicks to mutate that state, which lets the login and publish state
// machines run deterministically without a real browser.
package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studioup/internal/services/browser"
)

// Page is a scripted stand-in for a live console page.
type Page struct {
	mu sync.Mutex

	visible map[string]bool
	texts   map[string]string
	attrs   map[string]string
	counts  map[string]int

	// Recorded interactions, in order.
	Navigations []string
	Clicks      []string
	Typed       map[string][]string
	ActiveTyped []string
	Cleared     []string
	EnterCount  int
	Files       map[string][]string
	Scripts     []string

	// Hooks let a test mutate page state mid-flow.
	OnNavigate func(p *Page, url string)
	OnClick    func(p *Page, key string) error
	OnEnter    func(p *Page)

	// StableErr is returned by WaitStable when set.
	StableErr error

	url string
}

// New returns an empty fake page.
func New() *Page {
	return &Page{
		visible: make(map[string]bool),
		texts:   make(map[string]string),
		attrs:   make(map[string]string),
		counts:  make(map[string]int),
		Typed:   make(map[string][]string),
		Files:   make(map[string][]string),
	}
}

// Show marks selectors as present and visible.
func (p *Page) Show(sels ...browser.Selector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sel := range sels {
		p.visible[sel.Key()] = true
	}
}

// Hide removes selectors from the page.
func (p *Page) Hide(sels ...browser.Selector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sel := range sels {
		delete(p.visible, sel.Key())
	}
}

// SetText makes a selector visible with the given text.
func (p *Page) SetText(sel browser.Selector, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible[sel.Key()] = true
	p.texts[sel.Key()] = text
}

// SetAttribute sets the value returned by Attribute for sel/name.
func (p *Page) SetAttribute(sel browser.Selector, name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible[sel.Key()] = true
	p.attrs[sel.Key()+"@"+name] = value
}

// SetCount sets the element count reported for a selector.
func (p *Page) SetCount(sel browser.Selector, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[sel.Key()] = n
	if n > 0 {
		p.visible[sel.Key()] = true
	}
}

// TypedInto returns everything typed into a selector, concatenated.
func (p *Page) TypedInto(sel browser.Selector) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out string
	for _, s := range p.Typed[sel.Key()] {
		out += s
	}
	return out
}

func (p *Page) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	p.url = url
	p.Navigations = append(p.Navigations, url)
	hook := p.OnNavigate
	p.mu.Unlock()
	if hook != nil {
		hook(p, url)
	}
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) WaitStable(_ context.Context, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.StableErr
}

func (p *Page) WaitVisible(ctx context.Context, sel browser.Selector, timeout time.Duration) error {
	ok, err := browser.Await(ctx, time.Millisecond, timeout, func() (bool, error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.visible[sel.Key()], nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s not visible: %w", sel.Key(), browser.ErrWaitTimeout)
	}
	return nil
}

func (p *Page) Exists(sel browser.Selector) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible[sel.Key()], nil
}

func (p *Page) Count(sel browser.Selector) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := p.counts[sel.Key()]; ok {
		return n, nil
	}
	if p.visible[sel.Key()] {
		return 1, nil
	}
	return 0, nil
}

func (p *Page) Click(sel browser.Selector) error {
	p.mu.Lock()
	if !p.visible[sel.Key()] {
		p.mu.Unlock()
		return fmt.Errorf("cannot click %s: element not found", sel.Key())
	}
	p.Clicks = append(p.Clicks, sel.Key())
	hook := p.OnClick
	p.mu.Unlock()
	if hook != nil {
		return hook(p, sel.Key())
	}
	return nil
}

func (p *Page) Focus(sel browser.Selector) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible[sel.Key()] {
		return fmt.Errorf("cannot focus %s: element not found", sel.Key())
	}
	return nil
}

func (p *Page) Type(sel browser.Selector, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible[sel.Key()] {
		return fmt.Errorf("cannot type into %s: element not found", sel.Key())
	}
	p.Typed[sel.Key()] = append(p.Typed[sel.Key()], text)
	return nil
}

func (p *Page) TypeActive(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ActiveTyped = append(p.ActiveTyped, text)
	return nil
}

func (p *Page) PressEnter() error {
	p.mu.Lock()
	p.EnterCount++
	hook := p.OnEnter
	p.mu.Unlock()
	if hook != nil {
		hook(p)
	}
	return nil
}

func (p *Page) ClearInput(sel browser.Selector) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible[sel.Key()] {
		return fmt.Errorf("cannot clear %s: element not found", sel.Key())
	}
	p.Cleared = append(p.Cleared, sel.Key())
	p.Typed[sel.Key()] = nil
	return nil
}

func (p *Page) Text(sel browser.Selector) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible[sel.Key()] {
		return "", fmt.Errorf("cannot read %s: element not found", sel.Key())
	}
	return p.texts[sel.Key()], nil
}

func (p *Page) Attribute(sel browser.Selector, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible[sel.Key()] {
		return "", fmt.Errorf("cannot read %s: element not found", sel.Key())
	}
	return p.attrs[sel.Key()+"@"+name], nil
}

func (p *Page) SetFiles(sel browser.Selector, paths []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible[sel.Key()] {
		return fmt.Errorf("cannot select files via %s: element not found", sel.Key())
	}
	p.Files[sel.Key()] = append(p.Files[sel.Key()], paths...)
	return nil
}

func (p *Page) Eval(js string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Scripts = append(p.Scripts, js)
	return nil
}
