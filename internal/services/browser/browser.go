package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"studioup/internal/utils"
)

const (
	pollInterval = 100 * time.Millisecond

	viewportWidth  = 900
	viewportHeight = 900
)

// Options controls how the underlying browser is launched.
type Options struct {
	Headless    bool   `yaml:"headless"`
	UserDataDir string `yaml:"userDataDir"`
	NoSandbox   bool   `yaml:"noSandbox"`
	// Bin overrides the browser binary; empty means auto-detect with a
	// download fallback.
	Bin string `yaml:"bin"`
}

// Service owns the browser process for the lifetime of a batch.
type Service struct {
	browser *rod.Browser
}

// Launch starts (or downloads and starts) a Chromium instance and connects
// to it. The flags hide the automation fingerprint from the console.
func Launch(opts Options) (*Service, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("lang", "en-US").
		Set("disable-blink-features", "AutomationControlled").
		Set("exclude-switches", "enable-automation").
		Set("use-automation-extension", "false")

	if opts.UserDataDir != "" {
		l = l.UserDataDir(opts.UserDataDir)
	}
	if opts.NoSandbox {
		l = l.Set("no-sandbox")
	}

	bin := opts.Bin
	if bin == "" {
		if path, ok := launcher.LookPath(); ok {
			bin = path
		}
	}
	if bin != "" {
		utils.LogVerbose("Using browser binary %s", bin)
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Service{browser: b}, nil
}

// NewPage opens a fresh tab sized like a regular desktop session.
func (s *Service) NewPage() (Page, error) {
	p, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  viewportWidth,
		Height: viewportHeight,
	}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	return &rodPage{page: p}, nil
}

// Close shuts the browser down. Safe to call after a failed batch.
func (s *Service) Close() error {
	if s.browser == nil {
		return nil
	}
	return s.browser.Close()
}

// rodPage adapts a rod page to the Page interface.
type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

func (p *rodPage) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *rodPage) WaitStable(ctx context.Context, timeout time.Duration) error {
	err := p.page.Context(ctx).Timeout(timeout).WaitStable(300 * time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrWaitTimeout
		}
		return err
	}
	return nil
}

func (p *rodPage) WaitVisible(ctx context.Context, sel Selector, timeout time.Duration) error {
	ok, err := Await(ctx, pollInterval, timeout, func() (bool, error) {
		el, found, err := p.resolve(sel)
		if err != nil || !found {
			// Resolution races with page mutation; retry until deadline.
			return false, nil
		}
		visible, err := el.Visible()
		if err != nil {
			return false, nil
		}
		return visible, nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s not visible: %w", sel.Key(), ErrWaitTimeout)
	}
	return nil
}

func (p *rodPage) Exists(sel Selector) (bool, error) {
	_, found, err := p.resolve(sel)
	return found, err
}

func (p *rodPage) Count(sel Selector) (int, error) {
	els, err := p.elements(sel)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

func (p *rodPage) Click(sel Selector) error {
	el, found, err := p.resolve(sel)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("cannot click %s: element not found", sel.Key())
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) Focus(sel Selector) error {
	el, found, err := p.resolve(sel)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("cannot focus %s: element not found", sel.Key())
	}
	return el.Focus()
}

func (p *rodPage) Type(sel Selector, text string) error {
	el, found, err := p.resolve(sel)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("cannot type into %s: element not found", sel.Key())
	}
	if err := el.Focus(); err != nil {
		return err
	}
	return p.page.InsertText(text)
}

func (p *rodPage) TypeActive(text string) error {
	return p.page.InsertText(text)
}

func (p *rodPage) PressEnter() error {
	return p.page.Keyboard.Press(input.Enter)
}

func (p *rodPage) ClearInput(sel Selector) error {
	el, found, err := p.resolve(sel)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("cannot clear %s: element not found", sel.Key())
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Type(input.Backspace)
}

func (p *rodPage) Text(sel Selector) (string, error) {
	el, found, err := p.resolve(sel)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("cannot read %s: element not found", sel.Key())
	}
	return el.Text()
}

func (p *rodPage) Attribute(sel Selector, name string) (string, error) {
	el, found, err := p.resolve(sel)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("cannot read %s: element not found", sel.Key())
	}
	value, err := el.Attribute(name)
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

// SetFiles intercepts the file chooser dialog opened by clicking the element
// and answers it with the given paths.
func (p *rodPage) SetFiles(sel Selector, paths []string) error {
	el, found, err := p.resolve(sel)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("cannot select files via %s: element not found", sel.Key())
	}

	if err := (proto.PageSetInterceptFileChooserDialog{Enabled: true}).Call(p.page); err != nil {
		return fmt.Errorf("failed to intercept file chooser: %w", err)
	}
	defer func() {
		_ = proto.PageSetInterceptFileChooserDialog{Enabled: false}.Call(p.page)
	}()

	opened := proto.PageFileChooserOpened{}
	wait := p.page.WaitEvent(&opened)

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	wait()

	return proto.DOMSetFileInputFiles{
		Files:         paths,
		BackendNodeID: opened.BackendNodeID,
	}.Call(p.page)
}

func (p *rodPage) Eval(js string) error {
	_, err := p.page.Eval(js)
	return err
}

// resolve finds the element for a selector without waiting. The boolean
// reports whether any element matched.
func (p *rodPage) resolve(sel Selector) (*rod.Element, bool, error) {
	els, err := p.elements(sel)
	if err != nil {
		return nil, false, err
	}
	if len(els) == 0 {
		return nil, false, nil
	}
	idx := sel.Index
	if sel.Last {
		idx = len(els) - 1
	}
	if idx >= len(els) {
		return nil, false, nil
	}
	return els[idx], true, nil
}

func (p *rodPage) elements(sel Selector) (rod.Elements, error) {
	if sel.CSS != "" {
		return p.page.Elements(sel.CSS)
	}
	return p.page.ElementsX(textXPath(sel))
}

const (
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
)

// textXPath renders the XPath for a text-based selector.
func textXPath(sel Selector) string {
	var expr string
	switch {
	case sel.Contains:
		expr = fmt.Sprintf("//*[contains(text(),%s)]", xpathLiteral(sel.Text))
	case sel.Fold:
		expr = fmt.Sprintf("//*[normalize-space(translate(text(),'%s','%s'))=%s]",
			upperAlpha, lowerAlpha, xpathLiteral(strings.ToLower(sel.Text)))
	default:
		expr = fmt.Sprintf("//*[normalize-space(text())=%s]", xpathLiteral(sel.Text))
	}
	if sel.Parent {
		expr += "/parent::*[not(@disabled)]"
	}
	return expr
}

// xpathLiteral quotes a string for use inside an XPath expression. XPath 1.0
// has no escape sequences, so strings containing single quotes are built
// with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if part != "" {
			quoted = append(quoted, "'"+part+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ",") + ")"
}
