package source

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodConfig selects how the browser is obtained.
type RodConfig struct {
	// ControlURL attaches to an already running browser's DevTools endpoint
	// instead of launching one.
	ControlURL string
	// Bin overrides the browser binary found on the system.
	Bin      string
	Headless bool
}

// RodDriver drives a Chromium instance through the DevTools protocol.
type RodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// BrowserAvailable reports whether a local browser binary can be found.
func BrowserAvailable() bool {
	_, ok := launcher.LookPath()
	return ok
}

// NewRodDriver launches (or attaches to) a browser. Any failure is reported
// as ErrSessionSetup.
func NewRodDriver(ctx context.Context, cfg RodConfig) (*RodDriver, error) {
	d := &RodDriver{}
	controlURL := cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Context(ctx).Headless(cfg.Headless)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("%w: launch browser: %v", ErrSessionSetup, err)
		}
		d.launcher = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if d.launcher != nil {
			d.launcher.Cleanup()
		}
		return nil, fmt.Errorf("%w: connect browser: %v", ErrSessionSetup, err)
	}
	d.browser = b
	return d, nil
}

// Open creates a tab navigated to url.
func (d *RodDriver) Open(ctx context.Context, url string) (Page, error) {
	if d.browser == nil {
		return nil, fmt.Errorf("%w: browser closed", ErrSessionSetup)
	}
	if _, err := d.browser.Version(); err != nil {
		return nil, fmt.Errorf("%w: browser unreachable: %v", ErrSessionSetup, err)
	}
	p, err := d.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	return &rodPage{page: p}, nil
}

// Close shuts the browser down and removes a launched instance's profile.
func (d *RodDriver) Close() error {
	var err error
	if d.browser != nil {
		err = d.browser.Close()
		d.browser = nil
	}
	if d.launcher != nil {
		d.launcher.Cleanup()
		d.launcher = nil
	}
	return err
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) WaitFor(ctx context.Context, selector string) error {
	_, err := p.page.Context(ctx).Element(selector)
	return err
}

func (p *rodPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
