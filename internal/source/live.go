package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/hyperifyio/bskyposts/internal/cache"
)

const (
	// DefaultBaseURL is the site whose profile pages are rendered.
	DefaultBaseURL = "https://bsky.app"
	// NoHandleText is what the site prints for a handle it does not know.
	NoHandleText = "Error: handle must be a valid handle"

	// ReadySelector appears once the site has rendered any text at all.
	ReadySelector = `div[class="css-175oi2r"]`
	// PostSelector appears once at least one post is on the page.
	PostSelector = `div[data-testid="postText"]`

	defaultReadyTimeout = 120 * time.Second
	defaultPostTimeout  = 100 * time.Second
)

// Driver opens rendered pages. RodDriver is the production implementation.
type Driver interface {
	Open(ctx context.Context, url string) (Page, error)
	Close() error
}

// Page is one open browser tab.
type Page interface {
	// WaitFor blocks until selector matches or ctx is done.
	WaitFor(ctx context.Context, selector string) error
	HTML() (string, error)
	Close() error
}

// LiveSource renders profile pages through a Driver.
type LiveSource struct {
	Driver  Driver
	BaseURL string
	// ReadyTimeout bounds the wait for any rendered text. Zero means 120s.
	ReadyTimeout time.Duration
	// PostTimeout bounds the wait for the first post. Zero means 100s.
	PostTimeout time.Duration
	// Cache, when set, serves fresh pages without touching the browser and
	// stores every page rendered.
	Cache *cache.PageCache
}

func (s *LiveSource) Name() string { return "live" }

// ProfileURL returns the profile address for handle.
func (s *LiveSource) ProfileURL(handle string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "/profile/" + handle
}

// NormalizeHandle folds compatibility characters and case, and drops a
// leading '@', so "@NYTimes.com" and "nytimes.com" name the same profile.
func NormalizeHandle(handle string) string {
	h := strings.TrimSpace(norm.NFKC.String(handle))
	h = strings.TrimPrefix(h, "@")
	return cases.Lower(language.Und).String(h)
}

// Fetch renders the profile page for handle and returns its markup.
func (s *LiveSource) Fetch(ctx context.Context, handle string) (string, error) {
	logger := zerolog.Ctx(ctx)
	handle = NormalizeHandle(handle)
	if handle == "" {
		return "", fmt.Errorf("%w: empty handle", ErrInvalidHandle)
	}
	url := s.ProfileURL(handle)

	if s.Cache != nil {
		if _, page, err := s.Cache.Load(ctx, url); err == nil {
			logger.Debug().Str("url", url).Msg("serving page from cache")
			return page, nil
		}
	}
	if s.Driver == nil {
		return "", fmt.Errorf("%w: no browser driver", ErrSessionSetup)
	}

	logger.Debug().Str("url", url).Msg("trying to access webpage")
	page, err := s.render(ctx, url)
	if err != nil {
		return "", err
	}
	if s.Cache != nil {
		if err := s.Cache.Save(ctx, url, handle, page); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("page cache save failed")
		}
	}
	return page, nil
}

func (s *LiveSource) render(ctx context.Context, url string) (string, error) {
	logger := zerolog.Ctx(ctx)
	p, err := s.Driver.Open(ctx, url)
	if err != nil {
		return "", classify(err, url)
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			logger.Debug().Err(cerr).Msg("close page")
		}
	}()

	if err := waitFor(ctx, p, ReadySelector, orDefault(s.ReadyTimeout, defaultReadyTimeout)); err != nil {
		return "", classify(err, url)
	}
	logger.Debug().Msg("progress: some web text was retrieved")

	html, err := p.HTML()
	if err != nil {
		return "", classify(err, url)
	}
	if strings.Contains(html, NoHandleText) {
		return "", fmt.Errorf("%w: site does not recognize %s", ErrInvalidHandle, url)
	}

	if err := waitFor(ctx, p, PostSelector, orDefault(s.PostTimeout, defaultPostTimeout)); err != nil {
		return "", classify(err, url)
	}
	html, err = p.HTML()
	if err != nil {
		return "", classify(err, url)
	}
	return html, nil
}

func waitFor(ctx context.Context, p Page, selector string, d time.Duration) error {
	wctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	if err := p.WaitFor(wctx, selector); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(wctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: looking for %s after %s", ErrTimeout, selector, d)
		}
		return err
	}
	return nil
}

// classify keeps timeout and session errors as they are and reports any
// other failure as an inaccessible profile.
func classify(err error, url string) error {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrSessionSetup), errors.Is(err, ErrInvalidHandle):
		return err
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: could not access %s: %v", ErrInvalidHandle, url, err)
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Close releases the driver.
func (s *LiveSource) Close() error {
	if s.Driver == nil {
		return nil
	}
	return s.Driver.Close()
}
