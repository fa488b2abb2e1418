package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/bskyposts/internal/cache"
	"github.com/hyperifyio/bskyposts/internal/source"
)

// DriverFactory starts a browser driver for live mode.
type DriverFactory func(ctx context.Context, cfg Config) (source.Driver, error)

// App runs one interactive session.
type App struct {
	cfg Config
	in  *bufio.Scanner
	out io.Writer

	samples       *source.SampleSource
	handles       []string
	defaultHandle string

	liveAvailable bool
	newDriver     DriverFactory
	pageCache     *cache.PageCache

	mode  Mode
	src   source.Source
	live  *source.LiveSource
	shown []shownPost
}

// Option customizes New.
type Option func(*App)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = bufio.NewScanner(in)
		a.out = out
	}
}

// WithDriverFactory replaces the go-rod driver and marks live mode as
// available.
func WithDriverFactory(f DriverFactory) Option {
	return func(a *App) {
		a.newDriver = f
		a.liveAvailable = f != nil
	}
}

// New prepares a session: lists samples once to fix the default handle and
// detects whether live mode can be offered.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	a := &App{
		cfg:           cfg,
		in:            bufio.NewScanner(os.Stdin),
		out:           os.Stdout,
		samples:       &source.SampleSource{Dir: cfg.SampleDir},
		newDriver:     rodDriverFactory,
		liveAvailable: source.BrowserAvailable() || cfg.BrowserControlURL != "",
	}
	for _, opt := range opts {
		opt(a)
	}

	handles, err := a.samples.Handles()
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.SampleDir).Msg("sample directory unavailable")
	}
	a.handles = handles
	a.defaultHandle, err = source.DefaultHandle(handles, cfg.PreferredHandle)
	if err != nil {
		if !a.liveAvailable || cfg.PreferredHandle == "" {
			return nil, fmt.Errorf("no samples in %s and no live browser: %w", cfg.SampleDir, err)
		}
		a.defaultHandle = cfg.PreferredHandle
	}

	if cfg.CacheDir != "" {
		maxAge := cfg.CacheMaxAge
		if maxAge <= 0 {
			maxAge = DefaultCacheMaxAge
		}
		if cfg.CacheClear {
			if n, err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Msg("cache clear failed")
			} else {
				log.Debug().Int("removed", n).Msg("cleared page cache")
			}
		}
		if n, err := cache.PurgePageCacheByAge(cfg.CacheDir, maxAge); err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Msg("purged stale pages")
		}
		a.pageCache = &cache.PageCache{Dir: cfg.CacheDir, MaxAge: maxAge, StrictPerms: cfg.CacheStrictPerms}
	}

	a.useSamples()
	log.Debug().Str("default", a.defaultHandle).Int("samples", len(a.handles)).Bool("live", a.liveAvailable).Msg("session ready")
	return a, nil
}

func rodDriverFactory(ctx context.Context, cfg Config) (source.Driver, error) {
	return source.NewRodDriver(ctx, source.RodConfig{
		ControlURL: cfg.BrowserControlURL,
		Bin:        cfg.BrowserBin,
		Headless:   !cfg.Headful,
	})
}

// DefaultHandle is the handle used when the user just hits return.
func (a *App) DefaultHandle() string { return a.defaultHandle }

func (a *App) useSamples() {
	a.mode = ModeSample
	a.src = a.samples
}

// startLive switches to live mode, returning an error wrapping
// source.ErrSessionSetup when no browser can be started.
func (a *App) startLive(ctx context.Context) error {
	if a.newDriver == nil {
		return fmt.Errorf("%w: live mode unavailable", source.ErrSessionSetup)
	}
	d, err := a.newDriver(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.live = &source.LiveSource{
		Driver:       d,
		BaseURL:      a.cfg.BaseURL,
		ReadyTimeout: a.cfg.ReadyTimeout,
		PostTimeout:  a.cfg.PostTimeout,
		Cache:        a.pageCache,
	}
	a.mode = ModeLive
	a.src = a.live
	return nil
}

// downgrade drops live mode for the rest of the session.
func (a *App) downgrade() {
	if a.live != nil {
		if err := a.live.Close(); err != nil {
			log.Debug().Err(err).Msg("close browser")
		}
		a.live = nil
	}
	a.liveAvailable = false
	a.useSamples()
}

// Close releases the browser and writes the PDF export when configured.
func (a *App) Close() error {
	if a.live != nil {
		if err := a.live.Close(); err != nil {
			log.Debug().Err(err).Msg("close browser")
		}
		a.live = nil
	}
	if a.cfg.OutputPDFPath != "" && len(a.shown) > 0 {
		if err := writePostsPDF(a.shown, a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Int("posts", len(a.shown)).Msg("wrote pdf")
	}
	return nil
}
