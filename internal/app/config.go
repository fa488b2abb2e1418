package app

import "time"

// Mode names a data source strategy.
type Mode string

const (
	// ModeAsk prompts the user when a browser is available.
	ModeAsk Mode = ""
	// ModeSample reads pages from the sample directory.
	ModeSample Mode = "s"
	// ModeLive renders pages in a headless browser.
	ModeLive Mode = "l"
)

// Defaults shared by flag parsing and file config overlay.
const (
	DefaultSampleDir    = "bluesky_samples"
	DefaultPreferred    = "nytimes.com"
	DefaultReadyTimeout = 120 * time.Second
	DefaultPostTimeout  = 100 * time.Second
	DefaultSuggestions  = 3
	DefaultCacheDirName = "bskyposts"
	DefaultCacheMaxAge  = 10 * time.Minute
)

// Config holds runtime configuration for the application.
type Config struct {
	// Samples
	SampleDir string
	// PreferredHandle becomes the default handle when a sample exists for it.
	PreferredHandle string
	// SaveSamples writes every live page into SampleDir.
	SaveSamples bool

	// Mode skips the S/L prompt when set.
	Mode Mode

	// Live
	BaseURL           string
	BrowserBin        string
	BrowserControlURL string
	Headful           bool
	ReadyTimeout      time.Duration
	PostTimeout       time.Duration

	// Cache of rendered live pages; empty CacheDir disables it. A zero
	// CacheMaxAge means DefaultCacheMaxAge so live mode keeps re-rendering.
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	// OutputPDFPath receives the posts shown during the session.
	OutputPDFPath string

	Verbose bool
}
