package app

import (
	"os"
	"strings"
	"time"
)

// ApplyEnvToConfig fills fields of cfg from BSKY_* environment variables.
// A field still holding its zero value or its flag default counts as unset;
// anything else was chosen explicitly and wins over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, def, envKey string) {
		if *dst != "" && *dst != def {
			return
		}
		if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
			*dst = s
		}
	}
	setString(&cfg.SampleDir, DefaultSampleDir, "BSKY_SAMPLE_DIR")
	setString(&cfg.PreferredHandle, DefaultPreferred, "BSKY_DEFAULT_HANDLE")
	setString(&cfg.BaseURL, "", "BSKY_BASE_URL")
	setString(&cfg.BrowserBin, "", "BSKY_BROWSER_BIN")
	setString(&cfg.BrowserControlURL, "", "BSKY_BROWSER_URL")
	setString(&cfg.CacheDir, DefaultCacheDir(), "BSKY_CACHE_DIR")
	setString(&cfg.OutputPDFPath, "", "BSKY_OUTPUT_PDF")
	if cfg.Mode == ModeAsk {
		cfg.Mode = Mode(strings.ToLower(strings.TrimSpace(os.Getenv("BSKY_MODE"))))
	}

	setDuration := func(dst *time.Duration, def time.Duration, envKey string) {
		if *dst != 0 && *dst != def {
			return
		}
		if s := os.Getenv(envKey); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.ReadyTimeout, DefaultReadyTimeout, "BSKY_READY_TIMEOUT")
	setDuration(&cfg.PostTimeout, DefaultPostTimeout, "BSKY_POST_TIMEOUT")
	setDuration(&cfg.CacheMaxAge, DefaultCacheMaxAge, "BSKY_CACHE_MAX_AGE")

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.SaveSamples, "BSKY_SAVE_SAMPLES")
	setBool(&cfg.Headful, "BSKY_HEADFUL")
	setBool(&cfg.CacheClear, "BSKY_CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "BSKY_CACHE_STRICT_PERMS")
	setBool(&cfg.Verbose, "BSKY_VERBOSE")
}
