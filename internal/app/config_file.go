package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Mode string `yaml:"mode" json:"mode"`

	Samples struct {
		Dir       string `yaml:"dir" json:"dir"`
		Preferred string `yaml:"preferred" json:"preferred"`
		Save      bool   `yaml:"save" json:"save"`
	} `yaml:"samples" json:"samples"`

	Live struct {
		BaseURL      string        `yaml:"baseURL" json:"baseURL"`
		Bin          string        `yaml:"bin" json:"bin"`
		ControlURL   string        `yaml:"controlURL" json:"controlURL"`
		Headful      bool          `yaml:"headful" json:"headful"`
		ReadyTimeout time.Duration `yaml:"readyTimeout" json:"readyTimeout"`
		PostTimeout  time.Duration `yaml:"postTimeout" json:"postTimeout"`
	} `yaml:"live" json:"live"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc onto fields of cfg that are unset
// or still hold their flag default, so explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.Mode == ModeAsk && fc.Mode != "" {
		cfg.Mode = Mode(strings.ToLower(strings.TrimSpace(fc.Mode)))
	}

	if (cfg.SampleDir == "" || cfg.SampleDir == DefaultSampleDir) && fc.Samples.Dir != "" {
		cfg.SampleDir = fc.Samples.Dir
	}
	if (cfg.PreferredHandle == "" || cfg.PreferredHandle == DefaultPreferred) && fc.Samples.Preferred != "" {
		cfg.PreferredHandle = fc.Samples.Preferred
	}
	if !cfg.SaveSamples && fc.Samples.Save {
		cfg.SaveSamples = true
	}

	if cfg.BaseURL == "" && fc.Live.BaseURL != "" {
		cfg.BaseURL = fc.Live.BaseURL
	}
	if cfg.BrowserBin == "" && fc.Live.Bin != "" {
		cfg.BrowserBin = fc.Live.Bin
	}
	if cfg.BrowserControlURL == "" && fc.Live.ControlURL != "" {
		cfg.BrowserControlURL = fc.Live.ControlURL
	}
	if !cfg.Headful && fc.Live.Headful {
		cfg.Headful = true
	}
	if (cfg.ReadyTimeout == 0 || cfg.ReadyTimeout == DefaultReadyTimeout) && fc.Live.ReadyTimeout > 0 {
		cfg.ReadyTimeout = fc.Live.ReadyTimeout
	}
	if (cfg.PostTimeout == 0 || cfg.PostTimeout == DefaultPostTimeout) && fc.Live.PostTimeout > 0 {
		cfg.PostTimeout = fc.Live.PostTimeout
	}

	if (cfg.CacheDir == "" || cfg.CacheDir == DefaultCacheDir()) && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if (cfg.CacheMaxAge == 0 || cfg.CacheMaxAge == DefaultCacheMaxAge) && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}

	if cfg.OutputPDFPath == "" && fc.OutputPDF != "" {
		cfg.OutputPDFPath = fc.OutputPDF
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig rejects settings the session cannot run with.
func ValidateConfig(cfg Config) error {
	switch cfg.Mode {
	case ModeAsk, ModeSample, ModeLive:
	default:
		return fmt.Errorf("config: mode must be \"s\" or \"l\", got %q", cfg.Mode)
	}
	if strings.TrimSpace(cfg.SampleDir) == "" {
		return errors.New("config: sample dir is required")
	}
	if cfg.ReadyTimeout < 0 || cfg.PostTimeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	return nil
}
