package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile_YAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bskyposts.yaml")
	content := `mode: s
samples:
  dir: my_samples
  preferred: bsky.app
live:
  readyTimeout: 45s
cache:
  maxAge: 24h
  strictPerms: true
outputPDF: out.pdf
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg := Config{SampleDir: DefaultSampleDir, PreferredHandle: DefaultPreferred, ReadyTimeout: DefaultReadyTimeout, OutputPDFPath: "flag.pdf"}
	ApplyFileConfig(&cfg, fc)

	if cfg.Mode != ModeSample {
		t.Fatalf("mode = %q", cfg.Mode)
	}
	if cfg.SampleDir != "my_samples" || cfg.PreferredHandle != "bsky.app" {
		t.Fatalf("samples not overlaid: %+v", cfg)
	}
	if cfg.ReadyTimeout != 45*time.Second {
		t.Fatalf("ready timeout = %s", cfg.ReadyTimeout)
	}
	if cfg.CacheMaxAge != 24*time.Hour || !cfg.CacheStrictPerms {
		t.Fatalf("cache not overlaid: %+v", cfg)
	}
	if cfg.OutputPDFPath != "flag.pdf" {
		t.Fatalf("explicit flag lost: %q", cfg.OutputPDFPath)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(path, []byte(`{"samples":{"dir":"json_samples"},"verbose":true}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Samples.Dir != "json_samples" || !fc.Verbose {
		t.Fatalf("unexpected: %+v", fc)
	}
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("samples: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(Config{SampleDir: "x"}); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if err := ValidateConfig(Config{SampleDir: "x", Mode: "z"}); err == nil {
		t.Fatalf("expected bad mode error")
	}
	if err := ValidateConfig(Config{}); err == nil {
		t.Fatalf("expected missing sample dir error")
	}
	if err := ValidateConfig(Config{SampleDir: "x", PostTimeout: -time.Second}); err == nil {
		t.Fatalf("expected negative duration error")
	}
}
