package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/bskyposts/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath   string
		envFiles     string
		mode         string
		sampleDir    string
		preferred    string
		saveSamples  bool
		baseURL      string
		browserBin   string
		browserURL   string
		headful      bool
		readyTimeout time.Duration
		postTimeout  time.Duration
		cacheDir     string
		useCache     bool
		cacheMaxAge  time.Duration
		cacheClear   bool
		cacheStrict  bool
		outputPDF    string
		verbose      bool
		showVersion  bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load before reading BSKY_* variables")
	flag.StringVar(&mode, "mode", "", "Data source: \"s\" for sample files, \"l\" for the live site; empty prompts")
	flag.StringVar(&sampleDir, "samples.dir", app.DefaultSampleDir, "Directory of sample profile pages named by handle")
	flag.StringVar(&preferred, "samples.default", app.DefaultPreferred, "Default handle when a sample exists for it")
	flag.BoolVar(&saveSamples, "samples.save", false, "Save every live page into the samples directory")
	flag.StringVar(&baseURL, "live.base", "", "Base URL of the profile site (default https://bsky.app)")
	flag.StringVar(&browserBin, "live.bin", "", "Browser binary to launch instead of the detected one")
	flag.StringVar(&browserURL, "live.control", "", "DevTools URL of an already running browser")
	flag.BoolVar(&headful, "live.headful", false, "Show the browser window")
	flag.DurationVar(&readyTimeout, "live.readyTimeout", app.DefaultReadyTimeout, "How long to wait for any page text")
	flag.DurationVar(&postTimeout, "live.postTimeout", app.DefaultPostTimeout, "How long to wait for the first post")
	flag.BoolVar(&useCache, "cache", false, "Cache rendered live pages under the user cache dir")
	flag.StringVar(&cacheDir, "cache.dir", "", "Directory caching rendered live pages (implies -cache)")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", app.DefaultCacheMaxAge, "Max age for cached pages before the browser renders them again")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear the page cache before starting")
	flag.BoolVar(&cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.StringVar(&outputPDF, "output.pdf", "", "Write the posts shown in this session to a PDF")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(app.Version())
		return
	}

	if err := app.LoadEnvFiles(strings.Split(envFiles, ",")...); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}

	cfg := app.Config{
		SampleDir:         sampleDir,
		PreferredHandle:   preferred,
		SaveSamples:       saveSamples,
		Mode:              app.Mode(strings.ToLower(strings.TrimSpace(mode))),
		BaseURL:           baseURL,
		BrowserBin:        browserBin,
		BrowserControlURL: browserURL,
		Headful:           headful,
		ReadyTimeout:      readyTimeout,
		PostTimeout:       postTimeout,
		CacheDir:          cacheDir,
		CacheMaxAge:       cacheMaxAge,
		CacheClear:        cacheClear,
		CacheStrictPerms:  cacheStrict,
		OutputPDFPath:     outputPDF,
		Verbose:           verbose,
	}
	app.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config")
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if useCache && cfg.CacheDir == "" {
		cfg.CacheDir = app.DefaultCacheDir()
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config, opts ...app.Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, opts...)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	fmt.Println() // leave blank line before starting interaction
	runErr := a.Run(ctx)
	if err := a.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
