package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/kibaidar1/BullBear-NewsBot/pkg/config"
	"github.com/kibaidar1/BullBear-NewsBot/pkg/news"
	"github.com/kibaidar1/BullBear-NewsBot/pkg/notify"
	"github.com/kibaidar1/BullBear-NewsBot/pkg/scheduler"
	"github.com/kibaidar1/BullBear-NewsBot/pkg/store"
	"github.com/kibaidar1/BullBear-NewsBot/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Printf("failed to load config %s: %v\n", opts.Config, err)
		os.Exit(1)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	setupLog(opts.Debug, opts.NoColor, cfg.News.APIKey, cfg.Telegram.Token)

	log.Printf("[INFO] starting bullbear version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, cfg, opts.Debug); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, debug bool) error {
	db, err := store.New(store.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[WARN] failed to close store: %v", err)
		}
	}()

	source := makeSource(cfg.News)
	filter := news.NewFilter()

	telegram, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.Endpoint)
	if err != nil {
		return fmt.Errorf("telegram auth: %w", err)
	}

	sched := scheduler.NewScheduler(scheduler.Params{
		Directory: db,
		Ledger:    db,
		Source:    source,
		Notifier:  telegram,
		Filter:    filter,

		CheckInterval:   cfg.Schedule.CheckInterval,
		CycleTimeout:    cfg.Schedule.CycleTimeout,
		CleanupInterval: cfg.Schedule.CleanupInterval,
		RetentionDays:   cfg.Schedule.RetentionDays,
		MaxResults:      cfg.News.MaxResults,
		MaxWorkers:      cfg.Schedule.MaxWorkers,
		MinScore:        cfg.Schedule.ScoreThreshold, // pointer, explicit 0 disables score filtering
		DeliveryPause:   cfg.Schedule.DeliveryPause,
		TopicPause:      cfg.Schedule.TopicPause,
		ShowRelevance:   cfg.Schedule.ShowRelevance,
	})
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, db, source, filter, revision, debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// makeSource picks the news provider: GNews API when a key is configured,
// the Google News RSS search feed otherwise
func makeSource(cfg config.NewsConfig) news.Source {
	if cfg.APIKey != "" {
		log.Printf("[INFO] using GNews API source, language %s", cfg.Language)
		return news.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Language, cfg.Timeout)
	}
	log.Printf("[INFO] no GNews API key, using Google News RSS source, language %s", cfg.Language)
	return news.NewRSSSource(cfg.BaseURL, cfg.Language, cfg.Timeout)
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	// mask credentials in logs
	for _, s := range secs {
		if s != "" {
			logOpts = append(logOpts, lgr.Secret(s))
		}
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
