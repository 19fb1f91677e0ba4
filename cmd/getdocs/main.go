// # cmd/getdocs/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"getdocs/internal/app"
	"getdocs/internal/config"
	"getdocs/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./getdocs.toml", "Path to config file")
	baseDir    = flag.String("base", "", "Base directory for relative type sources (default: nearest tsconfig.json)")
	pretty     = flag.Bool("pretty", false, "Indent the JSON output")
	watchMode  = flag.Bool("watch", false, "Re-extract when sources change")
	metrics    = flag.String("metrics", "", "Serve Prometheus metrics on this address")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("getdocs v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	// Logs go to stderr; stdout carries only the JSON result.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) || *configPath != "./getdocs.toml" {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}
	if *baseDir != "" {
		cfg.BaseDir = *baseDir
	}
	if *pretty {
		cfg.Pretty = true
	}
	if *metrics != "" {
		cfg.MetricsAddr = *metrics
	}

	entries := flag.Args()
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "usage: getdocs [flags] <entry.ts> [entry.ts ...]")
		os.Exit(1)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := observability.Serve(cfg.MetricsAddr); err != nil {
				slog.Error("metrics endpoint failed", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
	}

	svc, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := svc.Run
	if *watchMode {
		run = svc.WatchAndRun
	}
	runErr := run(ctx, entries, os.Stdout)

	if err := svc.Close(context.Background()); err != nil {
		slog.Warn("trace flush failed", "error", err)
	}
	if runErr != nil {
		slog.Error("extraction failed", "error", runErr)
		os.Exit(1)
	}
}
