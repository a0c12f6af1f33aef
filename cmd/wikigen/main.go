// Package main provides the wikigen static site build CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"

	"github.com/euforicio/wikigen/internal/buildinfo"
	"github.com/euforicio/wikigen/internal/config"
	"github.com/euforicio/wikigen/internal/exporter"
	"github.com/euforicio/wikigen/internal/metrics"
	"github.com/euforicio/wikigen/internal/renderer"
	"github.com/euforicio/wikigen/internal/watch"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse("wikigen", args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		slog.Error("invalid configuration", slog.Any("err", err))
		return 1
	}
	if cfg.ShowVersion {
		fmt.Println("wikigen", buildinfo.Summary())
		return 0
	}

	logLevel := slog.LevelInfo
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	logger.Info("starting wikigen", slog.String("version", buildinfo.Summary()))
	logger.Debug("configuration loaded",
		slog.String("config_file", cfg.ConfigFile),
		slog.String("pages", cfg.PagesDir),
		slog.String("output", cfg.OutputDir))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		promRec  *metrics.PrometheusRecorder
	)
	if cfg.MetricsFile != "" {
		promRec = metrics.NewPrometheusRecorder(nil)
		recorder = promRec
	}

	exp, err := exporter.New(logger,
		exporter.WithRenderer(renderer.NewService(logger, renderer.Options{
			Style:   cfg.HighlightStyle,
			Anchors: cfg.Anchors,
		})),
		exporter.WithRecorder(recorder),
	)
	if err != nil {
		logger.Error("init exporter failed", slog.Any("err", err))
		return 1
	}

	opts := exporter.Options{
		PagesDir:     cfg.PagesDir,
		OutputDir:    cfg.OutputDir,
		TemplatesDir: cfg.TemplatesDir,
		AssetsDir:    cfg.AssetsDir,
		SiteTitle:    cfg.SiteTitle,
		Clean:        cfg.Clean,
		Prune:        cfg.Prune,
	}
	build := func(ctx context.Context) error {
		_, err := exp.Export(ctx, opts)
		if promRec != nil {
			if werr := promRec.WriteTextfile(cfg.MetricsFile); werr != nil {
				logger.Warn("write metrics failed", slog.Any("err", werr))
			}
		}
		return err
	}

	if err := build(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Info("build canceled")
			return 1
		}
		logger.Error("build failed",
			slog.String("kind", exporter.KindOf(err).String()),
			slog.Any("err", err))
		if !cfg.Watch {
			return 1
		}
	}
	if !cfg.Watch {
		return 0
	}

	// rebuilds rely on pruning rather than wiping the output
	opts.Clean = false
	w, err := watch.New(logger, build, watch.Options{
		Dirs: []string{cfg.PagesDir, cfg.TemplatesDir, cfg.AssetsDir},
	})
	if err != nil {
		logger.Error("init watcher failed", slog.Any("err", err))
		return 1
	}
	if err := w.Run(ctx); err != nil {
		logger.Error("watch failed", slog.Any("err", err))
		return 1
	}
	return 0
}
