// The refresher proactively re-resolves stored links nearing expiry. With
// -once it runs a single batch pass and exits: 0 when the pass completed
// (individual link failures included), non-zero on a fatal setup failure.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"vidshort/internal/config"
	"vidshort/internal/extractor"
	"vidshort/internal/registry"
	"vidshort/internal/resolver"
	"vidshort/internal/scheduler"
	"vidshort/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one refresh pass and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	linkStore := postgres.NewLinkStore(db)
	tokenStore := postgres.NewTokenStore(db)

	httpClient := extractor.NewHTTPClient(extractor.ClientConfig{
		ConnectTimeout: cfg.Extract.ConnectTimeout,
		Timeout:        cfg.Extract.Timeout,
		UserAgent:      cfg.Extract.UserAgent,
	})

	reg, err := registry.New(
		registry.DefaultEntries(cfg.Extract, httpClient, tokenStore, logger),
		registry.BudgetConfig{
			RequestsPerHour: cfg.Extract.BudgetPerHour,
			Burst:           cfg.Extract.BudgetBurst,
			AllowlistIPs:    cfg.Extract.AllowlistIPs,
		},
		logger,
	)
	if err != nil {
		logger.Error("failed to build platform registry", "error", err)
		os.Exit(1)
	}

	res, err := resolver.New(reg, linkStore, resolver.Config{
		RefreshAhead: cfg.Resolve.RefreshAhead,
		NearExpiry:   cfg.Resolve.NearExpiry,
		CacheSize:    cfg.Resolve.CacheSize,
	}, logger)
	if err != nil {
		logger.Error("failed to create resolver", "error", err)
		os.Exit(1)
	}
	defer res.Close()

	sched := scheduler.New(linkStore, res, scheduler.Config{
		Interval:     cfg.Scheduler.Interval,
		RefreshAhead: cfg.Resolve.RefreshAhead,
		BatchSize:    cfg.Scheduler.BatchSize,
		Workers:      cfg.Scheduler.Workers,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if *once {
		if _, err := sched.RunOnce(ctx); err != nil {
			logger.Error("refresh pass failed", "error", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("starting link refresher",
		"interval", cfg.Scheduler.Interval,
		"batch_size", cfg.Scheduler.BatchSize,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
