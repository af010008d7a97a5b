// The server binary shortens video links and serves monetized redirects.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"

	"vidshort/internal/config"
	"vidshort/internal/extractor"
	"vidshort/internal/geo"
	"vidshort/internal/publisher"
	"vidshort/internal/registry"
	"vidshort/internal/resolver"
	"vidshort/internal/server"
	"vidshort/internal/service"
	"vidshort/internal/shortcode"
	"vidshort/internal/storage/postgres"
	"vidshort/internal/view"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	if err := run(*configPath, logger); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("connected to database")

	var viewPublisher view.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbit, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer rabbit.Close()
		viewPublisher = rabbit
	}

	linkStore := postgres.NewLinkStore(db)
	viewStore := postgres.NewViewStore(db)
	accountStore := postgres.NewAccountStore(db)
	tokenStore := postgres.NewTokenStore(db)
	txManager := postgres.NewTransactionManager(db)

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
		return fmt.Errorf("build platform registry: %w", err)
	}

	res, err := resolver.New(reg, linkStore, resolver.Config{
		RefreshAhead: cfg.Resolve.RefreshAhead,
		NearExpiry:   cfg.Resolve.NearExpiry,
		CacheSize:    cfg.Resolve.CacheSize,
	}, logger)
	if err != nil {
		return fmt.Errorf("create resolver: %w", err)
	}
	defer res.Close()

	pipeline := view.NewPipeline(
		viewStore,
		linkStore,
		accountStore,
		txManager,
		viewPublisher,
		geo.Static{},
		view.Config{
			DedupWindow:       cfg.View.DedupWindow,
			CPMRate:           cfg.View.CPMRate,
			GeoMultipliers:    cfg.View.GeoMultipliers,
			SourceMultipliers: cfg.View.SourceMultipliers,
			BlockedIPs:        cfg.View.BlockedIPs,
			BotSignatures:     cfg.View.BotSignatures,
		},
		logger,
	)

	codes, err := shortcode.New()
	if err != nil {
		return fmt.Errorf("create code generator: %w", err)
	}

	linkService := service.NewLinkService(
		linkStore, accountStore, reg, res, pipeline, codes, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	server.New(linkService, cfg.Server.BaseURL, logger).Register(e)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-serverErrCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
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
