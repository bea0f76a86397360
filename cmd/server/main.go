package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rickgao/thirteenf/internal/app"
	"github.com/rickgao/thirteenf/internal/config"
	"github.com/rickgao/thirteenf/internal/metrics"
	"github.com/rickgao/thirteenf/internal/model"
	"github.com/rickgao/thirteenf/internal/refresher"
	"github.com/rickgao/thirteenf/internal/server"
	"github.com/rickgao/thirteenf/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/thirteenf.yaml", "path to config file")
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load env file", "path", *envFile, "err", err)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting thirteenf server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	warmer := refresher.New(refresher.Config{
		Interval:    cfg.Refresher.Interval,
		Concurrency: cfg.Refresher.Concurrency,
		Watchlist:   cfg.Refresher.Watchlist,
	}, a.Comparer, refresher.ResultHandlerFunc(func(c *model.Comparison) error {
		logger.Info("comparison refreshed",
			"cik", c.FundID,
			"positions", c.Summary.TotalPositions,
			"new", c.Summary.NewPositions,
			"exited", c.Summary.ExitedPositions,
			"run_id", c.RunID,
		)
		return nil
	}), logger)

	opts := []server.Option{
		server.WithLogger(logger),
	}
	collectorOpts := []metrics.Option{
		metrics.WithCache(a.Cache),
		metrics.WithRefresher(warmer),
	}
	if a.Documents != nil {
		opts = append(opts, server.WithHealthCheck("database", a.Ping))
		collectorOpts = append(collectorOpts, metrics.WithStore(a.Documents))
	}
	opts = append(opts, server.WithStats(metrics.NewCollector(collectorOpts...)))

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		AllowOrigins: cfg.Server.AllowOrigins,
		MaxRows:      cfg.Display.MaxRows,
	}, a.Comparer, opts...)

	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start http server", "err", err)
		os.Exit(1)
	}

	if err := warmer.Start(ctx); err != nil {
		logger.Error("failed to start refresher", "err", err)
		os.Exit(1)
	}

	logger.Info("server running", "addr", srv.Addr())

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := warmer.Stop(shutdownCtx); err != nil {
		logger.Warn("refresher stop", "err", err)
	}
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("http server stop", "err", err)
	}

	logger.Info("server stopped")
}
