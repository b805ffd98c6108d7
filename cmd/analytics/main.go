package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/helpline-analytics/internal/adapter/dataset"
	"github.com/couchcryptid/helpline-analytics/internal/adapter/httpapi"
	"github.com/couchcryptid/helpline-analytics/internal/adapter/ics"
	"github.com/couchcryptid/helpline-analytics/internal/config"
	"github.com/couchcryptid/helpline-analytics/internal/domain"
	"github.com/couchcryptid/helpline-analytics/internal/observability"
	"github.com/couchcryptid/helpline-analytics/internal/session"
)

func main() {
	configPath := flag.String("config", "", "optional path to a config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize the festival feed (feature-flagged via feed.enabled).
	var feed session.FeedFetcher
	if cfg.Feed.Enabled {
		feed = ics.NewClient(cfg.Feed.URL, cfg.Feed.Timeout, logger)
		logger.Info("festival feed enabled", "url", cfg.Feed.URL, "timeout", cfg.Feed.Timeout)
	} else {
		logger.Info("festival feed disabled")
	}

	defaults := domain.ScoreParams{
		Category:     cfg.Scoring.Category,
		ThresholdPct: cfg.Scoring.ThresholdPct,
		MinCalls:     cfg.Scoring.MinCalls,
	}

	sess := session.New(dataset.NewLoader(nil), feed, defaults, logger, metrics, nil)

	if cfg.DatasetPath != "" {
		if _, err := sess.LoadDataset(context.Background(), cfg.DatasetPath); err != nil {
			logger.Error("initial dataset load failed", "path", cfg.DatasetPath, "error", err)
			os.Exit(1)
		}
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, sess, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
