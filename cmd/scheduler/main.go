package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"paayo-backend/internal/adapters/repo"
	"paayo-backend/internal/infra/config"
	"paayo-backend/internal/infra/db"
	"paayo-backend/internal/infra/log"
	"paayo-backend/internal/usecase/engagement"
)

// The scheduler owns the daily view rollup and retention pruning. It is a
// separate binary so the API can scale horizontally without duplicate runs.
func main() {
	cfg := config.Load()
	logger := log.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: database connection failed")
	}
	defer pool.Close()

	store := repo.NewPostgres(pool, logger.With().Str("component", "repo").Logger())
	svc := engagement.NewService(
		store, store, store, store, store, store, nil,
		logger.With().Str("component", "engagement").Logger(),
	)

	// Both jobs are idempotent, so re-running after a restart is harmless.
	lastRun := ""
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("scheduler: shutting down")
			return
		case now := <-ticker.C:
			day := now.UTC().Format("2006-01-02")
			if day == lastRun {
				continue
			}
			if _, err := svc.AggregateDaily(ctx); err != nil {
				logger.Error().Err(err).Msg("scheduler: view aggregation failed")
				continue
			}
			if _, err := svc.PruneRawViews(ctx, cfg.Views.RetentionDays); err != nil {
				logger.Error().Err(err).Msg("scheduler: view pruning failed")
				continue
			}
			lastRun = day
		}
	}
}
