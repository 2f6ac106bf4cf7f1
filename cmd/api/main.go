package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"paayo-backend/internal/adapters/repo"
	"paayo-backend/internal/infra/cache"
	"paayo-backend/internal/infra/config"
	"paayo-backend/internal/infra/db"
	httpinfra "paayo-backend/internal/infra/http"
	"paayo-backend/internal/infra/log"
	"paayo-backend/internal/infra/metrics"
	"paayo-backend/internal/usecase/content"
	"paayo-backend/internal/usecase/engagement"
	"paayo-backend/internal/usecase/media"
	"paayo-backend/internal/usecase/notify"
)

func main() {
	cfg := config.Load()
	logger := log.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: database connection failed")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("api: schema migration failed")
	}

	redisClient, err := cache.Connect(cfg.RedisAddr)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: redis connection failed")
	}
	defer redisClient.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("api: upload dir not writable")
	}

	store := repo.NewPostgres(pool, logger.With().Str("component", "repo").Logger())
	seedAdmin(ctx, cfg, store, logger)

	broker := cache.NewRedisBroker(redisClient, logger.With().Str("component", "broker").Logger())

	engagementSvc := engagement.NewService(
		store, store, store, store, store, store, broker,
		logger.With().Str("component", "engagement").Logger(),
	)
	contentSvc := content.NewService(
		store, store, store, store, store, store, store, store,
		logger.With().Str("component", "content").Logger(),
	)
	mediaSvc := media.NewService(
		store, media.NewProcessor(), cfg.UploadDir,
		logger.With().Str("component", "media").Logger(),
	)
	reclaimer := media.NewReclaimer(
		store, cfg.UploadDir,
		time.Duration(cfg.Cleanup.IntervalHours)*time.Hour,
		time.Duration(cfg.Cleanup.GraceHours)*time.Hour,
		logger.With().Str("component", "reclaimer").Logger(),
	)
	notifySvc := notify.NewService(store, broker, logger.With().Str("component", "notify").Logger())

	api := &httpinfra.API{
		Content:    contentSvc,
		Engagement: engagementSvc,
		Media:      mediaSvc,
		Reclaimer:  reclaimer,
		Notify:     notifySvc,
		Users:      store,
		Hasher:     engagement.NewHasher(cfg.ViewerHashSalt),

		EngagementLimiter: httpinfra.NewTierLimiter("engagement", cfg.Limits.EngagementPerMin),
		WriteLimiter:      httpinfra.NewTierLimiter("write", cfg.Limits.WritePerMin),
		UploadLimiter:     httpinfra.NewTierLimiter("upload", cfg.Limits.UploadPerMin),

		UploadDir: cfg.UploadDir,
		PingDB:    pool.Ping,
		PingRedis: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}
	defer api.EngagementLimiter.Close()
	defer api.WriteLimiter.Close()
	defer api.UploadLimiter.Close()

	srv := httpinfra.NewServer(logger, httpinfra.Options{
		Origins:         cfg.Origins(),
		APILimiter:      httpinfra.NewTierLimiter("api", cfg.Limits.APIPerMin),
		CSRFInsecureDev: cfg.CSRFInsecureDev,
		Sessions:        store,
	})
	api.Routes(srv.Router)

	go reclaimer.Start(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.Port) }()

	select {
	case <-ctx.Done():
		logger.Info().Msg("api: shutting down")
	case err := <-errCh:
		logger.Error().Err(err).Msg("api: server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: shutdown incomplete")
	}
}

// seedAdmin creates the bootstrap admin account on first start. An
// existing account with the same email is left untouched.
func seedAdmin(ctx context.Context, cfg config.AppConfig, store *repo.Postgres, logger zerolog.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Info().Msg("api: admin seed skipped, no credentials configured")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: admin password hash failed")
	}
	if err := store.EnsureAdmin(ctx, cfg.AdminEmail, string(hash)); err != nil {
		logger.Fatal().Err(err).Msg("api: admin seed failed")
	}
}
