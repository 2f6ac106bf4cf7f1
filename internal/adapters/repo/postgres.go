package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

// Postgres implements all domain repositories over a shared pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPostgres creates the database adapter.
func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) *Postgres {
	return &Postgres{pool: pool, log: logger}
}

var (
	_ domain.ExistenceChecker = (*Postgres)(nil)
	_ domain.CounterSyncer    = (*Postgres)(nil)
	_ domain.ViewRepo         = (*Postgres)(nil)
	_ domain.LikeRepo         = (*Postgres)(nil)
	_ domain.CommentRepo      = (*Postgres)(nil)
	_ domain.NotificationRepo = (*Postgres)(nil)
	_ domain.MediaRepo        = (*Postgres)(nil)
	_ domain.SessionRepo      = (*Postgres)(nil)
	_ domain.UserRepo         = (*Postgres)(nil)
	_ domain.SearchRepo       = (*Postgres)(nil)
	_ domain.PostRepo         = (*Postgres)(nil)
	_ domain.HotelRepo        = (*Postgres)(nil)
	_ domain.VideoRepo        = (*Postgres)(nil)
	_ domain.PhotoRepo        = (*Postgres)(nil)
	_ domain.RegionRepo       = (*Postgres)(nil)
	_ domain.HeroRepo         = (*Postgres)(nil)
	_ domain.TagRepo          = (*Postgres)(nil)
)

func (p *Postgres) connCtxWithParent(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 5*time.Second)
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// isUniqueViolation reports SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// targetTable resolves an engagement kind to its content table.
func targetTable(kind domain.TargetKind) (string, bool) {
	switch kind {
	case domain.TargetPost:
		return "posts", true
	case domain.TargetVideo:
		return "videos", true
	case domain.TargetPhoto:
		return "photo_features", true
	case domain.TargetHotel:
		return "hotels", true
	}
	return "", false
}

// ExistsPublished answers whether a live, published row backs the target.
// Unknown kinds are false, never an error.
func (p *Postgres) ExistsPublished(ctx context.Context, kind domain.TargetKind, id uuid.UUID) (bool, error) {
	table, ok := targetTable(kind)
	if !ok {
		p.log.Warn().Str("kind", string(kind)).Msg("repo: existence check for unknown target kind")
		return false, nil
	}
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var exists bool
	err := p.pool.QueryRow(ctx, `
SELECT EXISTS (
  SELECT 1 FROM `+table+`
  WHERE id = $1 AND deleted_at IS NULL AND status = 'published'
)`, id).Scan(&exists)
	metrics.ObserveQuery("exists_published", table, start, err)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// SyncViewCount rewrites the denormalized view counter from count(*) over
// the raw events. Absolute writes converge regardless of the order
// concurrent syncs complete in.
func (p *Postgres) SyncViewCount(ctx context.Context, kind domain.TargetKind, id uuid.UUID) (int64, error) {
	return p.syncCount(ctx, kind, id, "view_count", "content_views")
}

// SyncLikeCount rewrites the denormalized like counter from the likes table.
func (p *Postgres) SyncLikeCount(ctx context.Context, kind domain.TargetKind, id uuid.UUID) (int64, error) {
	return p.syncCount(ctx, kind, id, "like_count", "likes")
}

func (p *Postgres) syncCount(ctx context.Context, kind domain.TargetKind, id uuid.UUID, column, eventsTable string) (int64, error) {
	table, ok := targetTable(kind)
	if !ok {
		p.log.Warn().Str("kind", string(kind)).Msg("repo: counter sync for unknown target kind")
		return 0, nil
	}
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var count int64
	err := p.pool.QueryRow(ctx, `
UPDATE `+table+` SET `+column+` = (
  SELECT count(*) FROM `+eventsTable+`
  WHERE target_kind = $1 AND target_id = $2
)
WHERE id = $2
RETURNING `+column, kind, id).Scan(&count)
	metrics.ObserveQuery("sync_"+column, table, start, err)
	if err != nil {
		return 0, mapNoRows(err)
	}
	return count, nil
}
