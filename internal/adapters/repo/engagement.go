package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

// HasRecentView is the view-dedup hot path: one indexed lookup on
// (target_kind, target_id, viewer_hash, created_at).
func (p *Postgres) HasRecentView(ctx context.Context, kind domain.TargetKind, id uuid.UUID, viewerHash string, since time.Time) (bool, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var exists bool
	err := p.pool.QueryRow(ctx, `
SELECT EXISTS (
  SELECT 1 FROM content_views
  WHERE target_kind = $1 AND target_id = $2 AND viewer_hash = $3 AND created_at > $4
)`, kind, id, viewerHash, since).Scan(&exists)
	metrics.ObserveQuery("has_recent_view", "content_views", start, err)
	return exists, err
}

// InsertView appends one raw view event.
func (p *Postgres) InsertView(ctx context.Context, view domain.ViewEvent) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO content_views (id, target_kind, target_id, viewer_hash, ip, user_agent, referrer, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		view.ID, view.TargetKind, view.TargetID, view.ViewerHash, view.IP, view.UserAgent, view.Referrer, view.CreatedAt)
	metrics.ObserveQuery("insert_view", "content_views", start, err)
	return err
}

// AggregateDay upserts the daily rollup for every target viewed on day.
// Idempotent: conflicts on (target_kind, target_id, view_date) overwrite
// both count columns with the recomputed values.
func (p *Postgres) AggregateDay(ctx context.Context, day time.Time) (int64, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `
INSERT INTO view_aggregates (target_kind, target_id, view_date, view_count, unique_viewers)
SELECT target_kind, target_id, $1::date, count(*), count(DISTINCT viewer_hash)
FROM content_views
WHERE created_at >= $1 AND created_at < $2
GROUP BY target_kind, target_id
ON CONFLICT (target_kind, target_id, view_date)
DO UPDATE SET view_count = EXCLUDED.view_count, unique_viewers = EXCLUDED.unique_viewers`,
		dayStart, dayEnd)
	metrics.ObserveQuery("aggregate_day", "view_aggregates", start, err)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// PruneBefore deletes raw view rows older than cutoff. Aggregates remain.
func (p *Postgres) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `DELETE FROM content_views WHERE created_at < $1`, cutoff)
	metrics.ObserveQuery("prune_views", "content_views", start, err)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteLike removes the viewer's like if present and reports whether a
// row was deleted. The conditional delete is the atomic arm of the
// DELETE-first toggle protocol.
func (p *Postgres) DeleteLike(ctx context.Context, kind domain.TargetKind, id uuid.UUID, viewerHash string) (bool, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `
DELETE FROM likes WHERE target_kind = $1 AND target_id = $2 AND viewer_hash = $3`,
		kind, id, viewerHash)
	metrics.ObserveQuery("delete_like", "likes", start, err)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// InsertLike adds a like row. Concurrent winners are absorbed: either way
// the like exists afterwards.
func (p *Postgres) InsertLike(ctx context.Context, like domain.Like) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO likes (id, target_kind, target_id, viewer_hash, ip, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (target_kind, target_id, viewer_hash) DO NOTHING`,
		like.ID, like.TargetKind, like.TargetID, like.ViewerHash, like.IP, like.CreatedAt)
	metrics.ObserveQuery("insert_like", "likes", start, err)
	return err
}

// CountLikes reads the authoritative like count for a target.
func (p *Postgres) CountLikes(ctx context.Context, kind domain.TargetKind, id uuid.UUID) (int64, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var count int64
	err := p.pool.QueryRow(ctx, `
SELECT count(*) FROM likes WHERE target_kind = $1 AND target_id = $2`, kind, id).Scan(&count)
	metrics.ObserveQuery("count_likes", "likes", start, err)
	return count, err
}

// HasLike reports whether the viewer currently likes the target.
func (p *Postgres) HasLike(ctx context.Context, kind domain.TargetKind, id uuid.UUID, viewerHash string) (bool, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var exists bool
	err := p.pool.QueryRow(ctx, `
SELECT EXISTS (
  SELECT 1 FROM likes WHERE target_kind = $1 AND target_id = $2 AND viewer_hash = $3
)`, kind, id, viewerHash).Scan(&exists)
	metrics.ObserveQuery("has_like", "likes", start, err)
	return exists, err
}
