package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

const videoColumns = `id, slug, title, platform, video_url, video_id, thumbnail, description,
author_id, status, published_at, is_featured, display_order, view_count, like_count, deleted_at, created_at, updated_at`

func scanVideo(row pgx.Row) (domain.Video, error) {
	var v domain.Video
	err := row.Scan(&v.ID, &v.Slug, &v.Title, &v.Platform, &v.VideoURL, &v.VideoID, &v.Thumbnail,
		&v.Description, &v.AuthorID, &v.Status, &v.PublishedAt, &v.IsFeatured, &v.DisplayOrder,
		&v.ViewCount, &v.LikeCount, &v.DeletedAt, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// InsertVideo stores a new video entry.
func (p *Postgres) InsertVideo(ctx context.Context, v domain.Video) (domain.Video, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
INSERT INTO videos (id, slug, title, platform, video_url, video_id, thumbnail, description, author_id, status, is_featured, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING `+videoColumns,
		v.ID, v.Slug, v.Title, v.Platform, v.VideoURL, v.VideoID, v.Thumbnail, v.Description,
		v.AuthorID, v.Status, v.IsFeatured, v.DisplayOrder)
	stored, err := scanVideo(row)
	metrics.ObserveQuery("insert_video", "videos", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Video{}, domain.ErrSlugTaken
		}
		return domain.Video{}, err
	}
	return stored, nil
}

// GetVideo loads a non-deleted video by id.
func (p *Postgres) GetVideo(ctx context.Context, id uuid.UUID) (domain.Video, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1 AND deleted_at IS NULL`, id)
	video, err := scanVideo(row)
	metrics.ObserveQuery("get_video", "videos", start, err)
	if err != nil {
		return domain.Video{}, mapNoRows(err)
	}
	return video, nil
}

// GetVideoBySlug loads a non-deleted video by slug, any status.
func (p *Postgres) GetVideoBySlug(ctx context.Context, slug string) (domain.Video, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE slug = $1 AND deleted_at IS NULL`, slug)
	video, err := scanVideo(row)
	metrics.ObserveQuery("get_video_by_slug", "videos", start, err)
	if err != nil {
		return domain.Video{}, mapNoRows(err)
	}
	return video, nil
}

// ListVideos returns a filtered page plus the unpaged total.
func (p *Postgres) ListVideos(ctx context.Context, f domain.ListFilter) ([]domain.Video, int64, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	where := []string{"deleted_at IS NULL"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Status != nil {
		where = append(where, "status = "+arg(*f.Status))
	}
	if f.Featured != nil {
		where = append(where, "is_featured = "+arg(*f.Featured))
	}
	cond := strings.Join(where, " AND ")

	start := time.Now()
	var total int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM videos WHERE `+cond, args...).Scan(&total); err != nil {
		metrics.ObserveQuery("list_videos", "videos", start, err)
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx, `SELECT `+videoColumns+` FROM videos WHERE `+cond+
		` ORDER BY `+featuredOrder+` LIMIT `+arg(f.Limit)+` OFFSET `+arg(f.Offset), args...)
	metrics.ObserveQuery("list_videos", "videos", start, err)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Video, 0, f.Limit)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, video)
	}
	return out, total, rows.Err()
}

// UpdateVideo writes every writable column from the resolved row.
func (p *Postgres) UpdateVideo(ctx context.Context, v domain.Video) (domain.Video, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
UPDATE videos SET
  slug = $2, title = $3, platform = $4, video_url = $5, video_id = $6, thumbnail = $7,
  description = $8, is_featured = $9, display_order = $10, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+videoColumns,
		v.ID, v.Slug, v.Title, v.Platform, v.VideoURL, v.VideoID, v.Thumbnail, v.Description,
		v.IsFeatured, v.DisplayOrder)
	stored, err := scanVideo(row)
	metrics.ObserveQuery("update_video", "videos", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Video{}, domain.ErrSlugTaken
		}
		return domain.Video{}, mapNoRows(err)
	}
	return stored, nil
}

// SetVideoStatus transitions publication state, stamping published_at once.
func (p *Postgres) SetVideoStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) (domain.Video, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
UPDATE videos SET
  status = $2,
  published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, now()) ELSE published_at END,
  updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+videoColumns, id, status)
	video, err := scanVideo(row)
	metrics.ObserveQuery("set_video_status", "videos", start, err)
	if err != nil {
		return domain.Video{}, mapNoRows(err)
	}
	return video, nil
}

// SoftDeleteVideo sets the tombstone. Idempotent.
func (p *Postgres) SoftDeleteVideo(ctx context.Context, id uuid.UUID) error {
	return p.softDelete(ctx, "videos", id)
}

// RestoreVideo clears the tombstone.
func (p *Postgres) RestoreVideo(ctx context.Context, id uuid.UUID) error {
	return p.restore(ctx, "videos", id)
}

// HardDeleteVideo removes the row.
func (p *Postgres) HardDeleteVideo(ctx context.Context, id uuid.UUID) error {
	return p.hardDelete(ctx, "videos", id)
}
