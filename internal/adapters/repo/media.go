package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

const mediaColumns = `id, filename, original_name, mime, size, width, height, blur_hash, thumbnail_filename, uploaded_by, created_at`

func scanMedia(row pgx.Row) (domain.Media, error) {
	var m domain.Media
	err := row.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.Mime, &m.Size, &m.Width, &m.Height,
		&m.BlurHash, &m.ThumbnailFilename, &m.UploadedBy, &m.CreatedAt)
	return m, err
}

// InsertMedia stores upload metadata after both artifacts are on disk.
func (p *Postgres) InsertMedia(ctx context.Context, m domain.Media) (domain.Media, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
INSERT INTO media (id, filename, original_name, mime, size, width, height, blur_hash, thumbnail_filename, uploaded_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+mediaColumns,
		m.ID, m.Filename, m.OriginalName, m.Mime, m.Size, m.Width, m.Height, m.BlurHash,
		m.ThumbnailFilename, m.UploadedBy)
	stored, err := scanMedia(row)
	metrics.ObserveQuery("insert_media", "media", start, err)
	return stored, err
}

// GetMedia loads one media row.
func (p *Postgres) GetMedia(ctx context.Context, id uuid.UUID) (domain.Media, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id)
	m, err := scanMedia(row)
	metrics.ObserveQuery("get_media", "media", start, err)
	if err != nil {
		return domain.Media{}, mapNoRows(err)
	}
	return m, nil
}

// ListMedia returns a page of uploads, newest first.
func (p *Postgres) ListMedia(ctx context.Context, limit, offset int) ([]domain.Media, int64, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var total int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM media`).Scan(&total); err != nil {
		metrics.ObserveQuery("list_media", "media", start, err)
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx, `
SELECT `+mediaColumns+` FROM media ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	metrics.ObserveQuery("list_media", "media", start, err)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Media, 0, limit)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

// DeleteMedia removes the given rows and reports how many went.
func (p *Postgres) DeleteMedia(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `DELETE FROM media WHERE id = ANY($1)`, ids)
	metrics.ObserveQuery("delete_media", "media", start, err)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// FindOrphans returns media older than the grace cutoff whose filename
// appears in none of the reachable content columns. Textual substring
// matching is deliberate: inline references inside content JSON are only
// visible that way. O(media x content) and unindexed, acceptable at this
// catalogue's scale.
func (p *Postgres) FindOrphans(ctx context.Context, olderThan time.Time) ([]domain.OrphanMedia, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT m.id, m.filename, m.thumbnail_filename
FROM media m
WHERE m.created_at < $1
  AND NOT EXISTS (
    SELECT 1 FROM posts p WHERE p.deleted_at IS NULL AND (
      p.cover_image LIKE '%' || m.filename || '%' OR
      p.content::text LIKE '%' || m.filename || '%'
    )
  )
  AND NOT EXISTS (
    SELECT 1 FROM hotels h WHERE h.deleted_at IS NULL AND (
      h.cover_image LIKE '%' || m.filename || '%' OR
      h.gallery::text LIKE '%' || m.filename || '%' OR
      h.description LIKE '%' || m.filename || '%'
    )
  )
  AND NOT EXISTS (
    SELECT 1 FROM hero_slides s WHERE s.image_url LIKE '%' || m.filename || '%'
  )
  AND NOT EXISTS (
    SELECT 1 FROM photo_feature_images i WHERE i.image_url LIKE '%' || m.filename || '%'
  )
  AND NOT EXISTS (
    SELECT 1 FROM regions r WHERE r.deleted_at IS NULL AND r.cover_image LIKE '%' || m.filename || '%'
  )`, olderThan)
	metrics.ObserveQuery("find_orphans", "media", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.OrphanMedia, 0)
	for rows.Next() {
		var o domain.OrphanMedia
		if err := rows.Scan(&o.ID, &o.Filename, &o.ThumbnailFilename); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
