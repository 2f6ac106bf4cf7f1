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

const photoColumns = `id, slug, title, description, cover_image, author_id, status, published_at,
is_featured, display_order, view_count, like_count, deleted_at, created_at, updated_at`

func scanPhotoFeature(row pgx.Row) (domain.PhotoFeature, error) {
	var f domain.PhotoFeature
	err := row.Scan(&f.ID, &f.Slug, &f.Title, &f.Description, &f.CoverImage, &f.AuthorID,
		&f.Status, &f.PublishedAt, &f.IsFeatured, &f.DisplayOrder, &f.ViewCount, &f.LikeCount,
		&f.DeletedAt, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// InsertPhotoFeature stores a new photo feature.
func (p *Postgres) InsertPhotoFeature(ctx context.Context, f domain.PhotoFeature) (domain.PhotoFeature, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
INSERT INTO photo_features (id, slug, title, description, cover_image, author_id, status, is_featured, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING `+photoColumns,
		f.ID, f.Slug, f.Title, f.Description, f.CoverImage, f.AuthorID, f.Status, f.IsFeatured, f.DisplayOrder)
	stored, err := scanPhotoFeature(row)
	metrics.ObserveQuery("insert_photo_feature", "photo_features", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.PhotoFeature{}, domain.ErrSlugTaken
		}
		return domain.PhotoFeature{}, err
	}
	return stored, nil
}

// GetPhotoFeature loads a non-deleted feature with its ordered images.
func (p *Postgres) GetPhotoFeature(ctx context.Context, id uuid.UUID) (domain.PhotoFeature, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photo_features WHERE id = $1 AND deleted_at IS NULL`, id)
	feature, err := scanPhotoFeature(row)
	metrics.ObserveQuery("get_photo_feature", "photo_features", start, err)
	if err != nil {
		return domain.PhotoFeature{}, mapNoRows(err)
	}
	feature.Images, err = p.listPhotoImages(ctx, feature.ID)
	return feature, err
}

// GetPhotoFeatureBySlug loads a non-deleted feature by slug, any status.
func (p *Postgres) GetPhotoFeatureBySlug(ctx context.Context, slug string) (domain.PhotoFeature, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photo_features WHERE slug = $1 AND deleted_at IS NULL`, slug)
	feature, err := scanPhotoFeature(row)
	metrics.ObserveQuery("get_photo_feature_by_slug", "photo_features", start, err)
	if err != nil {
		return domain.PhotoFeature{}, mapNoRows(err)
	}
	feature.Images, err = p.listPhotoImages(ctx, feature.ID)
	return feature, err
}

func (p *Postgres) listPhotoImages(ctx context.Context, featureID uuid.UUID) ([]domain.PhotoImage, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, feature_id, image_url, caption, sort_order, created_at
FROM photo_feature_images WHERE feature_id = $1 ORDER BY sort_order, created_at`, featureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PhotoImage, 0)
	for rows.Next() {
		var img domain.PhotoImage
		if err := rows.Scan(&img.ID, &img.FeatureID, &img.ImageURL, &img.Caption, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// ListPhotoFeatures returns a filtered page plus the unpaged total.
func (p *Postgres) ListPhotoFeatures(ctx context.Context, f domain.ListFilter) ([]domain.PhotoFeature, int64, error) {
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
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM photo_features WHERE `+cond, args...).Scan(&total); err != nil {
		metrics.ObserveQuery("list_photo_features", "photo_features", start, err)
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx, `SELECT `+photoColumns+` FROM photo_features WHERE `+cond+
		` ORDER BY `+featuredOrder+` LIMIT `+arg(f.Limit)+` OFFSET `+arg(f.Offset), args...)
	metrics.ObserveQuery("list_photo_features", "photo_features", start, err)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.PhotoFeature, 0, f.Limit)
	for rows.Next() {
		feature, err := scanPhotoFeature(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, feature)
	}
	return out, total, rows.Err()
}

// UpdatePhotoFeature writes every writable column from the resolved row.
func (p *Postgres) UpdatePhotoFeature(ctx context.Context, f domain.PhotoFeature) (domain.PhotoFeature, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
UPDATE photo_features SET
  slug = $2, title = $3, description = $4, cover_image = $5, is_featured = $6,
  display_order = $7, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+photoColumns,
		f.ID, f.Slug, f.Title, f.Description, f.CoverImage, f.IsFeatured, f.DisplayOrder)
	stored, err := scanPhotoFeature(row)
	metrics.ObserveQuery("update_photo_feature", "photo_features", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.PhotoFeature{}, domain.ErrSlugTaken
		}
		return domain.PhotoFeature{}, mapNoRows(err)
	}
	return stored, nil
}

// SetPhotoFeatureStatus transitions publication state.
func (p *Postgres) SetPhotoFeatureStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) (domain.PhotoFeature, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
UPDATE photo_features SET
  status = $2,
  published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, now()) ELSE published_at END,
  updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+photoColumns, id, status)
	feature, err := scanPhotoFeature(row)
	metrics.ObserveQuery("set_photo_feature_status", "photo_features", start, err)
	if err != nil {
		return domain.PhotoFeature{}, mapNoRows(err)
	}
	return feature, nil
}

// SoftDeletePhotoFeature sets the tombstone. Idempotent.
func (p *Postgres) SoftDeletePhotoFeature(ctx context.Context, id uuid.UUID) error {
	return p.softDelete(ctx, "photo_features", id)
}

// RestorePhotoFeature clears the tombstone.
func (p *Postgres) RestorePhotoFeature(ctx context.Context, id uuid.UUID) error {
	return p.restore(ctx, "photo_features", id)
}

// HardDeletePhotoFeature removes the row; images cascade at schema level.
func (p *Postgres) HardDeletePhotoFeature(ctx context.Context, id uuid.UUID) error {
	return p.hardDelete(ctx, "photo_features", id)
}

// SetPhotoImages atomically replaces a feature's image set in payload order.
func (p *Postgres) SetPhotoImages(ctx context.Context, featureID uuid.UUID, images []domain.PhotoImage) ([]domain.PhotoImage, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM photo_feature_images WHERE feature_id = $1`, featureID); err != nil {
		metrics.ObserveQuery("set_photo_images", "photo_feature_images", start, err)
		return nil, err
	}
	for i, img := range images {
		if _, err := tx.Exec(ctx, `
INSERT INTO photo_feature_images (id, feature_id, image_url, caption, sort_order)
VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), featureID, img.ImageURL, img.Caption, int32(i)); err != nil {
			metrics.ObserveQuery("set_photo_images", "photo_feature_images", start, err)
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.ObserveQuery("set_photo_images", "photo_feature_images", start, err)
		return nil, err
	}
	metrics.ObserveQuery("set_photo_images", "photo_feature_images", start, nil)
	return p.listPhotoImages(ctx, featureID)
}
