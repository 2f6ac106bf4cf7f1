package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

const regionColumns = `id, slug, name, description, cover_image, deleted_at, created_at, updated_at`

func scanRegion(row pgx.Row) (domain.Region, error) {
	var r domain.Region
	err := row.Scan(&r.ID, &r.Slug, &r.Name, &r.Description, &r.CoverImage, &r.DeletedAt, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// InsertRegion stores a new region.
func (p *Postgres) InsertRegion(ctx context.Context, r domain.Region) (domain.Region, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
INSERT INTO regions (id, slug, name, description, cover_image)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+regionColumns,
		r.ID, r.Slug, r.Name, r.Description, r.CoverImage)
	stored, err := scanRegion(row)
	metrics.ObserveQuery("insert_region", "regions", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Region{}, domain.ErrSlugTaken
		}
		return domain.Region{}, err
	}
	return stored, nil
}

// GetRegionBySlug loads a non-deleted region.
func (p *Postgres) GetRegionBySlug(ctx context.Context, slug string) (domain.Region, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+regionColumns+` FROM regions WHERE slug = $1 AND deleted_at IS NULL`, slug)
	region, err := scanRegion(row)
	metrics.ObserveQuery("get_region_by_slug", "regions", start, err)
	if err != nil {
		return domain.Region{}, mapNoRows(err)
	}
	return region, nil
}

// ListRegions returns all non-deleted regions alphabetically.
func (p *Postgres) ListRegions(ctx context.Context) ([]domain.Region, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `SELECT `+regionColumns+` FROM regions WHERE deleted_at IS NULL ORDER BY name`)
	metrics.ObserveQuery("list_regions", "regions", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Region, 0)
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, region)
	}
	return out, rows.Err()
}

// UpdateRegion writes every writable column from the resolved row.
func (p *Postgres) UpdateRegion(ctx context.Context, r domain.Region) (domain.Region, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
UPDATE regions SET slug = $2, name = $3, description = $4, cover_image = $5, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+regionColumns,
		r.ID, r.Slug, r.Name, r.Description, r.CoverImage)
	stored, err := scanRegion(row)
	metrics.ObserveQuery("update_region", "regions", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Region{}, domain.ErrSlugTaken
		}
		return domain.Region{}, mapNoRows(err)
	}
	return stored, nil
}

// SoftDeleteRegion sets the tombstone. Idempotent.
func (p *Postgres) SoftDeleteRegion(ctx context.Context, id uuid.UUID) error {
	return p.softDelete(ctx, "regions", id)
}

// RestoreRegion clears the tombstone.
func (p *Postgres) RestoreRegion(ctx context.Context, id uuid.UUID) error {
	return p.restore(ctx, "regions", id)
}

const heroColumns = `id, title, subtitle, image_url, link_url, sort_order, is_active, created_at, updated_at`

func scanHeroSlide(row pgx.Row) (domain.HeroSlide, error) {
	var s domain.HeroSlide
	err := row.Scan(&s.ID, &s.Title, &s.Subtitle, &s.ImageURL, &s.LinkURL, &s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// InsertHeroSlide stores a new slide.
func (p *Postgres) InsertHeroSlide(ctx context.Context, s domain.HeroSlide) (domain.HeroSlide, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
INSERT INTO hero_slides (id, title, subtitle, image_url, link_url, sort_order, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+heroColumns,
		s.ID, s.Title, s.Subtitle, s.ImageURL, s.LinkURL, s.SortOrder, s.IsActive)
	stored, err := scanHeroSlide(row)
	metrics.ObserveQuery("insert_hero_slide", "hero_slides", start, err)
	return stored, err
}

// ListHeroSlides returns slides by sort order, optionally active only.
func (p *Postgres) ListHeroSlides(ctx context.Context, activeOnly bool) ([]domain.HeroSlide, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	query := `SELECT ` + heroColumns + ` FROM hero_slides`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order, created_at`

	start := time.Now()
	rows, err := p.pool.Query(ctx, query)
	metrics.ObserveQuery("list_hero_slides", "hero_slides", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.HeroSlide, 0)
	for rows.Next() {
		slide, err := scanHeroSlide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, slide)
	}
	return out, rows.Err()
}

// UpdateHeroSlide writes every writable column from the resolved row.
func (p *Postgres) UpdateHeroSlide(ctx context.Context, s domain.HeroSlide) (domain.HeroSlide, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
UPDATE hero_slides SET title = $2, subtitle = $3, image_url = $4, link_url = $5, sort_order = $6, is_active = $7, updated_at = now()
WHERE id = $1
RETURNING `+heroColumns,
		s.ID, s.Title, s.Subtitle, s.ImageURL, s.LinkURL, s.SortOrder, s.IsActive)
	stored, err := scanHeroSlide(row)
	metrics.ObserveQuery("update_hero_slide", "hero_slides", start, err)
	if err != nil {
		return domain.HeroSlide{}, mapNoRows(err)
	}
	return stored, nil
}

// DeleteHeroSlide removes a slide. Slides have no tombstone.
func (p *Postgres) DeleteHeroSlide(ctx context.Context, id uuid.UUID) error {
	return p.hardDelete(ctx, "hero_slides", id)
}

// ListTags returns all tags alphabetically.
func (p *Postgres) ListTags(ctx context.Context) ([]domain.Tag, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `SELECT id, slug, name, created_at FROM tags ORDER BY name`)
	metrics.ObserveQuery("list_tags", "tags", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Tag, 0)
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertTags ensures a tag row exists per name and returns the full rows.
func (p *Postgres) UpsertTags(ctx context.Context, names []string) ([]domain.Tag, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	out := make([]domain.Tag, 0, len(names))
	start := time.Now()
	for _, name := range names {
		var t domain.Tag
		err := p.pool.QueryRow(ctx, `
INSERT INTO tags (id, slug, name)
VALUES (gen_random_uuid(), $1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id, slug, name, created_at`, slugifyTag(name), name).Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt)
		if err != nil {
			metrics.ObserveQuery("upsert_tags", "tags", start, err)
			return nil, err
		}
		out = append(out, t)
	}
	metrics.ObserveQuery("upsert_tags", "tags", start, nil)
	return out, nil
}

// DeleteTag removes a tag; post links cascade at schema level.
func (p *Postgres) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return p.hardDelete(ctx, "tags", id)
}
