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

const hotelColumns = `id, slug, name, description, cover_image, gallery, region_id, author_id,
status, published_at, is_featured, display_order, view_count, like_count, deleted_at, created_at, updated_at`

func scanHotel(row pgx.Row) (domain.Hotel, error) {
	var h domain.Hotel
	err := row.Scan(&h.ID, &h.Slug, &h.Name, &h.Description, &h.CoverImage, &h.Gallery,
		&h.RegionID, &h.AuthorID, &h.Status, &h.PublishedAt, &h.IsFeatured, &h.DisplayOrder,
		&h.ViewCount, &h.LikeCount, &h.DeletedAt, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

// InsertHotel stores a new hotel.
func (p *Postgres) InsertHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
INSERT INTO hotels (id, slug, name, description, cover_image, gallery, region_id, author_id, status, is_featured, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING `+hotelColumns,
		h.ID, h.Slug, h.Name, h.Description, h.CoverImage, h.Gallery, h.RegionID, h.AuthorID,
		h.Status, h.IsFeatured, h.DisplayOrder)
	stored, err := scanHotel(row)
	metrics.ObserveQuery("insert_hotel", "hotels", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Hotel{}, domain.ErrSlugTaken
		}
		return domain.Hotel{}, err
	}
	return stored, nil
}

// GetHotel loads a non-deleted hotel with its branches.
func (p *Postgres) GetHotel(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = $1 AND deleted_at IS NULL`, id)
	hotel, err := scanHotel(row)
	metrics.ObserveQuery("get_hotel", "hotels", start, err)
	if err != nil {
		return domain.Hotel{}, mapNoRows(err)
	}
	hotel.Branches, err = p.listBranches(ctx, hotel.ID)
	return hotel, err
}

// GetHotelBySlug loads a non-deleted hotel by slug with its branches.
func (p *Postgres) GetHotelBySlug(ctx context.Context, slug string) (domain.Hotel, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE slug = $1 AND deleted_at IS NULL`, slug)
	hotel, err := scanHotel(row)
	metrics.ObserveQuery("get_hotel_by_slug", "hotels", start, err)
	if err != nil {
		return domain.Hotel{}, mapNoRows(err)
	}
	hotel.Branches, err = p.listBranches(ctx, hotel.ID)
	return hotel, err
}

func (p *Postgres) listBranches(ctx context.Context, hotelID uuid.UUID) ([]domain.HotelBranch, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, hotel_id, name, address, phone, latitude, longitude, sort_order, created_at
FROM hotel_branches WHERE hotel_id = $1 ORDER BY sort_order, created_at`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.HotelBranch, 0)
	for rows.Next() {
		var b domain.HotelBranch
		if err := rows.Scan(&b.ID, &b.HotelID, &b.Name, &b.Address, &b.Phone, &b.Latitude,
			&b.Longitude, &b.SortOrder, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListHotels returns a filtered page plus the unpaged total.
func (p *Postgres) ListHotels(ctx context.Context, f domain.ListFilter) ([]domain.Hotel, int64, error) {
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
	if f.RegionID != nil {
		where = append(where, "region_id = "+arg(*f.RegionID))
	}
	cond := strings.Join(where, " AND ")

	start := time.Now()
	var total int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM hotels WHERE `+cond, args...).Scan(&total); err != nil {
		metrics.ObserveQuery("list_hotels", "hotels", start, err)
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE `+cond+
		` ORDER BY `+featuredOrder+` LIMIT `+arg(f.Limit)+` OFFSET `+arg(f.Offset), args...)
	metrics.ObserveQuery("list_hotels", "hotels", start, err)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Hotel, 0, f.Limit)
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, hotel)
	}
	return out, total, rows.Err()
}

// UpdateHotel writes every writable column from the resolved row.
func (p *Postgres) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
UPDATE hotels SET
  slug = $2, name = $3, description = $4, cover_image = $5, gallery = $6,
  region_id = $7, is_featured = $8, display_order = $9, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+hotelColumns,
		h.ID, h.Slug, h.Name, h.Description, h.CoverImage, h.Gallery, h.RegionID,
		h.IsFeatured, h.DisplayOrder)
	stored, err := scanHotel(row)
	metrics.ObserveQuery("update_hotel", "hotels", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Hotel{}, domain.ErrSlugTaken
		}
		return domain.Hotel{}, mapNoRows(err)
	}
	return stored, nil
}

// SetHotelStatus transitions publication state, stamping published_at once.
func (p *Postgres) SetHotelStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) (domain.Hotel, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
UPDATE hotels SET
  status = $2,
  published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, now()) ELSE published_at END,
  updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+hotelColumns, id, status)
	hotel, err := scanHotel(row)
	metrics.ObserveQuery("set_hotel_status", "hotels", start, err)
	if err != nil {
		return domain.Hotel{}, mapNoRows(err)
	}
	return hotel, nil
}

// SoftDeleteHotel sets the tombstone. Idempotent.
func (p *Postgres) SoftDeleteHotel(ctx context.Context, id uuid.UUID) error {
	return p.softDelete(ctx, "hotels", id)
}

// RestoreHotel clears the tombstone.
func (p *Postgres) RestoreHotel(ctx context.Context, id uuid.UUID) error {
	return p.restore(ctx, "hotels", id)
}

// HardDeleteHotel removes the row; branches cascade at schema level.
func (p *Postgres) HardDeleteHotel(ctx context.Context, id uuid.UUID) error {
	return p.hardDelete(ctx, "hotels", id)
}

// SetBranches atomically replaces a hotel's branch set. Used by the
// dashboard's drag-and-drop reorder flow.
func (p *Postgres) SetBranches(ctx context.Context, hotelID uuid.UUID, branches []domain.HotelBranch) ([]domain.HotelBranch, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM hotel_branches WHERE hotel_id = $1`, hotelID); err != nil {
		metrics.ObserveQuery("set_branches", "hotel_branches", start, err)
		return nil, err
	}
	for i, b := range branches {
		if _, err := tx.Exec(ctx, `
INSERT INTO hotel_branches (id, hotel_id, name, address, phone, latitude, longitude, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), hotelID, b.Name, b.Address, b.Phone, b.Latitude, b.Longitude, int32(i)); err != nil {
			metrics.ObserveQuery("set_branches", "hotel_branches", start, err)
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.ObserveQuery("set_branches", "hotel_branches", start, err)
		return nil, err
	}
	metrics.ObserveQuery("set_branches", "hotel_branches", start, nil)
	return p.listBranches(ctx, hotelID)
}
