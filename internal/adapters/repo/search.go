package repo

import (
	"context"
	"time"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

// Search runs a full-text query over published, non-deleted content.
// Each kind contributes a UNION arm; ranking is ts_rank over a weighted
// title+body vector.
func (p *Postgres) Search(ctx context.Context, query string, kinds []domain.TargetKind, limit, offset int) ([]domain.SearchHit, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	if len(kinds) == 0 {
		kinds = []domain.TargetKind{domain.TargetPost, domain.TargetHotel, domain.TargetVideo, domain.TargetPhoto}
	}
	wanted := make(map[domain.TargetKind]bool, len(kinds))
	for _, k := range kinds {
		wanted[k] = true
	}

	arms := make([]string, 0, 4)
	if wanted[domain.TargetPost] {
		arms = append(arms, `
SELECT 'post' AS kind, id, slug, title, left(coalesce(short_description, ''), 200) AS snippet, cover_image,
  ts_rank(setweight(to_tsvector('simple', title), 'A') || to_tsvector('simple', coalesce(short_description, '')), q) AS rank
FROM posts, websearch_to_tsquery('simple', $1) q
WHERE deleted_at IS NULL AND status = 'published'
  AND (setweight(to_tsvector('simple', title), 'A') || to_tsvector('simple', coalesce(short_description, ''))) @@ q`)
	}
	if wanted[domain.TargetHotel] {
		arms = append(arms, `
SELECT 'hotel' AS kind, id, slug, name AS title, left(coalesce(description, ''), 200) AS snippet, cover_image,
  ts_rank(setweight(to_tsvector('simple', name), 'A') || to_tsvector('simple', coalesce(description, '')), q) AS rank
FROM hotels, websearch_to_tsquery('simple', $1) q
WHERE deleted_at IS NULL AND status = 'published'
  AND (setweight(to_tsvector('simple', name), 'A') || to_tsvector('simple', coalesce(description, ''))) @@ q`)
	}
	if wanted[domain.TargetVideo] {
		arms = append(arms, `
SELECT 'video' AS kind, id, slug, title, left(coalesce(description, ''), 200) AS snippet, thumbnail AS cover_image,
  ts_rank(setweight(to_tsvector('simple', title), 'A') || to_tsvector('simple', coalesce(description, '')), q) AS rank
FROM videos, websearch_to_tsquery('simple', $1) q
WHERE deleted_at IS NULL AND status = 'published'
  AND (setweight(to_tsvector('simple', title), 'A') || to_tsvector('simple', coalesce(description, ''))) @@ q`)
	}
	if wanted[domain.TargetPhoto] {
		arms = append(arms, `
SELECT 'photo' AS kind, id, slug, title, left(coalesce(description, ''), 200) AS snippet, cover_image,
  ts_rank(setweight(to_tsvector('simple', title), 'A') || to_tsvector('simple', coalesce(description, '')), q) AS rank
FROM photo_features, websearch_to_tsquery('simple', $1) q
WHERE deleted_at IS NULL AND status = 'published'
  AND (setweight(to_tsvector('simple', title), 'A') || to_tsvector('simple', coalesce(description, ''))) @@ q`)
	}

	sql := arms[0]
	for _, arm := range arms[1:] {
		sql += "\nUNION ALL\n" + arm
	}
	sql += "\nORDER BY rank DESC LIMIT $2 OFFSET $3"

	start := time.Now()
	rows, err := p.pool.Query(ctx, sql, query, limit, offset)
	metrics.ObserveQuery("search", "search", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.SearchHit, 0, limit)
	for rows.Next() {
		var hit domain.SearchHit
		if err := rows.Scan(&hit.Kind, &hit.ID, &hit.Slug, &hit.Title, &hit.Snippet, &hit.CoverImage, &hit.Rank); err != nil {
			return nil, err
		}
		out = append(out, hit)
	}
	return out, rows.Err()
}
