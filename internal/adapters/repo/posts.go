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

const postColumns = `id, slug, title, post_type, short_description, content, cover_image, region_id,
author_id, status, published_at, event_date, event_end_date, is_featured, display_order,
view_count, like_count, deleted_at, created_at, updated_at`

// featuredOrder implements the platform-wide list policy: featured rows
// first, explicit display order inside the featured block, then recency.
const featuredOrder = `is_featured DESC,
CASE WHEN is_featured THEN display_order END ASC NULLS LAST,
published_at DESC NULLS LAST,
created_at DESC`

func scanPost(row pgx.Row) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.PostType, &p.ShortDescription, &p.Content,
		&p.CoverImage, &p.RegionID, &p.AuthorID, &p.Status, &p.PublishedAt, &p.EventDate,
		&p.EventEndDate, &p.IsFeatured, &p.DisplayOrder, &p.ViewCount, &p.LikeCount,
		&p.DeletedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// InsertPost stores a new post and attaches its tags. A slug collision
// with a non-deleted sibling surfaces as ErrSlugTaken for the caller's
// retry loop.
func (p *Postgres) InsertPost(ctx context.Context, post domain.Post, tags []string) (domain.Post, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Post{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
INSERT INTO posts (id, slug, title, post_type, short_description, content, cover_image, region_id,
  author_id, status, event_date, event_end_date, is_featured, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING `+postColumns,
		post.ID, post.Slug, post.Title, post.PostType, post.ShortDescription, post.Content,
		post.CoverImage, post.RegionID, post.AuthorID, post.Status, post.EventDate,
		post.EventEndDate, post.IsFeatured, post.DisplayOrder)
	stored, err := scanPost(row)
	if err != nil {
		metrics.ObserveQuery("insert_post", "posts", start, err)
		if isUniqueViolation(err) {
			return domain.Post{}, domain.ErrSlugTaken
		}
		return domain.Post{}, err
	}
	if err := p.replacePostTags(ctx, tx, stored.ID, tags); err != nil {
		metrics.ObserveQuery("insert_post", "posts", start, err)
		return domain.Post{}, err
	}
	err = tx.Commit(ctx)
	metrics.ObserveQuery("insert_post", "posts", start, err)
	if err != nil {
		return domain.Post{}, err
	}
	return stored, nil
}

func (p *Postgres) replacePostTags(ctx context.Context, tx pgx.Tx, postID uuid.UUID, tags []string) error {
	if tags == nil {
		return nil
	}
	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return err
	}
	for _, name := range tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var tagID uuid.UUID
		err := tx.QueryRow(ctx, `
INSERT INTO tags (id, slug, name)
VALUES (gen_random_uuid(), $1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id`, slugifyTag(name), name).Scan(&tagID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING`, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func slugifyTag(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(name)), "-"))
}

// GetPost loads a non-deleted post by id.
func (p *Postgres) GetPost(ctx context.Context, id uuid.UUID) (domain.Post, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1 AND deleted_at IS NULL`, id)
	post, err := scanPost(row)
	metrics.ObserveQuery("get_post", "posts", start, err)
	if err != nil {
		return domain.Post{}, mapNoRows(err)
	}
	return post, nil
}

// GetPostBySlug loads a non-deleted post by slug, any status. Visibility
// of drafts is the lifecycle service's decision.
func (p *Postgres) GetPostBySlug(ctx context.Context, slug string) (domain.Post, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1 AND deleted_at IS NULL`, slug)
	post, err := scanPost(row)
	metrics.ObserveQuery("get_post_by_slug", "posts", start, err)
	if err != nil {
		return domain.Post{}, mapNoRows(err)
	}
	return post, nil
}

// ListPosts returns a filtered page plus the unpaged total.
func (p *Postgres) ListPosts(ctx context.Context, f domain.ListFilter) ([]domain.Post, int64, error) {
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
	if f.PostType != nil {
		where = append(where, "post_type = "+arg(*f.PostType))
	}
	if f.Tag != nil {
		where = append(where, `id IN (
SELECT pt.post_id FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE t.slug = `+arg(*f.Tag)+`)`)
	}
	cond := strings.Join(where, " AND ")

	start := time.Now()
	var total int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM posts WHERE `+cond, args...).Scan(&total); err != nil {
		metrics.ObserveQuery("list_posts", "posts", start, err)
		return nil, 0, err
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE ` + cond +
		` ORDER BY ` + featuredOrder + ` LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	rows, err := p.pool.Query(ctx, query, args...)
	metrics.ObserveQuery("list_posts", "posts", start, err)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Post, 0, f.Limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, post)
	}
	return out, total, rows.Err()
}

// UpdatePost writes every writable column from the resolved row, so a
// tri-state "clear" really stores NULL. Tags replace the set when non-nil.
func (p *Postgres) UpdatePost(ctx context.Context, post domain.Post, tags *[]string) (domain.Post, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Post{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
UPDATE posts SET
  slug = $2, title = $3, short_description = $4, content = $5, cover_image = $6,
  region_id = $7, event_date = $8, event_end_date = $9, is_featured = $10,
  display_order = $11, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+postColumns,
		post.ID, post.Slug, post.Title, post.ShortDescription, post.Content, post.CoverImage,
		post.RegionID, post.EventDate, post.EventEndDate, post.IsFeatured, post.DisplayOrder)
	stored, err := scanPost(row)
	if err != nil {
		metrics.ObserveQuery("update_post", "posts", start, err)
		if isUniqueViolation(err) {
			return domain.Post{}, domain.ErrSlugTaken
		}
		return domain.Post{}, mapNoRows(err)
	}
	if tags != nil {
		if err := p.replacePostTags(ctx, tx, stored.ID, *tags); err != nil {
			metrics.ObserveQuery("update_post", "posts", start, err)
			return domain.Post{}, err
		}
	}
	err = tx.Commit(ctx)
	metrics.ObserveQuery("update_post", "posts", start, err)
	if err != nil {
		return domain.Post{}, err
	}
	return stored, nil
}

// SetPostStatus transitions publication state. The first transition to
// published stamps published_at; it is never cleared afterwards.
func (p *Postgres) SetPostStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) (domain.Post, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
UPDATE posts SET
  status = $2,
  published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, now()) ELSE published_at END,
  updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+postColumns, id, status)
	post, err := scanPost(row)
	metrics.ObserveQuery("set_post_status", "posts", start, err)
	if err != nil {
		return domain.Post{}, mapNoRows(err)
	}
	return post, nil
}

// SoftDeletePost sets the tombstone. Idempotent.
func (p *Postgres) SoftDeletePost(ctx context.Context, id uuid.UUID) error {
	return p.softDelete(ctx, "posts", id)
}

// RestorePost clears the tombstone.
func (p *Postgres) RestorePost(ctx context.Context, id uuid.UUID) error {
	return p.restore(ctx, "posts", id)
}

// HardDeletePost removes the row. Child rows cascade at schema level.
func (p *Postgres) HardDeletePost(ctx context.Context, id uuid.UUID) error {
	return p.hardDelete(ctx, "posts", id)
}

func (p *Postgres) softDelete(ctx context.Context, table string, id uuid.UUID) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `UPDATE `+table+` SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	metrics.ObserveQuery("soft_delete", table, start, err)
	return err
}

func (p *Postgres) restore(ctx context.Context, table string, id uuid.UUID) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `UPDATE `+table+` SET deleted_at = NULL WHERE id = $1`, id)
	metrics.ObserveQuery("restore", table, start, err)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *Postgres) hardDelete(ctx context.Context, table string, id uuid.UUID) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	metrics.ObserveQuery("hard_delete", table, start, err)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
