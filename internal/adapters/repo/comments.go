package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

const commentColumns = `id, target_kind, target_id, parent_id, guest_name, guest_email, content, status, ip, viewer_hash, created_at`

func scanComment(row pgx.Row) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.TargetKind, &c.TargetID, &c.ParentID, &c.GuestName, &c.GuestEmail,
		&c.Content, &c.Status, &c.IP, &c.ViewerHash, &c.CreatedAt)
	return c, err
}

// CountRecentByViewer counts the fingerprint's comments since the cutoff,
// feeding the per-viewer submission rate limit.
func (p *Postgres) CountRecentByViewer(ctx context.Context, viewerHash string, since time.Time) (int, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var count int
	err := p.pool.QueryRow(ctx, `
SELECT count(*) FROM comments WHERE viewer_hash = $1 AND created_at > $2`,
		viewerHash, since).Scan(&count)
	metrics.ObserveQuery("count_recent_comments", "comments", start, err)
	return count, err
}

// InsertComment stores a new comment and returns the stored row.
func (p *Postgres) InsertComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
INSERT INTO comments (id, target_kind, target_id, parent_id, guest_name, guest_email, content, status, ip, viewer_hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING `+commentColumns,
		c.ID, c.TargetKind, c.TargetID, c.ParentID, c.GuestName, c.GuestEmail, c.Content, c.Status, c.IP, c.ViewerHash, c.CreatedAt)
	stored, err := scanComment(row)
	metrics.ObserveQuery("insert_comment", "comments", start, err)
	return stored, err
}

// GetComment loads one comment by id.
func (p *Postgres) GetComment(ctx context.Context, id uuid.UUID) (domain.Comment, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	metrics.ObserveQuery("get_comment", "comments", start, err)
	if err != nil {
		return domain.Comment{}, mapNoRows(err)
	}
	return c, nil
}

// ListApproved returns approved top-level comments for a target, newest
// first, with approved replies nested under their parents.
func (p *Postgres) ListApproved(ctx context.Context, kind domain.TargetKind, id uuid.UUID, limit, offset int) ([]domain.Comment, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT `+commentColumns+` FROM comments
WHERE target_kind = $1 AND target_id = $2 AND parent_id IS NULL AND status = 'approved'
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`, kind, id, limit, offset)
	metrics.ObserveQuery("list_approved_comments", "comments", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parents := make([]domain.Comment, 0)
	parentIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		parents = append(parents, c)
		parentIDs = append(parentIDs, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return parents, nil
	}

	replyRows, err := p.pool.Query(ctx, `
SELECT `+commentColumns+` FROM comments
WHERE parent_id = ANY($1) AND status = 'approved'
ORDER BY created_at ASC`, parentIDs)
	if err != nil {
		return nil, err
	}
	defer replyRows.Close()

	byParent := make(map[uuid.UUID][]domain.Comment)
	for replyRows.Next() {
		c, err := scanComment(replyRows)
		if err != nil {
			return nil, err
		}
		byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
	}
	if err := replyRows.Err(); err != nil {
		return nil, err
	}
	for i := range parents {
		parents[i].Replies = byParent[parents[i].ID]
	}
	return parents, nil
}

// ListByStatus returns comments in a moderation state, newest first, with
// the total for pagination.
func (p *Postgres) ListByStatus(ctx context.Context, status domain.CommentStatus, limit, offset int) ([]domain.Comment, int64, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var total int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM comments WHERE status = $1`, status).Scan(&total); err != nil {
		metrics.ObserveQuery("list_comments_by_status", "comments", start, err)
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx, `
SELECT `+commentColumns+` FROM comments
WHERE status = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, status, limit, offset)
	metrics.ObserveQuery("list_comments_by_status", "comments", start, err)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Comment, 0, limit)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// UpdateCommentStatus moves a comment between moderation states.
func (p *Postgres) UpdateCommentStatus(ctx context.Context, id uuid.UUID, status domain.CommentStatus) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `UPDATE comments SET status = $2 WHERE id = $1`, id, status)
	metrics.ObserveQuery("update_comment_status", "comments", start, err)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteCommentTree removes a comment and its replies in one transaction.
// Replies go first; the schema is not relied on to cascade.
func (p *Postgres) DeleteCommentTree(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		metrics.ObserveQuery("delete_comment_tree", "comments", start, err)
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE parent_id = $1`, id); err != nil {
		metrics.ObserveQuery("delete_comment_tree", "comments", start, err)
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		metrics.ObserveQuery("delete_comment_tree", "comments", start, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	err = tx.Commit(ctx)
	metrics.ObserveQuery("delete_comment_tree", "comments", start, err)
	return err
}
