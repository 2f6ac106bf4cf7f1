package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

const notificationColumns = `id, recipient_id, actor_id, kind, title, message, target_kind, target_id, action_url, is_read, created_at`

func scanNotification(row pgx.Row) (domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.Recipient, &n.ActorID, &n.Kind, &n.Title, &n.Message,
		&n.TargetKind, &n.TargetID, &n.ActionURL, &n.IsRead, &n.CreatedAt)
	return n, err
}

// InsertNotification stores a dashboard notification.
func (p *Postgres) InsertNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	row := p.pool.QueryRow(ctx, `
INSERT INTO notifications (id, recipient_id, actor_id, kind, title, message, target_kind, target_id, action_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING `+notificationColumns,
		n.ID, n.Recipient, n.ActorID, n.Kind, n.Title, n.Message, n.TargetKind, n.TargetID, n.ActionURL)
	stored, err := scanNotification(row)
	metrics.ObserveQuery("insert_notification", "notifications", start, err)
	return stored, err
}

// ListNotifications returns a recipient's notifications, newest first.
func (p *Postgres) ListNotifications(ctx context.Context, recipient string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	start := time.Now()
	rows, err := p.pool.Query(ctx, query, recipient, limit, offset)
	metrics.ObserveQuery("list_notifications", "notifications", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0, limit)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead marks one of the recipient's notifications read.
func (p *Postgres) MarkRead(ctx context.Context, recipient string, id uuid.UUID) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `
UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_id = $2`, id, recipient)
	metrics.ObserveQuery("mark_notification_read", "notifications", start, err)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marks all of the recipient's notifications read.
func (p *Postgres) MarkAllRead(ctx context.Context, recipient string) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
UPDATE notifications SET is_read = true WHERE recipient_id = $1 AND NOT is_read`, recipient)
	metrics.ObserveQuery("mark_all_notifications_read", "notifications", start, err)
	return err
}

// UnreadCount counts the recipient's unread notifications.
func (p *Postgres) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var count int64
	err := p.pool.QueryRow(ctx, `
SELECT count(*) FROM notifications WHERE recipient_id = $1 AND NOT is_read`, recipient).Scan(&count)
	metrics.ObserveQuery("unread_count", "notifications", start, err)
	return count, err
}

// ListAdminIDs returns the ids of all admin users, for comment fan-out.
func (p *Postgres) ListAdminIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `SELECT id FROM users WHERE role = 'admin' AND banned_at IS NULL`)
	metrics.ObserveQuery("list_admin_ids", "users", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
