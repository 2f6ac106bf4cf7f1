package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

// ResolveSession joins session and user rows for a token. A session is
// valid iff it is unexpired, the user is not banned, and the user is
// active or an admin. Anything else resolves to nil without error;
// the middleware treats absence and invalidity the same way.
func (p *Postgres) ResolveSession(ctx context.Context, token string, now time.Time) (*domain.AuthenticatedUser, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var (
		user     domain.AuthenticatedUser
		name     *string
		isActive bool
		bannedAt *time.Time
		expires  time.Time
	)
	err := p.pool.QueryRow(ctx, `
SELECT u.id, u.email, u.name, u.role, u.is_active, u.banned_at, s.expires_at
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.token = $1`, token).Scan(&user.ID, &user.Email, &name, &user.Role, &isActive, &bannedAt, &expires)
	metrics.ObserveQuery("resolve_session", "sessions", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !expires.After(now) || bannedAt != nil {
		return nil, nil
	}
	if !isActive && user.Role != domain.RoleAdmin {
		return nil, nil
	}
	if name != nil {
		user.Name = *name
	}
	user.IsActive = isActive
	return &user, nil
}

// ListUsers returns a page of accounts for the admin dashboard.
func (p *Postgres) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	var total int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		metrics.ObserveQuery("list_users", "users", start, err)
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx, `
SELECT id, email, name, role, is_active, banned_at, created_at
FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	metrics.ObserveQuery("list_users", "users", start, err)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, limit)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.BannedAt, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// SetUserActive flips the active flag.
func (p *Postgres) SetUserActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tag, err := p.pool.Exec(ctx, `UPDATE users SET is_active = $2 WHERE id = $1`, id, active)
	metrics.ObserveQuery("set_user_active", "users", start, err)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetUserBanned sets or clears the ban timestamp.
func (p *Postgres) SetUserBanned(ctx context.Context, id string, banned bool) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	query := `UPDATE users SET banned_at = now() WHERE id = $1 AND banned_at IS NULL`
	if !banned {
		query = `UPDATE users SET banned_at = NULL WHERE id = $1`
	}
	start := time.Now()
	_, err := p.pool.Exec(ctx, query, id)
	metrics.ObserveQuery("set_user_banned", "users", start, err)
	return err
}

// EnsureAdmin seeds the bootstrap admin account if the email is new.
func (p *Postgres) EnsureAdmin(ctx context.Context, email, passwordHash string) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO users (id, email, name, role, is_active, password_hash)
VALUES (gen_random_uuid()::text, $1, 'Administrator', 'admin', true, $2)
ON CONFLICT (email) DO NOTHING`, email, passwordHash)
	metrics.ObserveQuery("ensure_admin", "users", start, err)
	return err
}
