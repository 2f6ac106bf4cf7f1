package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema. Every statement is idempotent, so startup
// re-runs are safe; adding a column later means adding an ALTER here.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	// Accounts come from the external auth provider; the backend reads
	// sessions and manages role and moderation flags.
	`CREATE TABLE IF NOT EXISTS users (
		id            text PRIMARY KEY,
		email         text NOT NULL UNIQUE,
		name          text,
		role          text NOT NULL DEFAULT 'user',
		is_active     boolean NOT NULL DEFAULT true,
		banned_at     timestamptz,
		password_hash text,
		created_at    timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		token      text PRIMARY KEY,
		user_id    text NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at timestamptz NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_user_idx ON sessions (user_id)`,

	`CREATE TABLE IF NOT EXISTS regions (
		id          uuid PRIMARY KEY,
		slug        text NOT NULL,
		name        text NOT NULL,
		description text,
		cover_image text,
		deleted_at  timestamptz,
		created_at  timestamptz NOT NULL DEFAULT now(),
		updated_at  timestamptz NOT NULL DEFAULT now()
	)`,
	// Soft-deleted rows keep their slug reserved; the partial index frees
	// it only after a hard delete.
	`CREATE UNIQUE INDEX IF NOT EXISTS regions_slug_live_idx
		ON regions (slug) WHERE deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS posts (
		id                uuid PRIMARY KEY,
		slug              text NOT NULL,
		title             text NOT NULL,
		post_type         text NOT NULL,
		short_description text,
		content           jsonb,
		cover_image       text,
		region_id         uuid REFERENCES regions(id) ON DELETE SET NULL,
		author_id         text NOT NULL REFERENCES users(id),
		status            text NOT NULL DEFAULT 'draft',
		published_at      timestamptz,
		event_date        timestamptz,
		event_end_date    timestamptz,
		is_featured       boolean NOT NULL DEFAULT false,
		display_order     integer,
		view_count        bigint NOT NULL DEFAULT 0,
		like_count        bigint NOT NULL DEFAULT 0,
		deleted_at        timestamptz,
		created_at        timestamptz NOT NULL DEFAULT now(),
		updated_at        timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS posts_slug_live_idx
		ON posts (slug) WHERE deleted_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS posts_list_idx
		ON posts (status, post_type, region_id) WHERE deleted_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS posts_featured_idx
		ON posts (is_featured DESC, display_order, published_at DESC) WHERE deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS tags (
		id         uuid PRIMARY KEY,
		slug       text NOT NULL UNIQUE,
		name       text NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS post_tags (
		post_id uuid NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		tag_id  uuid NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (post_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS hotels (
		id            uuid PRIMARY KEY,
		slug          text NOT NULL,
		name          text NOT NULL,
		description   text,
		cover_image   text,
		gallery       jsonb,
		region_id     uuid REFERENCES regions(id) ON DELETE SET NULL,
		author_id     text NOT NULL REFERENCES users(id),
		status        text NOT NULL DEFAULT 'draft',
		published_at  timestamptz,
		is_featured   boolean NOT NULL DEFAULT false,
		display_order integer,
		view_count    bigint NOT NULL DEFAULT 0,
		like_count    bigint NOT NULL DEFAULT 0,
		deleted_at    timestamptz,
		created_at    timestamptz NOT NULL DEFAULT now(),
		updated_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS hotels_slug_live_idx
		ON hotels (slug) WHERE deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS hotel_branches (
		id         uuid PRIMARY KEY,
		hotel_id   uuid NOT NULL REFERENCES hotels(id) ON DELETE CASCADE,
		name       text NOT NULL,
		address    text,
		phone      text,
		latitude   double precision,
		longitude  double precision,
		sort_order integer NOT NULL DEFAULT 0,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS hotel_branches_hotel_idx ON hotel_branches (hotel_id)`,

	`CREATE TABLE IF NOT EXISTS videos (
		id            uuid PRIMARY KEY,
		slug          text NOT NULL,
		title         text NOT NULL,
		platform      text NOT NULL,
		video_url     text NOT NULL,
		video_id      text NOT NULL,
		thumbnail     text,
		description   text,
		author_id     text NOT NULL REFERENCES users(id),
		status        text NOT NULL DEFAULT 'draft',
		published_at  timestamptz,
		is_featured   boolean NOT NULL DEFAULT false,
		display_order integer,
		view_count    bigint NOT NULL DEFAULT 0,
		like_count    bigint NOT NULL DEFAULT 0,
		deleted_at    timestamptz,
		created_at    timestamptz NOT NULL DEFAULT now(),
		updated_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS videos_slug_live_idx
		ON videos (slug) WHERE deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS photo_features (
		id            uuid PRIMARY KEY,
		slug          text NOT NULL,
		title         text NOT NULL,
		description   text,
		cover_image   text,
		author_id     text NOT NULL REFERENCES users(id),
		status        text NOT NULL DEFAULT 'draft',
		published_at  timestamptz,
		is_featured   boolean NOT NULL DEFAULT false,
		display_order integer,
		view_count    bigint NOT NULL DEFAULT 0,
		like_count    bigint NOT NULL DEFAULT 0,
		deleted_at    timestamptz,
		created_at    timestamptz NOT NULL DEFAULT now(),
		updated_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS photo_features_slug_live_idx
		ON photo_features (slug) WHERE deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS photo_feature_images (
		id         uuid PRIMARY KEY,
		feature_id uuid NOT NULL REFERENCES photo_features(id) ON DELETE CASCADE,
		image_url  text NOT NULL,
		caption    text,
		sort_order integer NOT NULL DEFAULT 0,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS photo_feature_images_feature_idx
		ON photo_feature_images (feature_id)`,

	`CREATE TABLE IF NOT EXISTS hero_slides (
		id         uuid PRIMARY KEY,
		title      text NOT NULL,
		subtitle   text,
		image_url  text NOT NULL,
		link_url   text,
		sort_order integer NOT NULL DEFAULT 0,
		is_active  boolean NOT NULL DEFAULT true,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,

	// Raw view events. Pruned past the retention window; aggregates stay.
	`CREATE TABLE IF NOT EXISTS content_views (
		id          uuid PRIMARY KEY,
		target_kind text NOT NULL,
		target_id   uuid NOT NULL,
		viewer_hash text NOT NULL,
		ip          text,
		user_agent  text,
		referrer    text,
		created_at  timestamptz NOT NULL DEFAULT now()
	)`,
	// The dedup lookup: latest view per (target, viewer).
	`CREATE INDEX IF NOT EXISTS content_views_dedup_idx
		ON content_views (target_kind, target_id, viewer_hash, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS content_views_created_idx ON content_views (created_at)`,

	`CREATE TABLE IF NOT EXISTS view_aggregates (
		target_kind    text NOT NULL,
		target_id      uuid NOT NULL,
		view_date      date NOT NULL,
		view_count     bigint NOT NULL DEFAULT 0,
		unique_viewers bigint NOT NULL DEFAULT 0,
		PRIMARY KEY (target_kind, target_id, view_date)
	)`,

	// Row presence is the whole like state. The unique constraint is the
	// anchor of the toggle protocol.
	`CREATE TABLE IF NOT EXISTS likes (
		id          uuid PRIMARY KEY,
		target_kind text NOT NULL,
		target_id   uuid NOT NULL,
		viewer_hash text NOT NULL,
		ip          text,
		created_at  timestamptz NOT NULL DEFAULT now(),
		UNIQUE (target_kind, target_id, viewer_hash)
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id          uuid PRIMARY KEY,
		target_kind text NOT NULL,
		target_id   uuid NOT NULL,
		parent_id   uuid REFERENCES comments(id),
		guest_name  text NOT NULL,
		guest_email text NOT NULL,
		content     text NOT NULL,
		status      text NOT NULL DEFAULT 'pending',
		ip          text,
		viewer_hash text NOT NULL,
		created_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS comments_target_idx
		ON comments (target_kind, target_id, status, created_at)`,
	`CREATE INDEX IF NOT EXISTS comments_viewer_idx
		ON comments (viewer_hash, created_at)`,
	`CREATE INDEX IF NOT EXISTS comments_status_idx ON comments (status, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS media (
		id                 uuid PRIMARY KEY,
		filename           text NOT NULL UNIQUE,
		original_name      text NOT NULL,
		mime               text NOT NULL,
		size               bigint NOT NULL,
		width              integer NOT NULL,
		height             integer NOT NULL,
		blur_hash          text NOT NULL,
		thumbnail_filename text NOT NULL,
		uploaded_by        text NOT NULL REFERENCES users(id),
		created_at         timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS media_created_idx ON media (created_at)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id           uuid PRIMARY KEY,
		recipient_id text NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		actor_id     text,
		kind         text NOT NULL,
		title        text NOT NULL,
		message      text,
		target_kind  text,
		target_id    uuid,
		action_url   text,
		is_read      boolean NOT NULL DEFAULT false,
		created_at   timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_recipient_idx
		ON notifications (recipient_id, is_read, created_at DESC)`,
}
