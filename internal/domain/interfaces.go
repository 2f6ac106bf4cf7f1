package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExistenceChecker answers whether a target is a live, published content
// row. Engagement writes call it before inserting; unknown kinds are false.
type ExistenceChecker interface {
	ExistsPublished(ctx context.Context, kind TargetKind, id uuid.UUID) (bool, error)
}

// CounterSyncer rewrites denormalized per-content counters from the
// authoritative event tables. Absolute rewrites only; increments race.
type CounterSyncer interface {
	SyncViewCount(ctx context.Context, kind TargetKind, id uuid.UUID) (int64, error)
	SyncLikeCount(ctx context.Context, kind TargetKind, id uuid.UUID) (int64, error)
}

// ViewRepo stores raw view events and their daily rollups.
type ViewRepo interface {
	HasRecentView(ctx context.Context, kind TargetKind, id uuid.UUID, viewerHash string, since time.Time) (bool, error)
	InsertView(ctx context.Context, view ViewEvent) error
	AggregateDay(ctx context.Context, day time.Time) (int64, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// LikeRepo stores like rows. Uniqueness on (kind, id, viewer_hash) is a
// database constraint; inserts absorb races with ON CONFLICT DO NOTHING.
type LikeRepo interface {
	DeleteLike(ctx context.Context, kind TargetKind, id uuid.UUID, viewerHash string) (bool, error)
	InsertLike(ctx context.Context, like Like) error
	HasLike(ctx context.Context, kind TargetKind, id uuid.UUID, viewerHash string) (bool, error)
	CountLikes(ctx context.Context, kind TargetKind, id uuid.UUID) (int64, error)
}

// CommentRepo stores guest comments and their moderation state.
type CommentRepo interface {
	CountRecentByViewer(ctx context.Context, viewerHash string, since time.Time) (int, error)
	InsertComment(ctx context.Context, comment Comment) (Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (Comment, error)
	ListApproved(ctx context.Context, kind TargetKind, id uuid.UUID, limit, offset int) ([]Comment, error)
	ListByStatus(ctx context.Context, status CommentStatus, limit, offset int) ([]Comment, int64, error)
	UpdateCommentStatus(ctx context.Context, id uuid.UUID, status CommentStatus) error
	DeleteCommentTree(ctx context.Context, id uuid.UUID) error
}

// NotificationRepo stores dashboard notifications.
type NotificationRepo interface {
	InsertNotification(ctx context.Context, n Notification) (Notification, error)
	ListNotifications(ctx context.Context, recipient string, unreadOnly bool, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, recipient string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, recipient string) error
	UnreadCount(ctx context.Context, recipient string) (int64, error)
	ListAdminIDs(ctx context.Context) ([]string, error)
}

// StreamEvent is one SSE frame: an event name plus a JSON payload.
type StreamEvent struct {
	Name string
	Data []byte
}

// NotificationStream is a per-subscriber feed of dashboard events.
type NotificationStream interface {
	Events() <-chan StreamEvent
	Close() error
}

// NotificationBroker fans notifications out to connected dashboards.
// The Redis implementation uses pub/sub; when that fails subscribers
// fall back to polling the repo.
type NotificationBroker interface {
	PublishNotification(ctx context.Context, recipient string, n Notification) error
	PublishUnreadCount(ctx context.Context, recipient string, count int64) error
	Subscribe(ctx context.Context, recipient string) (NotificationStream, error)
}

// MediaRepo stores upload metadata and locates orphans.
type MediaRepo interface {
	InsertMedia(ctx context.Context, m Media) (Media, error)
	GetMedia(ctx context.Context, id uuid.UUID) (Media, error)
	ListMedia(ctx context.Context, limit, offset int) ([]Media, int64, error)
	DeleteMedia(ctx context.Context, ids []uuid.UUID) (int64, error)
	FindOrphans(ctx context.Context, olderThan time.Time) ([]OrphanMedia, error)
}

// SessionRepo resolves session tokens issued by the external auth provider.
type SessionRepo interface {
	ResolveSession(ctx context.Context, token string, now time.Time) (*AuthenticatedUser, error)
}

// UserRepo covers the handler-level admin user management surface.
type UserRepo interface {
	ListUsers(ctx context.Context, limit, offset int) ([]User, int64, error)
	SetUserActive(ctx context.Context, id string, active bool) error
	SetUserBanned(ctx context.Context, id string, banned bool) error
	EnsureAdmin(ctx context.Context, email, passwordHash string) error
}

// SearchRepo runs full-text queries over published content.
type SearchRepo interface {
	Search(ctx context.Context, query string, kinds []TargetKind, limit, offset int) ([]SearchHit, error)
}

// SearchHit is one full-text match.
type SearchHit struct {
	Kind       TargetKind `json:"kind"`
	ID         uuid.UUID  `json:"id"`
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	Snippet    string     `json:"snippet"`
	CoverImage *string    `json:"cover_image,omitempty"`
	Rank       float64    `json:"-"`
}
