package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentSpam     CommentStatus = "spam"
	CommentRejected CommentStatus = "rejected"
)

// Valid reports whether s is a known moderation state.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentPending, CommentApproved, CommentSpam, CommentRejected:
		return true
	}
	return false
}

// Comment is a guest comment on a published target. Replies link by
// ParentID and always share the parent's target; tree depth is two.
type Comment struct {
	ID         uuid.UUID
	TargetKind TargetKind
	TargetID   uuid.UUID
	ParentID   *uuid.UUID
	GuestName  string
	GuestEmail string
	Content    string
	Status     CommentStatus
	IP         *string
	ViewerHash string
	CreatedAt  time.Time
	Replies    []Comment
}
