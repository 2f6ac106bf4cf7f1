package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a dashboard message for a staff user.
type Notification struct {
	ID         uuid.UUID   `json:"id"`
	Recipient  string      `json:"recipient_id"`
	ActorID    *string     `json:"actor_id,omitempty"`
	Kind       string      `json:"kind"`
	Title      string      `json:"title"`
	Message    *string     `json:"message,omitempty"`
	TargetKind *TargetKind `json:"target_kind,omitempty"`
	TargetID   *uuid.UUID  `json:"target_id,omitempty"`
	ActionURL  *string     `json:"action_url,omitempty"`
	IsRead     bool        `json:"is_read"`
	CreatedAt  time.Time   `json:"created_at"`
}
