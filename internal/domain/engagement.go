package domain

import (
	"time"

	"github.com/google/uuid"
)

// TargetKind is the closed set of content variants that accept engagement.
type TargetKind string

const (
	TargetPost  TargetKind = "post"
	TargetVideo TargetKind = "video"
	TargetPhoto TargetKind = "photo"
	TargetHotel TargetKind = "hotel"
)

// ParseTargetKind validates a wire value against the closed set.
func ParseTargetKind(s string) (TargetKind, bool) {
	k := TargetKind(s)
	switch k {
	case TargetPost, TargetVideo, TargetPhoto, TargetHotel:
		return k, true
	}
	return "", false
}

// ViewEvent is one raw anonymous view. The events table is the
// authoritative record; per-content counters are derived from it.
type ViewEvent struct {
	ID         uuid.UUID
	TargetKind TargetKind
	TargetID   uuid.UUID
	ViewerHash string
	IP         *string
	UserAgent  *string
	Referrer   *string
	CreatedAt  time.Time
}

// ViewAggregate is the daily rollup of raw views per target.
type ViewAggregate struct {
	TargetKind    TargetKind
	TargetID      uuid.UUID
	ViewDate      time.Time
	ViewCount     int64
	UniqueViewers int64
}

// Like marks that a viewer currently likes a target. Row presence is the
// whole state; unliking deletes the row.
type Like struct {
	ID         uuid.UUID
	TargetKind TargetKind
	TargetID   uuid.UUID
	ViewerHash string
	IP         *string
	CreatedAt  time.Time
}

// ViewResult is the outcome of a view-recording attempt.
type ViewResult struct {
	Recorded bool `json:"recorded"`
}

// LikeResult is the outcome of a like toggle or status probe.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
