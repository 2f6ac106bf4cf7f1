package domain

import (
	"time"

	"github.com/google/uuid"
)

// Media is one processed upload. Both artifacts live on disk under the
// upload root: <filename> and <thumbnail_filename>.
type Media struct {
	ID                uuid.UUID
	Filename          string
	OriginalName      string
	Mime              string
	Size              int64
	Width             int32
	Height            int32
	BlurHash          string
	ThumbnailFilename string
	UploadedBy        string
	CreatedAt         time.Time
}

// ProcessedImage is the result of the transcoding pipeline before any
// database row exists.
type ProcessedImage struct {
	Filename          string
	ThumbnailFilename string
	Mime              string
	Size              int64
	Width             int32
	Height            int32
	BlurHash          string
	Data              []byte
	ThumbnailData     []byte
}

// OrphanMedia is a media row no reachable content references.
type OrphanMedia struct {
	ID                uuid.UUID
	Filename          string
	ThumbnailFilename string
}

// CleanupReport summarizes one orphan-reclamation pass.
type CleanupReport struct {
	OrphansFound   int      `json:"orphans_found"`
	OrphansDeleted int      `json:"orphans_deleted"`
	FilesDeleted   int      `json:"files_deleted"`
	DryRun         bool     `json:"dry_run"`
	Errors         []string `json:"errors,omitempty"`
}
