package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContentStatus is the publication state of a content row.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
)

// Valid reports whether s is a known status.
func (s ContentStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// PostType distinguishes the variants stored in the posts table.
type PostType string

const (
	PostArticle    PostType = "article"
	PostEvent      PostType = "event"
	PostActivity   PostType = "activity"
	PostAttraction PostType = "attraction"
)

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostArticle, PostEvent, PostActivity, PostAttraction:
		return true
	}
	return false
}

// Post is an editorial content row: article, event, activity or attraction.
type Post struct {
	ID               uuid.UUID
	Slug             string
	Title            string
	PostType         PostType
	ShortDescription *string
	Content          json.RawMessage
	CoverImage       *string
	RegionID         *uuid.UUID
	AuthorID         string
	Status           ContentStatus
	PublishedAt      *time.Time
	EventDate        *time.Time
	EventEndDate     *time.Time
	IsFeatured       bool
	DisplayOrder     *int32
	ViewCount        int64
	LikeCount        int64
	DeletedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Hotel is a lodging listing with optional branches.
type Hotel struct {
	ID           uuid.UUID
	Slug         string
	Name         string
	Description  *string
	CoverImage   *string
	Gallery      json.RawMessage
	RegionID     *uuid.UUID
	AuthorID     string
	Status       ContentStatus
	PublishedAt  *time.Time
	IsFeatured   bool
	DisplayOrder *int32
	ViewCount    int64
	LikeCount    int64
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Branches     []HotelBranch
}

// HotelBranch is a physical location belonging to a hotel.
type HotelBranch struct {
	ID        uuid.UUID
	HotelID   uuid.UUID
	Name      string
	Address   *string
	Phone     *string
	Latitude  *float64
	Longitude *float64
	SortOrder int32
	CreatedAt time.Time
}

// Video is an embedded video entry.
type Video struct {
	ID           uuid.UUID
	Slug         string
	Title        string
	Platform     string
	VideoURL     string
	VideoID      string
	Thumbnail    *string
	Description  *string
	AuthorID     string
	Status       ContentStatus
	PublishedAt  *time.Time
	IsFeatured   bool
	DisplayOrder *int32
	ViewCount    int64
	LikeCount    int64
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PhotoFeature is a curated photo story with ordered images.
type PhotoFeature struct {
	ID           uuid.UUID
	Slug         string
	Title        string
	Description  *string
	CoverImage   *string
	AuthorID     string
	Status       ContentStatus
	PublishedAt  *time.Time
	IsFeatured   bool
	DisplayOrder *int32
	ViewCount    int64
	LikeCount    int64
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Images       []PhotoImage
}

// PhotoImage is one image inside a photo feature.
type PhotoImage struct {
	ID        uuid.UUID
	FeatureID uuid.UUID
	ImageURL  string
	Caption   *string
	SortOrder int32
	CreatedAt time.Time
}

// Region is a geographic grouping for content.
type Region struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Description *string
	CoverImage  *string
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HeroSlide is a homepage carousel entry.
type HeroSlide struct {
	ID        uuid.UUID
	Title     string
	Subtitle  *string
	ImageURL  string
	LinkURL   *string
	SortOrder int32
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tag labels posts for discovery.
type Tag struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	CreatedAt time.Time
}
