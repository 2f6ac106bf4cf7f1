package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ErrSlugTaken is returned by content inserts and updates when the
// generated slug collides with a non-deleted sibling. The lifecycle
// service retries with a fresh random suffix.
var ErrSlugTaken = &Error{Kind: KindConflict, Message: "slug already in use"}

// ListFilter is the common read-side filter. Status is what the caller
// asked for; the lifecycle service forces it to published for
// unprivileged callers before the repo ever sees it.
type ListFilter struct {
	Status   *ContentStatus
	Featured *bool
	RegionID *uuid.UUID
	PostType *PostType
	Tag      *string
	Limit    int
	Offset   int
}

// UpdatePostParams carries tri-state fields for a partial post update.
type UpdatePostParams struct {
	Title            Opt[string]
	ShortDescription Opt[string]
	Content          Opt[json.RawMessage]
	CoverImage       Opt[string]
	RegionID         Opt[uuid.UUID]
	EventDate        Opt[time.Time]
	EventEndDate     Opt[time.Time]
	IsFeatured       Opt[bool]
	DisplayOrder     Opt[int32]
	Tags             Opt[[]string]
}

// UpdateHotelParams carries tri-state fields for a partial hotel update.
type UpdateHotelParams struct {
	Name         Opt[string]
	Description  Opt[string]
	CoverImage   Opt[string]
	Gallery      Opt[json.RawMessage]
	RegionID     Opt[uuid.UUID]
	IsFeatured   Opt[bool]
	DisplayOrder Opt[int32]
}

// UpdateVideoParams carries tri-state fields for a partial video update.
type UpdateVideoParams struct {
	Title        Opt[string]
	Platform     Opt[string]
	VideoURL     Opt[string]
	VideoID      Opt[string]
	Thumbnail    Opt[string]
	Description  Opt[string]
	IsFeatured   Opt[bool]
	DisplayOrder Opt[int32]
}

// UpdatePhotoFeatureParams carries tri-state fields for a photo feature.
type UpdatePhotoFeatureParams struct {
	Title        Opt[string]
	Description  Opt[string]
	CoverImage   Opt[string]
	IsFeatured   Opt[bool]
	DisplayOrder Opt[int32]
}

// UpdateRegionParams carries tri-state fields for a region update.
type UpdateRegionParams struct {
	Name        Opt[string]
	Description Opt[string]
	CoverImage  Opt[string]
}

// UpdateHeroSlideParams carries tri-state fields for a hero slide update.
type UpdateHeroSlideParams struct {
	Title     Opt[string]
	Subtitle  Opt[string]
	ImageURL  Opt[string]
	LinkURL   Opt[string]
	SortOrder Opt[int32]
	IsActive  Opt[bool]
}

// PostRepo persists posts. Reads exclude soft-deleted rows unless the
// method says otherwise; writes set every writable column so explicit
// NULLs survive the round trip.
type PostRepo interface {
	InsertPost(ctx context.Context, p Post, tags []string) (Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (Post, error)
	GetPostBySlug(ctx context.Context, slug string) (Post, error)
	ListPosts(ctx context.Context, f ListFilter) ([]Post, int64, error)
	UpdatePost(ctx context.Context, p Post, tags *[]string) (Post, error)
	SetPostStatus(ctx context.Context, id uuid.UUID, status ContentStatus) (Post, error)
	SoftDeletePost(ctx context.Context, id uuid.UUID) error
	RestorePost(ctx context.Context, id uuid.UUID) error
	HardDeletePost(ctx context.Context, id uuid.UUID) error
}

// HotelRepo persists hotels and their branches.
type HotelRepo interface {
	InsertHotel(ctx context.Context, h Hotel) (Hotel, error)
	GetHotel(ctx context.Context, id uuid.UUID) (Hotel, error)
	GetHotelBySlug(ctx context.Context, slug string) (Hotel, error)
	ListHotels(ctx context.Context, f ListFilter) ([]Hotel, int64, error)
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	SetHotelStatus(ctx context.Context, id uuid.UUID, status ContentStatus) (Hotel, error)
	SoftDeleteHotel(ctx context.Context, id uuid.UUID) error
	RestoreHotel(ctx context.Context, id uuid.UUID) error
	HardDeleteHotel(ctx context.Context, id uuid.UUID) error
	SetBranches(ctx context.Context, hotelID uuid.UUID, branches []HotelBranch) ([]HotelBranch, error)
}

// VideoRepo persists videos.
type VideoRepo interface {
	InsertVideo(ctx context.Context, v Video) (Video, error)
	GetVideo(ctx context.Context, id uuid.UUID) (Video, error)
	GetVideoBySlug(ctx context.Context, slug string) (Video, error)
	ListVideos(ctx context.Context, f ListFilter) ([]Video, int64, error)
	UpdateVideo(ctx context.Context, v Video) (Video, error)
	SetVideoStatus(ctx context.Context, id uuid.UUID, status ContentStatus) (Video, error)
	SoftDeleteVideo(ctx context.Context, id uuid.UUID) error
	RestoreVideo(ctx context.Context, id uuid.UUID) error
	HardDeleteVideo(ctx context.Context, id uuid.UUID) error
}

// PhotoRepo persists photo features and their ordered images.
type PhotoRepo interface {
	InsertPhotoFeature(ctx context.Context, p PhotoFeature) (PhotoFeature, error)
	GetPhotoFeature(ctx context.Context, id uuid.UUID) (PhotoFeature, error)
	GetPhotoFeatureBySlug(ctx context.Context, slug string) (PhotoFeature, error)
	ListPhotoFeatures(ctx context.Context, f ListFilter) ([]PhotoFeature, int64, error)
	UpdatePhotoFeature(ctx context.Context, p PhotoFeature) (PhotoFeature, error)
	SetPhotoFeatureStatus(ctx context.Context, id uuid.UUID, status ContentStatus) (PhotoFeature, error)
	SoftDeletePhotoFeature(ctx context.Context, id uuid.UUID) error
	RestorePhotoFeature(ctx context.Context, id uuid.UUID) error
	HardDeletePhotoFeature(ctx context.Context, id uuid.UUID) error
	SetPhotoImages(ctx context.Context, featureID uuid.UUID, images []PhotoImage) ([]PhotoImage, error)
}

// RegionRepo persists regions.
type RegionRepo interface {
	InsertRegion(ctx context.Context, r Region) (Region, error)
	GetRegionBySlug(ctx context.Context, slug string) (Region, error)
	ListRegions(ctx context.Context) ([]Region, error)
	UpdateRegion(ctx context.Context, r Region) (Region, error)
	SoftDeleteRegion(ctx context.Context, id uuid.UUID) error
	RestoreRegion(ctx context.Context, id uuid.UUID) error
}

// HeroRepo persists homepage slides.
type HeroRepo interface {
	InsertHeroSlide(ctx context.Context, s HeroSlide) (HeroSlide, error)
	ListHeroSlides(ctx context.Context, activeOnly bool) ([]HeroSlide, error)
	UpdateHeroSlide(ctx context.Context, s HeroSlide) (HeroSlide, error)
	DeleteHeroSlide(ctx context.Context, id uuid.UUID) error
}

// TagRepo persists tags.
type TagRepo interface {
	ListTags(ctx context.Context) ([]Tag, error)
	UpsertTags(ctx context.Context, names []string) ([]Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}
