package http

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"paayo-backend/internal/domain"
)

// pagedResponse is the common list envelope.
type pagedResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
}

type postResponse struct {
	ID               uuid.UUID       `json:"id"`
	Slug             string          `json:"slug"`
	Title            string          `json:"title"`
	PostType         domain.PostType `json:"post_type"`
	ShortDescription *string         `json:"short_description,omitempty"`
	Content          json.RawMessage `json:"content,omitempty"`
	CoverImage       *string         `json:"cover_image,omitempty"`
	RegionID         *uuid.UUID      `json:"region_id,omitempty"`
	AuthorID         string          `json:"author_id"`
	Status           string          `json:"status"`
	PublishedAt      *time.Time      `json:"published_at,omitempty"`
	EventDate        *time.Time      `json:"event_date,omitempty"`
	EventEndDate     *time.Time      `json:"event_end_date,omitempty"`
	IsFeatured       bool            `json:"is_featured"`
	DisplayOrder     *int32          `json:"display_order,omitempty"`
	ViewCount        int64           `json:"view_count"`
	LikeCount        int64           `json:"like_count"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toPostResponse(p domain.Post) postResponse {
	return postResponse{
		ID:               p.ID,
		Slug:             p.Slug,
		Title:            p.Title,
		PostType:         p.PostType,
		ShortDescription: p.ShortDescription,
		Content:          p.Content,
		CoverImage:       p.CoverImage,
		RegionID:         p.RegionID,
		AuthorID:         p.AuthorID,
		Status:           string(p.Status),
		PublishedAt:      p.PublishedAt,
		EventDate:        p.EventDate,
		EventEndDate:     p.EventEndDate,
		IsFeatured:       p.IsFeatured,
		DisplayOrder:     p.DisplayOrder,
		ViewCount:        p.ViewCount,
		LikeCount:        p.LikeCount,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toPostResponses(posts []domain.Post) []postResponse {
	out := make([]postResponse, len(posts))
	for i, p := range posts {
		out[i] = toPostResponse(p)
	}
	return out
}

type branchResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	SortOrder int32     `json:"sort_order"`
}

type hotelResponse struct {
	ID           uuid.UUID        `json:"id"`
	Slug         string           `json:"slug"`
	Name         string           `json:"name"`
	Description  *string          `json:"description,omitempty"`
	CoverImage   *string          `json:"cover_image,omitempty"`
	Gallery      json.RawMessage  `json:"gallery,omitempty"`
	RegionID     *uuid.UUID       `json:"region_id,omitempty"`
	AuthorID     string           `json:"author_id"`
	Status       string           `json:"status"`
	PublishedAt  *time.Time       `json:"published_at,omitempty"`
	IsFeatured   bool             `json:"is_featured"`
	DisplayOrder *int32           `json:"display_order,omitempty"`
	ViewCount    int64            `json:"view_count"`
	LikeCount    int64            `json:"like_count"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Branches     []branchResponse `json:"branches"`
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	branches := make([]branchResponse, len(h.Branches))
	for i, b := range h.Branches {
		branches[i] = branchResponse{
			ID:        b.ID,
			Name:      b.Name,
			Address:   b.Address,
			Phone:     b.Phone,
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
			SortOrder: b.SortOrder,
		}
	}
	return hotelResponse{
		ID:           h.ID,
		Slug:         h.Slug,
		Name:         h.Name,
		Description:  h.Description,
		CoverImage:   h.CoverImage,
		Gallery:      h.Gallery,
		RegionID:     h.RegionID,
		AuthorID:     h.AuthorID,
		Status:       string(h.Status),
		PublishedAt:  h.PublishedAt,
		IsFeatured:   h.IsFeatured,
		DisplayOrder: h.DisplayOrder,
		ViewCount:    h.ViewCount,
		LikeCount:    h.LikeCount,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
		Branches:     branches,
	}
}

func toHotelResponses(hotels []domain.Hotel) []hotelResponse {
	out := make([]hotelResponse, len(hotels))
	for i, h := range hotels {
		out[i] = toHotelResponse(h)
	}
	return out
}

type videoResponse struct {
	ID           uuid.UUID  `json:"id"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Platform     string     `json:"platform"`
	VideoURL     string     `json:"video_url"`
	VideoID      string     `json:"video_id"`
	Thumbnail    *string    `json:"thumbnail,omitempty"`
	Description  *string    `json:"description,omitempty"`
	AuthorID     string     `json:"author_id"`
	Status       string     `json:"status"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	IsFeatured   bool       `json:"is_featured"`
	DisplayOrder *int32     `json:"display_order,omitempty"`
	ViewCount    int64      `json:"view_count"`
	LikeCount    int64      `json:"like_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toVideoResponse(v domain.Video) videoResponse {
	return videoResponse{
		ID:           v.ID,
		Slug:         v.Slug,
		Title:        v.Title,
		Platform:     v.Platform,
		VideoURL:     v.VideoURL,
		VideoID:      v.VideoID,
		Thumbnail:    v.Thumbnail,
		Description:  v.Description,
		AuthorID:     v.AuthorID,
		Status:       string(v.Status),
		PublishedAt:  v.PublishedAt,
		IsFeatured:   v.IsFeatured,
		DisplayOrder: v.DisplayOrder,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toVideoResponses(videos []domain.Video) []videoResponse {
	out := make([]videoResponse, len(videos))
	for i, v := range videos {
		out[i] = toVideoResponse(v)
	}
	return out
}

type photoImageResponse struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"image_url"`
	Caption   *string   `json:"caption,omitempty"`
	SortOrder int32     `json:"sort_order"`
}

type photoFeatureResponse struct {
	ID           uuid.UUID            `json:"id"`
	Slug         string               `json:"slug"`
	Title        string               `json:"title"`
	Description  *string              `json:"description,omitempty"`
	CoverImage   *string              `json:"cover_image,omitempty"`
	AuthorID     string               `json:"author_id"`
	Status       string               `json:"status"`
	PublishedAt  *time.Time           `json:"published_at,omitempty"`
	IsFeatured   bool                 `json:"is_featured"`
	DisplayOrder *int32               `json:"display_order,omitempty"`
	ViewCount    int64                `json:"view_count"`
	LikeCount    int64                `json:"like_count"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Images       []photoImageResponse `json:"images"`
}

func toPhotoFeatureResponse(p domain.PhotoFeature) photoFeatureResponse {
	images := make([]photoImageResponse, len(p.Images))
	for i, img := range p.Images {
		images[i] = photoImageResponse{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			Caption:   img.Caption,
			SortOrder: img.SortOrder,
		}
	}
	return photoFeatureResponse{
		ID:           p.ID,
		Slug:         p.Slug,
		Title:        p.Title,
		Description:  p.Description,
		CoverImage:   p.CoverImage,
		AuthorID:     p.AuthorID,
		Status:       string(p.Status),
		PublishedAt:  p.PublishedAt,
		IsFeatured:   p.IsFeatured,
		DisplayOrder: p.DisplayOrder,
		ViewCount:    p.ViewCount,
		LikeCount:    p.LikeCount,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Images:       images,
	}
}

func toPhotoFeatureResponses(features []domain.PhotoFeature) []photoFeatureResponse {
	out := make([]photoFeatureResponse, len(features))
	for i, p := range features {
		out[i] = toPhotoFeatureResponse(p)
	}
	return out
}

type regionResponse struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CoverImage  *string   `json:"cover_image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRegionResponse(r domain.Region) regionResponse {
	return regionResponse{
		ID:          r.ID,
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		CoverImage:  r.CoverImage,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type heroSlideResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subtitle  *string   `json:"subtitle,omitempty"`
	ImageURL  string    `json:"image_url"`
	LinkURL   *string   `json:"link_url,omitempty"`
	SortOrder int32     `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
}

func toHeroSlideResponse(s domain.HeroSlide) heroSlideResponse {
	return heroSlideResponse{
		ID:        s.ID,
		Title:     s.Title,
		Subtitle:  s.Subtitle,
		ImageURL:  s.ImageURL,
		LinkURL:   s.LinkURL,
		SortOrder: s.SortOrder,
		IsActive:  s.IsActive,
	}
}

type tagResponse struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
	Name string    `json:"name"`
}

// commentResponse is the public shape: no email, no ip, no viewer hash.
type commentResponse struct {
	ID        uuid.UUID         `json:"id"`
	ParentID  *uuid.UUID        `json:"parent_id,omitempty"`
	GuestName string            `json:"guest_name"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
	Replies   []commentResponse `json:"replies,omitempty"`
}

func toCommentResponse(c domain.Comment) commentResponse {
	replies := make([]commentResponse, len(c.Replies))
	for i, r := range c.Replies {
		replies[i] = toCommentResponse(r)
	}
	if len(replies) == 0 {
		replies = nil
	}
	return commentResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		GuestName: c.GuestName,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Replies:   replies,
	}
}

// moderationCommentResponse is the staff shape with contact details.
type moderationCommentResponse struct {
	ID         uuid.UUID         `json:"id"`
	TargetKind domain.TargetKind `json:"target_kind"`
	TargetID   uuid.UUID         `json:"target_id"`
	ParentID   *uuid.UUID        `json:"parent_id,omitempty"`
	GuestName  string            `json:"guest_name"`
	GuestEmail string            `json:"guest_email"`
	Content    string            `json:"content"`
	Status     string            `json:"status"`
	IP         *string           `json:"ip,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

func toModerationCommentResponse(c domain.Comment) moderationCommentResponse {
	return moderationCommentResponse{
		ID:         c.ID,
		TargetKind: c.TargetKind,
		TargetID:   c.TargetID,
		ParentID:   c.ParentID,
		GuestName:  c.GuestName,
		GuestEmail: c.GuestEmail,
		Content:    c.Content,
		Status:     string(c.Status),
		IP:         c.IP,
		CreatedAt:  c.CreatedAt,
	}
}

type mediaResponse struct {
	ID                uuid.UUID `json:"id"`
	Filename          string    `json:"filename"`
	URL               string    `json:"url"`
	ThumbnailURL      string    `json:"thumbnail_url"`
	OriginalName      string    `json:"original_name"`
	Mime              string    `json:"mime"`
	Size              int64     `json:"size"`
	Width             int32     `json:"width"`
	Height            int32     `json:"height"`
	BlurHash          string    `json:"blur_hash"`
	ThumbnailFilename string    `json:"thumbnail_filename"`
	CreatedAt         time.Time `json:"created_at"`
}

func toMediaResponse(m domain.Media) mediaResponse {
	return mediaResponse{
		ID:                m.ID,
		Filename:          m.Filename,
		URL:               "/uploads/" + m.Filename,
		ThumbnailURL:      "/uploads/" + m.ThumbnailFilename,
		OriginalName:      m.OriginalName,
		Mime:              m.Mime,
		Size:              m.Size,
		Width:             m.Width,
		Height:            m.Height,
		BlurHash:          m.BlurHash,
		ThumbnailFilename: m.ThumbnailFilename,
		CreatedAt:         m.CreatedAt,
	}
}

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      *string    `json:"name,omitempty"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		BannedAt:  u.BannedAt,
		CreatedAt: u.CreatedAt,
	}
}
