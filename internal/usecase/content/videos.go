package content

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"paayo-backend/internal/domain"
)

var videoPlatforms = map[string]bool{
	"youtube":  true,
	"vimeo":    true,
	"facebook": true,
	"tiktok":   true,
}

// CreateVideoParams are the inputs for a new embedded video.
type CreateVideoParams struct {
	Title        string
	Platform     string
	VideoURL     string
	VideoID      string
	Thumbnail    *string
	Description  *string
	IsFeatured   bool
	DisplayOrder *int32
}

// CreateVideo allocates a slug and stores a new draft video.
func (s *Service) CreateVideo(ctx context.Context, actor *domain.AuthenticatedUser, p CreateVideoParams) (domain.Video, error) {
	if err := requirePrivileged(actor); err != nil {
		return domain.Video{}, err
	}
	title, err := requireTitle(p.Title)
	if err != nil {
		return domain.Video{}, err
	}
	platform := strings.ToLower(strings.TrimSpace(p.Platform))
	if !videoPlatforms[platform] {
		return domain.Video{}, domain.ValidationError("unsupported video platform")
	}
	if strings.TrimSpace(p.VideoURL) == "" {
		return domain.Video{}, domain.ValidationError("video url is required")
	}
	if strings.TrimSpace(p.VideoID) == "" {
		return domain.Video{}, domain.ValidationError("video id is required")
	}

	return saveWithSlugRetry(ctx, title, func(ctx context.Context, slug string) (domain.Video, error) {
		return s.videos.InsertVideo(ctx, domain.Video{
			ID:           uuid.New(),
			Slug:         slug,
			Title:        title,
			Platform:     platform,
			VideoURL:     p.VideoURL,
			VideoID:      p.VideoID,
			Thumbnail:    p.Thumbnail,
			Description:  p.Description,
			AuthorID:     actor.ID,
			Status:       domain.StatusDraft,
			IsFeatured:   p.IsFeatured,
			DisplayOrder: p.DisplayOrder,
		})
	})
}

// GetVideoBySlug resolves a video under draft visibility rules.
func (s *Service) GetVideoBySlug(ctx context.Context, actor *domain.AuthenticatedUser, slug string) (domain.Video, error) {
	video, err := s.videos.GetVideoBySlug(ctx, slug)
	if err != nil {
		return domain.Video{}, err
	}
	if !visibleTo(actor, video.Status) {
		return domain.Video{}, domain.ErrNotFound
	}
	return video, nil
}

// ListVideos pages videos with the caller-appropriate status filter.
func (s *Service) ListVideos(ctx context.Context, actor *domain.AuthenticatedUser, f domain.ListFilter) ([]domain.Video, int64, error) {
	return s.videos.ListVideos(ctx, normalizeFilter(actor, f))
}

// UpdateVideo applies a tri-state partial update.
func (s *Service) UpdateVideo(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, p domain.UpdateVideoParams) (domain.Video, error) {
	video, err := s.videos.GetVideo(ctx, id)
	if err != nil {
		return domain.Video{}, err
	}
	if err := canMutate(actor, video.AuthorID); err != nil {
		return domain.Video{}, err
	}

	renamed := false
	if title, ok := p.Title.Get(); ok {
		if title, err = requireTitle(title); err != nil {
			return domain.Video{}, err
		}
		renamed = title != video.Title
		video.Title = title
	} else if p.Title.Present {
		return domain.Video{}, domain.ValidationError("title cannot be null")
	}
	if platform, ok := p.Platform.Get(); ok {
		platform = strings.ToLower(strings.TrimSpace(platform))
		if !videoPlatforms[platform] {
			return domain.Video{}, domain.ValidationError("unsupported video platform")
		}
		video.Platform = platform
	} else if p.Platform.Present {
		return domain.Video{}, domain.ValidationError("platform cannot be null")
	}
	if url, ok := p.VideoURL.Get(); ok {
		if strings.TrimSpace(url) == "" {
			return domain.Video{}, domain.ValidationError("video url is required")
		}
		video.VideoURL = url
	} else if p.VideoURL.Present {
		return domain.Video{}, domain.ValidationError("video url cannot be null")
	}
	if vid, ok := p.VideoID.Get(); ok {
		if strings.TrimSpace(vid) == "" {
			return domain.Video{}, domain.ValidationError("video id is required")
		}
		video.VideoID = vid
	} else if p.VideoID.Present {
		return domain.Video{}, domain.ValidationError("video id cannot be null")
	}
	video.Thumbnail = p.Thumbnail.Resolve(video.Thumbnail)
	video.Description = p.Description.Resolve(video.Description)
	if featured, ok := p.IsFeatured.Get(); ok {
		video.IsFeatured = featured
	}
	video.DisplayOrder = p.DisplayOrder.Resolve(video.DisplayOrder)
	if renamed {
		return saveWithSlugRetry(ctx, video.Title, func(ctx context.Context, slug string) (domain.Video, error) {
			video.Slug = slug
			return s.videos.UpdateVideo(ctx, video)
		})
	}
	return s.videos.UpdateVideo(ctx, video)
}

// SetVideoStatus publishes or unpublishes a video.
func (s *Service) SetVideoStatus(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, status domain.ContentStatus) (domain.Video, error) {
	if !status.Valid() {
		return domain.Video{}, domain.ValidationError("unknown status")
	}
	video, err := s.videos.GetVideo(ctx, id)
	if err != nil {
		return domain.Video{}, err
	}
	if err := canMutate(actor, video.AuthorID); err != nil {
		return domain.Video{}, err
	}
	return s.videos.SetVideoStatus(ctx, id, status)
}

// DeleteVideo soft-deletes a video.
func (s *Service) DeleteVideo(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	video, err := s.videos.GetVideo(ctx, id)
	if err != nil {
		return err
	}
	if err := canMutate(actor, video.AuthorID); err != nil {
		return err
	}
	return s.videos.SoftDeleteVideo(ctx, id)
}

// RestoreVideo undoes a soft delete. Admin only.
func (s *Service) RestoreVideo(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.videos.RestoreVideo(ctx, id)
}

// HardDeleteVideo removes the row permanently. Admin only.
func (s *Service) HardDeleteVideo(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.videos.HardDeleteVideo(ctx, id)
}
