package content

import (
	"context"

	"github.com/google/uuid"

	"paayo-backend/internal/domain"
)

// CreatePhotoFeatureParams are the inputs for a new photo story.
type CreatePhotoFeatureParams struct {
	Title        string
	Description  *string
	CoverImage   *string
	IsFeatured   bool
	DisplayOrder *int32
	Images       []domain.PhotoImage
}

// CreatePhotoFeature allocates a slug and stores a new draft photo story
// with its ordered images.
func (s *Service) CreatePhotoFeature(ctx context.Context, actor *domain.AuthenticatedUser, p CreatePhotoFeatureParams) (domain.PhotoFeature, error) {
	if err := requirePrivileged(actor); err != nil {
		return domain.PhotoFeature{}, err
	}
	title, err := requireTitle(p.Title)
	if err != nil {
		return domain.PhotoFeature{}, err
	}

	feature, err := saveWithSlugRetry(ctx, title, func(ctx context.Context, slug string) (domain.PhotoFeature, error) {
		return s.photos.InsertPhotoFeature(ctx, domain.PhotoFeature{
			ID:           uuid.New(),
			Slug:         slug,
			Title:        title,
			Description:  p.Description,
			CoverImage:   p.CoverImage,
			AuthorID:     actor.ID,
			Status:       domain.StatusDraft,
			IsFeatured:   p.IsFeatured,
			DisplayOrder: p.DisplayOrder,
		})
	})
	if err != nil {
		return domain.PhotoFeature{}, err
	}
	if len(p.Images) > 0 {
		feature.Images, err = s.photos.SetPhotoImages(ctx, feature.ID, p.Images)
		if err != nil {
			return domain.PhotoFeature{}, err
		}
	}
	return feature, nil
}

// GetPhotoFeatureBySlug resolves a photo story under draft visibility rules.
func (s *Service) GetPhotoFeatureBySlug(ctx context.Context, actor *domain.AuthenticatedUser, slug string) (domain.PhotoFeature, error) {
	feature, err := s.photos.GetPhotoFeatureBySlug(ctx, slug)
	if err != nil {
		return domain.PhotoFeature{}, err
	}
	if !visibleTo(actor, feature.Status) {
		return domain.PhotoFeature{}, domain.ErrNotFound
	}
	return feature, nil
}

// ListPhotoFeatures pages photo stories with the caller-appropriate filter.
func (s *Service) ListPhotoFeatures(ctx context.Context, actor *domain.AuthenticatedUser, f domain.ListFilter) ([]domain.PhotoFeature, int64, error) {
	return s.photos.ListPhotoFeatures(ctx, normalizeFilter(actor, f))
}

// UpdatePhotoFeature applies a tri-state partial update.
func (s *Service) UpdatePhotoFeature(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, p domain.UpdatePhotoFeatureParams) (domain.PhotoFeature, error) {
	feature, err := s.photos.GetPhotoFeature(ctx, id)
	if err != nil {
		return domain.PhotoFeature{}, err
	}
	if err := canMutate(actor, feature.AuthorID); err != nil {
		return domain.PhotoFeature{}, err
	}

	renamed := false
	if title, ok := p.Title.Get(); ok {
		if title, err = requireTitle(title); err != nil {
			return domain.PhotoFeature{}, err
		}
		renamed = title != feature.Title
		feature.Title = title
	} else if p.Title.Present {
		return domain.PhotoFeature{}, domain.ValidationError("title cannot be null")
	}
	feature.Description = p.Description.Resolve(feature.Description)
	feature.CoverImage = p.CoverImage.Resolve(feature.CoverImage)
	if featured, ok := p.IsFeatured.Get(); ok {
		feature.IsFeatured = featured
	}
	feature.DisplayOrder = p.DisplayOrder.Resolve(feature.DisplayOrder)
	if renamed {
		return saveWithSlugRetry(ctx, feature.Title, func(ctx context.Context, slug string) (domain.PhotoFeature, error) {
			feature.Slug = slug
			return s.photos.UpdatePhotoFeature(ctx, feature)
		})
	}
	return s.photos.UpdatePhotoFeature(ctx, feature)
}

// SetPhotoImages replaces a photo story's image list wholesale.
func (s *Service) SetPhotoImages(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, images []domain.PhotoImage) ([]domain.PhotoImage, error) {
	feature, err := s.photos.GetPhotoFeature(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canMutate(actor, feature.AuthorID); err != nil {
		return nil, err
	}
	for _, img := range images {
		if img.ImageURL == "" {
			return nil, domain.ValidationError("image url is required")
		}
	}
	return s.photos.SetPhotoImages(ctx, id, images)
}

// SetPhotoFeatureStatus publishes or unpublishes a photo story.
func (s *Service) SetPhotoFeatureStatus(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, status domain.ContentStatus) (domain.PhotoFeature, error) {
	if !status.Valid() {
		return domain.PhotoFeature{}, domain.ValidationError("unknown status")
	}
	feature, err := s.photos.GetPhotoFeature(ctx, id)
	if err != nil {
		return domain.PhotoFeature{}, err
	}
	if err := canMutate(actor, feature.AuthorID); err != nil {
		return domain.PhotoFeature{}, err
	}
	return s.photos.SetPhotoFeatureStatus(ctx, id, status)
}

// DeletePhotoFeature soft-deletes a photo story.
func (s *Service) DeletePhotoFeature(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	feature, err := s.photos.GetPhotoFeature(ctx, id)
	if err != nil {
		return err
	}
	if err := canMutate(actor, feature.AuthorID); err != nil {
		return err
	}
	return s.photos.SoftDeletePhotoFeature(ctx, id)
}

// RestorePhotoFeature undoes a soft delete. Admin only.
func (s *Service) RestorePhotoFeature(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.photos.RestorePhotoFeature(ctx, id)
}

// HardDeletePhotoFeature removes the row permanently. Admin only.
func (s *Service) HardDeletePhotoFeature(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.photos.HardDeletePhotoFeature(ctx, id)
}
