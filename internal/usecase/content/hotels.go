package content

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"paayo-backend/internal/domain"
)

// CreateHotelParams are the inputs for a new hotel listing.
type CreateHotelParams struct {
	Name         string
	Description  *string
	CoverImage   *string
	Gallery      json.RawMessage
	RegionID     *uuid.UUID
	IsFeatured   bool
	DisplayOrder *int32
	Branches     []domain.HotelBranch
}

// CreateHotel allocates a slug and stores a new draft hotel with its
// branches.
func (s *Service) CreateHotel(ctx context.Context, actor *domain.AuthenticatedUser, p CreateHotelParams) (domain.Hotel, error) {
	if err := requirePrivileged(actor); err != nil {
		return domain.Hotel{}, err
	}
	name, err := requireTitle(p.Name)
	if err != nil {
		return domain.Hotel{}, err
	}

	hotel, err := saveWithSlugRetry(ctx, name, func(ctx context.Context, slug string) (domain.Hotel, error) {
		return s.hotels.InsertHotel(ctx, domain.Hotel{
			ID:           uuid.New(),
			Slug:         slug,
			Name:         name,
			Description:  p.Description,
			CoverImage:   p.CoverImage,
			Gallery:      p.Gallery,
			RegionID:     p.RegionID,
			AuthorID:     actor.ID,
			Status:       domain.StatusDraft,
			IsFeatured:   p.IsFeatured,
			DisplayOrder: p.DisplayOrder,
		})
	})
	if err != nil {
		return domain.Hotel{}, err
	}
	if len(p.Branches) > 0 {
		hotel.Branches, err = s.hotels.SetBranches(ctx, hotel.ID, p.Branches)
		if err != nil {
			return domain.Hotel{}, err
		}
	}
	return hotel, nil
}

// GetHotelBySlug resolves a hotel under draft visibility rules.
func (s *Service) GetHotelBySlug(ctx context.Context, actor *domain.AuthenticatedUser, slug string) (domain.Hotel, error) {
	hotel, err := s.hotels.GetHotelBySlug(ctx, slug)
	if err != nil {
		return domain.Hotel{}, err
	}
	if !visibleTo(actor, hotel.Status) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return hotel, nil
}

// ListHotels pages hotels with the caller-appropriate status filter.
func (s *Service) ListHotels(ctx context.Context, actor *domain.AuthenticatedUser, f domain.ListFilter) ([]domain.Hotel, int64, error) {
	return s.hotels.ListHotels(ctx, normalizeFilter(actor, f))
}

// UpdateHotel applies a tri-state partial update.
func (s *Service) UpdateHotel(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, p domain.UpdateHotelParams) (domain.Hotel, error) {
	hotel, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if err := canMutate(actor, hotel.AuthorID); err != nil {
		return domain.Hotel{}, err
	}

	renamed := false
	if name, ok := p.Name.Get(); ok {
		if name, err = requireTitle(name); err != nil {
			return domain.Hotel{}, err
		}
		renamed = name != hotel.Name
		hotel.Name = name
	} else if p.Name.Present {
		return domain.Hotel{}, domain.ValidationError("name cannot be null")
	}
	hotel.Description = p.Description.Resolve(hotel.Description)
	hotel.CoverImage = p.CoverImage.Resolve(hotel.CoverImage)
	if gallery, ok := p.Gallery.Get(); ok {
		hotel.Gallery = gallery
	} else if p.Gallery.Present {
		hotel.Gallery = nil
	}
	hotel.RegionID = p.RegionID.Resolve(hotel.RegionID)
	if featured, ok := p.IsFeatured.Get(); ok {
		hotel.IsFeatured = featured
	}
	hotel.DisplayOrder = p.DisplayOrder.Resolve(hotel.DisplayOrder)
	if renamed {
		return saveWithSlugRetry(ctx, hotel.Name, func(ctx context.Context, slug string) (domain.Hotel, error) {
			hotel.Slug = slug
			return s.hotels.UpdateHotel(ctx, hotel)
		})
	}
	return s.hotels.UpdateHotel(ctx, hotel)
}

// SetHotelBranches replaces the hotel's branch list wholesale.
func (s *Service) SetHotelBranches(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, branches []domain.HotelBranch) ([]domain.HotelBranch, error) {
	hotel, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canMutate(actor, hotel.AuthorID); err != nil {
		return nil, err
	}
	for _, b := range branches {
		if _, err := requireTitle(b.Name); err != nil {
			return nil, domain.ValidationError("branch name is required")
		}
	}
	return s.hotels.SetBranches(ctx, id, branches)
}

// SetHotelStatus publishes or unpublishes a hotel.
func (s *Service) SetHotelStatus(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, status domain.ContentStatus) (domain.Hotel, error) {
	if !status.Valid() {
		return domain.Hotel{}, domain.ValidationError("unknown status")
	}
	hotel, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if err := canMutate(actor, hotel.AuthorID); err != nil {
		return domain.Hotel{}, err
	}
	return s.hotels.SetHotelStatus(ctx, id, status)
}

// DeleteHotel soft-deletes a hotel.
func (s *Service) DeleteHotel(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	hotel, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return err
	}
	if err := canMutate(actor, hotel.AuthorID); err != nil {
		return err
	}
	return s.hotels.SoftDeleteHotel(ctx, id)
}

// RestoreHotel undoes a soft delete. Admin only.
func (s *Service) RestoreHotel(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.hotels.RestoreHotel(ctx, id)
}

// HardDeleteHotel removes the row permanently. Admin only.
func (s *Service) HardDeleteHotel(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.hotels.HardDeleteHotel(ctx, id)
}
