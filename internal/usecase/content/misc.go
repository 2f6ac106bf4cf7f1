package content

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"paayo-backend/internal/domain"
)

// CreateRegionParams are the inputs for a new region.
type CreateRegionParams struct {
	Name        string
	Description *string
	CoverImage  *string
}

// CreateRegion allocates a slug and stores a new region. Admin only.
func (s *Service) CreateRegion(ctx context.Context, actor *domain.AuthenticatedUser, p CreateRegionParams) (domain.Region, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Region{}, err
	}
	name, err := requireTitle(p.Name)
	if err != nil {
		return domain.Region{}, err
	}
	return saveWithSlugRetry(ctx, name, func(ctx context.Context, slug string) (domain.Region, error) {
		return s.regions.InsertRegion(ctx, domain.Region{
			ID:          uuid.New(),
			Slug:        slug,
			Name:        name,
			Description: p.Description,
			CoverImage:  p.CoverImage,
		})
	})
}

// GetRegionBySlug resolves a region. Regions have no draft state.
func (s *Service) GetRegionBySlug(ctx context.Context, slug string) (domain.Region, error) {
	return s.regions.GetRegionBySlug(ctx, slug)
}

// ListRegions returns all live regions.
func (s *Service) ListRegions(ctx context.Context) ([]domain.Region, error) {
	return s.regions.ListRegions(ctx)
}

// UpdateRegion applies a tri-state partial update to the region behind slug.
func (s *Service) UpdateRegion(ctx context.Context, actor *domain.AuthenticatedUser, slug string, p domain.UpdateRegionParams) (domain.Region, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Region{}, err
	}
	region, err := s.regions.GetRegionBySlug(ctx, slug)
	if err != nil {
		return domain.Region{}, err
	}
	renamed := false
	if name, ok := p.Name.Get(); ok {
		if name, err = requireTitle(name); err != nil {
			return domain.Region{}, err
		}
		renamed = name != region.Name
		region.Name = name
	} else if p.Name.Present {
		return domain.Region{}, domain.ValidationError("name cannot be null")
	}
	region.Description = p.Description.Resolve(region.Description)
	region.CoverImage = p.CoverImage.Resolve(region.CoverImage)
	if renamed {
		return saveWithSlugRetry(ctx, region.Name, func(ctx context.Context, slug string) (domain.Region, error) {
			region.Slug = slug
			return s.regions.UpdateRegion(ctx, region)
		})
	}
	return s.regions.UpdateRegion(ctx, region)
}

// DeleteRegion soft-deletes a region. Admin only.
func (s *Service) DeleteRegion(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.regions.SoftDeleteRegion(ctx, id)
}

// RestoreRegion undoes a soft delete. Admin only.
func (s *Service) RestoreRegion(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.regions.RestoreRegion(ctx, id)
}

// CreateHeroSlideParams are the inputs for a new homepage slide.
type CreateHeroSlideParams struct {
	Title     string
	Subtitle  *string
	ImageURL  string
	LinkURL   *string
	SortOrder int32
	IsActive  bool
}

// CreateHeroSlide stores a new homepage slide.
func (s *Service) CreateHeroSlide(ctx context.Context, actor *domain.AuthenticatedUser, p CreateHeroSlideParams) (domain.HeroSlide, error) {
	if err := requirePrivileged(actor); err != nil {
		return domain.HeroSlide{}, err
	}
	title, err := requireTitle(p.Title)
	if err != nil {
		return domain.HeroSlide{}, err
	}
	if strings.TrimSpace(p.ImageURL) == "" {
		return domain.HeroSlide{}, domain.ValidationError("image url is required")
	}
	return s.hero.InsertHeroSlide(ctx, domain.HeroSlide{
		ID:        uuid.New(),
		Title:     title,
		Subtitle:  p.Subtitle,
		ImageURL:  p.ImageURL,
		LinkURL:   p.LinkURL,
		SortOrder: p.SortOrder,
		IsActive:  p.IsActive,
	})
}

// ListHeroSlides returns slides in sort order. Unprivileged callers see
// only active slides.
func (s *Service) ListHeroSlides(ctx context.Context, actor *domain.AuthenticatedUser) ([]domain.HeroSlide, error) {
	return s.hero.ListHeroSlides(ctx, !actor.IsPrivileged())
}

// UpdateHeroSlide applies a tri-state partial update to one slide.
func (s *Service) UpdateHeroSlide(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, p domain.UpdateHeroSlideParams) (domain.HeroSlide, error) {
	if err := requirePrivileged(actor); err != nil {
		return domain.HeroSlide{}, err
	}
	slides, err := s.hero.ListHeroSlides(ctx, false)
	if err != nil {
		return domain.HeroSlide{}, err
	}
	var slide *domain.HeroSlide
	for i := range slides {
		if slides[i].ID == id {
			slide = &slides[i]
			break
		}
	}
	if slide == nil {
		return domain.HeroSlide{}, domain.ErrNotFound
	}

	if title, ok := p.Title.Get(); ok {
		if slide.Title, err = requireTitle(title); err != nil {
			return domain.HeroSlide{}, err
		}
	} else if p.Title.Present {
		return domain.HeroSlide{}, domain.ValidationError("title cannot be null")
	}
	slide.Subtitle = p.Subtitle.Resolve(slide.Subtitle)
	if url, ok := p.ImageURL.Get(); ok {
		if strings.TrimSpace(url) == "" {
			return domain.HeroSlide{}, domain.ValidationError("image url is required")
		}
		slide.ImageURL = url
	} else if p.ImageURL.Present {
		return domain.HeroSlide{}, domain.ValidationError("image url cannot be null")
	}
	slide.LinkURL = p.LinkURL.Resolve(slide.LinkURL)
	if order, ok := p.SortOrder.Get(); ok {
		slide.SortOrder = order
	}
	if active, ok := p.IsActive.Get(); ok {
		slide.IsActive = active
	}
	return s.hero.UpdateHeroSlide(ctx, *slide)
}

// DeleteHeroSlide removes a slide. Slides have no soft-delete cycle.
func (s *Service) DeleteHeroSlide(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requirePrivileged(actor); err != nil {
		return err
	}
	return s.hero.DeleteHeroSlide(ctx, id)
}

// ListTags returns all known tags.
func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.tags.ListTags(ctx)
}

// DeleteTag removes a tag and its post links. Admin only.
func (s *Service) DeleteTag(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.tags.DeleteTag(ctx, id)
}

// Search runs a full-text query over published content. Kind filters that
// fail to parse are ignored rather than rejected.
func (s *Service) Search(ctx context.Context, query string, kinds []string, limit, offset int) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ValidationError("search query is required")
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	parsed := make([]domain.TargetKind, 0, len(kinds))
	for _, k := range kinds {
		if kind, ok := domain.ParseTargetKind(k); ok {
			parsed = append(parsed, kind)
		}
	}
	return s.search.Search(ctx, query, parsed, limit, offset)
}
