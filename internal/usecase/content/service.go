package content

import (
	"strings"

	"github.com/rs/zerolog"

	"paayo-backend/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service is the content lifecycle layer: creation with slug allocation,
// role-aware reads, tri-state partial updates, publication transitions
// and the soft-delete cycle for every content kind.
type Service struct {
	posts   domain.PostRepo
	hotels  domain.HotelRepo
	videos  domain.VideoRepo
	photos  domain.PhotoRepo
	regions domain.RegionRepo
	hero    domain.HeroRepo
	tags    domain.TagRepo
	search  domain.SearchRepo
	log     zerolog.Logger
}

// NewService wires the lifecycle service.
func NewService(
	posts domain.PostRepo,
	hotels domain.HotelRepo,
	videos domain.VideoRepo,
	photos domain.PhotoRepo,
	regions domain.RegionRepo,
	hero domain.HeroRepo,
	tags domain.TagRepo,
	search domain.SearchRepo,
	logger zerolog.Logger,
) *Service {
	return &Service{
		posts:   posts,
		hotels:  hotels,
		videos:  videos,
		photos:  photos,
		regions: regions,
		hero:    hero,
		tags:    tags,
		search:  search,
		log:     logger,
	}
}

// normalizeFilter clamps paging and forces the published-only view for
// anonymous and plain-user callers. Privileged callers keep their filter.
func normalizeFilter(actor *domain.AuthenticatedUser, f domain.ListFilter) domain.ListFilter {
	if f.Limit <= 0 || f.Limit > maxPageSize {
		f.Limit = defaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if !actor.IsPrivileged() {
		published := domain.StatusPublished
		f.Status = &published
	}
	return f
}

// visibleTo hides drafts from unprivileged callers. A draft slug resolves
// to not-found, never forbidden, so its existence does not leak.
func visibleTo(actor *domain.AuthenticatedUser, status domain.ContentStatus) bool {
	return status == domain.StatusPublished || actor.IsPrivileged()
}

func requirePrivileged(actor *domain.AuthenticatedUser) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if !actor.IsPrivileged() {
		return domain.ErrForbidden
	}
	return nil
}

func requireAdmin(actor *domain.AuthenticatedUser) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// canMutate gates row-level edits: the author or any admin.
func canMutate(actor *domain.AuthenticatedUser, authorID string) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if !actor.CanEdit(authorID) {
		return domain.ErrForbidden
	}
	return nil
}

func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", domain.ValidationError("title is required")
	}
	if len(title) > 300 {
		return "", domain.ValidationError("title is too long")
	}
	return title, nil
}
