package content

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"paayo-backend/internal/domain"
)

// CreatePostParams are the inputs for a new post of any type.
type CreatePostParams struct {
	Title            string
	PostType         domain.PostType
	ShortDescription *string
	Content          json.RawMessage
	CoverImage       *string
	RegionID         *uuid.UUID
	EventDate        *time.Time
	EventEndDate     *time.Time
	IsFeatured       bool
	DisplayOrder     *int32
	Tags             []string
}

// CreatePost allocates a slug and stores a new draft post.
func (s *Service) CreatePost(ctx context.Context, actor *domain.AuthenticatedUser, p CreatePostParams) (domain.Post, error) {
	if err := requirePrivileged(actor); err != nil {
		return domain.Post{}, err
	}
	title, err := requireTitle(p.Title)
	if err != nil {
		return domain.Post{}, err
	}
	if !p.PostType.Valid() {
		return domain.Post{}, domain.ValidationError("unknown post type")
	}
	if p.EventDate == nil && p.PostType == domain.PostEvent {
		return domain.Post{}, domain.ValidationError("events need an event date")
	}
	if p.EventDate != nil && p.EventEndDate != nil && p.EventEndDate.Before(*p.EventDate) {
		return domain.Post{}, domain.ValidationError("event end date precedes start date")
	}

	return saveWithSlugRetry(ctx, title, func(ctx context.Context, slug string) (domain.Post, error) {
		return s.posts.InsertPost(ctx, domain.Post{
			ID:               uuid.New(),
			Slug:             slug,
			Title:            title,
			PostType:         p.PostType,
			ShortDescription: p.ShortDescription,
			Content:          p.Content,
			CoverImage:       p.CoverImage,
			RegionID:         p.RegionID,
			AuthorID:         actor.ID,
			Status:           domain.StatusDraft,
			EventDate:        p.EventDate,
			EventEndDate:     p.EventEndDate,
			IsFeatured:       p.IsFeatured,
			DisplayOrder:     p.DisplayOrder,
		}, p.Tags)
	})
}

// GetPostBySlug resolves a post for the caller. Drafts resolve only for
// privileged callers; everyone else gets not-found.
func (s *Service) GetPostBySlug(ctx context.Context, actor *domain.AuthenticatedUser, slug string) (domain.Post, error) {
	post, err := s.posts.GetPostBySlug(ctx, slug)
	if err != nil {
		return domain.Post{}, err
	}
	if !visibleTo(actor, post.Status) {
		return domain.Post{}, domain.ErrNotFound
	}
	return post, nil
}

// GetPost resolves a post by id under the same visibility rule.
func (s *Service) GetPost(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) (domain.Post, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if !visibleTo(actor, post.Status) {
		return domain.Post{}, domain.ErrNotFound
	}
	return post, nil
}

// ListPosts pages posts with the caller-appropriate status filter.
func (s *Service) ListPosts(ctx context.Context, actor *domain.AuthenticatedUser, f domain.ListFilter) ([]domain.Post, int64, error) {
	return s.posts.ListPosts(ctx, normalizeFilter(actor, f))
}

// UpdatePost applies a tri-state partial update to a post.
func (s *Service) UpdatePost(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, p domain.UpdatePostParams) (domain.Post, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if err := canMutate(actor, post.AuthorID); err != nil {
		return domain.Post{}, err
	}

	renamed := false
	if title, ok := p.Title.Get(); ok {
		if title, err = requireTitle(title); err != nil {
			return domain.Post{}, err
		}
		renamed = title != post.Title
		post.Title = title
	} else if p.Title.Present {
		return domain.Post{}, domain.ValidationError("title cannot be null")
	}
	post.ShortDescription = p.ShortDescription.Resolve(post.ShortDescription)
	if body, ok := p.Content.Get(); ok {
		post.Content = body
	} else if p.Content.Present {
		post.Content = nil
	}
	post.CoverImage = p.CoverImage.Resolve(post.CoverImage)
	post.RegionID = p.RegionID.Resolve(post.RegionID)
	post.EventDate = p.EventDate.Resolve(post.EventDate)
	post.EventEndDate = p.EventEndDate.Resolve(post.EventEndDate)
	if featured, ok := p.IsFeatured.Get(); ok {
		post.IsFeatured = featured
	}
	post.DisplayOrder = p.DisplayOrder.Resolve(post.DisplayOrder)
	if post.EventDate != nil && post.EventEndDate != nil && post.EventEndDate.Before(*post.EventDate) {
		return domain.Post{}, domain.ValidationError("event end date precedes start date")
	}

	var tags *[]string
	if list, ok := p.Tags.Get(); ok {
		tags = &list
	} else if p.Tags.Present {
		tags = &[]string{}
	}
	if renamed {
		// A changed title re-derives the slug; the old one frees up.
		return saveWithSlugRetry(ctx, post.Title, func(ctx context.Context, slug string) (domain.Post, error) {
			post.Slug = slug
			return s.posts.UpdatePost(ctx, post, tags)
		})
	}
	return s.posts.UpdatePost(ctx, post, tags)
}

// SetPostStatus publishes or unpublishes a post. First publication stamps
// published_at; later cycles keep the original stamp.
func (s *Service) SetPostStatus(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID, status domain.ContentStatus) (domain.Post, error) {
	if !status.Valid() {
		return domain.Post{}, domain.ValidationError("unknown status")
	}
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if err := canMutate(actor, post.AuthorID); err != nil {
		return domain.Post{}, err
	}
	return s.posts.SetPostStatus(ctx, id, status)
}

// DeletePost soft-deletes. The row keeps its slug reserved until restore
// or hard delete.
func (s *Service) DeletePost(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := canMutate(actor, post.AuthorID); err != nil {
		return err
	}
	return s.posts.SoftDeletePost(ctx, id)
}

// RestorePost undoes a soft delete. Admin only.
func (s *Service) RestorePost(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.posts.RestorePost(ctx, id)
}

// HardDeletePost removes the row permanently. Admin only.
func (s *Service) HardDeletePost(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.posts.HardDeletePost(ctx, id)
}
