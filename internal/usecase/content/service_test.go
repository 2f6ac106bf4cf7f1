package content

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paayo-backend/internal/domain"
)

type fakePosts struct {
	byID        map[uuid.UUID]domain.Post
	takenAll    bool
	collideN    int
	updCollideN int
	inserts     int
	updates     int
	lastTags    []string
	updTags     *[]string
	statusSet   map[uuid.UUID]domain.ContentStatus
	softDel     []uuid.UUID
	restored    []uuid.UUID
	hardDel     []uuid.UUID
}

func newFakePosts() *fakePosts {
	return &fakePosts{
		byID:      map[uuid.UUID]domain.Post{},
		statusSet: map[uuid.UUID]domain.ContentStatus{},
	}
}

func (f *fakePosts) InsertPost(_ context.Context, p domain.Post, tags []string) (domain.Post, error) {
	f.inserts++
	if f.takenAll || f.collideN > 0 {
		if f.takenAll {
			return domain.Post{}, domain.ErrSlugTaken
		}
		f.collideN--
		return domain.Post{}, domain.ErrSlugTaken
	}
	f.lastTags = tags
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePosts) GetPost(_ context.Context, id uuid.UUID) (domain.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePosts) GetPostBySlug(_ context.Context, slug string) (domain.Post, error) {
	for _, p := range f.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Post{}, domain.ErrNotFound
}

func (f *fakePosts) ListPosts(_ context.Context, filter domain.ListFilter) ([]domain.Post, int64, error) {
	out := []domain.Post{}
	for _, p := range f.byID {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePosts) UpdatePost(_ context.Context, p domain.Post, tags *[]string) (domain.Post, error) {
	f.updates++
	if f.updCollideN > 0 {
		f.updCollideN--
		return domain.Post{}, domain.ErrSlugTaken
	}
	f.byID[p.ID] = p
	f.updTags = tags
	return p, nil
}

func (f *fakePosts) SetPostStatus(_ context.Context, id uuid.UUID, status domain.ContentStatus) (domain.Post, error) {
	p := f.byID[id]
	p.Status = status
	f.byID[id] = p
	f.statusSet[id] = status
	return p, nil
}

func (f *fakePosts) SoftDeletePost(_ context.Context, id uuid.UUID) error {
	f.softDel = append(f.softDel, id)
	return nil
}

func (f *fakePosts) RestorePost(_ context.Context, id uuid.UUID) error {
	f.restored = append(f.restored, id)
	return nil
}

func (f *fakePosts) HardDeletePost(_ context.Context, id uuid.UUID) error {
	f.hardDel = append(f.hardDel, id)
	return nil
}

var (
	adminUser  = &domain.AuthenticatedUser{ID: "admin-1", Role: domain.RoleAdmin, IsActive: true}
	editorUser = &domain.AuthenticatedUser{ID: "editor-1", Role: domain.RoleEditor, IsActive: true}
	plainUser  = &domain.AuthenticatedUser{ID: "user-1", Role: domain.RoleUser, IsActive: true}
)

func newPostService(posts *fakePosts) *Service {
	return NewService(posts, nil, nil, nil, nil, nil, nil, nil, zerolog.Nop())
}

func validPost() CreatePostParams {
	return CreatePostParams{
		Title:    "Sunrise over the valley",
		PostType: domain.PostArticle,
		Tags:     []string{"Nature", "Hiking"},
	}
}

func TestCreatePost(t *testing.T) {
	t.Run("creates draft with slugged title", func(t *testing.T) {
		posts := newFakePosts()
		svc := newPostService(posts)

		p, err := svc.CreatePost(context.Background(), editorUser, validPost())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, p.Status)
		assert.Equal(t, "editor-1", p.AuthorID)
		assert.True(t, strings.HasPrefix(p.Slug, "sunrise-over-the-valley-"))
		assert.Len(t, p.Slug, len("sunrise-over-the-valley-")+8)
		assert.Equal(t, []string{"Nature", "Hiking"}, posts.lastTags)
	})

	t.Run("retries on slug collision", func(t *testing.T) {
		posts := newFakePosts()
		posts.collideN = 2
		svc := newPostService(posts)

		_, err := svc.CreatePost(context.Background(), editorUser, validPost())
		require.NoError(t, err)
		assert.Equal(t, 3, posts.inserts)
	})

	t.Run("gives up after exhausting attempts", func(t *testing.T) {
		posts := newFakePosts()
		posts.takenAll = true
		svc := newPostService(posts)

		_, err := svc.CreatePost(context.Background(), editorUser, validPost())
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindConflict, derr.Kind)
		assert.Equal(t, slugAttempts, posts.inserts)
	})

	t.Run("rejects anonymous and plain users", func(t *testing.T) {
		svc := newPostService(newFakePosts())

		_, err := svc.CreatePost(context.Background(), nil, validPost())
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = svc.CreatePost(context.Background(), plainUser, validPost())
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("event requires event date", func(t *testing.T) {
		svc := newPostService(newFakePosts())
		p := validPost()
		p.PostType = domain.PostEvent
		_, err := svc.CreatePost(context.Background(), editorUser, p)
		assert.Error(t, err)
	})
}

func TestDraftVisibility(t *testing.T) {
	posts := newFakePosts()
	svc := newPostService(posts)
	draft, err := svc.CreatePost(context.Background(), editorUser, validPost())
	require.NoError(t, err)

	t.Run("draft hidden from anonymous as not found", func(t *testing.T) {
		_, err := svc.GetPostBySlug(context.Background(), nil, draft.Slug)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("draft visible to staff", func(t *testing.T) {
		got, err := svc.GetPostBySlug(context.Background(), adminUser, draft.Slug)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, got.ID)
	})

	t.Run("anonymous list is forced to published", func(t *testing.T) {
		out, total, err := svc.ListPosts(context.Background(), nil, domain.ListFilter{})
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Zero(t, total)
	})

	t.Run("published post visible to everyone", func(t *testing.T) {
		_, err := svc.SetPostStatus(context.Background(), editorUser, draft.ID, domain.StatusPublished)
		require.NoError(t, err)
		got, err := svc.GetPostBySlug(context.Background(), nil, draft.Slug)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPublished, got.Status)
	})
}

func TestUpdatePostTriState(t *testing.T) {
	setup := func(t *testing.T) (*Service, *fakePosts, domain.Post) {
		posts := newFakePosts()
		svc := newPostService(posts)
		desc := "short"
		p := validPost()
		p.ShortDescription = &desc
		post, err := svc.CreatePost(context.Background(), editorUser, p)
		require.NoError(t, err)
		return svc, posts, post
	}

	t.Run("absent field keeps stored value", func(t *testing.T) {
		svc, _, post := setup(t)
		got, err := svc.UpdatePost(context.Background(), editorUser, post.ID, domain.UpdatePostParams{
			Title: domain.Some("New title"),
		})
		require.NoError(t, err)
		assert.Equal(t, "New title", got.Title)
		require.NotNil(t, got.ShortDescription)
		assert.Equal(t, "short", *got.ShortDescription)
	})

	t.Run("explicit null clears the column", func(t *testing.T) {
		svc, _, post := setup(t)
		got, err := svc.UpdatePost(context.Background(), editorUser, post.ID, domain.UpdatePostParams{
			ShortDescription: domain.Null[string](),
		})
		require.NoError(t, err)
		assert.Nil(t, got.ShortDescription)
		assert.Equal(t, post.Title, got.Title)
	})

	t.Run("null title is rejected", func(t *testing.T) {
		svc, _, post := setup(t)
		_, err := svc.UpdatePost(context.Background(), editorUser, post.ID, domain.UpdatePostParams{
			Title: domain.Null[string](),
		})
		assert.Error(t, err)
	})

	t.Run("absent tags leave links untouched", func(t *testing.T) {
		svc, posts, post := setup(t)
		_, err := svc.UpdatePost(context.Background(), editorUser, post.ID, domain.UpdatePostParams{
			Title: domain.Some("Retitled"),
		})
		require.NoError(t, err)
		assert.Nil(t, posts.updTags)
	})

	t.Run("null tags clear all links", func(t *testing.T) {
		svc, posts, post := setup(t)
		_, err := svc.UpdatePost(context.Background(), editorUser, post.ID, domain.UpdatePostParams{
			Tags: domain.Null[[]string](),
		})
		require.NoError(t, err)
		require.NotNil(t, posts.updTags)
		assert.Empty(t, *posts.updTags)
	})

	t.Run("non-author editor cannot update", func(t *testing.T) {
		svc, _, post := setup(t)
		other := &domain.AuthenticatedUser{ID: "editor-2", Role: domain.RoleEditor, IsActive: true}
		_, err := svc.UpdatePost(context.Background(), other, post.ID, domain.UpdatePostParams{
			Title: domain.Some("Hijack"),
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin can update any post", func(t *testing.T) {
		svc, _, post := setup(t)
		_, err := svc.UpdatePost(context.Background(), adminUser, post.ID, domain.UpdatePostParams{
			Title: domain.Some("Admin edit"),
		})
		assert.NoError(t, err)
	})
}

func TestUpdatePostSlugFollowsTitle(t *testing.T) {
	setup := func(t *testing.T) (*Service, *fakePosts, domain.Post) {
		posts := newFakePosts()
		svc := newPostService(posts)
		post, err := svc.CreatePost(context.Background(), editorUser, validPost())
		require.NoError(t, err)
		return svc, posts, post
	}

	t.Run("renamed post gets a fresh slug", func(t *testing.T) {
		svc, _, post := setup(t)
		got, err := svc.UpdatePost(context.Background(), editorUser, post.ID, domain.UpdatePostParams{
			Title: domain.Some("A completely different headline"),
		})
		require.NoError(t, err)
		assert.NotEqual(t, post.Slug, got.Slug)
		assert.True(t, strings.HasPrefix(got.Slug, "a-completely-different-headline-"))
		assert.Len(t, got.Slug, len("a-completely-different-headline-")+8)
	})

	t.Run("unchanged title keeps the slug", func(t *testing.T) {
		svc, _, post := setup(t)
		got, err := svc.UpdatePost(context.Background(), editorUser, post.ID, domain.UpdatePostParams{
			Title:      domain.Some(post.Title),
			IsFeatured: domain.Some(true),
		})
		require.NoError(t, err)
		assert.Equal(t, post.Slug, got.Slug)
	})

	t.Run("untouched title keeps the slug", func(t *testing.T) {
		svc, _, post := setup(t)
		got, err := svc.UpdatePost(context.Background(), editorUser, post.ID, domain.UpdatePostParams{
			IsFeatured: domain.Some(true),
		})
		require.NoError(t, err)
		assert.Equal(t, post.Slug, got.Slug)
	})

	t.Run("retries when the new slug is taken", func(t *testing.T) {
		svc, posts, post := setup(t)
		posts.updCollideN = 2
		got, err := svc.UpdatePost(context.Background(), editorUser, post.ID, domain.UpdatePostParams{
			Title: domain.Some("A completely different headline"),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, posts.updates)
		assert.True(t, strings.HasPrefix(got.Slug, "a-completely-different-headline-"))
	})
}

func TestPostDeleteCycle(t *testing.T) {
	posts := newFakePosts()
	svc := newPostService(posts)
	post, err := svc.CreatePost(context.Background(), editorUser, validPost())
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(context.Background(), editorUser, post.ID))
	assert.Equal(t, []uuid.UUID{post.ID}, posts.softDel)

	err = svc.RestorePost(context.Background(), editorUser, post.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	require.NoError(t, svc.RestorePost(context.Background(), adminUser, post.ID))

	err = svc.HardDeletePost(context.Background(), editorUser, post.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	require.NoError(t, svc.HardDeletePost(context.Background(), adminUser, post.ID))
}

func TestNewSlug(t *testing.T) {
	s, err := newSlug("Café de l'Été!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "cafe-de-l-ete-"))

	s, err = newSlug("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "untitled-"))

	long, err := newSlug(strings.Repeat("verylongtitle ", 30))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(long), 80+1+8)
}
