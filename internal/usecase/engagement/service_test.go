package engagement

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paayo-backend/internal/domain"
)

type fakeViews struct {
	recent   bool
	inserted []domain.ViewEvent
	pruned   time.Time
}

func (f *fakeViews) HasRecentView(context.Context, domain.TargetKind, uuid.UUID, string, time.Time) (bool, error) {
	return f.recent, nil
}

func (f *fakeViews) InsertView(_ context.Context, v domain.ViewEvent) error {
	f.inserted = append(f.inserted, v)
	return nil
}

func (f *fakeViews) AggregateDay(context.Context, time.Time) (int64, error) { return 3, nil }

func (f *fakeViews) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.pruned = cutoff
	return 42, nil
}

type fakeLikes struct {
	rows map[string]bool // kind/id/hash -> present
}

func likeKey(kind domain.TargetKind, id uuid.UUID, hash string) string {
	return string(kind) + "/" + id.String() + "/" + hash
}

func (f *fakeLikes) DeleteLike(_ context.Context, kind domain.TargetKind, id uuid.UUID, hash string) (bool, error) {
	k := likeKey(kind, id, hash)
	if f.rows[k] {
		delete(f.rows, k)
		return true, nil
	}
	return false, nil
}

func (f *fakeLikes) InsertLike(_ context.Context, l domain.Like) error {
	if f.rows == nil {
		f.rows = map[string]bool{}
	}
	f.rows[likeKey(l.TargetKind, l.TargetID, l.ViewerHash)] = true
	return nil
}

func (f *fakeLikes) HasLike(_ context.Context, kind domain.TargetKind, id uuid.UUID, hash string) (bool, error) {
	return f.rows[likeKey(kind, id, hash)], nil
}

func (f *fakeLikes) CountLikes(context.Context, domain.TargetKind, uuid.UUID) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeComments struct {
	recent   int
	byID     map[uuid.UUID]domain.Comment
	inserted []domain.Comment
	statuses map[uuid.UUID]domain.CommentStatus
	deleted  []uuid.UUID
}

func (f *fakeComments) CountRecentByViewer(context.Context, string, time.Time) (int, error) {
	return f.recent, nil
}

func (f *fakeComments) InsertComment(_ context.Context, c domain.Comment) (domain.Comment, error) {
	f.inserted = append(f.inserted, c)
	return c, nil
}

func (f *fakeComments) GetComment(_ context.Context, id uuid.UUID) (domain.Comment, error) {
	c, ok := f.byID[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeComments) ListApproved(context.Context, domain.TargetKind, uuid.UUID, int, int) ([]domain.Comment, error) {
	return nil, nil
}

func (f *fakeComments) ListByStatus(context.Context, domain.CommentStatus, int, int) ([]domain.Comment, int64, error) {
	return nil, 0, nil
}

func (f *fakeComments) UpdateCommentStatus(_ context.Context, id uuid.UUID, s domain.CommentStatus) error {
	if f.statuses == nil {
		f.statuses = map[uuid.UUID]domain.CommentStatus{}
	}
	f.statuses[id] = s
	return nil
}

func (f *fakeComments) DeleteCommentTree(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTargets struct {
	published bool
	err       error
}

func (f *fakeTargets) ExistsPublished(context.Context, domain.TargetKind, uuid.UUID) (bool, error) {
	return f.published, f.err
}

type fakeCounters struct {
	viewSyncs int
	likeSyncs int
	likeCount int64
	viewErr   error
}

func (f *fakeCounters) SyncViewCount(context.Context, domain.TargetKind, uuid.UUID) (int64, error) {
	f.viewSyncs++
	return 0, f.viewErr
}

func (f *fakeCounters) SyncLikeCount(context.Context, domain.TargetKind, uuid.UUID) (int64, error) {
	f.likeSyncs++
	return f.likeCount, nil
}

type fakeNotifs struct {
	admins   []string
	inserted []domain.Notification
}

func (f *fakeNotifs) InsertNotification(_ context.Context, n domain.Notification) (domain.Notification, error) {
	f.inserted = append(f.inserted, n)
	return n, nil
}

func (f *fakeNotifs) ListNotifications(context.Context, string, bool, int, int) ([]domain.Notification, error) {
	return nil, nil
}

func (f *fakeNotifs) MarkRead(context.Context, string, uuid.UUID) error { return nil }
func (f *fakeNotifs) MarkAllRead(context.Context, string) error         { return nil }
func (f *fakeNotifs) UnreadCount(context.Context, string) (int64, error) {
	return 1, nil
}
func (f *fakeNotifs) ListAdminIDs(context.Context) ([]string, error) { return f.admins, nil }

type fakeBroker struct {
	published []domain.Notification
}

func (f *fakeBroker) PublishNotification(_ context.Context, _ string, n domain.Notification) error {
	f.published = append(f.published, n)
	return nil
}

func (f *fakeBroker) PublishUnreadCount(context.Context, string, int64) error { return nil }

func (f *fakeBroker) Subscribe(context.Context, string) (domain.NotificationStream, error) {
	return nil, errors.New("not implemented")
}

type fixture struct {
	views    *fakeViews
	likes    *fakeLikes
	comments *fakeComments
	targets  *fakeTargets
	counters *fakeCounters
	notifs   *fakeNotifs
	broker   *fakeBroker
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		views:    &fakeViews{},
		likes:    &fakeLikes{rows: map[string]bool{}},
		comments: &fakeComments{byID: map[uuid.UUID]domain.Comment{}},
		targets:  &fakeTargets{published: true},
		counters: &fakeCounters{likeCount: 7},
		notifs:   &fakeNotifs{},
		broker:   &fakeBroker{},
	}
	f.svc = NewService(f.views, f.likes, f.comments, f.targets, f.counters, f.notifs, f.broker, zerolog.Nop())
	return f
}

func strptr(s string) *string { return &s }

func TestRecordView(t *testing.T) {
	target := uuid.New()

	t.Run("records fresh view and resyncs counter", func(t *testing.T) {
		f := newFixture()
		res, err := f.svc.RecordView(context.Background(), domain.TargetPost, target, "fp1", strptr("1.2.3.4"), nil, nil)
		require.NoError(t, err)
		assert.True(t, res.Recorded)
		require.Len(t, f.views.inserted, 1)
		assert.Equal(t, "fp1", f.views.inserted[0].ViewerHash)
		assert.Equal(t, 1, f.counters.viewSyncs)
	})

	t.Run("suppresses repeat inside dedup window", func(t *testing.T) {
		f := newFixture()
		f.views.recent = true
		res, err := f.svc.RecordView(context.Background(), domain.TargetPost, target, "fp1", nil, nil, nil)
		require.NoError(t, err)
		assert.False(t, res.Recorded)
		assert.Empty(t, f.views.inserted)
		assert.Zero(t, f.counters.viewSyncs)
	})

	t.Run("rejects unpublished target", func(t *testing.T) {
		f := newFixture()
		f.targets.published = false
		_, err := f.svc.RecordView(context.Background(), domain.TargetVideo, target, "fp1", nil, nil, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.views.inserted)
	})

	t.Run("counter resync failure does not fail the view", func(t *testing.T) {
		f := newFixture()
		f.counters.viewErr = errors.New("boom")
		res, err := f.svc.RecordView(context.Background(), domain.TargetPost, target, "fp1", nil, nil, nil)
		require.NoError(t, err)
		assert.True(t, res.Recorded)
	})
}

func TestToggleLike(t *testing.T) {
	target := uuid.New()

	t.Run("first toggle likes", func(t *testing.T) {
		f := newFixture()
		res, err := f.svc.ToggleLike(context.Background(), domain.TargetPost, target, "fp1", nil)
		require.NoError(t, err)
		assert.True(t, res.Liked)
		assert.Equal(t, int64(7), res.LikeCount)
		assert.Equal(t, 1, f.counters.likeSyncs)
	})

	t.Run("second toggle unlikes without target check", func(t *testing.T) {
		f := newFixture()
		f.likes.rows[likeKey(domain.TargetPost, target, "fp1")] = true
		f.targets.err = errors.New("must not be called on delete path")

		res, err := f.svc.ToggleLike(context.Background(), domain.TargetPost, target, "fp1", nil)
		require.NoError(t, err)
		assert.False(t, res.Liked)
	})

	t.Run("like on unpublished target fails", func(t *testing.T) {
		f := newFixture()
		f.targets.published = false
		_, err := f.svc.ToggleLike(context.Background(), domain.TargetPost, target, "fp1", nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.likes.rows)
	})
}

func TestLikeStatus(t *testing.T) {
	f := newFixture()
	target := uuid.New()
	f.likes.rows[likeKey(domain.TargetHotel, target, "fp1")] = true

	res, err := f.svc.LikeStatus(context.Background(), domain.TargetHotel, target, "fp1")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)
}

func validComment(target uuid.UUID) SubmitCommentParams {
	return SubmitCommentParams{
		TargetKind:  domain.TargetPost,
		TargetID:    target,
		GuestName:   "Asha",
		GuestEmail:  "asha@example.com",
		Content:     "Lovely place, the <strong>views</strong> are stunning.",
		Fingerprint: "fp-comment",
	}
}

func TestSubmitComment(t *testing.T) {
	target := uuid.New()

	t.Run("accepts and stores pending", func(t *testing.T) {
		f := newFixture()
		c, err := f.svc.SubmitComment(context.Background(), validComment(target))
		require.NoError(t, err)
		assert.Equal(t, domain.CommentPending, c.Status)
		assert.Contains(t, c.Content, "<strong>views</strong>")
		require.Len(t, f.comments.inserted, 1)
	})

	t.Run("strips disallowed markup", func(t *testing.T) {
		f := newFixture()
		p := validComment(target)
		p.Content = `<script>alert(1)</script>fine text <img src=x>`
		c, err := f.svc.SubmitComment(context.Background(), p)
		require.NoError(t, err)
		assert.NotContains(t, c.Content, "<script>")
		assert.NotContains(t, c.Content, "<img")
		assert.Contains(t, c.Content, "fine text")
	})

	t.Run("links carry the full rel set", func(t *testing.T) {
		f := newFixture()
		p := validComment(target)
		p.Content = `See <a href="https://example.com/guide" rel="opener">the guide</a> for details.`
		c, err := f.svc.SubmitComment(context.Background(), p)
		require.NoError(t, err)
		assert.Contains(t, c.Content, `href="https://example.com/guide"`)
		assert.Contains(t, c.Content, `rel="noopener noreferrer nofollow"`)
	})

	t.Run("strips markup from guest name", func(t *testing.T) {
		f := newFixture()
		p := validComment(target)
		p.GuestName = "<b>Asha</b>"
		c, err := f.svc.SubmitComment(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, "Asha", c.GuestName)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*SubmitCommentParams)
		}{
			{"empty name", func(p *SubmitCommentParams) { p.GuestName = "  " }},
			{"bad email", func(p *SubmitCommentParams) { p.GuestEmail = "not-an-email" }},
			{"too long", func(p *SubmitCommentParams) { p.Content = strings.Repeat("a", commentMaxLength+1) }},
			{"empty after sanitizing", func(p *SubmitCommentParams) { p.Content = "<script>x</script>" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture()
				p := validComment(target)
				tt.mutate(&p)
				_, err := f.svc.SubmitComment(context.Background(), p)
				var derr *domain.Error
				require.ErrorAs(t, err, &derr)
				assert.Equal(t, domain.KindValidation, derr.Kind)
			})
		}
	})

	t.Run("rate limited after five in an hour", func(t *testing.T) {
		f := newFixture()
		f.comments.recent = 5
		_, err := f.svc.SubmitComment(context.Background(), validComment(target))
		assert.ErrorIs(t, err, domain.ErrTooManyRequests)
	})

	t.Run("rejects unpublished target", func(t *testing.T) {
		f := newFixture()
		f.targets.published = false
		_, err := f.svc.SubmitComment(context.Background(), validComment(target))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("reply checks parent target and depth", func(t *testing.T) {
		f := newFixture()
		parent := uuid.New()
		grand := uuid.New()
		otherTarget := uuid.New()
		f.comments.byID[parent] = domain.Comment{ID: parent, TargetKind: domain.TargetPost, TargetID: target}
		f.comments.byID[grand] = domain.Comment{ID: grand, TargetKind: domain.TargetPost, TargetID: target, ParentID: &parent}
		f.comments.byID[otherTarget] = domain.Comment{ID: otherTarget, TargetKind: domain.TargetPost, TargetID: uuid.New()}

		p := validComment(target)
		p.ParentID = &parent
		_, err := f.svc.SubmitComment(context.Background(), p)
		require.NoError(t, err)

		p = validComment(target)
		p.ParentID = &grand
		_, err = f.svc.SubmitComment(context.Background(), p)
		assert.Error(t, err)

		p = validComment(target)
		p.ParentID = &otherTarget
		_, err = f.svc.SubmitComment(context.Background(), p)
		assert.Error(t, err)

		missing := uuid.New()
		p = validComment(target)
		p.ParentID = &missing
		_, err = f.svc.SubmitComment(context.Background(), p)
		assert.Error(t, err)
	})

	t.Run("notifies every admin", func(t *testing.T) {
		f := newFixture()
		f.notifs.admins = []string{"admin-1", "admin-2"}
		_, err := f.svc.SubmitComment(context.Background(), validComment(target))
		require.NoError(t, err)
		assert.Len(t, f.notifs.inserted, 2)
		assert.Len(t, f.broker.published, 2)
		assert.Equal(t, "comment_submitted", f.notifs.inserted[0].Kind)
	})

	t.Run("notification preview trims on a rune boundary", func(t *testing.T) {
		f := newFixture()
		f.notifs.admins = []string{"admin-1"}
		p := validComment(target)
		p.Content = strings.Repeat("पहाड", 20)
		_, err := f.svc.SubmitComment(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, f.notifs.inserted, 1)
		msg := f.notifs.inserted[0].Message
		require.NotNil(t, msg)
		assert.LessOrEqual(t, len(*msg), 140)
		assert.True(t, utf8.ValidString(*msg))
	})
}

func TestModerate(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	require.NoError(t, f.svc.Moderate(context.Background(), id, domain.CommentApproved))
	assert.Equal(t, domain.CommentApproved, f.comments.statuses[id])

	err := f.svc.Moderate(context.Background(), id, domain.CommentPending)
	assert.Error(t, err)

	err = f.svc.Moderate(context.Background(), id, domain.CommentStatus("bogus"))
	assert.Error(t, err)
}

func TestListForModeration(t *testing.T) {
	f := newFixture()
	_, _, err := f.svc.ListForModeration(context.Background(), domain.CommentStatus("bogus"), 10, 0)
	assert.Error(t, err)

	_, _, err = f.svc.ListForModeration(context.Background(), domain.CommentPending, 10, 0)
	assert.NoError(t, err)
}

func TestPruneRawViewsFloor(t *testing.T) {
	f := newFixture()
	rows, err := f.svc.PruneRawViews(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rows)

	// A one-day retention request must be raised to the floor so the
	// dedup window keeps its data.
	earliest := time.Now().UTC().AddDate(0, 0, -minRetentionDays).Add(time.Minute)
	assert.True(t, f.views.pruned.Before(earliest))
}
