package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paayo-backend/internal/domain"
)

type fakeRepo struct {
	stored []domain.Notification
	unread int64
	read   []uuid.UUID
	allFor []string
}

func (f *fakeRepo) InsertNotification(_ context.Context, n domain.Notification) (domain.Notification, error) {
	f.stored = append(f.stored, n)
	return n, nil
}

func (f *fakeRepo) ListNotifications(context.Context, string, bool, int, int) ([]domain.Notification, error) {
	return f.stored, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, _ string, id uuid.UUID) error {
	f.read = append(f.read, id)
	return nil
}

func (f *fakeRepo) MarkAllRead(_ context.Context, recipient string) error {
	f.allFor = append(f.allFor, recipient)
	return nil
}

func (f *fakeRepo) UnreadCount(context.Context, string) (int64, error) {
	return f.unread, nil
}

func (f *fakeRepo) ListAdminIDs(context.Context) ([]string, error) { return nil, nil }

type fakeStream struct {
	ch chan domain.StreamEvent
}

func (f *fakeStream) Events() <-chan domain.StreamEvent { return f.ch }
func (f *fakeStream) Close() error                      { return nil }

type fakeBroker struct {
	published []domain.Notification
	counts    []int64
	stream    *fakeStream
	subErr    error
}

func (f *fakeBroker) PublishNotification(_ context.Context, _ string, n domain.Notification) error {
	f.published = append(f.published, n)
	return nil
}

func (f *fakeBroker) PublishUnreadCount(_ context.Context, _ string, count int64) error {
	f.counts = append(f.counts, count)
	return nil
}

func (f *fakeBroker) Subscribe(context.Context, string) (domain.NotificationStream, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	return f.stream, nil
}

func recv(t *testing.T, ch <-chan domain.StreamEvent) domain.StreamEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "stream closed early")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream event")
		return domain.StreamEvent{}
	}
}

func TestNotify(t *testing.T) {
	repo := &fakeRepo{unread: 3}
	broker := &fakeBroker{}
	svc := NewService(repo, broker, zerolog.Nop())

	n, err := svc.Notify(context.Background(), NotifyParams{
		Recipient: "admin-1",
		Kind:      "comment_submitted",
		Title:     "New comment",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, n.ID)
	require.Len(t, broker.published, 1)
	assert.Equal(t, []int64{3}, broker.counts)

	_, err = svc.Notify(context.Background(), NotifyParams{Recipient: "admin-1"})
	assert.Error(t, err)
}

func TestMarkReadRefreshesBadge(t *testing.T) {
	repo := &fakeRepo{unread: 1}
	broker := &fakeBroker{}
	svc := NewService(repo, broker, zerolog.Nop())

	id := uuid.New()
	require.NoError(t, svc.MarkRead(context.Background(), "admin-1", id))
	assert.Equal(t, []uuid.UUID{id}, repo.read)
	assert.Equal(t, []int64{1}, broker.counts)

	require.NoError(t, svc.MarkAllRead(context.Background(), "admin-1"))
	assert.Equal(t, []string{"admin-1"}, repo.allFor)
}

func TestOpenStream(t *testing.T) {
	t.Run("opens with connected then unread count", func(t *testing.T) {
		repo := &fakeRepo{unread: 4}
		broker := &fakeBroker{stream: &fakeStream{ch: make(chan domain.StreamEvent, 1)}}
		svc := NewService(repo, broker, zerolog.Nop())

		session, err := svc.OpenStream(context.Background(), "admin-1")
		require.NoError(t, err)
		defer session.Close()

		assert.Equal(t, "connected", recv(t, session.Events()).Name)
		count := recv(t, session.Events())
		assert.Equal(t, "unread_count", count.Name)
		assert.JSONEq(t, `{"count":4}`, string(count.Data))
	})

	t.Run("forwards broker pushes", func(t *testing.T) {
		repo := &fakeRepo{}
		broker := &fakeBroker{stream: &fakeStream{ch: make(chan domain.StreamEvent, 1)}}
		svc := NewService(repo, broker, zerolog.Nop())

		session, err := svc.OpenStream(context.Background(), "admin-1")
		require.NoError(t, err)
		defer session.Close()

		recv(t, session.Events())
		recv(t, session.Events())

		broker.stream.ch <- domain.StreamEvent{Name: "notification", Data: []byte(`{"id":"x"}`)}
		ev := recv(t, session.Events())
		assert.Equal(t, "notification", ev.Name)
	})

	t.Run("subscribe failure still opens the stream", func(t *testing.T) {
		repo := &fakeRepo{unread: 2}
		broker := &fakeBroker{subErr: errors.New("redis down")}
		svc := NewService(repo, broker, zerolog.Nop())

		session, err := svc.OpenStream(context.Background(), "admin-1")
		require.NoError(t, err)
		defer session.Close()

		assert.Equal(t, "connected", recv(t, session.Events()).Name)
		assert.Equal(t, "unread_count", recv(t, session.Events()).Name)
	})

	t.Run("close ends the event feed", func(t *testing.T) {
		repo := &fakeRepo{}
		broker := &fakeBroker{stream: &fakeStream{ch: make(chan domain.StreamEvent)}}
		svc := NewService(repo, broker, zerolog.Nop())

		session, err := svc.OpenStream(context.Background(), "admin-1")
		require.NoError(t, err)

		recv(t, session.Events())
		recv(t, session.Events())
		session.Close()

		select {
		case _, ok := <-session.Events():
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("stream did not close")
		}
	})
}
