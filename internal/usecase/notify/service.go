package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"paayo-backend/internal/domain"
)

// Service owns dashboard notifications: persistence, read state and
// fan-out to live streams.
type Service struct {
	repo   domain.NotificationRepo
	broker domain.NotificationBroker
	log    zerolog.Logger
}

// NewService wires the notification layer.
func NewService(repo domain.NotificationRepo, broker domain.NotificationBroker, logger zerolog.Logger) *Service {
	return &Service{repo: repo, broker: broker, log: logger}
}

// NotifyParams describe one notification to deliver.
type NotifyParams struct {
	Recipient  string
	ActorID    *string
	Kind       string
	Title      string
	Message    *string
	TargetKind *domain.TargetKind
	TargetID   *uuid.UUID
	ActionURL  *string
}

// Notify stores the notification and pushes it to any connected stream.
// Publish failures degrade to the poll fallback, so they only warn.
func (s *Service) Notify(ctx context.Context, p NotifyParams) (domain.Notification, error) {
	if p.Recipient == "" || p.Kind == "" || p.Title == "" {
		return domain.Notification{}, domain.ValidationError("recipient, kind and title are required")
	}
	n, err := s.repo.InsertNotification(ctx, domain.Notification{
		ID:         uuid.New(),
		Recipient:  p.Recipient,
		ActorID:    p.ActorID,
		Kind:       p.Kind,
		Title:      p.Title,
		Message:    p.Message,
		TargetKind: p.TargetKind,
		TargetID:   p.TargetID,
		ActionURL:  p.ActionURL,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	if err := s.broker.PublishNotification(ctx, n.Recipient, n); err != nil {
		s.log.Warn().Err(err).Str("recipient", n.Recipient).Msg("notify: publish failed")
	}
	s.publishUnread(ctx, n.Recipient)
	return n, nil
}

// List pages the recipient's notifications, newest first.
func (s *Service) List(ctx context.Context, recipient string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListNotifications(ctx, recipient, unreadOnly, limit, offset)
}

// MarkRead marks one notification read and refreshes the live badge.
func (s *Service) MarkRead(ctx context.Context, recipient string, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, recipient, id); err != nil {
		return err
	}
	s.publishUnread(ctx, recipient)
	return nil
}

// MarkAllRead clears the recipient's unread set.
func (s *Service) MarkAllRead(ctx context.Context, recipient string) error {
	if err := s.repo.MarkAllRead(ctx, recipient); err != nil {
		return err
	}
	s.publishUnread(ctx, recipient)
	return nil
}

// UnreadCount returns the current badge value.
func (s *Service) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	return s.repo.UnreadCount(ctx, recipient)
}

func (s *Service) publishUnread(ctx context.Context, recipient string) {
	count, err := s.repo.UnreadCount(ctx, recipient)
	if err != nil {
		s.log.Warn().Err(err).Str("recipient", recipient).Msg("notify: unread count read failed")
		return
	}
	if err := s.broker.PublishUnreadCount(ctx, recipient, count); err != nil {
		s.log.Warn().Err(err).Str("recipient", recipient).Msg("notify: unread count publish failed")
	}
}
