package notify

import (
	"context"
	"strconv"
	"time"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

const (
	pollInterval      = 10 * time.Second
	heartbeatInterval = 30 * time.Second
)

// StreamSession is one live dashboard connection. The transport layer
// drains Events and writes SSE frames; the session merges broker pushes,
// the poll fallback and heartbeats into that one channel.
type StreamSession struct {
	events chan domain.StreamEvent
	cancel context.CancelFunc
}

// Events is the frame feed. It closes when the session ends.
func (s *StreamSession) Events() <-chan domain.StreamEvent {
	return s.events
}

// Close tears the session down. Safe to call more than once.
func (s *StreamSession) Close() {
	s.cancel()
}

// OpenStream starts a session for recipient. The first two frames are
// always connected and the current unread count, so a reconnecting
// client resyncs its badge before any push arrives. When the broker
// subscription cannot be established the session degrades to polling
// the unread count and pushes only on change.
func (s *Service) OpenStream(ctx context.Context, recipient string) (*StreamSession, error) {
	count, err := s.repo.UnreadCount(ctx, recipient)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	session := &StreamSession{
		events: make(chan domain.StreamEvent, 16),
		cancel: cancel,
	}

	var sub domain.NotificationStream
	if sub, err = s.broker.Subscribe(ctx, recipient); err != nil {
		s.log.Warn().Err(err).Str("recipient", recipient).Msg("notify: subscribe failed, polling")
		sub = nil
	}

	metrics.SSESubscribers.Inc()
	go s.pump(ctx, recipient, session, sub, count)
	return session, nil
}

func (s *Service) pump(ctx context.Context, recipient string, session *StreamSession, sub domain.NotificationStream, lastCount int64) {
	defer metrics.SSESubscribers.Dec()
	defer close(session.events)
	if sub != nil {
		defer func() { _ = sub.Close() }()
	}

	send := func(ev domain.StreamEvent) bool {
		select {
		case session.events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !send(domain.StreamEvent{Name: "connected", Data: []byte(`{}`)}) {
		return
	}
	if !send(countEvent(lastCount)) {
		return
	}

	var brokerEvents <-chan domain.StreamEvent
	if sub != nil {
		brokerEvents = sub.Events()
	}

	poll := time.NewTicker(pollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-brokerEvents:
			if !ok {
				// Redis dropped the subscription; fall back to polling.
				brokerEvents = nil
				continue
			}
			if !send(ev) {
				return
			}

		case <-poll.C:
			if brokerEvents != nil {
				continue
			}
			count, err := s.repo.UnreadCount(ctx, recipient)
			if err != nil {
				s.log.Warn().Err(err).Str("recipient", recipient).Msg("notify: poll failed")
				continue
			}
			if count != lastCount {
				lastCount = count
				if !send(countEvent(count)) {
					return
				}
			}

		case <-heartbeat.C:
			if !send(domain.StreamEvent{Name: "heartbeat", Data: []byte(`{}`)}) {
				return
			}
		}
	}
}

func countEvent(count int64) domain.StreamEvent {
	return domain.StreamEvent{
		Name: "unread_count",
		Data: []byte(`{"count":` + strconv.FormatInt(count, 10) + `}`),
	}
}
