package engagement

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/infra/metrics"
)

const (
	viewDedupWindow   = 24 * time.Hour
	commentRateWindow = time.Hour
	commentRateMax    = 5
	commentMaxLength  = 5000
	minRetentionDays  = 7
)

// Service owns view recording, like toggling and comment submission for
// anonymous visitors, plus the view aggregation and pruning jobs.
type Service struct {
	views    domain.ViewRepo
	likes    domain.LikeRepo
	comments domain.CommentRepo
	targets  domain.ExistenceChecker
	counters domain.CounterSyncer
	notifs   domain.NotificationRepo
	broker   domain.NotificationBroker
	log      zerolog.Logger

	commentPolicy *bluemonday.Policy
	namePolicy    *bluemonday.Policy
}

// NewService wires the engagement pipeline.
func NewService(
	views domain.ViewRepo,
	likes domain.LikeRepo,
	comments domain.CommentRepo,
	targets domain.ExistenceChecker,
	counters domain.CounterSyncer,
	notifs domain.NotificationRepo,
	broker domain.NotificationBroker,
	logger zerolog.Logger,
) *Service {
	return &Service{
		views:         views,
		likes:         likes,
		comments:      comments,
		targets:       targets,
		counters:      counters,
		notifs:        notifs,
		broker:        broker,
		log:           logger,
		commentPolicy: newCommentPolicy(),
		namePolicy:    bluemonday.StrictPolicy(),
	}
}

func newCommentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "br", "p", "ul", "ol", "li", "blockquote", "code")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.AllowURLSchemes("http", "https")
	p.RequireNoFollowOnLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// bluemonday can force nofollow and noreferrer onto links but has no
// switch for noopener alone, so the rel it emits is rewritten wholesale.
// Every anchor surviving the policy carries exactly one quoted rel.
var anchorRel = regexp.MustCompile(`(<a [^>]*rel=")[^"]*(")`)

const linkRel = "noopener noreferrer nofollow"

func forceLinkRel(html string) string {
	return anchorRel.ReplaceAllString(html, "${1}"+linkRel+"${2}")
}

// RecordView records one anonymous view. Repeats from the same
// fingerprint inside the dedup window are suppressed, not errors.
func (s *Service) RecordView(ctx context.Context, kind domain.TargetKind, id uuid.UUID, fingerprint string, ip, userAgent, referrer *string) (domain.ViewResult, error) {
	// Dedup check first: it is the hot path and must stay cheap.
	seen, err := s.views.HasRecentView(ctx, kind, id, fingerprint, time.Now().Add(-viewDedupWindow))
	if err != nil {
		return domain.ViewResult{}, fmt.Errorf("view dedup check: %w", err)
	}
	if seen {
		metrics.ViewsRecorded.WithLabelValues("deduped").Inc()
		return domain.ViewResult{Recorded: false}, nil
	}

	ok, err := s.targets.ExistsPublished(ctx, kind, id)
	if err != nil {
		return domain.ViewResult{}, fmt.Errorf("target check: %w", err)
	}
	if !ok {
		return domain.ViewResult{}, domain.ErrNotFound
	}

	view := domain.ViewEvent{
		ID:         uuid.New(),
		TargetKind: kind,
		TargetID:   id,
		ViewerHash: fingerprint,
		IP:         ip,
		UserAgent:  userAgent,
		Referrer:   referrer,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.views.InsertView(ctx, view); err != nil {
		return domain.ViewResult{}, fmt.Errorf("insert view: %w", err)
	}

	// The events table is authoritative; a failed resync only leaves
	// the counter briefly stale until the next sync corrects it.
	if _, err := s.counters.SyncViewCount(ctx, kind, id); err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Stringer("id", id).Msg("engagement: view count resync failed")
	}
	metrics.ViewsRecorded.WithLabelValues("recorded").Inc()
	return domain.ViewResult{Recorded: true}, nil
}

// ToggleLike flips the viewer's like using the DELETE-first protocol.
// The conditional delete is atomic, so exactly one of two concurrent
// toggles takes the removal path; insert collisions are absorbed by the
// unique constraint and the absolute count resync.
func (s *Service) ToggleLike(ctx context.Context, kind domain.TargetKind, id uuid.UUID, fingerprint string, ip *string) (domain.LikeResult, error) {
	deleted, err := s.likes.DeleteLike(ctx, kind, id, fingerprint)
	if err != nil {
		return domain.LikeResult{}, fmt.Errorf("delete like: %w", err)
	}

	liked := false
	if !deleted {
		ok, err := s.targets.ExistsPublished(ctx, kind, id)
		if err != nil {
			return domain.LikeResult{}, fmt.Errorf("target check: %w", err)
		}
		if !ok {
			return domain.LikeResult{}, domain.ErrNotFound
		}
		like := domain.Like{
			ID:         uuid.New(),
			TargetKind: kind,
			TargetID:   id,
			ViewerHash: fingerprint,
			IP:         ip,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.likes.InsertLike(ctx, like); err != nil {
			return domain.LikeResult{}, fmt.Errorf("insert like: %w", err)
		}
		liked = true
	}

	count, err := s.counters.SyncLikeCount(ctx, kind, id)
	if err != nil {
		return domain.LikeResult{}, fmt.Errorf("like count resync: %w", err)
	}
	direction := "unlike"
	if liked {
		direction = "like"
	}
	metrics.LikesToggled.WithLabelValues(direction).Inc()
	return domain.LikeResult{Liked: liked, LikeCount: count}, nil
}

// LikeStatus reports whether the viewer likes the target and the
// authoritative count. Read-only.
func (s *Service) LikeStatus(ctx context.Context, kind domain.TargetKind, id uuid.UUID, fingerprint string) (domain.LikeResult, error) {
	liked, err := s.likes.HasLike(ctx, kind, id, fingerprint)
	if err != nil {
		return domain.LikeResult{}, fmt.Errorf("like status: %w", err)
	}
	count, err := s.likes.CountLikes(ctx, kind, id)
	if err != nil {
		return domain.LikeResult{}, fmt.Errorf("like count: %w", err)
	}
	return domain.LikeResult{Liked: liked, LikeCount: count}, nil
}

// SubmitCommentParams are the validated-by-service inputs for a new comment.
type SubmitCommentParams struct {
	TargetKind  domain.TargetKind
	TargetID    uuid.UUID
	ParentID    *uuid.UUID
	GuestName   string
	GuestEmail  string
	Content     string
	Fingerprint string
	IP          *string
}

// SubmitComment validates, sanitizes and stores a guest comment in the
// pending state, then notifies admins. Notification failures never fail
// the submission.
func (s *Service) SubmitComment(ctx context.Context, p SubmitCommentParams) (domain.Comment, error) {
	name := strings.TrimSpace(s.namePolicy.Sanitize(p.GuestName))
	if name == "" {
		return domain.Comment{}, domain.ValidationError("name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(p.GuestEmail)); err != nil {
		return domain.Comment{}, domain.ValidationError("invalid email address")
	}
	if len(p.Content) > commentMaxLength {
		return domain.Comment{}, domain.ValidationError("comment is too long")
	}
	content := strings.TrimSpace(forceLinkRel(s.commentPolicy.Sanitize(p.Content)))
	if content == "" {
		return domain.Comment{}, domain.ValidationError("comment is empty")
	}

	recent, err := s.comments.CountRecentByViewer(ctx, p.Fingerprint, time.Now().Add(-commentRateWindow))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("comment rate check: %w", err)
	}
	if recent >= commentRateMax {
		return domain.Comment{}, domain.ErrTooManyRequests
	}

	ok, err := s.targets.ExistsPublished(ctx, p.TargetKind, p.TargetID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("target check: %w", err)
	}
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}

	if p.ParentID != nil {
		parent, err := s.comments.GetComment(ctx, *p.ParentID)
		if err != nil {
			return domain.Comment{}, domain.NotFoundError("parent comment not found")
		}
		if parent.TargetKind != p.TargetKind || parent.TargetID != p.TargetID {
			return domain.Comment{}, domain.ValidationError("parent comment belongs to a different target")
		}
		if parent.ParentID != nil {
			return domain.Comment{}, domain.ValidationError("replies to replies are not allowed")
		}
	}

	comment := domain.Comment{
		ID:         uuid.New(),
		TargetKind: p.TargetKind,
		TargetID:   p.TargetID,
		ParentID:   p.ParentID,
		GuestName:  name,
		GuestEmail: strings.TrimSpace(p.GuestEmail),
		Content:    content,
		Status:     domain.CommentPending,
		IP:         p.IP,
		ViewerHash: p.Fingerprint,
		CreatedAt:  time.Now().UTC(),
	}
	stored, err := s.comments.InsertComment(ctx, comment)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	metrics.CommentsSubmitted.Inc()

	s.notifyAdmins(ctx, stored)
	return stored, nil
}

func (s *Service) notifyAdmins(ctx context.Context, comment domain.Comment) {
	admins, err := s.notifs.ListAdminIDs(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("engagement: admin lookup for comment notification failed")
		return
	}
	message := comment.Content
	if len(message) > 140 {
		cut := 140
		// Back off to a rune boundary so the preview stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(message[cut]) {
			cut--
		}
		message = message[:cut]
	}
	actionURL := "/dashboard/comments"
	for _, admin := range admins {
		n := domain.Notification{
			ID:         uuid.New(),
			Recipient:  admin,
			Kind:       "comment_submitted",
			Title:      fmt.Sprintf("New comment from %s", comment.GuestName),
			Message:    &message,
			TargetKind: &comment.TargetKind,
			TargetID:   &comment.TargetID,
			ActionURL:  &actionURL,
			CreatedAt:  time.Now().UTC(),
		}
		stored, err := s.notifs.InsertNotification(ctx, n)
		if err != nil {
			s.log.Warn().Err(err).Str("recipient", admin).Msg("engagement: comment notification insert failed")
			continue
		}
		if err := s.broker.PublishNotification(ctx, admin, stored); err != nil {
			s.log.Warn().Err(err).Str("recipient", admin).Msg("engagement: comment notification publish failed")
		}
		if count, err := s.notifs.UnreadCount(ctx, admin); err == nil {
			if err := s.broker.PublishUnreadCount(ctx, admin, count); err != nil {
				s.log.Warn().Err(err).Str("recipient", admin).Msg("engagement: unread count publish failed")
			}
		}
	}
}

// ListComments returns approved comments with approved replies.
func (s *Service) ListComments(ctx context.Context, kind domain.TargetKind, id uuid.UUID, limit, offset int) ([]domain.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.comments.ListApproved(ctx, kind, id, limit, offset)
}

// ListForModeration returns comments in one moderation state.
func (s *Service) ListForModeration(ctx context.Context, status domain.CommentStatus, limit, offset int) ([]domain.Comment, int64, error) {
	if !status.Valid() {
		return nil, 0, domain.ValidationError("unknown comment status")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.comments.ListByStatus(ctx, status, limit, offset)
}

// Moderate moves a comment to approved, spam or rejected.
func (s *Service) Moderate(ctx context.Context, id uuid.UUID, status domain.CommentStatus) error {
	if status != domain.CommentApproved && status != domain.CommentSpam && status != domain.CommentRejected {
		return domain.ValidationError("invalid moderation state")
	}
	return s.comments.UpdateCommentStatus(ctx, id, status)
}

// DeleteComment removes a comment and its replies.
func (s *Service) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return s.comments.DeleteCommentTree(ctx, id)
}

// AggregateDaily rolls yesterday's raw views into view_aggregates.
// Idempotent; safe to re-run.
func (s *Service) AggregateDaily(ctx context.Context) (int64, error) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	rows, err := s.views.AggregateDay(ctx, yesterday)
	if err != nil {
		return 0, fmt.Errorf("aggregate views: %w", err)
	}
	s.log.Info().Int64("targets", rows).Msg("engagement: daily view aggregation done")
	return rows, nil
}

// PruneRawViews deletes raw view rows past the retention window.
// Aggregates are kept. The floor guards against configuration mistakes
// deleting rows the dedup window still needs.
func (s *Service) PruneRawViews(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < minRetentionDays {
		retentionDays = minRetentionDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	rows, err := s.views.PruneBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune views: %w", err)
	}
	s.log.Info().Int64("rows", rows).Msg("engagement: raw views pruned")
	return rows, nil
}
