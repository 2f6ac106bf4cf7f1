package http

import (
	"net/http"

	"github.com/google/uuid"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/usecase/engagement"
)

type recordViewRequest struct {
	TargetType string    `json:"target_type"`
	TargetID   uuid.UUID `json:"target_id"`
	Referrer   *string   `json:"referrer,omitempty"`
}

func (a *API) handleRecordView(w http.ResponseWriter, r *http.Request) {
	var req recordViewRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	kind, ok := domain.ParseTargetKind(req.TargetType)
	if !ok {
		WriteError(w, r, domain.ValidationError("unknown content kind"))
		return
	}
	if req.TargetID == uuid.Nil {
		WriteError(w, r, domain.ValidationError("target_id is required"))
		return
	}

	ip := clientIP(r)
	ua := r.UserAgent()
	fp := a.Hasher.Fingerprint(engagement.TagView, ip, ua)

	res, err := a.Engagement.RecordView(r.Context(), kind, req.TargetID, fp, &ip, &ua, req.Referrer)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (a *API) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	kind, id, err := targetParams(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	ip := clientIP(r)
	fp := a.Hasher.Fingerprint(engagement.TagLike, ip, r.UserAgent())

	res, err := a.Engagement.ToggleLike(r.Context(), kind, id, fp, &ip)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (a *API) handleLikeStatus(w http.ResponseWriter, r *http.Request) {
	kind, id, err := targetParams(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	fp := a.Hasher.Fingerprint(engagement.TagLike, clientIP(r), r.UserAgent())

	res, err := a.Engagement.LikeStatus(r.Context(), kind, id, fp)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (a *API) handleListComments(w http.ResponseWriter, r *http.Request) {
	kind, id, err := targetParams(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	comments, err := a.Engagement.ListComments(r.Context(), kind, id,
		queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]commentResponse, len(comments))
	for i, c := range comments {
		out[i] = toCommentResponse(c)
	}
	WriteJSON(w, http.StatusOK, out)
}

type submitCommentRequest struct {
	TargetType string     `json:"target_type"`
	TargetID   uuid.UUID  `json:"target_id"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	GuestName  string     `json:"guest_name"`
	GuestEmail string     `json:"guest_email"`
	Content    string     `json:"content"`
}

func (a *API) handleSubmitComment(w http.ResponseWriter, r *http.Request) {
	var req submitCommentRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	kind, ok := domain.ParseTargetKind(req.TargetType)
	if !ok {
		WriteError(w, r, domain.ValidationError("unknown content kind"))
		return
	}
	ip := clientIP(r)
	comment, err := a.Engagement.SubmitComment(r.Context(), engagement.SubmitCommentParams{
		TargetKind:  kind,
		TargetID:    req.TargetID,
		ParentID:    req.ParentID,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		Content:     req.Content,
		Fingerprint: a.Hasher.Fingerprint(engagement.TagComment, ip, r.UserAgent()),
		IP:          &ip,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (a *API) handleModerationList(w http.ResponseWriter, r *http.Request) {
	status := domain.CommentStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.CommentPending
	}
	comments, total, err := a.Engagement.ListForModeration(r.Context(), status,
		queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]moderationCommentResponse, len(comments))
	for i, c := range comments {
		out[i] = toModerationCommentResponse(c)
	}
	WriteJSON(w, http.StatusOK, pagedResponse{Items: out, Total: total})
}

type moderateCommentRequest struct {
	Status string `json:"status"`
}

func (a *API) handleModerateComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req moderateCommentRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := a.Engagement.Moderate(r.Context(), id, domain.CommentStatus(req.Status)); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := a.Engagement.DeleteComment(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
