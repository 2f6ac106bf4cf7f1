package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"paayo-backend/internal/domain"
)

// Comment frames keep intermediaries from timing out the stream between
// real events.
const sseKeepaliveInterval = 15 * time.Second

func (a *API) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	items, err := a.Notify.List(r.Context(), user.ID,
		r.URL.Query().Get("unread") == "true",
		queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Notification{}
	}
	WriteJSON(w, http.StatusOK, items)
}

func (a *API) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	count, err := a.Notify.UnreadCount(r.Context(), user.ID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (a *API) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	user := UserFrom(r.Context())
	if err := a.Notify.MarkRead(r.Context(), user.ID, id); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if err := a.Notify.MarkAllRead(r.Context(), user.ID); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNotificationStream serves the SSE feed. The session merges
// broker pushes with the poll fallback; this handler only frames and
// flushes.
func (a *API) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, domain.ValidationError("streaming unsupported"))
		return
	}
	user := UserFrom(r.Context())

	session, err := a.Notify.OpenStream(r.Context(), user.ID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	defer session.Close()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-store")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case ev, ok := <-session.Events():
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data); err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("sse: client write failed")
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
