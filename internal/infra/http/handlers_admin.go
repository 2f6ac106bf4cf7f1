package http

import (
	"context"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"paayo-backend/internal/domain"
)

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user == nil {
		WriteError(w, r, domain.ErrUnauthorized)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, total, err := a.Users.ListUsers(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	WriteJSON(w, http.StatusOK, pagedResponse{Items: out, Total: total})
}

type setUserFlagRequest struct {
	Value bool `json:"value"`
}

func (a *API) handleSetUserActive(w http.ResponseWriter, r *http.Request) {
	var req setUserFlagRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := a.Users.SetUserActive(r.Context(), chi.URLParam(r, "id"), req.Value); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSetUserBanned(w http.ResponseWriter, r *http.Request) {
	var req setUserFlagRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if actor := UserFrom(r.Context()); actor != nil && actor.ID == id && req.Value {
		WriteError(w, r, domain.ValidationError("cannot ban yourself"))
		return
	}
	if err := a.Users.SetUserBanned(r.Context(), id, req.Value); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	status := http.StatusOK

	if err := a.PingDB(ctx); err != nil {
		checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["postgres"] = "ok"
	}
	if err := a.PingRedis(ctx); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["redis"] = "ok"
	}

	body := healthResponse{Status: "ok", Checks: checks}
	if status != http.StatusOK {
		body.Status = "degraded"
	}
	WriteJSON(w, status, body)
}
