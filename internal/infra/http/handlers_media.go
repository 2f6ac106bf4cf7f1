package http

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"paayo-backend/internal/domain"
)

// Multipart memory cap: ~20 MiB image payload plus form overhead.
const maxUploadBytes = 22 << 20

func (a *API) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, r, domain.ValidationError("upload too large or malformed"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, r, domain.ValidationError("file field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, r, domain.ValidationError("could not read upload"))
		return
	}

	stored, err := a.Media.Upload(r.Context(), UserFrom(r.Context()), header.Filename, data)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toMediaResponse(stored))
}

func (a *API) handleListMedia(w http.ResponseWriter, r *http.Request) {
	items, total, err := a.Media.ListMedia(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]mediaResponse, len(items))
	for i, m := range items {
		out[i] = toMediaResponse(m)
	}
	WriteJSON(w, http.StatusOK, pagedResponse{Items: out, Total: total})
}

type deleteMediaRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (a *API) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	var req deleteMediaRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	deleted, err := a.Media.DeleteMedia(r.Context(), req.IDs)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (a *API) handleMediaCleanup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dryRun := q.Get("dry_run") == "true"
	grace := time.Duration(queryInt(r, "grace_hours", 24)) * time.Hour

	report, err := a.Reclaimer.Run(r.Context(), dryRun, grace)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}
