package http

import (
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/usecase/content"
)

// Regions

type createRegionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CoverImage  *string `json:"cover_image"`
}

func (a *API) handleCreateRegion(w http.ResponseWriter, r *http.Request) {
	var req createRegionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	region, err := a.Content.CreateRegion(r.Context(), UserFrom(r.Context()), content.CreateRegionParams{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toRegionResponse(region))
}

func (a *API) handleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := a.Content.ListRegions(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]regionResponse, len(regions))
	for i, region := range regions {
		out[i] = toRegionResponse(region)
	}
	WriteJSON(w, http.StatusOK, out)
}

func (a *API) handleGetRegion(w http.ResponseWriter, r *http.Request) {
	region, err := a.Content.GetRegionBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toRegionResponse(region))
}

type updateRegionRequest struct {
	Name        domain.Opt[string] `json:"name"`
	Description domain.Opt[string] `json:"description"`
	CoverImage  domain.Opt[string] `json:"cover_image"`
}

func (a *API) handleUpdateRegion(w http.ResponseWriter, r *http.Request) {
	var req updateRegionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	region, err := a.Content.UpdateRegion(r.Context(), UserFrom(r.Context()), chi.URLParam(r, "slug"), domain.UpdateRegionParams{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toRegionResponse(region))
}

func (a *API) handleDeleteRegion(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.DeleteRegion)
}

func (a *API) handleRestoreRegion(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.RestoreRegion)
}

// Hero slides

type createHeroSlideRequest struct {
	Title     string  `json:"title"`
	Subtitle  *string `json:"subtitle"`
	ImageURL  string  `json:"image_url"`
	LinkURL   *string `json:"link_url"`
	SortOrder int32   `json:"sort_order"`
	IsActive  bool    `json:"is_active"`
}

func (a *API) handleCreateHeroSlide(w http.ResponseWriter, r *http.Request) {
	var req createHeroSlideRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	slide, err := a.Content.CreateHeroSlide(r.Context(), UserFrom(r.Context()), content.CreateHeroSlideParams{
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		ImageURL:  req.ImageURL,
		LinkURL:   req.LinkURL,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toHeroSlideResponse(slide))
}

func (a *API) handleListHeroSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := a.Content.ListHeroSlides(r.Context(), UserFrom(r.Context()))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]heroSlideResponse, len(slides))
	for i, s := range slides {
		out[i] = toHeroSlideResponse(s)
	}
	WriteJSON(w, http.StatusOK, out)
}

type updateHeroSlideRequest struct {
	Title     domain.Opt[string] `json:"title"`
	Subtitle  domain.Opt[string] `json:"subtitle"`
	ImageURL  domain.Opt[string] `json:"image_url"`
	LinkURL   domain.Opt[string] `json:"link_url"`
	SortOrder domain.Opt[int32]  `json:"sort_order"`
	IsActive  domain.Opt[bool]   `json:"is_active"`
}

func (a *API) handleUpdateHeroSlide(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req updateHeroSlideRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	slide, err := a.Content.UpdateHeroSlide(r.Context(), UserFrom(r.Context()), id, domain.UpdateHeroSlideParams{
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		ImageURL:  req.ImageURL,
		LinkURL:   req.LinkURL,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toHeroSlideResponse(slide))
}

func (a *API) handleDeleteHeroSlide(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.DeleteHeroSlide)
}

// Tags

func (a *API) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := a.Content.ListTags(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]tagResponse, len(tags))
	for i, t := range tags {
		out[i] = tagResponse{ID: t.ID, Slug: t.Slug, Name: t.Name}
	}
	WriteJSON(w, http.StatusOK, out)
}

func (a *API) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.DeleteTag)
}

// Search

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var kinds []string
	if raw := q.Get("kind"); raw != "" {
		kinds = strings.Split(raw, ",")
	}
	hits, err := a.Content.Search(r.Context(), q.Get("q"), kinds,
		queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	WriteJSON(w, http.StatusOK, hits)
}
