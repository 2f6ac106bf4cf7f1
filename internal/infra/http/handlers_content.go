package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/usecase/content"
)

func listFilterFrom(r *http.Request) domain.ListFilter {
	q := r.URL.Query()
	f := domain.ListFilter{
		Limit:  queryInt(r, "limit", 20),
		Offset: queryInt(r, "offset", 0),
	}
	if s := domain.ContentStatus(q.Get("status")); s.Valid() {
		f.Status = &s
	}
	switch q.Get("featured") {
	case "true":
		v := true
		f.Featured = &v
	case "false":
		v := false
		f.Featured = &v
	}
	if id, err := uuid.Parse(q.Get("region_id")); err == nil {
		f.RegionID = &id
	}
	if t := domain.PostType(q.Get("type")); t.Valid() {
		f.PostType = &t
	}
	if tag := q.Get("tag"); tag != "" {
		f.Tag = &tag
	}
	return f
}

// Posts

type createPostRequest struct {
	Title            string          `json:"title"`
	PostType         string          `json:"post_type"`
	ShortDescription *string         `json:"short_description"`
	Content          json.RawMessage `json:"content"`
	CoverImage       *string         `json:"cover_image"`
	RegionID         *uuid.UUID      `json:"region_id"`
	EventDate        *time.Time      `json:"event_date"`
	EventEndDate     *time.Time      `json:"event_end_date"`
	IsFeatured       bool            `json:"is_featured"`
	DisplayOrder     *int32          `json:"display_order"`
	Tags             []string        `json:"tags"`
}

func (a *API) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	post, err := a.Content.CreatePost(r.Context(), UserFrom(r.Context()), content.CreatePostParams{
		Title:            req.Title,
		PostType:         domain.PostType(req.PostType),
		ShortDescription: req.ShortDescription,
		Content:          req.Content,
		CoverImage:       req.CoverImage,
		RegionID:         req.RegionID,
		EventDate:        req.EventDate,
		EventEndDate:     req.EventEndDate,
		IsFeatured:       req.IsFeatured,
		DisplayOrder:     req.DisplayOrder,
		Tags:             req.Tags,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

func (a *API) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, total, err := a.Content.ListPosts(r.Context(), UserFrom(r.Context()), listFilterFrom(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, pagedResponse{Items: toPostResponses(posts), Total: total})
}

func (a *API) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.Content.GetPostBySlug(r.Context(), UserFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPostResponse(post))
}

type updatePostRequest struct {
	Title            domain.Opt[string]          `json:"title"`
	ShortDescription domain.Opt[string]          `json:"short_description"`
	Content          domain.Opt[json.RawMessage] `json:"content"`
	CoverImage       domain.Opt[string]          `json:"cover_image"`
	RegionID         domain.Opt[uuid.UUID]       `json:"region_id"`
	EventDate        domain.Opt[time.Time]       `json:"event_date"`
	EventEndDate     domain.Opt[time.Time]       `json:"event_end_date"`
	IsFeatured       domain.Opt[bool]            `json:"is_featured"`
	DisplayOrder     domain.Opt[int32]           `json:"display_order"`
	Tags             domain.Opt[[]string]        `json:"tags"`
}

func (a *API) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req updatePostRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	post, err := a.Content.UpdatePost(r.Context(), UserFrom(r.Context()), id, domain.UpdatePostParams{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Content:          req.Content,
		CoverImage:       req.CoverImage,
		RegionID:         req.RegionID,
		EventDate:        req.EventDate,
		EventEndDate:     req.EventEndDate,
		IsFeatured:       req.IsFeatured,
		DisplayOrder:     req.DisplayOrder,
		Tags:             req.Tags,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPostResponse(post))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) handleSetPostStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req setStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	post, err := a.Content.SetPostStatus(r.Context(), UserFrom(r.Context()), id, domain.ContentStatus(req.Status))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPostResponse(post))
}

func (a *API) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.DeletePost)
}

func (a *API) handleRestorePost(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.RestorePost)
}

func (a *API) handleHardDeletePost(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.HardDeletePost)
}

// contentDelete factors the shared id-parse-then-act shape of the
// delete, restore and hard-delete handlers.
func (a *API) contentDelete(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor *domain.AuthenticatedUser, id uuid.UUID) error) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := op(r.Context(), UserFrom(r.Context()), id); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Hotels

type branchRequest struct {
	Name      string   `json:"name"`
	Address   *string  `json:"address"`
	Phone     *string  `json:"phone"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func toBranches(reqs []branchRequest) []domain.HotelBranch {
	out := make([]domain.HotelBranch, len(reqs))
	for i, b := range reqs {
		out[i] = domain.HotelBranch{
			Name:      b.Name,
			Address:   b.Address,
			Phone:     b.Phone,
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
		}
	}
	return out
}

type createHotelRequest struct {
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	CoverImage   *string         `json:"cover_image"`
	Gallery      json.RawMessage `json:"gallery"`
	RegionID     *uuid.UUID      `json:"region_id"`
	IsFeatured   bool            `json:"is_featured"`
	DisplayOrder *int32          `json:"display_order"`
	Branches     []branchRequest `json:"branches"`
}

func (a *API) handleCreateHotel(w http.ResponseWriter, r *http.Request) {
	var req createHotelRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	hotel, err := a.Content.CreateHotel(r.Context(), UserFrom(r.Context()), content.CreateHotelParams{
		Name:         req.Name,
		Description:  req.Description,
		CoverImage:   req.CoverImage,
		Gallery:      req.Gallery,
		RegionID:     req.RegionID,
		IsFeatured:   req.IsFeatured,
		DisplayOrder: req.DisplayOrder,
		Branches:     toBranches(req.Branches),
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toHotelResponse(hotel))
}

func (a *API) handleListHotels(w http.ResponseWriter, r *http.Request) {
	hotels, total, err := a.Content.ListHotels(r.Context(), UserFrom(r.Context()), listFilterFrom(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, pagedResponse{Items: toHotelResponses(hotels), Total: total})
}

func (a *API) handleGetHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := a.Content.GetHotelBySlug(r.Context(), UserFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toHotelResponse(hotel))
}

type updateHotelRequest struct {
	Name         domain.Opt[string]          `json:"name"`
	Description  domain.Opt[string]          `json:"description"`
	CoverImage   domain.Opt[string]          `json:"cover_image"`
	Gallery      domain.Opt[json.RawMessage] `json:"gallery"`
	RegionID     domain.Opt[uuid.UUID]       `json:"region_id"`
	IsFeatured   domain.Opt[bool]            `json:"is_featured"`
	DisplayOrder domain.Opt[int32]           `json:"display_order"`
}

func (a *API) handleUpdateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req updateHotelRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	hotel, err := a.Content.UpdateHotel(r.Context(), UserFrom(r.Context()), id, domain.UpdateHotelParams{
		Name:         req.Name,
		Description:  req.Description,
		CoverImage:   req.CoverImage,
		Gallery:      req.Gallery,
		RegionID:     req.RegionID,
		IsFeatured:   req.IsFeatured,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toHotelResponse(hotel))
}

func (a *API) handleSetBranches(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var reqs []branchRequest
	if err := DecodeJSON(r, &reqs); err != nil {
		WriteError(w, r, err)
		return
	}
	branches, err := a.Content.SetHotelBranches(r.Context(), UserFrom(r.Context()), id, toBranches(reqs))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]branchResponse, len(branches))
	for i, b := range branches {
		out[i] = branchResponse{
			ID: b.ID, Name: b.Name, Address: b.Address, Phone: b.Phone,
			Latitude: b.Latitude, Longitude: b.Longitude, SortOrder: b.SortOrder,
		}
	}
	WriteJSON(w, http.StatusOK, out)
}

func (a *API) handleSetHotelStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req setStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	hotel, err := a.Content.SetHotelStatus(r.Context(), UserFrom(r.Context()), id, domain.ContentStatus(req.Status))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toHotelResponse(hotel))
}

func (a *API) handleDeleteHotel(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.DeleteHotel)
}

func (a *API) handleRestoreHotel(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.RestoreHotel)
}

func (a *API) handleHardDeleteHotel(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.HardDeleteHotel)
}

// Videos

type createVideoRequest struct {
	Title        string  `json:"title"`
	Platform     string  `json:"platform"`
	VideoURL     string  `json:"video_url"`
	VideoID      string  `json:"video_id"`
	Thumbnail    *string `json:"thumbnail"`
	Description  *string `json:"description"`
	IsFeatured   bool    `json:"is_featured"`
	DisplayOrder *int32  `json:"display_order"`
}

func (a *API) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	var req createVideoRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	video, err := a.Content.CreateVideo(r.Context(), UserFrom(r.Context()), content.CreateVideoParams{
		Title:        req.Title,
		Platform:     req.Platform,
		VideoURL:     req.VideoURL,
		VideoID:      req.VideoID,
		Thumbnail:    req.Thumbnail,
		Description:  req.Description,
		IsFeatured:   req.IsFeatured,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toVideoResponse(video))
}

func (a *API) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, total, err := a.Content.ListVideos(r.Context(), UserFrom(r.Context()), listFilterFrom(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, pagedResponse{Items: toVideoResponses(videos), Total: total})
}

func (a *API) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := a.Content.GetVideoBySlug(r.Context(), UserFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toVideoResponse(video))
}

type updateVideoRequest struct {
	Title        domain.Opt[string] `json:"title"`
	Platform     domain.Opt[string] `json:"platform"`
	VideoURL     domain.Opt[string] `json:"video_url"`
	VideoID      domain.Opt[string] `json:"video_id"`
	Thumbnail    domain.Opt[string] `json:"thumbnail"`
	Description  domain.Opt[string] `json:"description"`
	IsFeatured   domain.Opt[bool]   `json:"is_featured"`
	DisplayOrder domain.Opt[int32]  `json:"display_order"`
}

func (a *API) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req updateVideoRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	video, err := a.Content.UpdateVideo(r.Context(), UserFrom(r.Context()), id, domain.UpdateVideoParams{
		Title:        req.Title,
		Platform:     req.Platform,
		VideoURL:     req.VideoURL,
		VideoID:      req.VideoID,
		Thumbnail:    req.Thumbnail,
		Description:  req.Description,
		IsFeatured:   req.IsFeatured,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toVideoResponse(video))
}

func (a *API) handleSetVideoStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req setStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	video, err := a.Content.SetVideoStatus(r.Context(), UserFrom(r.Context()), id, domain.ContentStatus(req.Status))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toVideoResponse(video))
}

func (a *API) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.DeleteVideo)
}

func (a *API) handleRestoreVideo(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.RestoreVideo)
}

func (a *API) handleHardDeleteVideo(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.HardDeleteVideo)
}

// Photo features

type photoImageRequest struct {
	ImageURL string  `json:"image_url"`
	Caption  *string `json:"caption"`
}

func toPhotoImages(reqs []photoImageRequest) []domain.PhotoImage {
	out := make([]domain.PhotoImage, len(reqs))
	for i, img := range reqs {
		out[i] = domain.PhotoImage{ImageURL: img.ImageURL, Caption: img.Caption}
	}
	return out
}

type createPhotoFeatureRequest struct {
	Title        string              `json:"title"`
	Description  *string             `json:"description"`
	CoverImage   *string             `json:"cover_image"`
	IsFeatured   bool                `json:"is_featured"`
	DisplayOrder *int32              `json:"display_order"`
	Images       []photoImageRequest `json:"images"`
}

func (a *API) handleCreatePhotoFeature(w http.ResponseWriter, r *http.Request) {
	var req createPhotoFeatureRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	feature, err := a.Content.CreatePhotoFeature(r.Context(), UserFrom(r.Context()), content.CreatePhotoFeatureParams{
		Title:        req.Title,
		Description:  req.Description,
		CoverImage:   req.CoverImage,
		IsFeatured:   req.IsFeatured,
		DisplayOrder: req.DisplayOrder,
		Images:       toPhotoImages(req.Images),
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toPhotoFeatureResponse(feature))
}

func (a *API) handleListPhotoFeatures(w http.ResponseWriter, r *http.Request) {
	features, total, err := a.Content.ListPhotoFeatures(r.Context(), UserFrom(r.Context()), listFilterFrom(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, pagedResponse{Items: toPhotoFeatureResponses(features), Total: total})
}

func (a *API) handleGetPhotoFeature(w http.ResponseWriter, r *http.Request) {
	feature, err := a.Content.GetPhotoFeatureBySlug(r.Context(), UserFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPhotoFeatureResponse(feature))
}

type updatePhotoFeatureRequest struct {
	Title        domain.Opt[string] `json:"title"`
	Description  domain.Opt[string] `json:"description"`
	CoverImage   domain.Opt[string] `json:"cover_image"`
	IsFeatured   domain.Opt[bool]   `json:"is_featured"`
	DisplayOrder domain.Opt[int32]  `json:"display_order"`
}

func (a *API) handleUpdatePhotoFeature(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req updatePhotoFeatureRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	feature, err := a.Content.UpdatePhotoFeature(r.Context(), UserFrom(r.Context()), id, domain.UpdatePhotoFeatureParams{
		Title:        req.Title,
		Description:  req.Description,
		CoverImage:   req.CoverImage,
		IsFeatured:   req.IsFeatured,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPhotoFeatureResponse(feature))
}

func (a *API) handleSetPhotoImages(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var reqs []photoImageRequest
	if err := DecodeJSON(r, &reqs); err != nil {
		WriteError(w, r, err)
		return
	}
	images, err := a.Content.SetPhotoImages(r.Context(), UserFrom(r.Context()), id, toPhotoImages(reqs))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	out := make([]photoImageResponse, len(images))
	for i, img := range images {
		out[i] = photoImageResponse{ID: img.ID, ImageURL: img.ImageURL, Caption: img.Caption, SortOrder: img.SortOrder}
	}
	WriteJSON(w, http.StatusOK, out)
}

func (a *API) handleSetPhotoFeatureStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req setStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	feature, err := a.Content.SetPhotoFeatureStatus(r.Context(), UserFrom(r.Context()), id, domain.ContentStatus(req.Status))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPhotoFeatureResponse(feature))
}

func (a *API) handleDeletePhotoFeature(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.DeletePhotoFeature)
}

func (a *API) handleRestorePhotoFeature(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.RestorePhotoFeature)
}

func (a *API) handleHardDeletePhotoFeature(w http.ResponseWriter, r *http.Request) {
	a.contentDelete(w, r, a.Content.HardDeletePhotoFeature)
}
