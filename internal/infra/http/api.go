package http

import (
	"context"
	"net"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"paayo-backend/internal/domain"
	"paayo-backend/internal/usecase/content"
	"paayo-backend/internal/usecase/engagement"
	"paayo-backend/internal/usecase/media"
	"paayo-backend/internal/usecase/notify"
)

// API binds the usecase layer to routes. Tier limiters are applied per
// route group: engagement endpoints key on the device, writes and
// uploads on the authenticated user.
type API struct {
	Content    *content.Service
	Engagement *engagement.Service
	Media      *media.Service
	Reclaimer  *media.Reclaimer
	Notify     *notify.Service
	Users      domain.UserRepo
	Hasher     engagement.Hasher

	EngagementLimiter *TierLimiter
	WriteLimiter      *TierLimiter
	UploadLimiter     *TierLimiter

	UploadDir string
	PingDB    func(ctx context.Context) error
	PingRedis func(ctx context.Context) error
}

// Routes mounts the whole API surface onto r.
func (a *API) Routes(r chi.Router) {
	r.Get("/api/health", a.handleHealth)
	r.Get("/api/auth/me", a.handleMe)

	// Public reads.
	r.Get("/api/posts", a.handleListPosts)
	r.Get("/api/posts/{slug}", a.handleGetPost)
	r.Get("/api/hotels", a.handleListHotels)
	r.Get("/api/hotels/{slug}", a.handleGetHotel)
	r.Get("/api/videos", a.handleListVideos)
	r.Get("/api/videos/{slug}", a.handleGetVideo)
	r.Get("/api/photo-features", a.handleListPhotoFeatures)
	r.Get("/api/photo-features/{slug}", a.handleGetPhotoFeature)
	r.Get("/api/regions", a.handleListRegions)
	r.Get("/api/regions/{slug}", a.handleGetRegion)
	r.Get("/api/hero-slides", a.handleListHeroSlides)
	r.Get("/api/tags", a.handleListTags)
	r.Get("/api/search", a.handleSearch)
	r.Get("/api/content/{kind}/{id}/like-status", a.handleLikeStatus)
	r.Get("/api/content/{kind}/{id}/comments", a.handleListComments)

	// Anonymous engagement writes, limited per device.
	r.Group(func(r chi.Router) {
		if a.EngagementLimiter != nil {
			r.Use(a.EngagementLimiter.Middleware(ScopeDevice))
		}
		r.Post("/api/views", a.handleRecordView)
		r.Post("/api/content/{kind}/{id}/like", a.handleToggleLike)
		r.Post("/api/comments", a.handleSubmitComment)
	})

	// Staff writes, limited per user.
	r.Group(func(r chi.Router) {
		r.Use(RequireActiveEditor)
		if a.WriteLimiter != nil {
			r.Use(a.WriteLimiter.Middleware(ScopeUser))
		}

		r.Post("/api/posts", a.handleCreatePost)
		r.Put("/api/posts/{id}", a.handleUpdatePost)
		r.Patch("/api/posts/{id}/status", a.handleSetPostStatus)
		r.Delete("/api/posts/{id}", a.handleDeletePost)

		r.Post("/api/hotels", a.handleCreateHotel)
		r.Put("/api/hotels/{id}", a.handleUpdateHotel)
		r.Put("/api/hotels/{id}/branches", a.handleSetBranches)
		r.Patch("/api/hotels/{id}/status", a.handleSetHotelStatus)
		r.Delete("/api/hotels/{id}", a.handleDeleteHotel)

		r.Post("/api/videos", a.handleCreateVideo)
		r.Put("/api/videos/{id}", a.handleUpdateVideo)
		r.Patch("/api/videos/{id}/status", a.handleSetVideoStatus)
		r.Delete("/api/videos/{id}", a.handleDeleteVideo)

		r.Post("/api/photo-features", a.handleCreatePhotoFeature)
		r.Put("/api/photo-features/{id}", a.handleUpdatePhotoFeature)
		r.Put("/api/photo-features/{id}/images", a.handleSetPhotoImages)
		r.Patch("/api/photo-features/{id}/status", a.handleSetPhotoFeatureStatus)
		r.Delete("/api/photo-features/{id}", a.handleDeletePhotoFeature)

		r.Post("/api/hero-slides", a.handleCreateHeroSlide)
		r.Put("/api/hero-slides/{id}", a.handleUpdateHeroSlide)
		r.Delete("/api/hero-slides/{id}", a.handleDeleteHeroSlide)

		r.Get("/api/media", a.handleListMedia)
		r.Delete("/api/media", a.handleDeleteMedia)
	})

	// Uploads get their own tighter tier.
	r.Group(func(r chi.Router) {
		r.Use(RequireActiveEditor)
		if a.UploadLimiter != nil {
			r.Use(a.UploadLimiter.Middleware(ScopeUser))
		}
		r.Post("/api/media", a.handleUploadMedia)
	})

	// Notifications for any signed-in staff account.
	r.Group(func(r chi.Router) {
		r.Use(RequireEditor)
		r.Get("/api/notifications", a.handleListNotifications)
		r.Get("/api/notifications/unread-count", a.handleUnreadCount)
		r.Post("/api/notifications/{id}/read", a.handleMarkRead)
		r.Post("/api/notifications/read-all", a.handleMarkAllRead)
		r.Get("/api/notifications/stream", a.handleNotificationStream)
	})

	// Admin-only surface.
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin)

		r.Get("/api/admin/comments", a.handleModerationList)
		r.Patch("/api/admin/comments/{id}", a.handleModerateComment)
		r.Delete("/api/admin/comments/{id}", a.handleDeleteComment)

		r.Post("/api/posts/{id}/restore", a.handleRestorePost)
		r.Delete("/api/posts/{id}/permanent", a.handleHardDeletePost)
		r.Post("/api/hotels/{id}/restore", a.handleRestoreHotel)
		r.Delete("/api/hotels/{id}/permanent", a.handleHardDeleteHotel)
		r.Post("/api/videos/{id}/restore", a.handleRestoreVideo)
		r.Delete("/api/videos/{id}/permanent", a.handleHardDeleteVideo)
		r.Post("/api/photo-features/{id}/restore", a.handleRestorePhotoFeature)
		r.Delete("/api/photo-features/{id}/permanent", a.handleHardDeletePhotoFeature)

		r.Post("/api/regions", a.handleCreateRegion)
		r.Put("/api/regions/{slug}", a.handleUpdateRegion)
		r.Delete("/api/regions/{id}", a.handleDeleteRegion)
		r.Post("/api/regions/{id}/restore", a.handleRestoreRegion)
		r.Delete("/api/tags/{id}", a.handleDeleteTag)

		r.Post("/api/media/cleanup", a.handleMediaCleanup)

		r.Get("/api/users", a.handleListUsers)
		r.Patch("/api/users/{id}/active", a.handleSetUserActive)
		r.Patch("/api/users/{id}/ban", a.handleSetUserBanned)
	})

	// Processed artifacts are immutable; the cache policy table gives
	// this prefix a year.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(a.UploadDir))))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.ValidationError("invalid " + name)
	}
	return id, nil
}

func targetParams(r *http.Request) (domain.TargetKind, uuid.UUID, error) {
	kind, ok := domain.ParseTargetKind(chi.URLParam(r, "kind"))
	if !ok {
		return "", uuid.Nil, domain.ValidationError("unknown content kind")
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		return "", uuid.Nil, err
	}
	return kind, id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
