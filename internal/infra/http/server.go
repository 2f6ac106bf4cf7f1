package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"paayo-backend/internal/domain"
)

// Options configures the outermost middleware chain.
type Options struct {
	Origins         []string
	APILimiter      *TierLimiter
	CSRFInsecureDev bool
	Sessions        domain.SessionRepo
}

// Server wraps chi.Router with the fixed cross-cutting chain.
type Server struct {
	Router chi.Router
	log    zerolog.Logger
	srv    *http.Server
}

// NewServer builds the router with the middleware stack in its fixed
// outermost-first order: CORS, compression, tracing, request-id, blanket
// rate limit, CSRF, optional session, cache-control.
func NewServer(logger zerolog.Logger, opts Options) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token", "X-Device-Id", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Compress(5))
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(RequestID)
	r.Use(chimiddleware.Recoverer)
	if opts.APILimiter != nil {
		r.Use(opts.APILimiter.Middleware(ScopeIP))
	}
	r.Use(CSRF(opts.CSRFInsecureDev))
	if opts.Sessions != nil {
		r.Use(OptionalSession(opts.Sessions))
	}
	r.Use(CacheControl)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return &Server{Router: r, log: logger}
}

// Start runs the HTTP server until Shutdown.
func (s *Server) Start(port int) error {
	s.srv = &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     s.Router,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: the notification stream holds connections open.
		IdleTimeout: 120 * time.Second,
	}
	s.log.Info().Str("addr", s.srv.Addr).Msg("http: server started")
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
