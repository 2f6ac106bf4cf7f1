package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	QueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Database query latency by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table", "status"})

	ViewsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_views_recorded_total",
		Help: "View-recording outcomes",
	}, []string{"outcome"})

	LikesToggled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_likes_toggled_total",
		Help: "Like toggles by direction",
	}, []string{"direction"})

	CommentsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engagement_comments_submitted_total",
		Help: "Guest comments accepted into moderation",
	})

	ImageProcessSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "media_image_process_seconds",
		Help:    "Full transcode pipeline duration per upload",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
	})

	OrphansReclaimed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "media_orphans_reclaimed_total",
		Help: "Orphaned media rows deleted by the reclaimer",
	})

	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limited_total",
		Help: "Requests rejected with 429 by tier",
	}, []string{"tier"})

	SSESubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sse_subscribers",
		Help: "Connected notification stream clients",
	})
)

// MustRegister registers all collectors.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		HTTPRequestDuration,
		QueryDuration,
		ViewsRecorded,
		LikesToggled,
		CommentsSubmitted,
		ImageProcessSeconds,
		OrphansReclaimed,
		RateLimited,
		SSESubscribers,
	)
}

// ObserveQuery records one database call.
func ObserveQuery(operation, table string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	QueryDuration.WithLabelValues(operation, table, status).Observe(time.Since(start).Seconds())
}
