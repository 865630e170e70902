// Package metrics holds the Prometheus collectors shared by middleware and services.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Partner match outcomes.
const (
	MatchMatched        = "matched"
	MatchNoCandidate    = "no_candidate"
	MatchAlreadyMatched = "already_matched"
	MatchFailed         = "failed"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	AuthRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
	)
	PartnerMatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_matches_total",
			Help: "Partner match attempts by outcome",
		},
		[]string{"result"},
	)
	CheckinsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkins_saved_total",
			Help: "Check-ins created or overwritten",
		},
	)
	LeaderboardCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_cache_requests_total",
			Help: "Weekly leaderboard cache lookups by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuthRejections,
			RateLimited,
			PartnerMatches,
			CheckinsSaved,
			LeaderboardCache,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
