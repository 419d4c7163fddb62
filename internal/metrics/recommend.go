package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every tracksim metric.
const Namespace = "tracksim"

// Recommendation and index metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation queries by path and outcome",
		},
		[]string{"path", "status"},
	)

	RecommendationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Recommendation query latency in seconds",
			Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"path"},
	)

	IndexBuildSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "index_build_seconds",
			Help:      "Wall time spent building the neighbor index at startup",
		},
	)

	CatalogTracks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_tracks",
			Help:      "Number of tracks in the served catalog snapshot",
		},
	)

	RecCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rec_cache_total",
			Help:      "Recommendation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// Register registers all tracksim collectors with the default registry. Call once from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			RecommendationsTotal,
			RecommendationDuration,
			IndexBuildSeconds,
			CatalogTracks,
			RecCacheTotal,
		)
	})
}
