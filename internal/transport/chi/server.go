// Package chi exposes the recommendation service over HTTP.
package chi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tracksim/internal/domain"
	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
	"github.com/kailas-cloud/tracksim/internal/domain/track"
	"github.com/kailas-cloud/tracksim/internal/metrics"
	healthuc "github.com/kailas-cloud/tracksim/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/tracksim/internal/usecase/recommend"
)

// Query limits used when none are configured.
const (
	DefaultK = 10
	MaxK     = 100
)

const maxBodyBytes = 1 << 20

// Server serves the tracksim HTTP API.
type Server struct {
	recommend     *recommenduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	defaultK      int
	maxK          int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(recommend *recommenduc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{
		recommend:     recommend,
		health:        health,
		logger:        logger,
		defaultK:      DefaultK,
		maxK:          MaxK,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithLimits overrides the default and maximum k. Non-positive values keep defaults.
func (s *Server) WithLimits(defaultK, maxK int) *Server {
	if defaultK > 0 {
		s.defaultK = defaultK
	}
	if maxK > 0 {
		s.maxK = maxK
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tracks", s.FindTracks)
		r.Get("/tracks/{id}", s.GetTrack)
		r.Get("/tracks/{id}/recommendations", s.GetRecommendations)
		r.Post("/recommendations/batch", s.BatchRecommendations)
	})
}

// GetTrack handles GET /api/v1/tracks/{id}.
func (s *Server) GetTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bindTrackID(w, r)
	if !ok {
		return
	}

	t, err := s.recommend.Track(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := trackToResponse(&t)
	resp.Features = featureMap(t.Features())
	writeJSON(w, http.StatusOK, resp)
}

// FindTracks handles GET /api/v1/tracks?title=.
func (s *Server) FindTracks(w http.ResponseWriter, r *http.Request) {
	var title string
	if err := runtime.BindQueryParameter("form", true, true, "title", r.URL.Query(), &title); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	tracks, err := s.recommend.FindByTitle(title)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]TrackResponse, len(tracks))
	for i := range tracks {
		items[i] = trackToResponse(&tracks[i])
	}
	writeJSON(w, http.StatusOK, TrackListResponse{Items: items})
}

// GetRecommendations handles GET /api/v1/tracks/{id}/recommendations.
func (s *Server) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bindTrackID(w, r)
	if !ok {
		return
	}

	var (
		k        *int
		fallback *bool
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "k", q, &k); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "fallback", q, &fallback); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	kv, err := s.resolveK(k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	useFallback := fallback != nil && *fallback

	recs, err := s.query(r, id, kv, useFallback)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.toResponse(id, kv, recommendation.PathFor(useFallback), recs))
}

// BatchRecommendations handles POST /api/v1/recommendations/batch.
func (s *Server) BatchRecommendations(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	k, err := s.resolveK(req.K)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	path := recommendation.PathFor(req.Fallback)

	start := time.Now()
	items, err := s.recommend.RecommendBatch(r.Context(), req.Seeds, k, req.Fallback)
	observe(path, start, err)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := BatchResponse{Results: make([]RecommendationsResponse, len(items))}
	for i, item := range items {
		resp.Results[i] = s.toResponse(item.SeedID, k, path, item.Recommendations)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Tracks: report.Tracks,
		Checks: checks,
	})
}

func (s *Server) bindTrackID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
		return "", false
	}
	return id, true
}

// resolveK applies the default and rejects values above the configured maximum.
// Non-positive values pass through so the service reports them.
func (s *Server) resolveK(k *int) (int, error) {
	if k == nil {
		return s.defaultK, nil
	}
	if *k > s.maxK {
		return 0, fmt.Errorf("%w: k must be at most %d, got %d", domain.ErrInvalidArgument, s.maxK, *k)
	}
	return *k, nil
}

func (s *Server) query(r *http.Request, id string, k int, useFallback bool) ([]recommendation.Recommendation, error) {
	start := time.Now()
	var (
		recs []recommendation.Recommendation
		err  error
	)
	if useFallback {
		recs, err = s.recommend.Fallback(r.Context(), id, k)
	} else {
		recs, err = s.recommend.Similar(r.Context(), id, k)
	}
	observe(recommendation.PathFor(useFallback), start, err)
	return recs, err //nolint:wrapcheck // service errors carry their own context
}

func observe(path recommendation.Path, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecommendationsTotal.WithLabelValues(string(path), status).Inc()
	metrics.RecommendationDuration.WithLabelValues(string(path)).Observe(time.Since(start).Seconds())
}

func (s *Server) toResponse(
	seed string, k int, path recommendation.Path, recs []recommendation.Recommendation,
) RecommendationsResponse {
	items := make([]RecommendedTrack, len(recs))
	for i, rec := range recs {
		item := RecommendedTrack{ID: rec.ID}
		if t, err := s.recommend.Track(rec.ID); err == nil {
			item.Name = t.Name()
			item.Artists = t.Artists()
		}
		if rec.Path == recommendation.Primary {
			d := rec.Distance
			item.Distance = &d
		}
		items[i] = item
	}
	return RecommendationsResponse{Seed: seed, Path: string(path), K: k, Items: items}
}

func trackToResponse(t *track.Track) TrackResponse {
	return TrackResponse{
		ID:          t.ID(),
		Name:        t.Name(),
		Artists:     t.Artists(),
		ReleaseDate: t.ReleaseDate(),
	}
}

func featureMap(v track.Vector) map[string]float64 {
	out := make(map[string]float64, track.NumFeatures)
	for _, f := range track.Features() {
		out[f.String()] = v.Get(f)
	}
	return out
}
