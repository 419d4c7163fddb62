package chi

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeTrackNotFound    ErrorCode = "track_not_found"
	ErrorCodeCatalogEmpty     ErrorCode = "catalog_empty"
	ErrorCodeIndexUnavailable ErrorCode = "index_unavailable"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// TrackResponse is catalog metadata for one track.
type TrackResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Artists     string             `json:"artists"`
	ReleaseDate string             `json:"release_date,omitempty"`
	Features    map[string]float64 `json:"features,omitempty"`
}

// TrackListResponse wraps title search results.
type TrackListResponse struct {
	Items []TrackResponse `json:"items"`
}

// RecommendedTrack is one ranked recommendation.
// Distance is omitted on the fallback path.
type RecommendedTrack struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Artists  string   `json:"artists"`
	Distance *float64 `json:"distance,omitempty"`
}

// RecommendationsResponse is the answer for one seed.
type RecommendationsResponse struct {
	Seed  string             `json:"seed"`
	Path  string             `json:"path"`
	K     int                `json:"k"`
	Items []RecommendedTrack `json:"items"`
}

// BatchRequest is the body of POST /api/v1/recommendations/batch.
type BatchRequest struct {
	Seeds    []string `json:"seeds"`
	K        *int     `json:"k,omitempty"`
	Fallback bool     `json:"fallback"`
}

// BatchResponse lists per-seed answers in request order.
type BatchResponse struct {
	Results []RecommendationsResponse `json:"results"`
}

// HealthResponse reports component status.
type HealthResponse struct {
	Status string            `json:"status"`
	Tracks int               `json:"tracks"`
	Checks map[string]string `json:"checks"`
}
