package recommendation

// Path identifies which strategy produced a recommendation.
type Path string

const (
	// Primary is the nearest-neighbor path.
	Primary Path = "primary"
	// Fallback is the artist filter + popularity sort path.
	Fallback Path = "fallback"
)

// IsValid reports whether p is a known path.
func (p Path) IsValid() bool {
	return p == Primary || p == Fallback
}

// PathFor maps the boolean fallback switch to a Path.
func PathFor(useFallback bool) Path {
	if useFallback {
		return Fallback
	}
	return Primary
}

// Recommendation is a single recommended track.
// Distance is the Euclidean distance from the seed on the primary path and zero on the fallback path.
type Recommendation struct {
	ID       string  `json:"id"`
	Distance float64 `json:"distance"`
	Path     Path    `json:"path"`
}

// IDs extracts the identifiers in order.
func IDs(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
