package tracksim

import (
	"github.com/kailas-cloud/tracksim/internal/domain/track"
)

// Features holds the 14 audio attributes of a track.
// Popularity, Tempo and Loudness are raw values; the client normalizes them.
type Features struct {
	Popularity       float64
	DurationMS       float64
	Explicit         float64
	Danceability     float64
	Energy           float64
	Key              float64
	Loudness         float64
	Mode             float64
	Speechiness      float64
	Acousticness     float64
	Instrumentalness float64
	Liveness         float64
	Valence          float64
	Tempo            float64
}

// Track is catalog metadata plus raw features.
type Track struct {
	ID          string
	Name        string
	Artists     string
	ReleaseDate string
	Features    Features
}

// Recommendation is one ranked result. Distance is zero on the fallback path.
type Recommendation struct {
	ID       string
	Name     string
	Artists  string
	Distance float64
	Fallback bool
}

// BatchResult holds the recommendations for one seed of a batch.
type BatchResult struct {
	SeedID          string
	Recommendations []Recommendation
}

func (f *Features) vector() track.Vector {
	return track.Vector{
		track.Popularity:       f.Popularity,
		track.DurationMs:       f.DurationMS,
		track.Explicit:         f.Explicit,
		track.Danceability:     f.Danceability,
		track.Energy:           f.Energy,
		track.Key:              f.Key,
		track.Loudness:         f.Loudness,
		track.Mode:             f.Mode,
		track.Speechiness:      f.Speechiness,
		track.Acousticness:     f.Acousticness,
		track.Instrumentalness: f.Instrumentalness,
		track.Liveness:         f.Liveness,
		track.Valence:          f.Valence,
		track.Tempo:            f.Tempo,
	}
}

func featuresFrom(v track.Vector) Features {
	return Features{
		Popularity:       v[track.Popularity],
		DurationMS:       v[track.DurationMs],
		Explicit:         v[track.Explicit],
		Danceability:     v[track.Danceability],
		Energy:           v[track.Energy],
		Key:              v[track.Key],
		Loudness:         v[track.Loudness],
		Mode:             v[track.Mode],
		Speechiness:      v[track.Speechiness],
		Acousticness:     v[track.Acousticness],
		Instrumentalness: v[track.Instrumentalness],
		Liveness:         v[track.Liveness],
		Valence:          v[track.Valence],
		Tempo:            v[track.Tempo],
	}
}

func trackFrom(t *track.Track) Track {
	return Track{
		ID:          t.ID(),
		Name:        t.Name(),
		Artists:     t.Artists(),
		ReleaseDate: t.ReleaseDate(),
		Features:    featuresFrom(t.Features()),
	}
}
