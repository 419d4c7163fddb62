package track

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/tracksim/internal/domain"
)

// Feature is a position in the fixed-order numeric feature vector.
type Feature int

// Audio features in vector order.
const (
	Popularity Feature = iota
	DurationMs
	Explicit
	Danceability
	Energy
	Key
	Loudness
	Mode
	Speechiness
	Acousticness
	Instrumentalness
	Liveness
	Valence
	Tempo
)

// NumFeatures is the width of a feature vector.
const NumFeatures = 14

var featureNames = [NumFeatures]string{
	"popularity", "duration_ms", "explicit", "danceability", "energy", "key",
	"loudness", "mode", "speechiness", "acousticness", "instrumentalness",
	"liveness", "valence", "tempo",
}

// String returns the catalog column name of the feature.
func (f Feature) String() string {
	if f < 0 || int(f) >= NumFeatures {
		return fmt.Sprintf("feature(%d)", int(f))
	}
	return featureNames[f]
}

// Features returns all features in vector order.
func Features() []Feature {
	out := make([]Feature, NumFeatures)
	for i := range out {
		out[i] = Feature(i)
	}
	return out
}

// ScaledFeatures are the columns rescaled to [0,1] before indexing.
// Everything else is already unit-scaled or categorical.
func ScaledFeatures() []Feature {
	return []Feature{Popularity, Tempo, Loudness}
}

// Vector holds the numeric features of a track in vector order.
type Vector [NumFeatures]float64

// Get returns a single feature value.
func (v Vector) Get(f Feature) float64 { return v[f] }

// Track is a catalog entry (immutable value object).
type Track struct {
	id          string
	name        string
	artists     string
	releaseDate string
	features    Vector
}

// New validates and creates a Track.
// The identifier must be non-empty and every feature finite.
func New(id, name, artists, releaseDate string, features Vector) (Track, error) {
	if id == "" {
		return Track{}, fmt.Errorf("%w: track ID is required", domain.ErrInvalidArgument)
	}
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Track{}, fmt.Errorf("%w: track %q feature %s is not finite",
				domain.ErrInvalidArgument, id, Feature(i))
		}
	}
	return Track{
		id:          id,
		name:        name,
		artists:     artists,
		releaseDate: releaseDate,
		features:    features,
	}, nil
}

// ID returns the stable track identifier.
func (t *Track) ID() string { return t.id }

// Name returns the display name.
func (t *Track) Name() string { return t.name }

// Artists returns the raw artist field. It is opaque to the core.
func (t *Track) Artists() string { return t.artists }

// ReleaseDate returns the raw release date string.
func (t *Track) ReleaseDate() string { return t.releaseDate }

// Features returns a copy of the raw feature vector.
func (t *Track) Features() Vector { return t.features }

// Popularity returns the raw (unnormalized) popularity.
func (t *Track) Popularity() float64 { return t.features[Popularity] }
