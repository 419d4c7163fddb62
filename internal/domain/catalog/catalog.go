package catalog

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/tracksim/internal/domain"
	"github.com/kailas-cloud/tracksim/internal/domain/track"
)

// Catalog is the ordered, immutable set of tracks for one run.
// Positions are stable and double as row indices of the feature matrix.
type Catalog struct {
	tracks []track.Track
	byID   map[string]int
}

// New builds a catalog, rejecting duplicate identifiers.
// An empty input yields an empty catalog; consumers decide whether that is an error.
func New(tracks []track.Track) (*Catalog, error) {
	c := &Catalog{
		tracks: make([]track.Track, len(tracks)),
		byID:   make(map[string]int, len(tracks)),
	}
	copy(c.tracks, tracks)
	for i := range c.tracks {
		id := c.tracks[i].ID()
		if prev, ok := c.byID[id]; ok {
			return nil, fmt.Errorf("%w: track %q at positions %d and %d: %w",
				domain.ErrInvalidArgument, id, prev, i, domain.ErrAlreadyExists)
		}
		c.byID[id] = i
	}
	return c, nil
}

// Len returns the number of tracks.
func (c *Catalog) Len() int { return len(c.tracks) }

// IsEmpty reports whether the catalog holds no tracks.
func (c *Catalog) IsEmpty() bool { return len(c.tracks) == 0 }

// At returns the track at position i.
func (c *Catalog) At(i int) track.Track { return c.tracks[i] }

// Position returns the stable position of a track identifier.
func (c *Catalog) Position(id string) (int, bool) {
	i, ok := c.byID[id]
	return i, ok
}

// Get returns a track by identifier.
func (c *Catalog) Get(id string) (track.Track, error) {
	i, ok := c.byID[id]
	if !ok {
		return track.Track{}, fmt.Errorf("track %q: %w", id, domain.ErrNotFound)
	}
	return c.tracks[i], nil
}

// FindByName returns tracks whose name equals title, ignoring case and
// surrounding whitespace, in catalog order.
func (c *Catalog) FindByName(title string) []track.Track {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	var out []track.Track
	for i := range c.tracks {
		if strings.EqualFold(strings.TrimSpace(c.tracks[i].Name()), title) {
			out = append(out, c.tracks[i])
		}
	}
	return out
}

// Column returns one feature across all tracks in catalog order.
func (c *Catalog) Column(f track.Feature) []float64 {
	col := make([]float64, len(c.tracks))
	for i := range c.tracks {
		col[i] = c.tracks[i].Features().Get(f)
	}
	return col
}

// Each calls fn for every track in order until fn returns false.
func (c *Catalog) Each(fn func(i int, t *track.Track) bool) {
	for i := range c.tracks {
		if !fn(i, &c.tracks[i]) {
			return
		}
	}
}
