package recommend

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/tracksim/internal/domain/catalog"
	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
	"github.com/kailas-cloud/tracksim/internal/domain/track"
)

// popularByArtist is the non-personalized fallback: tracks whose raw artist
// field contains filter (literal, case-sensitive), least popular first,
// ties in catalog order. It never looks at the seed or the index.
func popularByArtist(c *catalog.Catalog, filter string, k int) []recommendation.Recommendation {
	type match struct {
		id         string
		popularity float64
	}

	var matches []match
	c.Each(func(_ int, t *track.Track) bool {
		if strings.Contains(t.Artists(), filter) {
			matches = append(matches, match{id: t.ID(), popularity: t.Popularity()})
		}
		return true
	})

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].popularity < matches[j].popularity
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	out := make([]recommendation.Recommendation, len(matches))
	for i, m := range matches {
		out[i] = recommendation.Recommendation{ID: m.id, Path: recommendation.Fallback}
	}
	return out
}
