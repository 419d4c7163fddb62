package catalog

import (
	"context"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/tracksim/internal/domain"
	trackcatalog "github.com/kailas-cloud/tracksim/internal/domain/catalog"
	"github.com/kailas-cloud/tracksim/internal/domain/track"
)

// trackRow is the Parquet schema. Integer-typed source columns are
// converted to the float columns on read.
type trackRow struct {
	ID               string  `parquet:"id"`
	Name             string  `parquet:"name,optional"`
	Artists          string  `parquet:"artists,optional"`
	ReleaseDate      string  `parquet:"release_date,optional"`
	Popularity       float64 `parquet:"popularity"`
	DurationMS       float64 `parquet:"duration_ms"`
	Explicit         float64 `parquet:"explicit"`
	Danceability     float64 `parquet:"danceability"`
	Energy           float64 `parquet:"energy"`
	Key              float64 `parquet:"key"`
	Loudness         float64 `parquet:"loudness"`
	Mode             float64 `parquet:"mode"`
	Speechiness      float64 `parquet:"speechiness"`
	Acousticness     float64 `parquet:"acousticness"`
	Instrumentalness float64 `parquet:"instrumentalness"`
	Liveness         float64 `parquet:"liveness"`
	Valence          float64 `parquet:"valence"`
	Tempo            float64 `parquet:"tempo"`
}

func (r *trackRow) vector() track.Vector {
	return track.Vector{
		track.Popularity:       r.Popularity,
		track.DurationMs:       r.DurationMS,
		track.Explicit:         r.Explicit,
		track.Danceability:     r.Danceability,
		track.Energy:           r.Energy,
		track.Key:              r.Key,
		track.Loudness:         r.Loudness,
		track.Mode:             r.Mode,
		track.Speechiness:      r.Speechiness,
		track.Acousticness:     r.Acousticness,
		track.Instrumentalness: r.Instrumentalness,
		track.Liveness:         r.Liveness,
		track.Valence:          r.Valence,
		track.Tempo:            r.Tempo,
	}
}

// LoadParquet reads a Parquet file whose columns match trackRow.
func LoadParquet(ctx context.Context, path string) (*trackcatalog.Catalog, error) {
	rows, err := parquet.ReadFile[trackRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return fromRows(rows)
}

func fromRows(rows []trackRow) (*trackcatalog.Catalog, error) {
	tracks := make([]track.Track, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		t, err := track.New(r.ID, r.Name, r.Artists, r.ReleaseDate, r.vector())
		if err != nil {
			return nil, &domain.ParseError{Line: i + 1, Err: err}
		}
		tracks = append(tracks, t)
	}

	c, err := trackcatalog.New(tracks)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return c, nil
}
