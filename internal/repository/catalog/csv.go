package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tracksim/internal/domain"
	trackcatalog "github.com/kailas-cloud/tracksim/internal/domain/catalog"
	"github.com/kailas-cloud/tracksim/internal/domain/track"
)

var errMissingField = errors.New("missing field")

// LoadCSV reads a header-first CSV file.
func LoadCSV(ctx context.Context, path string) (*trackcatalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(ctx, f)
}

// ReadCSV parses CSV records from r. Lines are 1-based and count the header.
func ReadCSV(ctx context.Context, r io.Reader) (*trackcatalog.Catalog, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: catalog file has no header", domain.ErrInvalidArgument)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var tracks []track.Track
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("read catalog: %w", err)
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.ParseError{Line: line, Err: err}
		}

		t, err := cols.track(rec, line)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}

	c, err := trackcatalog.New(tracks)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return c, nil
}

// csvColumns maps logical fields to record positions. -1 means absent.
type csvColumns struct {
	id, name, artists, releaseDate int
	features                       [track.NumFeatures]int
}

func resolveColumns(header []string) (csvColumns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		// BOM-prefixed exports are common.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		pos[strings.ToLower(h)] = i
	}

	cols := csvColumns{releaseDate: -1}
	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	cols.id = lookup(colID)
	cols.name = lookup(colName)
	cols.artists = lookup(colArtists)
	for _, f := range track.Features() {
		cols.features[f] = lookup(f.String())
	}
	if i, ok := pos[colReleaseDate]; ok {
		cols.releaseDate = i
	}

	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: catalog header missing columns %s",
			domain.ErrInvalidArgument, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c csvColumns) track(rec []string, line int) (track.Track, error) {
	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var v track.Vector
	for _, f := range track.Features() {
		i := c.features[f]
		if i >= len(rec) {
			return track.Track{}, &domain.ParseError{Line: line, Column: f.String(), Err: errMissingField}
		}
		x, err := parseNumber(rec[i])
		if err != nil {
			return track.Track{}, &domain.ParseError{Line: line, Column: f.String(), Err: err}
		}
		v[f] = x
	}

	t, err := track.New(field(c.id), field(c.name), field(c.artists), field(c.releaseDate), v)
	if err != nil {
		return track.Track{}, &domain.ParseError{Line: line, Err: err}
	}
	return t, nil
}

// parseNumber accepts decimal numbers and boolean words for flag columns.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return v, nil
}
