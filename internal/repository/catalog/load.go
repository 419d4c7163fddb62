// Package catalog loads track catalogs from CSV or Parquet files.
package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/tracksim/internal/domain"
	trackcatalog "github.com/kailas-cloud/tracksim/internal/domain/catalog"
)

// Format selects the on-disk catalog encoding.
type Format string

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto    Format = ""
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a configured format name. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatCSV, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown catalog format %q", domain.ErrInvalidArgument, s)
	}
}

// Column names shared by both encodings.
const (
	colID          = "id"
	colName        = "name"
	colArtists     = "artists"
	colReleaseDate = "release_date"
)

// Load reads the catalog at path. Extra columns are ignored.
func Load(ctx context.Context, path string, format Format) (*trackcatalog.Catalog, error) {
	if format == FormatAuto {
		format = detect(path)
	}

	switch format {
	case FormatCSV:
		return LoadCSV(ctx, path)
	case FormatParquet:
		return LoadParquet(ctx, path)
	default:
		return nil, fmt.Errorf("%w: cannot determine catalog format of %s", domain.ErrInvalidArgument, path)
	}
}

func detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".parquet", ".pq":
		return FormatParquet
	default:
		return FormatAuto
	}
}
