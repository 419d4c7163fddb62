package features

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/kailas-cloud/tracksim/internal/domain"
	"github.com/kailas-cloud/tracksim/internal/domain/catalog"
	"github.com/kailas-cloud/tracksim/internal/domain/track"
)

// Matrix is the dense, row-major feature matrix. One row per track in
// catalog order; rows are never mutated after construction.
type Matrix struct {
	ids  []string
	rows map[string]int
	data []float64
	dim  int
}

// Build derives the matrix from a catalog, normalizing the scaled columns.
func Build(c *catalog.Catalog) (*Matrix, error) {
	if c == nil || c.IsEmpty() {
		return nil, domain.ErrEmptyCatalog
	}

	n := c.Len()
	ids := make([]string, n)
	rows := make([][]float64, n)
	c.Each(func(i int, t *track.Track) bool {
		ids[i] = t.ID()
		v := t.Features()
		rows[i] = v[:]
		return true
	})

	for _, f := range track.ScaledFeatures() {
		scaled, err := Normalize(c.Column(f))
		if err != nil {
			var cce *domain.ConstantColumnError
			if errors.As(err, &cce) {
				cce.Column = f.String()
				return nil, cce
			}
			return nil, fmt.Errorf("normalize %s: %w", f, err)
		}
		for i, v := range scaled {
			rows[i][f] = v
		}
	}

	return NewMatrix(ids, rows)
}

// NewMatrix freezes rows that are already in their final scale.
// All rows must share one width and identifiers must be unique.
func NewMatrix(ids []string, rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	if len(ids) != len(rows) {
		return nil, fmt.Errorf("%w: %d ids for %d rows", domain.ErrInvalidArgument, len(ids), len(rows))
	}

	dim := len(rows[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-width rows", domain.ErrInvalidArgument)
	}

	m := &Matrix{
		ids:  make([]string, len(ids)),
		rows: make(map[string]int, len(ids)),
		data: make([]float64, 0, len(rows)*dim),
		dim:  dim,
	}
	copy(m.ids, ids)

	for i, r := range rows {
		if len(r) != dim {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", domain.ErrInvalidArgument, i, len(r), dim)
		}
		for _, v := range r {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d contains non-finite value", domain.ErrInvalidArgument, i)
			}
		}
		if _, dup := m.rows[ids[i]]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidArgument, ids[i])
		}
		m.rows[ids[i]] = i
		m.data = append(m.data, r...)
	}
	return m, nil
}

// Len returns the number of rows.
func (m *Matrix) Len() int { return len(m.ids) }

// Dim returns the row width.
func (m *Matrix) Dim() int { return m.dim }

// Row returns a read-only view of row i.
func (m *Matrix) Row(i int) []float64 {
	off := i * m.dim
	return m.data[off : off+m.dim : off+m.dim]
}

// ID returns the track identifier of row i.
func (m *Matrix) ID(i int) string { return m.ids[i] }

// RowOf returns the row index of a track identifier.
func (m *Matrix) RowOf(id string) (int, bool) {
	i, ok := m.rows[id]
	return i, ok
}

// Fingerprint is a stable digest of identifiers and row values.
// Two matrices with equal fingerprints answer every query identically.
func (m *Matrix) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte
	for i, id := range m.ids {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(id)))
		h.Write(buf[:])
		h.Write([]byte(id))
		for _, v := range m.Row(i) {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}
