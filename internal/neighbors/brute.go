package neighbors

// BruteForce scans every row per query. It is exact by construction and
// serves as the oracle for KDTree.
type BruteForce struct {
	src Source
}

var _ Index = (*BruteForce)(nil)

// NewBruteForce validates src and returns a linear-scan index.
func NewBruteForce(src Source) (*BruteForce, error) {
	if err := validateSource(src); err != nil {
		return nil, err
	}
	return newBruteForce(src), nil
}

func newBruteForce(src Source) *BruteForce {
	return &BruteForce{src: src}
}

// Name returns the implementation name.
func (*BruteForce) Name() string { return string(AlgorithmBrute) }

// Len returns the number of indexed rows.
func (b *BruteForce) Len() int { return b.src.Len() }

// Search returns the k nearest rows to query.
func (b *BruteForce) Search(query []float64, k int) ([]Neighbor, error) {
	if err := checkQuery(b.src, query); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []Neighbor{}, nil
	}
	k = min(k, b.src.Len())

	res := newTopK(k)
	for i := 0; i < b.src.Len(); i++ {
		res.offer(candidate{row: i, id: b.src.ID(i), dist: squaredL2(query, b.src.Row(i))})
	}
	return res.results(), nil
}
