package neighbors

import "sort"

// kdNode is either an inner split or a leaf bucket over perm[lo:hi].
type kdNode struct {
	lo, hi      int
	axis        int
	split       float64
	left, right int // -1 for leaves
}

func (n *kdNode) leaf() bool { return n.left < 0 }

// KDTree is a static k-d tree. Rows are split at the median of the axis with
// the widest spread; rows equal to the split value may fall on either side,
// so both subtrees are bounded inclusively by the split plane.
type KDTree struct {
	src      Source
	perm     []int
	nodes    []kdNode
	leafSize int
}

var _ Index = (*KDTree)(nil)

// NewKDTree validates src and builds a tree with the given leaf bucket size
// (DefaultLeafSize when leafSize <= 0).
func NewKDTree(src Source, leafSize int) (*KDTree, error) {
	if err := validateSource(src); err != nil {
		return nil, err
	}
	return newKDTree(src, leafSize), nil
}

func newKDTree(src Source, leafSize int) *KDTree {
	if leafSize <= 0 {
		leafSize = DefaultLeafSize
	}
	n := src.Len()
	t := &KDTree{
		src:      src,
		perm:     make([]int, n),
		nodes:    make([]kdNode, 0, 2*(n/leafSize+1)),
		leafSize: leafSize,
	}
	for i := range t.perm {
		t.perm[i] = i
	}
	t.build(0, n)
	return t
}

// build creates the node for perm[lo:hi] and returns its index.
func (t *KDTree) build(lo, hi int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, kdNode{lo: lo, hi: hi, left: -1, right: -1})
	if hi-lo <= t.leafSize {
		return idx
	}

	axis, spread := t.widestAxis(lo, hi)
	if spread == 0 {
		// Every row in range is identical; no plane can separate them.
		return idx
	}

	seg := t.perm[lo:hi]
	sort.Slice(seg, func(i, j int) bool {
		a, b := t.src.Row(seg[i])[axis], t.src.Row(seg[j])[axis]
		if a != b {
			return a < b
		}
		return seg[i] < seg[j]
	})
	mid := lo + (hi-lo)/2

	left := t.build(lo, mid)
	right := t.build(mid, hi)

	nd := &t.nodes[idx]
	nd.axis = axis
	nd.split = t.src.Row(t.perm[mid])[axis]
	nd.left = left
	nd.right = right
	return idx
}

// widestAxis returns the dimension with the largest value range over perm[lo:hi].
// Ties go to the lowest dimension.
func (t *KDTree) widestAxis(lo, hi int) (int, float64) {
	dim := t.src.Dim()
	bestAxis, bestSpread := 0, -1.0
	for d := 0; d < dim; d++ {
		first := t.src.Row(t.perm[lo])[d]
		mn, mx := first, first
		for _, r := range t.perm[lo+1 : hi] {
			v := t.src.Row(r)[d]
			mn = min(mn, v)
			mx = max(mx, v)
		}
		if s := mx - mn; s > bestSpread {
			bestAxis, bestSpread = d, s
		}
	}
	return bestAxis, bestSpread
}

// Name returns the implementation name.
func (*KDTree) Name() string { return string(AlgorithmKDTree) }

// Len returns the number of indexed rows.
func (t *KDTree) Len() int { return t.src.Len() }

// Depth returns the height of the tree (1 for a single leaf).
func (t *KDTree) Depth() int { return t.depth(0) }

func (t *KDTree) depth(ni int) int {
	nd := &t.nodes[ni]
	if nd.leaf() {
		return 1
	}
	return 1 + max(t.depth(nd.left), t.depth(nd.right))
}

// Search returns the k nearest rows to query.
func (t *KDTree) Search(query []float64, k int) ([]Neighbor, error) {
	if err := checkQuery(t.src, query); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []Neighbor{}, nil
	}
	k = min(k, t.src.Len())

	res := newTopK(k)
	t.search(0, query, res)
	return res.results(), nil
}

func (t *KDTree) search(ni int, q []float64, res *topK) {
	nd := &t.nodes[ni]
	if nd.leaf() {
		for _, r := range t.perm[nd.lo:nd.hi] {
			res.offer(candidate{row: r, id: t.src.ID(r), dist: squaredL2(q, t.src.Row(r))})
		}
		return
	}

	diff := q[nd.axis] - nd.split
	near, far := nd.left, nd.right
	if diff >= 0 {
		near, far = nd.right, nd.left
	}

	t.search(near, q, res)
	// Equality must still descend: a row at the bound may tie the current
	// worst distance and win on ID.
	if !res.full() || diff*diff <= res.worst() {
		t.search(far, q, res)
	}
}
