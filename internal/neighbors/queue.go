package neighbors

import (
	"math"
	"sort"
)

// candidate is a row with its squared distance to the query.
type candidate struct {
	row  int
	id   string
	dist float64
}

// closer reports whether a ranks before b: smaller distance first, then smaller ID.
func closer(a, b candidate) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.id < b.id
}

// topK keeps the k best candidates seen so far in a max-heap whose root is
// the current worst kept candidate.
type topK struct {
	k     int
	items []candidate
}

func newTopK(k int) *topK {
	return &topK{k: k, items: make([]candidate, 0, k)}
}

func (q *topK) full() bool { return len(q.items) >= q.k }

// worst returns the squared distance a candidate must not exceed to be kept.
// Only meaningful when full.
func (q *topK) worst() float64 { return q.items[0].dist }

// offer inserts c if it ranks before the current worst (or the queue has room).
func (q *topK) offer(c candidate) {
	if !q.full() {
		q.items = append(q.items, c)
		q.siftUp(len(q.items) - 1)
		return
	}
	if !closer(c, q.items[0]) {
		return
	}
	q.items[0] = c
	q.siftDown(0)
}

// worse orders the heap: the root is the candidate ranking last.
func (q *topK) worse(i, j int) bool { return closer(q.items[j], q.items[i]) }

func (q *topK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.worse(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *topK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && q.worse(r, l) {
			best = r
		}
		if !q.worse(best, i) {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}

// results drains the queue into ascending order and converts squared
// distances to Euclidean ones.
func (q *topK) results() []Neighbor {
	sort.Slice(q.items, func(i, j int) bool { return closer(q.items[i], q.items[j]) })
	out := make([]Neighbor, len(q.items))
	for i, c := range q.items {
		out[i] = Neighbor{Row: c.row, ID: c.id, Distance: math.Sqrt(c.dist)}
	}
	return out
}
