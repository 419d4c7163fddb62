package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/kailas-cloud/tracksim/internal/domain"
	"github.com/kailas-cloud/tracksim/internal/domain/catalog"
	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
	"github.com/kailas-cloud/tracksim/internal/domain/track"
	"github.com/kailas-cloud/tracksim/internal/features"
	"github.com/kailas-cloud/tracksim/internal/neighbors"
)

// --- Mocks ---

type mockFinder struct {
	recs   []recommendation.Recommendation
	err    error
	calls  int
	lastK  int
	lastID string
}

func (m *mockFinder) Nearest(_ context.Context, seedID string, k int) ([]recommendation.Recommendation, error) {
	m.calls++
	m.lastK = k
	m.lastID = seedID
	return m.recs, m.err
}

// --- Fixtures ---

type trackDef struct {
	id         string
	artists    string
	popularity float64
}

func newCatalog(t *testing.T, defs ...trackDef) *catalog.Catalog {
	t.Helper()
	tracks := make([]track.Track, len(defs))
	for i, s := range defs {
		var v track.Vector
		v[track.Popularity] = s.popularity
		v[track.Tempo] = float64(60 + i)
		v[track.Loudness] = float64(-i)
		tr, err := track.New(s.id, "name "+s.id, s.artists, "", v)
		if err != nil {
			t.Fatalf("track.New: %v", err)
		}
		tracks[i] = tr
	}
	c, err := catalog.New(tracks)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

// randomService builds a real catalog -> matrix -> index pipeline.
func randomService(t *testing.T, n int, algo neighbors.Algorithm) (*Service, *features.Matrix) {
	t.Helper()
	r := rand.New(rand.NewPCG(uint64(n), 17))
	tracks := make([]track.Track, n)
	for i := range tracks {
		var v track.Vector
		for f := range v {
			v[f] = float64(r.IntN(5)) / 4
		}
		v[track.Popularity] = float64(r.IntN(100))
		v[track.Tempo] = 60 + float64(r.IntN(120))
		v[track.Loudness] = -float64(r.IntN(40))
		tr, err := track.New(fmt.Sprintf("id-%03d", (i*37)%n), "", "", "", v)
		if err != nil {
			t.Fatalf("track.New: %v", err)
		}
		tracks[i] = tr
	}
	c, err := catalog.New(tracks)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	m, err := features.Build(c)
	if err != nil {
		t.Fatalf("features.Build: %v", err)
	}
	idx, err := neighbors.Build(m, neighbors.Options{Algorithm: algo, LeafSize: 4})
	if err != nil {
		t.Fatalf("neighbors.Build: %v", err)
	}
	return New(c, NewIndexFinder(m, idx), ""), m
}

// --- Tests ---

func TestRecommend_IdenticalVectorsOrderedByID(t *testing.T) {
	c := newCatalog(t, trackDef{id: "track1"}, trackDef{id: "track3"}, trackDef{id: "track2"})
	row := make([]float64, track.NumFeatures)
	m, err := features.NewMatrix(
		[]string{"track1", "track3", "track2"},
		[][]float64{row, slices.Clone(row), slices.Clone(row)},
	)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}

	for _, algo := range []neighbors.Algorithm{neighbors.AlgorithmBrute, neighbors.AlgorithmKDTree} {
		idx, err := neighbors.Build(m, neighbors.Options{Algorithm: algo})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		svc := New(c, NewIndexFinder(m, idx), "")

		recs, err := svc.Similar(context.Background(), "track1", 2)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", algo, err)
		}
		if len(recs) != 2 {
			t.Fatalf("%s: expected 2 results, got %d", algo, len(recs))
		}
		if recs[0].ID != "track2" || recs[1].ID != "track3" {
			t.Errorf("%s: order = %v, want [track2 track3]", algo, recommendation.IDs(recs))
		}
		for _, r := range recs {
			if r.Distance != 0 {
				t.Errorf("%s: distance = %v, want 0", algo, r.Distance)
			}
		}
	}
}

func TestRecommend_PrimaryProperties(t *testing.T) {
	for _, algo := range []neighbors.Algorithm{neighbors.AlgorithmBrute, neighbors.AlgorithmKDTree} {
		svc, m := randomService(t, 60, algo)
		ctx := context.Background()

		for i := 0; i < m.Len(); i++ {
			seed := m.ID(i)
			for _, k := range []int{1, 3, 10, 59, 60, 500, math.MaxInt - 1, math.MaxInt} {
				recs, err := svc.Similar(ctx, seed, k)
				if err != nil {
					t.Fatalf("Similar(%q, %d): %v", seed, k, err)
				}
				if want := min(k, m.Len()-1); len(recs) != want {
					t.Fatalf("Similar(%q, %d): len %d, want %d", seed, k, len(recs), want)
				}
				for j, r := range recs {
					if r.ID == seed {
						t.Fatalf("seed %q returned in its own recommendations", seed)
					}
					if r.Path != recommendation.Primary {
						t.Fatalf("path = %q", r.Path)
					}
					row, _ := m.RowOf(r.ID)
					if d := neighbors.Euclidean(m.Row(i), m.Row(row)); d != r.Distance {
						t.Fatalf("distance for %q = %v, recomputed %v", r.ID, r.Distance, d)
					}
					if j > 0 && r.Distance < recs[j-1].Distance {
						t.Fatalf("distances not non-decreasing at %d", j)
					}
				}
			}
		}
	}
}

func TestRecommend_KDTreeMatchesBruteForce(t *testing.T) {
	brute, m := randomService(t, 80, neighbors.AlgorithmBrute)
	tree, _ := randomService(t, 80, neighbors.AlgorithmKDTree)
	ctx := context.Background()
	for i := 0; i < m.Len(); i++ {
		want, err := brute.Recommend(ctx, m.ID(i), 7, false)
		if err != nil {
			t.Fatalf("brute: %v", err)
		}
		got, err := tree.Recommend(ctx, m.ID(i), 7, false)
		if err != nil {
			t.Fatalf("tree: %v", err)
		}
		if !slices.Equal(got, want) {
			t.Fatalf("seed %q: tree %v, brute %v", m.ID(i), got, want)
		}
	}
}

func TestRecommend_MissingSeed(t *testing.T) {
	svc, _ := randomService(t, 10, neighbors.AlgorithmBrute)
	_, err := svc.Recommend(context.Background(), "missing-id", 3, false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, err = svc.Recommend(context.Background(), "missing-id", 3, true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("fallback: expected ErrNotFound, got %v", err)
	}
}

func TestRecommend_InvalidK(t *testing.T) {
	svc, m := randomService(t, 10, neighbors.AlgorithmBrute)
	for _, k := range []int{0, -1} {
		for _, fb := range []bool{false, true} {
			_, err := svc.Recommend(context.Background(), m.ID(0), k, fb)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("k=%d fallback=%v: expected ErrInvalidArgument, got %v", k, fb, err)
			}
		}
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	c, _ := catalog.New(nil)
	finder := &mockFinder{}
	svc := New(c, finder, "")
	_, err := svc.Recommend(context.Background(), "any", 3, false)
	if !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
	if finder.calls != 0 {
		t.Error("finder should not be called for an empty catalog")
	}
	if _, err := svc.Track("any"); !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Errorf("Track: expected ErrEmptyCatalog, got %v", err)
	}
}

func TestSimilar_DelegatesToFinder(t *testing.T) {
	c := newCatalog(t, trackDef{id: "a"}, trackDef{id: "b"})
	finder := &mockFinder{recs: []recommendation.Recommendation{{ID: "b", Distance: 0.3}}}
	svc := New(c, finder, "")

	ids, err := svc.Recommend(context.Background(), "a", 5, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finder.calls != 1 || finder.lastK != 5 || finder.lastID != "a" {
		t.Errorf("finder called %d times with (%q, %d)", finder.calls, finder.lastID, finder.lastK)
	}
	if len(ids) != 1 || ids[0] != "b" {
		t.Errorf("ids = %v", ids)
	}
}

func TestSimilar_FinderError(t *testing.T) {
	c := newCatalog(t, trackDef{id: "a"}, trackDef{id: "b"})
	boom := errors.New("boom")
	svc := New(c, &mockFinder{err: boom}, "")
	if _, err := svc.Similar(context.Background(), "a", 1); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped finder error, got %v", err)
	}
}

func fallbackCatalog(t *testing.T) *catalog.Catalog {
	return newCatalog(t,
		trackDef{id: "a", artists: "['justin bieber']", popularity: 80},
		trackDef{id: "b", artists: "['someone else']", popularity: 1},
		trackDef{id: "c", artists: "['justin bieber', 'ludacris']", popularity: 20},
		trackDef{id: "d", artists: "['Justin Bieber']", popularity: 5},
		trackDef{id: "e", artists: "['justin bieber']", popularity: 20},
		trackDef{id: "f", artists: "['justin bieber']", popularity: 50},
	)
}

func TestFallback_SortedByPopularityAscending(t *testing.T) {
	finder := &mockFinder{}
	svc := New(fallbackCatalog(t), finder, "justin bieber")

	ids, err := svc.Recommend(context.Background(), "b", 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "d" differs in case and is excluded; c and e tie at 20 and keep catalog order.
	want := []string{"c", "e", "f", "a"}
	if !slices.Equal(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if finder.calls != 0 {
		t.Error("fallback must not use the neighbor finder")
	}
}

func TestService_ArtistFilter(t *testing.T) {
	svc := New(fallbackCatalog(t), &mockFinder{}, "ludacris")
	if got := svc.ArtistFilter(); got != "ludacris" {
		t.Errorf("ArtistFilter() = %q", got)
	}
}

func TestFallback_IndependentOfSeedAndTruncatedByK(t *testing.T) {
	svc := New(fallbackCatalog(t), &mockFinder{}, "justin bieber")
	ctx := context.Background()

	full, _ := svc.Recommend(ctx, "a", 100, true)
	for _, seed := range []string{"a", "b", "c", "d", "e", "f"} {
		for k := 1; k <= 6; k++ {
			got, err := svc.Recommend(ctx, seed, k, true)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := full[:min(k, len(full))]
			if !slices.Equal(got, want) {
				t.Errorf("seed %q k %d: got %v, want %v", seed, k, got, want)
			}
		}
	}
}

func TestFallback_NoMatches(t *testing.T) {
	svc := New(fallbackCatalog(t), &mockFinder{}, "nobody")
	recs, err := svc.Fallback(context.Background(), "a", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no results, got %v", recs)
	}
}

func TestFallback_EmptyFilterMatchesAll(t *testing.T) {
	svc := New(fallbackCatalog(t), &mockFinder{}, "")
	recs, _ := svc.Fallback(context.Background(), "a", 100)
	if len(recs) != 6 {
		t.Fatalf("expected all 6 tracks, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		prev, _ := svc.Track(recs[i-1].ID)
		cur, _ := svc.Track(recs[i].ID)
		if cur.Popularity() < prev.Popularity() {
			t.Fatalf("not sorted at %d", i)
		}
	}
	if recs[0].Path != recommendation.Fallback {
		t.Errorf("path = %q", recs[0].Path)
	}
}

func TestRecommendBatch_PreservesOrder(t *testing.T) {
	svc, m := randomService(t, 40, neighbors.AlgorithmKDTree)
	svc.WithBatch(3, 50)
	ctx := context.Background()

	seeds := []string{m.ID(5), m.ID(1), m.ID(30), m.ID(12), m.ID(5)}
	items, err := svc.RecommendBatch(ctx, seeds, 4, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != len(seeds) {
		t.Fatalf("expected %d items, got %d", len(seeds), len(items))
	}
	for i, it := range items {
		if it.SeedID != seeds[i] {
			t.Errorf("item %d seed = %q, want %q", i, it.SeedID, seeds[i])
		}
		single, _ := svc.Similar(ctx, seeds[i], 4)
		if !slices.Equal(recommendation.IDs(it.Recommendations), recommendation.IDs(single)) {
			t.Errorf("item %d differs from single query", i)
		}
	}
}

func TestRecommendBatch_Errors(t *testing.T) {
	svc, m := randomService(t, 20, neighbors.AlgorithmBrute)
	svc.WithBatch(2, 3)
	ctx := context.Background()

	if _, err := svc.RecommendBatch(ctx, nil, 3, false); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("empty batch: expected ErrInvalidArgument, got %v", err)
	}
	tooMany := []string{m.ID(0), m.ID(1), m.ID(2), m.ID(3)}
	if _, err := svc.RecommendBatch(ctx, tooMany, 3, false); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("oversized batch: expected ErrInvalidArgument, got %v", err)
	}
	withMissing := []string{m.ID(0), "missing", m.ID(2)}
	if _, err := svc.RecommendBatch(ctx, withMissing, 3, false); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing seed: expected ErrNotFound, got %v", err)
	}
}

func TestRecommendBatch_Fallback(t *testing.T) {
	svc := New(fallbackCatalog(t), &mockFinder{}, "justin bieber")
	items, err := svc.RecommendBatch(context.Background(), []string{"a", "b"}, 2, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, it := range items {
		if !slices.Equal(recommendation.IDs(it.Recommendations), []string{"c", "e"}) {
			t.Errorf("seed %q: %v", it.SeedID, recommendation.IDs(it.Recommendations))
		}
	}
}

func TestIndexFinder_NotFound(t *testing.T) {
	_, m := randomService(t, 5, neighbors.AlgorithmBrute)
	idx, _ := neighbors.Build(m, neighbors.Options{Algorithm: neighbors.AlgorithmBrute})
	f := NewIndexFinder(m, idx)
	if _, err := f.Nearest(context.Background(), "nope", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByTitle(t *testing.T) {
	svc := New(fallbackCatalog(t), &mockFinder{}, "")

	got, err := svc.FindByTitle("NAME c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "c" {
		t.Fatalf("FindByTitle() = %v", got)
	}

	if _, err := svc.FindByTitle("  "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("blank title: expected ErrInvalidArgument, got %v", err)
	}

	empty := New(newCatalog(t), &mockFinder{}, "")
	if _, err := empty.FindByTitle("x"); !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Errorf("empty catalog: expected ErrEmptyCatalog, got %v", err)
	}
}
