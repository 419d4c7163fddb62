package reccache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tracksim/internal/db"
	"github.com/kailas-cloud/tracksim/internal/domain/recommendation"
)

type mockFinder struct {
	recs  []recommendation.Recommendation
	err   error
	calls int
}

func (m *mockFinder) Nearest(_ context.Context, _ string, _ int) ([]recommendation.Recommendation, error) {
	m.calls++
	return m.recs, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedFinder(t *testing.T, inner *mockFinder) (*CachedFinder, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockKVStore{}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_rec_cache_total"}, []string{"result"})
	cf := New(inner, ms, "abcd1234abcd1234", time.Minute, counter, zap.NewNop())
	return cf, ms, counter
}
