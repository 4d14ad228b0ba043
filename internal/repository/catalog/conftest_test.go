package catalog

import (
	"context"
	"testing"

	"github.com/solenta/catalogsearch/internal/db"
	"github.com/solenta/catalogsearch/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) []error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	delFn         func(ctx context.Context, key string) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	sugAddFn      func(ctx context.Context, dict string, entries []string) error
	sugDelFn      func(ctx context.Context, dict string, entries []string) error
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) []error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return make([]error, len(items))
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SuggestAdd(ctx context.Context, dict string, entries []string) error {
	if m.sugAddFn != nil {
		return m.sugAddFn(ctx, dict, entries)
	}
	return nil
}

func (m *mockStore) SuggestDel(ctx context.Context, dict string, entries []string) error {
	if m.sugDelFn != nil {
		return m.sugDelFn(ctx, dict, entries)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, Options{
		Collection:  "products",
		Dimensions:  768,
		Algorithm:   "flat",
		TitleWeight: 2.0,
	})
	return repo, ms
}

func testProduct(t *testing.T) domain.Product {
	t.Helper()
	return domain.Reconstruct("p1", "Red Shoes", "Comfortable red running shoes", testVector(768))
}

func testVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	return vec
}
