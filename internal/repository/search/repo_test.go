package search

import (
	"context"
	"errors"
	"testing"

	"github.com/solenta/catalogsearch/internal/db"
	"github.com/solenta/catalogsearch/internal/domain"
	"github.com/solenta/catalogsearch/internal/repository/catalog"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	knnFn     func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	fuzzyFn   func(ctx context.Context, q *db.FuzzyQuery) (*db.SearchResult, error)
	suggestFn func(ctx context.Context, dict, prefix string, size int) ([]string, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.knnFn != nil {
		return m.knnFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchFuzzy(ctx context.Context, q *db.FuzzyQuery) (*db.SearchResult, error) {
	if m.fuzzyFn != nil {
		return m.fuzzyFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Suggest(ctx context.Context, dict, prefix string, size int) ([]string, error) {
	if m.suggestFn != nil {
		return m.suggestFn(ctx, dict, prefix, size)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "products"), ms
}

func testVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	return vec
}

func TestVectorSearch_Success(t *testing.T) {
	repo, ms := newTestRepo(t)
	vec := testVector(768)

	ms.knnFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "catalog:products:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.VectorField != catalog.FieldEmbedding {
			t.Errorf("unexpected vector field: %s", q.VectorField)
		}
		if q.K != 5 {
			t.Errorf("expected k=5, got %d", q.K)
		}
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{
				{
					Key:   "catalog:products:p1",
					Score: 0.93,
					Fields: map[string]string{
						catalog.FieldTitle:       "Red Shoes",
						catalog.FieldDescription: "Comfortable red running shoes",
						catalog.FieldEmbedding:   catalog.VectorToBytes(vec),
					},
				},
			},
		}, nil
	}

	products, err := repo.VectorSearch(context.Background(), vec, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.ID() != "p1" {
		t.Errorf("expected key prefix stripped to p1, got %s", p.ID())
	}
	if p.Score() != 0.93 {
		t.Errorf("expected score 0.93, got %f", p.Score())
	}
	if len(p.Embedding()) != 768 {
		t.Errorf("expected full document embedding, got %d dims", len(p.Embedding()))
	}
}

func TestVectorSearch_Error(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.knnFn = func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("connection refused")
	}

	_, err := repo.VectorSearch(context.Background(), testVector(768), 5)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestFuzzySearch_Success(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.fuzzyFn = func(_ context.Context, q *db.FuzzyQuery) (*db.SearchResult, error) {
		if q.Query != "running shoes" {
			t.Errorf("unexpected query: %s", q.Query)
		}
		if len(q.Fields) != 2 || q.Fields[0] != catalog.FieldTitle || q.Fields[1] != catalog.FieldDescription {
			t.Errorf("unexpected fields: %v", q.Fields)
		}
		if q.Limit != 10 {
			t.Errorf("expected limit 10, got %d", q.Limit)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "catalog:products:p1", Score: 3.2, Fields: map[string]string{catalog.FieldTitle: "Red Shoes"}},
				{Key: "catalog:products:p2", Score: 1.1, Fields: map[string]string{catalog.FieldTitle: "Shoe Rack"}},
			},
		}, nil
	}

	products, err := repo.FuzzySearch(context.Background(), "running shoes", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID() != "p1" || products[0].Score() != 3.2 {
		t.Errorf("unexpected first hit: %s %f", products[0].ID(), products[0].Score())
	}
}

func TestFuzzySearch_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)

	products, err := repo.FuzzySearch(context.Background(), "zzz", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected no products, got %d", len(products))
	}
}

func TestFuzzySearch_Error(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.fuzzyFn = func(context.Context, *db.FuzzyQuery) (*db.SearchResult, error) {
		return nil, errors.New("connection refused")
	}

	_, err := repo.FuzzySearch(context.Background(), "shoes", 10)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestSuggest_Success(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.suggestFn = func(_ context.Context, dict, prefix string, size int) ([]string, error) {
		if dict != "catalog:sug:products" {
			t.Errorf("unexpected dict: %s", dict)
		}
		if prefix != "re" || size != 5 {
			t.Errorf("unexpected args: %s %d", prefix, size)
		}
		return []string{"Red Shoes", "Red Hat"}, nil
	}

	out, err := repo.Suggest(context.Background(), "re", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0] != "Red Shoes" {
		t.Errorf("unexpected suggestions: %v", out)
	}
}

func TestSuggest_Error(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.suggestFn = func(context.Context, string, string, int) ([]string, error) {
		return nil, errors.New("connection refused")
	}

	_, err := repo.Suggest(context.Background(), "re", 5)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}
