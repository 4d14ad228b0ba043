package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/solenta/catalogsearch/internal/db"
	"github.com/solenta/catalogsearch/internal/domain"
	"github.com/solenta/catalogsearch/internal/repository/catalog"
)

// store is the consumer interface for retrieval operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchFuzzy(ctx context.Context, q *db.FuzzyQuery) (*db.SearchResult, error)
	Suggest(ctx context.Context, dict, prefix string, size int) ([]string, error)
}

// Repo implements the retrieval side of the product index: vector similarity,
// weighted fuzzy text matching, and title completions.
type Repo struct {
	store      store
	collection string
}

// New creates a search repository over the given collection.
func New(s store, collection string) *Repo {
	return &Repo{store: s, collection: collection}
}

// VectorSearch scores documents by cosine similarity between vector and the
// stored description embedding, returning up to size products ordered by
// descending similarity.
func (r *Repo) VectorSearch(ctx context.Context, vector []float32, size int) ([]domain.Product, error) {
	q := &db.KNNQuery{
		IndexName:   r.indexName(),
		VectorField: catalog.FieldEmbedding,
		Vector:      vector,
		K:           size,
		ReturnFields: []string{
			catalog.FieldTitle, catalog.FieldDescription, catalog.FieldEmbedding,
			"__" + catalog.FieldEmbedding + "_score",
		},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w: %w", r.collection, domain.ErrIndexUnavailable, err)
	}

	return r.parseResults(sr), nil
}

// FuzzySearch runs a multi-field fuzzy match with title weighted over
// description, returning up to size products by descending relevance.
func (r *Repo) FuzzySearch(ctx context.Context, query string, size int) ([]domain.Product, error) {
	q := &db.FuzzyQuery{
		IndexName: r.indexName(),
		Query:     query,
		Fields:    []string{catalog.FieldTitle, catalog.FieldDescription},
		Limit:     size,
		ReturnFields: []string{
			catalog.FieldTitle, catalog.FieldDescription, catalog.FieldEmbedding,
		},
	}

	sr, err := r.store.SearchFuzzy(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search fuzzy %s: %w: %w", r.collection, domain.ErrIndexUnavailable, err)
	}

	return r.parseResults(sr), nil
}

// Suggest returns up to size title completions for prefix.
func (r *Repo) Suggest(ctx context.Context, prefix string, size int) ([]string, error) {
	dict := fmt.Sprintf("%ssug:%s", domain.KeyPrefix, r.collection)

	out, err := r.store.Suggest(ctx, dict, prefix, size)
	if err != nil {
		return nil, fmt.Errorf("suggest %s: %w: %w", r.collection, domain.ErrIndexUnavailable, err)
	}
	return out, nil
}

func (r *Repo) indexName() string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, r.collection)
}

func (r *Repo) parseResults(sr *db.SearchResult) []domain.Product {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	prefix := fmt.Sprintf("%s%s:", domain.KeyPrefix, r.collection)
	products := make([]domain.Product, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, prefix)
		p := domain.Reconstruct(
			id,
			entry.Fields[catalog.FieldTitle],
			entry.Fields[catalog.FieldDescription],
			catalog.BytesToVector(entry.Fields[catalog.FieldEmbedding]),
		)
		products = append(products, p.WithScore(entry.Score))
	}

	return products
}
