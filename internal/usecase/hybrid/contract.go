package hybrid

import (
	"context"

	"github.com/solenta/catalogsearch/internal/domain"
)

// Repository defines the retrieval contract for hybrid search.
type Repository interface {
	VectorSearch(ctx context.Context, vector []float32, size int) ([]domain.Product, error)
	FuzzySearch(ctx context.Context, query string, size int) ([]domain.Product, error)
	Suggest(ctx context.Context, prefix string, size int) ([]string, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
