package product

import (
	"context"

	"github.com/solenta/catalogsearch/internal/domain"
)

// Repository defines the storage contract for products.
type Repository interface {
	Upsert(ctx context.Context, p *domain.Product) (created bool, err error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
