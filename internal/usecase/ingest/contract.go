package ingest

import (
	"context"

	"github.com/solenta/catalogsearch/internal/domain"
)

// Repository defines the storage contract for bulk ingestion.
type Repository interface {
	EnsureIndex(ctx context.Context) (created bool, err error)
	BulkUpsert(ctx context.Context, products []domain.Product) (domain.BulkReport, error)
}

// Embedder vectorizes batches of texts in one provider call.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
