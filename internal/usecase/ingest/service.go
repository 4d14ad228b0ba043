package ingest

import (
	"context"
	"fmt"

	"github.com/solenta/catalogsearch/internal/domain"
)

// DefaultMaxBatchSize is the maximum number of items per bulk request.
const DefaultMaxBatchSize = 500

// Service handles index provisioning and bulk product ingestion. Missing
// embeddings are generated in a single batched provider call before anything
// is persisted.
type Service struct {
	repo         Repository
	embed        Embedder
	dimensions   int
	maxBatchSize int
}

// New creates an ingest service. dimensions is the index vector dimension;
// zero disables the dimension check.
func New(repo Repository, embed Embedder, dimensions int) *Service {
	return &Service{
		repo: repo, embed: embed,
		dimensions:   dimensions,
		maxBatchSize: DefaultMaxBatchSize,
	}
}

// WithMaxBatchSize configures the maximum bulk batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Provision creates the product index when missing. Returns true if creation
// occurred.
func (s *Service) Provision(ctx context.Context) (bool, error) {
	created, err := s.repo.EnsureIndex(ctx)
	if err != nil {
		return false, fmt.Errorf("ensure index: %w", err)
	}
	return created, nil
}

// BulkUpsert persists a batch of products, batch-embedding the ones that
// arrived without a vector. An embedding failure fails the whole batch before
// any write happens; storage failures are per-item and reported through the
// returned BulkReport.
func (s *Service) BulkUpsert(ctx context.Context, products []domain.Product) (domain.BulkReport, error) {
	if len(products) == 0 {
		return domain.NewBulkReport(nil), nil
	}
	if len(products) > s.maxBatchSize {
		return domain.BulkReport{}, fmt.Errorf(
			"batch size %d exceeds %d: %w", len(products), s.maxBatchSize, domain.ErrValidation,
		)
	}

	var texts []string
	var missing []int
	for i := range products {
		if products[i].HasEmbedding() {
			if err := s.checkDimensions(products[i].ID(), products[i].Embedding()); err != nil {
				return domain.BulkReport{}, err
			}
			continue
		}
		texts = append(texts, products[i].Description())
		missing = append(missing, i)
	}

	if len(missing) > 0 {
		result, err := s.embed.EmbedBatch(ctx, texts)
		if err != nil {
			return domain.BulkReport{}, fmt.Errorf("vectorize batch: %w", err)
		}
		if len(result.Embeddings) != len(missing) {
			return domain.BulkReport{}, fmt.Errorf(
				"batch embedding returned %d vectors for %d inputs: %w",
				len(result.Embeddings), len(missing), domain.ErrEmbeddingResponseInvalid,
			)
		}
		for j, i := range missing {
			if err := s.checkDimensions(products[i].ID(), result.Embeddings[j]); err != nil {
				return domain.BulkReport{}, err
			}
			products[i].SetEmbedding(result.Embeddings[j])
		}
	}

	report, err := s.repo.BulkUpsert(ctx, products)
	if err != nil {
		return report, fmt.Errorf("bulk upsert: %w", err)
	}
	return report, nil
}

func (s *Service) checkDimensions(id string, embedding []float32) error {
	if s.dimensions > 0 && len(embedding) != s.dimensions {
		return fmt.Errorf(
			"product %s: embedding has %d dimensions, index expects %d: %w",
			id, len(embedding), s.dimensions, domain.ErrDimensionMismatch,
		)
	}
	return nil
}
