package product

import (
	"context"
	"fmt"

	"github.com/solenta/catalogsearch/internal/domain"
)

// Service handles product CRUD with automatic description vectorization.
type Service struct {
	repo       Repository
	embed      Embedder
	dimensions int
}

// New creates a product service. dimensions is the index vector dimension;
// zero disables the dimension check.
func New(repo Repository, embed Embedder, dimensions int) *Service {
	return &Service{repo: repo, embed: embed, dimensions: dimensions}
}

// CreateOrUpdate stores a product, generating the description embedding when
// the caller did not supply one. An embedding failure fails the write: a
// product is never persisted without its vector. Returns true if created.
func (s *Service) CreateOrUpdate(ctx context.Context, p *domain.Product) (bool, error) {
	if !p.HasEmbedding() {
		result, err := s.embed.Embed(ctx, p.Description())
		if err != nil {
			return false, fmt.Errorf("vectorize description: %w", err)
		}
		p.SetEmbedding(result.Embedding)
	}

	if s.dimensions > 0 && len(p.Embedding()) != s.dimensions {
		return false, fmt.Errorf(
			"embedding has %d dimensions, index expects %d: %w",
			len(p.Embedding()), s.dimensions, domain.ErrDimensionMismatch,
		)
	}

	created, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return false, fmt.Errorf("upsert product: %w", err)
	}
	return created, nil
}

// Get retrieves a product by ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
