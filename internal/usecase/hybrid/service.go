package hybrid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/solenta/catalogsearch/internal/domain"
	"github.com/solenta/catalogsearch/internal/metrics"
)

// DefaultSize is the per-leg result count when the caller does not set one.
const DefaultSize = 10

// DefaultSuggestSize is the completion count when the caller does not set one.
const DefaultSuggestSize = 5

// Results carries both retrieval legs of a hybrid search. The lists are
// never merged: vector and fuzzy scores live on different scales, so ranking
// across them is left to the caller.
type Results struct {
	Vector []domain.Product
	Fuzzy  []domain.Product
}

// Service runs hybrid product search: a vector similarity leg over the query
// embedding and a fuzzy text leg over the raw query, executed concurrently.
type Service struct {
	repo  Repository
	embed Embedder
}

// New creates a hybrid search service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Search embeds the query and runs both retrieval legs. A failure of either
// leg, or of the embedding call itself, fails the whole search: a silently
// degraded half-result would be indistinguishable from a complete one.
func (s *Service) Search(ctx context.Context, query string, size int) (Results, error) {
	if strings.TrimSpace(query) == "" {
		return Results{}, fmt.Errorf("query is required: %w", domain.ErrValidation)
	}
	if size <= 0 {
		size = DefaultSize
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return Results{}, fmt.Errorf("vectorize query: %w", err)
	}

	var res Results

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		out, legErr := s.repo.VectorSearch(gctx, embResult.Embedding, size)
		if legErr != nil {
			return fmt.Errorf("vector leg: %w", legErr)
		}
		metrics.SearchLegDuration.WithLabelValues("vector").Observe(time.Since(start).Seconds())
		res.Vector = out
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		out, legErr := s.repo.FuzzySearch(gctx, query, size)
		if legErr != nil {
			return fmt.Errorf("fuzzy leg: %w", legErr)
		}
		metrics.SearchLegDuration.WithLabelValues("fuzzy").Observe(time.Since(start).Seconds())
		res.Fuzzy = out
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return Results{}, err
	}

	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()
	return res, nil
}

// Suggest returns up to size title completions for the given prefix.
func (s *Service) Suggest(ctx context.Context, prefix string, size int) ([]string, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrValidation)
	}
	if size <= 0 {
		size = DefaultSuggestSize
	}

	out, err := s.repo.Suggest(ctx, prefix, size)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return out, nil
}
