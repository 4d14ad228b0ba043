package domain

import (
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxDescriptionSize is the maximum description size in bytes.
const MaxDescriptionSize = 163840 // 160KB

// Product is the catalog document aggregate: the unit of retrieval and
// storage. The embedding is derived from the description and stays nullable
// until generated; the score is ephemeral and set only on search results.
type Product struct {
	id          string
	title       string
	description string
	embedding   []float32
	score       float64
}

// NewProduct validates and creates a Product.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars, caller-assigned and immutable.
// Description: non-empty, max 160KB — it is the embedding source text.
func NewProduct(id, title, description string, embedding []float32) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("product ID is required: %w", ErrValidation)
	}
	if len(id) > 256 {
		return Product{}, fmt.Errorf("product ID too long (max 256): %w", ErrValidation)
	}
	if !idRegex.MatchString(id) {
		return Product{}, fmt.Errorf(
			"product ID must be alphanumeric with underscores and hyphens: %w", ErrValidation,
		)
	}
	if description == "" {
		return Product{}, fmt.Errorf("description is required: %w", ErrValidation)
	}
	if len(description) > MaxDescriptionSize {
		return Product{}, fmt.Errorf(
			"description too large (max %d bytes): %w", MaxDescriptionSize, ErrValidation,
		)
	}

	return Product{
		id:          id,
		title:       title,
		description: description,
		embedding:   embedding,
	}, nil
}

// Reconstruct creates a Product without validation (storage hydration).
func Reconstruct(id, title, description string, embedding []float32) Product {
	return Product{id: id, title: title, description: description, embedding: embedding}
}

// ID returns the product identifier.
func (p *Product) ID() string { return p.id }

// Title returns the human-readable product name.
func (p *Product) Title() string { return p.title }

// Description returns the free-text product description.
func (p *Product) Description() string { return p.description }

// Embedding returns the description embedding vector, nil until generated.
func (p *Product) Embedding() []float32 { return p.embedding }

// HasEmbedding reports whether an embedding has been set.
func (p *Product) HasEmbedding() bool { return len(p.embedding) > 0 }

// SetEmbedding sets the embedding in place.
func (p *Product) SetEmbedding(v []float32) { p.embedding = v }

// Score returns the retrieval relevance score. Scores from different
// retrieval modes are not comparable.
func (p *Product) Score() float64 { return p.score }

// WithScore returns a copy with the retrieval score attached.
func (p *Product) WithScore(score float64) Product {
	return Product{
		id: p.id, title: p.title, description: p.description,
		embedding: p.embedding, score: score,
	}
}
