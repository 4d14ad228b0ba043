package domain

import "errors"

var (
	// ErrProductNotFound signals a missing product document.
	ErrProductNotFound = errors.New("product not found")
	// ErrValidation signals malformed input at a boundary.
	ErrValidation = errors.New("validation failed")
	// ErrDimensionMismatch signals an embedding whose dimension does not
	// match the configured model dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable signals a transport-level failure reaching
	// the embedding provider.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	// ErrEmbeddingProvider signals a non-success response from the
	// embedding provider.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrEmbeddingResponseInvalid signals a provider response missing the
	// expected vector data.
	ErrEmbeddingResponseInvalid = errors.New("invalid embedding response")

	// ErrIndexUnavailable signals a search index transport or backend failure.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrBulkPartialFailure signals a bulk upsert where some, but not
	// necessarily all, documents failed. Per-item causes are carried by
	// the BulkReport.
	ErrBulkPartialFailure = errors.New("bulk upsert partially failed")
)
