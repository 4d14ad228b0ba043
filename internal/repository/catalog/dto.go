package catalog

import (
	"encoding/binary"
	"math"

	"github.com/solenta/catalogsearch/internal/domain"
)

// Hash field names of a stored product.
const (
	FieldProductID   = "product_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldEmbedding   = "embedding"
)

// buildHashFields converts a domain Product into a flat map[string]string for HSET.
func buildHashFields(p *domain.Product) map[string]string {
	return map[string]string{
		FieldProductID:   p.ID(),
		FieldTitle:       p.Title(),
		FieldDescription: p.Description(),
		FieldEmbedding:   VectorToBytes(p.Embedding()),
	}
}

// parseHashFields converts a flat hash map back into a domain Product.
func parseHashFields(id string, m map[string]string) domain.Product {
	return domain.Reconstruct(
		id,
		m[FieldTitle],
		m[FieldDescription],
		BytesToVector(m[FieldEmbedding]),
	)
}

// VectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func VectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// BytesToVector deserializes a binary string back to []float32.
func BytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
