package db

// KNNQuery is the input for vector similarity search. The candidate set is
// the match-all document set; whether scoring is exhaustive or approximate
// depends on the vector algorithm the index was created with.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Vector       []float32
	K            int
	ReturnFields []string
}

// FuzzyQuery is the input for weighted multi-field fuzzy text search.
// Field weights are fixed at index creation time (TEXT ... WEIGHT);
// fuzziness tolerance is derived per term from its length.
type FuzzyQuery struct {
	IndexName    string
	Query        string
	Fields       []string
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
