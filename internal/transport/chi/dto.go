package chi

import "github.com/solenta/catalogsearch/internal/domain"

type welcomeResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type productRequest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

type productResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type searchRequest struct {
	Query string `json:"query"`
	Size  int    `json:"size,omitempty"`
}

// searchHit is one retrieved product with its leg-local relevance score.
type searchHit struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"_score"`
}

// searchResponse carries both legs side by side. The lists are ranked
// independently and their scores are not comparable across legs.
type searchResponse struct {
	VectorSearch []searchHit `json:"vector_search"`
	FuzzySearch  []searchHit `json:"fuzzy_search"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type bulkRequest struct {
	Products []productRequest `json:"products"`
}

type bulkItemResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type bulkResponse struct {
	Items     []bulkItemResponse `json:"items"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func productToResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
	}
}

func hitsToResponse(products []domain.Product) []searchHit {
	hits := make([]searchHit, len(products))
	for i := range products {
		hits[i] = searchHit{
			ID:          products[i].ID(),
			Title:       products[i].Title(),
			Description: products[i].Description(),
			Score:       products[i].Score(),
		}
	}
	return hits
}

func bulkReportToResponse(report domain.BulkReport) bulkResponse {
	items := report.Items()
	resp := bulkResponse{Items: make([]bulkItemResponse, len(items))}
	for i, item := range items {
		out := bulkItemResponse{ID: item.ID(), Status: string(item.Status())}
		if item.Err() != nil {
			out.Error = safeDomainMessage(item.Err())
			resp.Failed++
		} else {
			resp.Succeeded++
		}
		resp.Items[i] = out
	}
	return resp
}
