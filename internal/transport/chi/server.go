package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/solenta/catalogsearch/internal/domain"
	healthuc "github.com/solenta/catalogsearch/internal/usecase/health"
	hybriduc "github.com/solenta/catalogsearch/internal/usecase/hybrid"
	ingestuc "github.com/solenta/catalogsearch/internal/usecase/ingest"
	productuc "github.com/solenta/catalogsearch/internal/usecase/product"
)

// errorCode is the machine-readable error identifier in error responses.
type errorCode string

const (
	codeBadRequest             errorCode = "bad_request"
	codeValidationFailed       errorCode = "validation_failed"
	codeProductNotFound        errorCode = "product_not_found"
	codeDimensionMismatch      errorCode = "dimension_mismatch"
	codeEmbeddingProviderError errorCode = "embedding_provider_error"
	codeEmbeddingUnavailable   errorCode = "embedding_unavailable"
	codeIndexUnavailable       errorCode = "index_unavailable"
	codeInternalError          errorCode = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API for catalog management and hybrid search.
type Server struct {
	products      *productuc.Service
	search        *hybriduc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	products *productuc.Service,
	search *hybriduc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		products: products,
		search:   search,
		ingest:   ingest,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, codeProductNotFound),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest, codeDimensionMismatch),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingResponseInvalid, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusServiceUnavailable, codeEmbeddingUnavailable),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Welcome)
	r.Post("/search", s.Search)
	r.Get("/suggest", s.Suggest)
	r.Post("/products", s.UpsertProduct)
	r.Post("/products/bulk", s.BulkUpsert)
	r.Get("/products/{id}", s.GetProduct)
	r.Delete("/products/{id}", s.DeleteProduct)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Welcome handles GET /.
func (s *Server) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, welcomeResponse{
		Message: "catalog search API: see /search, /suggest and /products",
	})
}

// Search handles POST /search: one query, two independently ranked result
// lists (vector similarity and fuzzy text match).
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), req.Query, req.Size)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		VectorSearch: hitsToResponse(results.Vector),
		FuzzySearch:  hitsToResponse(results.Fuzzy),
	})
}

// Suggest handles GET /suggest?query=&size=.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "size must be a positive integer")
			return
		}
		size = parsed
	}

	suggestions, err := s.search.Suggest(r.Context(), query, size)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}

// UpsertProduct handles POST /products. Returns 201 on create, 200 on update.
func (s *Server) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := domain.NewProduct(req.ID, req.Title, req.Description, req.Embedding)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	created, err := s.products.CreateOrUpdate(r.Context(), &p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/products/"+p.ID())
	}
	writeJSON(w, status, productToResponse(&p))
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.products.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productToResponse(&p))
}

// DeleteProduct handles DELETE /products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.products.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkUpsert handles POST /products/bulk with per-item outcomes. A failed
// item never rolls back the rest, so the response always carries the full
// item list alongside the succeeded/failed counters; any failed item turns
// the whole operation into a 207 rather than a 200.
func (s *Server) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if len(req.Products) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "products list is empty")
		return
	}

	products := make([]domain.Product, 0, len(req.Products))
	for _, item := range req.Products {
		p, err := domain.NewProduct(item.ID, item.Title, item.Description, item.Embedding)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		products = append(products, p)
	}

	report, err := s.ingest.BulkUpsert(r.Context(), products)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if !report.OK() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, bulkReportToResponse(report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProductNotFound,
		domain.ErrDimensionMismatch,
		domain.ErrValidation,
		domain.ErrEmbeddingResponseInvalid,
		domain.ErrEmbeddingProvider,
		domain.ErrEmbeddingUnavailable,
		domain.ErrIndexUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}
