// Package chi is the HTTP presentation layer: the search page, the JSON API and ops endpoints.
package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/attribute"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/query"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/result"
	logpkg "github.com/raviX007/natural-language-wine-search/internal/logger"
	healthuc "github.com/raviX007/natural-language-wine-search/internal/usecase/health"
	searchuc "github.com/raviX007/natural-language-wine-search/internal/usecase/search"
)

// Searcher runs natural-language and pre-translated searches.
type Searcher interface {
	Search(ctx context.Context, cred domain.Credential, text string) (searchuc.Response, error)
	SearchStructured(ctx context.Context, cred domain.Credential, q query.Structured) ([]result.Result, error)
}

// Resetter drops and reseeds the wine collection.
type Resetter interface {
	Reset(ctx context.Context, cred domain.Credential, confirmed bool) (int, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context, cred domain.Credential) healthuc.Report
}

// Server serves the search page, the JSON API and ops endpoints.
type Server struct {
	search        Searcher
	collection    Resetter
	health        HealthChecker
	schema        attribute.Schema
	examples      []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server.
func NewServer(
	search Searcher,
	collection Resetter,
	health HealthChecker,
	schema attribute.Schema,
	examples []string,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search:        search,
		collection:    collection,
		health:        health,
		schema:        schema,
		examples:      examples,
		logger:        logger,
		errorHandlers: defaultErrorHandlers,
	}
}

// WineResponse is a single search hit.
type WineResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Rating      int     `json:"rating"`
	Grape       string  `json:"grape"`
	Color       string  `json:"color"`
	Country     string  `json:"country"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// StructuredQuery is the translated form of a query.
type StructuredQuery struct {
	Query  string `json:"query"`
	Filter string `json:"filter"`
	Limit  *int   `json:"limit,omitempty"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Query      string          `json:"query,omitempty"`
	Structured StructuredQuery `json:"structured"`
	Items      []WineResponse  `json:"items"`
	Total      int             `json:"total"`
}

// ResetResponse is the body of a successful reset.
type ResetResponse struct {
	Records int `json:"records"`
}

// ExamplesResponse lists example queries.
type ExamplesResponse struct {
	Examples []string `json:"examples"`
}

// SchemaAttribute describes one filterable attribute.
type SchemaAttribute struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// SchemaResponse describes what queries can filter on.
type SchemaResponse struct {
	Content     string            `json:"content"`
	Attributes  []SchemaAttribute `json:"attributes"`
	Comparators []string          `json:"comparators"`
	Operators   []string          `json:"operators"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Records *int              `json:"records,omitempty"`
}

// SearchAPI handles GET /api/search?q=.
func (s *Server) SearchAPI(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &q); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter q: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Search(ctx, credentialFrom(r), q)
	setUsageHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out := toSearchResponse(resp.Query, resp.Results)
	out.Query = q
	writeJSON(w, http.StatusOK, out)
}

// StructuredSearchAPI handles POST /api/search/structured. The body is an already
// translated query; it is validated against the schema and run without the LLM.
func (s *Server) StructuredSearchAPI(w http.ResponseWriter, r *http.Request) {
	cred := credentialFrom(r)
	if cred.IsEmpty() {
		s.handleDomainError(w, r, domain.ErrMissingCredential)
		return
	}

	var req StructuredQuery
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := s.structuredFromRequest(req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results, err := s.search.SearchStructured(ctx, cred, q)
	setUsageHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(q, results))
}

func (s *Server) structuredFromRequest(req StructuredQuery) (query.Structured, error) {
	f, err := filter.Parse(req.Filter)
	if err != nil {
		return query.Structured{}, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}
	if err := s.schema.ValidateFilter(f); err != nil {
		return query.Structured{}, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}
	limit := 0
	if req.Limit != nil {
		if *req.Limit <= 0 {
			return query.Structured{}, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidQuery)
		}
		limit = *req.Limit
	}
	q, err := query.New(req.Query, f, limit)
	if err != nil {
		return query.Structured{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return q, nil
}

// ResetAPI handles POST /api/reset?confirm=true.
func (s *Server) ResetAPI(w http.ResponseWriter, r *http.Request) {
	var confirm bool
	if err := runtime.BindQueryParameter("form", true, false, "confirm", r.URL.Query(), &confirm); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter confirm: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	n, err := s.collection.Reset(ctx, credentialFrom(r), confirm)
	setUsageHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	logpkg.FromContext(r.Context()).Warn("database reset", zap.Int("records", n))
	writeJSON(w, http.StatusOK, ResetResponse{Records: n})
}

// ExamplesAPI handles GET /api/examples.
func (s *Server) ExamplesAPI(w http.ResponseWriter, _ *http.Request) {
	examples := s.examples
	if examples == nil {
		examples = []string{}
	}
	writeJSON(w, http.StatusOK, ExamplesResponse{Examples: examples})
}

// SchemaAPI handles GET /api/schema.
func (s *Server) SchemaAPI(w http.ResponseWriter, _ *http.Request) {
	resp := SchemaResponse{Content: s.schema.Content()}
	for _, a := range s.schema.Attributes() {
		resp.Attributes = append(resp.Attributes, SchemaAttribute{
			Name:        a.Name(),
			Description: a.Description(),
			Type:        string(a.Type()),
		})
	}
	for _, c := range filter.Comparators {
		resp.Comparators = append(resp.Comparators, string(c))
	}
	for _, o := range filter.Operators {
		resp.Operators = append(resp.Operators, string(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health. The provider is checked only when a Bearer key is sent.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context(), credentialFrom(r))

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	resp := HealthResponse{Status: string(report.Status), Checks: checks}
	if report.Checks[healthuc.ComponentCollection] == healthuc.CheckOK {
		n := report.Records
		resp.Records = &n
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.RequestUsage) {
	if usage == nil {
		return
	}
	if usage.EmbeddingCalled {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.EmbeddingTokens))
	}
	if usage.TranslationCalled {
		w.Header().Set("X-Completion-Tokens", strconv.Itoa(usage.CompletionTokens))
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	resp, status := s.classify(r, err)
	writeJSON(w, status, resp)
}

// classify maps err to a response and logs it with the request logger.
func (s *Server) classify(r *http.Request, err error) (ErrorResponse, int) {
	logger := logpkg.FromContext(r.Context())
	resp, status := classify(s.errorHandlers, err)
	if status == http.StatusInternalServerError {
		logger.Error("internal error", zap.Error(err))
	} else {
		logger.Warn("domain error", zap.Error(err), zap.String("code", string(resp.Code)))
	}
	return resp, status
}

func toSearchResponse(q query.Structured, results []result.Result) SearchResponse {
	items := make([]WineResponse, len(results))
	for i := range results {
		items[i] = wineToResponse(&results[i])
	}
	return SearchResponse{
		Structured: structuredToResponse(q),
		Items:      items,
		Total:      len(items),
	}
}

func structuredToResponse(q query.Structured) StructuredQuery {
	out := StructuredQuery{Query: q.Text(), Filter: q.Filter().String()}
	if q.Limit() > 0 {
		n := q.Limit()
		out.Limit = &n
	}
	return out
}

func wineToResponse(r *result.Result) WineResponse {
	rec := r.Record()
	return WineResponse{
		ID:          rec.ID(),
		Name:        rec.Name(),
		Year:        rec.Year(),
		Rating:      rec.Rating(),
		Grape:       rec.Grape(),
		Color:       string(rec.Color()),
		Country:     rec.Country(),
		Description: rec.Description(),
		Score:       r.Score(),
	}
}
