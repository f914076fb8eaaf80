package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hireloop/matchdex/internal/domain"
	"github.com/hireloop/matchdex/internal/domain/search/filter"
	"github.com/hireloop/matchdex/internal/domain/search/query"
	healthuc "github.com/hireloop/matchdex/internal/usecase/health"
	searchuc "github.com/hireloop/matchdex/internal/usecase/search"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest    = "bad_request"
	codeInvalidQuery  = "invalid_query"
	codeSearchTimeout = "search_timeout"
	codeSearchFailed  = "search_failed"
	codeInternalError = "internal_error"
	codeUnauthorized  = "unauthorized"
)

// errorResponse is the JSON body for non-streaming failures.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchDefaults are deployment-level fallbacks, applied when a request
// leaves the weights or the similarity floor unset.
type SearchDefaults struct {
	VectorWeight  float64
	LexicalWeight float64
	Floor         float64
}

// Server exposes the search engine over HTTP.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	defaults      SearchDefaults
	chunkSize     int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, defaults SearchDefaults, chunkSize int, logger *zap.Logger) *Server {
	s := &Server{
		search:    search,
		health:    health,
		defaults:  defaults,
		chunkSize: chunkSize,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrSearchTimeout, http.StatusGatewayTimeout, codeSearchTimeout),
		sentinelHandler(domain.ErrSearchFailed, http.StatusBadGateway, codeSearchFailed),
	}
	return s
}

// RegisterRoutes mounts all handlers on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/v1/search", s.Search)
	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())
}

// --- Request DTOs ---

type searchFilters struct {
	TenantID       string   `json:"tenant_id,omitempty"`
	Status         string   `json:"status,omitempty"`
	Location       string   `json:"location,omitempty"`
	ExperienceMin  *float64 `json:"experience_min,omitempty"`
	ExperienceMax  *float64 `json:"experience_max,omitempty"`
	SalaryMin      *float64 `json:"salary_min,omitempty"`
	SalaryMax      *float64 `json:"salary_max,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
}

type searchHints struct {
	Skills []string `json:"skills,omitempty"`
	Role   string   `json:"role,omitempty"`
}

type searchRequest struct {
	QueryText           string         `json:"query_text"`
	Hints               *searchHints   `json:"hints,omitempty"`
	Filters             *searchFilters `json:"filters,omitempty"`
	VectorWeight        float64        `json:"vector_weight,omitempty"`
	LexicalWeight       float64        `json:"lexical_weight,omitempty"`
	SimilarityThreshold float64        `json:"similarity_threshold,omitempty"`
	MatchCount          int            `json:"match_count,omitempty"`
}

// --- Stream DTOs ---

type hitLine struct {
	Type          string     `json:"type"`
	RecordID      string     `json:"record_id"`
	Record        recordBody `json:"record"`
	VectorScore   float64    `json:"vector_score"`
	LexicalScore  float64    `json:"lexical_score"`
	CombinedScore float64    `json:"combined_score"`
}

type recordBody struct {
	Title      string   `json:"title,omitempty"`
	Company    string   `json:"company,omitempty"`
	Location   string   `json:"location,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience float64  `json:"experience,omitempty"`
	SalaryMin  float64  `json:"salary_min,omitempty"`
	SalaryMax  float64  `json:"salary_max,omitempty"`
}

type metadataLine struct {
	Type           string  `json:"type"`
	SearchID       string  `json:"search_id"`
	Considered     int     `json:"considered"`
	Passed         int     `json:"passed"`
	VectorWeight   float64 `json:"vector_weight"`
	LexicalWeight  float64 `json:"lexical_weight"`
	Floor          float64 `json:"floor"`
	Degraded       bool    `json:"degraded"`
	DegradedReason string  `json:"degraded_reason,omitempty"`
}

// Search handles POST /v1/search. The response is NDJSON: one line per
// ranked hit, then one terminal metadata line.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := s.queryFromRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}

	out, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.streamOutcome(w, r, out)
}

func (s *Server) streamOutcome(w http.ResponseWriter, r *http.Request, out *searchuc.Outcome) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	for ev := range out.Stream(r.Context(), s.chunkSize) {
		if ev.Meta != nil {
			_ = enc.Encode(metadataLine{
				Type:           "metadata",
				SearchID:       ev.Meta.SearchID,
				Considered:     ev.Meta.Considered,
				Passed:         ev.Meta.Passed,
				VectorWeight:   ev.Meta.VectorWeight,
				LexicalWeight:  ev.Meta.LexicalWeight,
				Floor:          ev.Meta.Floor,
				Degraded:       ev.Meta.Degraded,
				DegradedReason: ev.Meta.DegradedReason,
			})
			break
		}

		for i := range ev.Hits {
			h := &ev.Hits[i]
			rec := h.Record()
			_ = enc.Encode(hitLine{
				Type:     "hit",
				RecordID: rec.ID(),
				Record: recordBody{
					Title:      rec.Title(),
					Company:    rec.Company(),
					Location:   rec.Location(),
					Skills:     rec.Skills(),
					Experience: rec.Experience(),
					SalaryMin:  rec.SalaryMin(),
					SalaryMax:  rec.SalaryMax(),
				},
				VectorScore:   h.VectorScore(),
				LexicalScore:  h.LexicalScore(),
				CombinedScore: h.CombinedScore(),
			})
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// queryFromRequest validates the DTO into a domain query.
// All validation failures surface as ErrInvalidQuery.
func (s *Server) queryFromRequest(req *searchRequest) (*query.Query, error) {
	vw, lw := req.VectorWeight, req.LexicalWeight
	if vw == 0 && lw == 0 {
		vw, lw = s.defaults.VectorWeight, s.defaults.LexicalWeight
	}
	floor := req.SimilarityThreshold
	if floor == 0 {
		floor = s.defaults.Floor
	}

	var hints query.Hints
	if req.Hints != nil {
		hints = query.Hints{Skills: req.Hints.Skills, Role: req.Hints.Role}
	}

	var filters filter.Set
	if req.Filters != nil {
		f := req.Filters
		set, err := filter.New(
			f.TenantID, f.Status, f.Location,
			f.ExperienceMin, f.ExperienceMax,
			f.SalaryMin, f.SalaryMax,
			f.RequiredSkills,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
		}
		filters = set
	}

	q, err := query.New(
		req.QueryText, hints, filters,
		vw, lw,
		floor, req.MatchCount,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return &q, nil
}

// --- Error helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrSearchTimeout,
		domain.ErrSearchFailed,
		domain.ErrEmbeddingUnavailable,
		domain.ErrRetrievalUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
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
