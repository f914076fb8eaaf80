package matchdex

import "fmt"

// SearchRequest describes one hybrid search call.
// Zero weights mean the server-side defaults apply.
type SearchRequest struct {
	QueryText           string   `json:"query_text"`
	Hints               *Hints   `json:"hints,omitempty"`
	Filters             *Filters `json:"filters,omitempty"`
	VectorWeight        float64  `json:"vector_weight,omitempty"`
	LexicalWeight       float64  `json:"lexical_weight,omitempty"`
	SimilarityThreshold float64  `json:"similarity_threshold,omitempty"`
	MatchCount          int      `json:"match_count,omitempty"`
}

// Hints carry optional structured query hints. When present, lexical
// keywords are drawn from them instead of the raw query text.
type Hints struct {
	Skills []string `json:"skills,omitempty"`
	Role   string   `json:"role,omitempty"`
}

// Filters are hard constraints: a record either matches all of them or
// is excluded entirely.
type Filters struct {
	TenantID       string   `json:"tenant_id,omitempty"`
	Status         string   `json:"status,omitempty"`
	Location       string   `json:"location,omitempty"`
	ExperienceMin  *float64 `json:"experience_min,omitempty"`
	ExperienceMax  *float64 `json:"experience_max,omitempty"`
	SalaryMin      *float64 `json:"salary_min,omitempty"`
	SalaryMax      *float64 `json:"salary_max,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
}

// Hit is one ranked search result.
type Hit struct {
	RecordID      string  `json:"record_id"`
	Record        Record  `json:"record"`
	VectorScore   float64 `json:"vector_score"`
	LexicalScore  float64 `json:"lexical_score"`
	CombinedScore float64 `json:"combined_score"`
}

// Record holds the matched record's fields.
type Record struct {
	Title      string   `json:"title,omitempty"`
	Company    string   `json:"company,omitempty"`
	Location   string   `json:"location,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience float64  `json:"experience,omitempty"`
	SalaryMin  float64  `json:"salary_min,omitempty"`
	SalaryMax  float64  `json:"salary_max,omitempty"`
}

// Metadata is the terminal record of a search stream.
type Metadata struct {
	SearchID       string  `json:"search_id"`
	Considered     int     `json:"considered"`
	Passed         int     `json:"passed"`
	VectorWeight   float64 `json:"vector_weight"`
	LexicalWeight  float64 `json:"lexical_weight"`
	Floor          float64 `json:"floor"`
	Degraded       bool    `json:"degraded"`
	DegradedReason string  `json:"degraded_reason,omitempty"`
}

// APIError is a non-2xx response from the service.
// Check Code against the documented error codes (invalid_query,
// search_timeout, search_failed, unauthorized).
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("matchdex: %s (%s, HTTP %d)", e.Message, e.Code, e.StatusCode)
}
