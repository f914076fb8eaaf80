// Package query defines the validated, ephemeral search query.
package query

import (
	"fmt"

	"github.com/hireloop/matchdex/internal/domain/search/filter"
)

// Search parameter limits and defaults.
const (
	// MaxTextLength is the maximum allowed query text length.
	MaxTextLength = 4096
	// DefaultMatchCount is used when the caller does not cap results.
	DefaultMatchCount = 20
	// MaxMatchCount bounds the result cap.
	MaxMatchCount = 100
	// MinRetrievalCap is the floor for the per-pass candidate cap; the cap
	// must exceed the final match count to leave room for fusion re-ranking.
	MinRetrievalCap = 100
	// DefaultVectorWeight and DefaultLexicalWeight are applied when the
	// caller leaves both weights at zero.
	DefaultVectorWeight  = 0.5
	DefaultLexicalWeight = 0.5
)

// Hints carry optional structured query hints from the caller.
// When present, keywords are drawn from them instead of the raw text.
type Hints struct {
	Skills []string
	Role   string
}

// Query is a validated search query. Ephemeral, never persisted.
type Query struct {
	text          string
	hints         Hints
	filters       filter.Set
	vectorWeight  float64
	lexicalWeight float64
	floor         float64
	matchCount    int
}

// New validates and normalizes search parameters.
// Both weights zero means the caller expressed no preference and gets an
// even 0.5/0.5 split. Weights need not sum to 1.
func New(
	text string,
	hints Hints,
	filters filter.Set,
	vectorWeight, lexicalWeight float64,
	floor float64,
	matchCount int,
) (Query, error) {
	if text == "" {
		return Query{}, fmt.Errorf("query text is required")
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("query text too long (max %d chars)", MaxTextLength)
	}
	if vectorWeight < 0 || lexicalWeight < 0 {
		return Query{}, fmt.Errorf("weights must be non-negative")
	}
	if vectorWeight == 0 && lexicalWeight == 0 {
		vectorWeight, lexicalWeight = DefaultVectorWeight, DefaultLexicalWeight
	}
	if floor < 0 || floor > 1 {
		return Query{}, fmt.Errorf("similarity threshold must be between 0 and 1")
	}
	if matchCount < 0 {
		return Query{}, fmt.Errorf("match count must be non-negative")
	}
	if matchCount == 0 {
		matchCount = DefaultMatchCount
	}
	if matchCount > MaxMatchCount {
		matchCount = MaxMatchCount
	}

	return Query{
		text:          text,
		hints:         hints,
		filters:       filters,
		vectorWeight:  vectorWeight,
		lexicalWeight: lexicalWeight,
		floor:         floor,
		matchCount:    matchCount,
	}, nil
}

// Text returns the raw query text.
func (q *Query) Text() string { return q.text }

// QueryHints returns the structured hints.
func (q *Query) QueryHints() Hints { return q.hints }

// Filters returns the hard filter set.
func (q *Query) Filters() filter.Set { return q.filters }

// VectorWeight returns the semantic score weight.
func (q *Query) VectorWeight() float64 { return q.vectorWeight }

// LexicalWeight returns the lexical score weight.
func (q *Query) LexicalWeight() float64 { return q.lexicalWeight }

// Floor returns the minimum combined score for a hit to be returned.
func (q *Query) Floor() float64 { return q.floor }

// MatchCount returns the result cap.
func (q *Query) MatchCount() int { return q.matchCount }

// RetrievalCap returns the per-pass candidate cap: max(100, 5*matchCount).
// Each pass over-fetches so fusion re-ranking has candidates to promote.
func (q *Query) RetrievalCap() int {
	cap := 5 * q.matchCount
	if cap < MinRetrievalCap {
		cap = MinRetrievalCap
	}
	return cap
}
