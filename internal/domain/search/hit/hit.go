// Package hit defines per-query scoring artifacts. Nothing here is persisted.
package hit

import "github.com/hireloop/matchdex/internal/domain/record"

// Raw is a single pre-fusion hit from one retrieval pass.
type Raw struct {
	rec   record.Record
	score float64
}

// NewRaw creates a raw hit.
func NewRaw(rec record.Record, score float64) Raw {
	return Raw{rec: rec, score: score}
}

// Record returns the matched record.
func (h *Raw) Record() *record.Record { return &h.rec }

// Score returns the pass-native raw score.
func (h *Raw) Score() float64 { return h.score }

// Scored is a fused hit carrying all three scores.
type Scored struct {
	rec           record.Record
	vectorScore   float64 // normalized [0,1]
	lexicalScore  float64 // normalized [0,1]
	rawVector     float64 // pre-normalization similarity, used for tie-breaks
	combinedScore float64
}

// NewScored creates a fused hit.
func NewScored(rec record.Record, vectorScore, lexicalScore, rawVector, combinedScore float64) Scored {
	return Scored{
		rec:           rec,
		vectorScore:   vectorScore,
		lexicalScore:  lexicalScore,
		rawVector:     rawVector,
		combinedScore: combinedScore,
	}
}

// Record returns the matched record.
func (h *Scored) Record() *record.Record { return &h.rec }

// VectorScore returns the normalized semantic score.
func (h *Scored) VectorScore() float64 { return h.vectorScore }

// LexicalScore returns the normalized lexical score.
func (h *Scored) LexicalScore() float64 { return h.lexicalScore }

// RawVector returns the raw (pre-normalization) vector similarity.
func (h *Scored) RawVector() float64 { return h.rawVector }

// CombinedScore returns the weighted fused score.
func (h *Scored) CombinedScore() float64 { return h.combinedScore }

// Metadata is the terminal record of a search stream.
type Metadata struct {
	SearchID       string
	Considered     int // distinct candidates seen across both passes
	Passed         int // candidates at or above the floor
	VectorWeight   float64
	LexicalWeight  float64
	Floor          float64
	Degraded       bool
	DegradedReason string
}
