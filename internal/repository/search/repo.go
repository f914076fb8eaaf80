package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hireloop/matchdex/internal/db"
	"github.com/hireloop/matchdex/internal/domain"
	"github.com/hireloop/matchdex/internal/domain/record"
	"github.com/hireloop/matchdex/internal/domain/search/filter"
	"github.com/hireloop/matchdex/internal/domain/search/hit"
)

// returnFields lists every hash field needed to reconstruct a record
// for post-filtering and response assembly. __vector is deliberately
// absent: the similarity arrives via the entry score, not the payload.
var returnFields = []string{
	"owner", "status", "title", "company", "location",
	"skills", "experience", "salary_min", "salary_max",
	"description", "__content",
}

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Retriever over a RediSearch-backed store.
type Repo struct {
	store store
}

// New creates a retrieval repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// VectorPass runs a KNN search over record vectors. Filters that the
// index can express are pushed down by the store; the full set is
// re-applied here on every parsed hit so that tenant visibility and
// location matching hold for both passes identically.
func (r *Repo) VectorPass(
	ctx context.Context, vector []float32, filters filter.Set, topK int,
) ([]hit.Raw, error) {
	q := &db.KNNQuery{
		IndexName:    domain.RecordIndexName,
		Filters:      filters,
		Vector:       vector,
		K:            topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: vector pass: %w", domain.ErrRetrievalUnavailable, err)
	}

	return parseHits(sr, filters), nil
}

// LexicalPass runs a BM25 keyword search over record lexical documents.
func (r *Repo) LexicalPass(
	ctx context.Context, keywords string, filters filter.Set, topK int,
) ([]hit.Raw, error) {
	q := &db.TextQuery{
		IndexName:    domain.RecordIndexName,
		Keywords:     keywords,
		Filters:      filters,
		TopK:         topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: lexical pass: %w", domain.ErrRetrievalUnavailable, err)
	}

	return parseHits(sr, filters), nil
}

// parseHits converts store entries into raw hits, dropping any record
// the full filter set rejects.
func parseHits(sr *db.SearchResult, filters filter.Set) []hit.Raw {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	hits := make([]hit.Raw, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		rec := parseRecord(entry)
		if !filters.Matches(&rec) {
			continue
		}
		hits = append(hits, hit.NewRaw(rec, entry.Score))
	}
	return hits
}

// parseRecord reconstructs a record from flat hash fields.
func parseRecord(entry db.SearchEntry) record.Record {
	id := strings.TrimPrefix(entry.Key, domain.RecordKeyPrefix)
	f := entry.Fields

	return record.Reconstruct(
		id,
		f["owner"],
		f["status"],
		f["title"],
		f["company"],
		f["location"],
		splitSkills(f["skills"]),
		parseNumeric(f["experience"]),
		parseNumeric(f["salary_min"]),
		parseNumeric(f["salary_max"]),
		f["description"],
		nil,
		f["__content"],
	)
}

func splitSkills(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

func parseNumeric(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
