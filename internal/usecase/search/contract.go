package search

import (
	"context"

	"github.com/hireloop/matchdex/internal/domain/search/filter"
	"github.com/hireloop/matchdex/internal/domain/search/hit"
	"github.com/hireloop/matchdex/internal/domain/search/query"
	"github.com/hireloop/matchdex/internal/usecase/normalize"
)

// Retriever defines the storage contract for the two retrieval passes.
// Both passes apply the full filter set before returning hits.
type Retriever interface {
	VectorPass(
		ctx context.Context, vector []float32, filters filter.Set, topK int,
	) ([]hit.Raw, error)

	LexicalPass(
		ctx context.Context, keywords string, filters filter.Set, topK int,
	) ([]hit.Raw, error)
}

// Normalizer turns free-form query text into retrieval inputs.
type Normalizer interface {
	Normalize(ctx context.Context, q *query.Query) (normalize.Result, error)
}
