package search

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/matchdex/internal/domain/record"
	"github.com/hireloop/matchdex/internal/domain/search/filter"
	"github.com/hireloop/matchdex/internal/domain/search/hit"
	"github.com/hireloop/matchdex/internal/domain/search/query"
	"github.com/hireloop/matchdex/internal/usecase/normalize"
)

// mockRetriever implements Retriever for tests.
type mockRetriever struct {
	vectorFn  func(ctx context.Context, vector []float32, filters filter.Set, topK int) ([]hit.Raw, error)
	lexicalFn func(ctx context.Context, keywords string, filters filter.Set, topK int) ([]hit.Raw, error)
}

func (m *mockRetriever) VectorPass(
	ctx context.Context, vector []float32, filters filter.Set, topK int,
) ([]hit.Raw, error) {
	if m.vectorFn != nil {
		return m.vectorFn(ctx, vector, filters, topK)
	}
	return nil, nil
}

func (m *mockRetriever) LexicalPass(
	ctx context.Context, keywords string, filters filter.Set, topK int,
) ([]hit.Raw, error) {
	if m.lexicalFn != nil {
		return m.lexicalFn(ctx, keywords, filters, topK)
	}
	return nil, nil
}

// mockNormalizer implements Normalizer for tests.
type mockNormalizer struct {
	result normalize.Result
	err    error
}

func (m *mockNormalizer) Normalize(_ context.Context, _ *query.Query) (normalize.Result, error) {
	return m.result, m.err
}

func newTestService(t *testing.T) (*Service, *mockRetriever, *mockNormalizer) {
	t.Helper()
	mr := &mockRetriever{}
	mn := &mockNormalizer{result: normalize.Result{
		Vector:   []float32{0.1, 0.2},
		Keywords: "deep learning engineer shenzhen",
		Source:   normalize.SourceExtracted,
	}}
	svc := New(mr, mn, Config{
		PassTimeout:     time.Second,
		ExactMatchFloor: 0.9,
		ChunkSize:       10,
	}, zap.NewNop())
	return svc, mr, mn
}

func mustQuery(t *testing.T, vw, lw, floor float64, matchCount int) *query.Query {
	t.Helper()
	q, err := query.New(
		"deep learning engineer shenzhen", query.Hints{}, filter.Set{},
		vw, lw, floor, matchCount,
	)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return &q
}

func rawHit(id string, score float64) hit.Raw {
	rec := record.Reconstruct(
		id, "", "active",
		"Deep Learning Engineer", "NeuroWorks", "Shenzhen",
		[]string{"python", "pytorch"}, 6, 30000, 45000,
		"Build and train deep neural networks.",
		nil, "deep learning engineer shenzhen",
	)
	return hit.NewRaw(rec, score)
}
