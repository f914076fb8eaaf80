package search

import (
	"context"
	"testing"

	"github.com/hireloop/matchdex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchBM25Fn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchBM25Fn != nil {
		return m.searchBM25Fn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

// recordEntry builds a store entry shaped like a record hash.
func recordEntry(id string, score float64, overrides map[string]string) db.SearchEntry {
	fields := map[string]string{
		"owner":      "",
		"status":     "active",
		"title":      "Deep Learning Engineer",
		"company":    "NeuroWorks",
		"location":   "Shenzhen",
		"skills":     "python,pytorch,cuda",
		"experience": "6",
		"salary_min": "30000",
		"salary_max": "45000",
		"description": "Build and train deep neural networks for " +
			"production recommendation systems.",
		"__content": "deep learning engineer neuroworks shenzhen python pytorch cuda",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return db.SearchEntry{
		Key:    "matchdex:record:" + id,
		Score:  score,
		Fields: fields,
	}
}
