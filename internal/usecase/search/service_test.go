package search

import (
	"context"
	"errors"
	"testing"

	"github.com/hireloop/matchdex/internal/domain"
	"github.com/hireloop/matchdex/internal/domain/search/filter"
	"github.com/hireloop/matchdex/internal/domain/search/hit"
	"github.com/hireloop/matchdex/internal/usecase/normalize"
)

func TestSearch_HappyPathFusesBothPasses(t *testing.T) {
	svc, mr, _ := newTestService(t)

	mr.vectorFn = func(_ context.Context, vector []float32, _ filter.Set, topK int) ([]hit.Raw, error) {
		if len(vector) == 0 {
			t.Error("vector pass must receive the query embedding")
		}
		if topK != 100 {
			t.Errorf("expected retrieval cap 100, got %d", topK)
		}
		return []hit.Raw{rawHit("rec-1", 0.95), rawHit("rec-2", 0.5)}, nil
	}
	mr.lexicalFn = func(_ context.Context, keywords string, _ filter.Set, _ int) ([]hit.Raw, error) {
		if keywords != "deep learning engineer shenzhen" {
			t.Errorf("unexpected keywords: %s", keywords)
		}
		return []hit.Raw{rawHit("rec-1", 12.0)}, nil
	}

	out, err := svc.Search(context.Background(), mustQuery(t, 0.6, 0.4, 0, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Meta.Degraded {
		t.Error("healthy search must not be degraded")
	}
	if out.Meta.Considered != 2 {
		t.Errorf("considered = %d, want 2", out.Meta.Considered)
	}
	if out.Meta.SearchID == "" {
		t.Error("expected a search id")
	}
	if len(out.Hits) == 0 || out.Hits[0].Record().ID() != "rec-1" {
		t.Fatalf("expected rec-1 on top, got %+v", out.Hits)
	}
	if out.Hits[0].CombinedScore() < 0.999 {
		t.Errorf("dual-pass leader must score 1.0, got %g", out.Hits[0].CombinedScore())
	}
}

func TestSearch_EmbeddingFailureDegradesToLexical(t *testing.T) {
	svc, mr, mn := newTestService(t)

	mn.result = normalize.Result{Keywords: "golang engineer", Source: normalize.SourceExtracted}
	mn.err = domain.ErrEmbeddingUnavailable

	var vectorCalled bool
	mr.vectorFn = func(_ context.Context, _ []float32, _ filter.Set, _ int) ([]hit.Raw, error) {
		vectorCalled = true
		return nil, nil
	}
	mr.lexicalFn = func(_ context.Context, _ string, _ filter.Set, _ int) ([]hit.Raw, error) {
		return []hit.Raw{rawHit("rec-1", 5.0)}, nil
	}

	out, err := svc.Search(context.Background(), mustQuery(t, 0.6, 0.4, 0, 20))
	if err != nil {
		t.Fatalf("expected degraded result, got error: %v", err)
	}
	if vectorCalled {
		t.Error("vector pass must be skipped without an embedding")
	}
	if !out.Meta.Degraded || out.Meta.DegradedReason != ReasonEmbeddingUnavailable {
		t.Errorf("unexpected metadata: %+v", out.Meta)
	}
	if out.Meta.VectorWeight != 0 {
		t.Errorf("metadata must report the zeroed vector weight, got %g", out.Meta.VectorWeight)
	}
	if out.Meta.LexicalWeight != 0.4 {
		t.Errorf("lexical weight must stay as requested, got %g", out.Meta.LexicalWeight)
	}
	if len(out.Hits) != 1 {
		t.Fatalf("expected lexical-only hits, got %d", len(out.Hits))
	}
}

func TestSearch_SinglePassFailureDegrades(t *testing.T) {
	tests := []struct {
		name       string
		vectorErr  error
		lexicalErr error
		reason     string
	}{
		{"vector fails", domain.ErrRetrievalUnavailable, nil, ReasonVectorPassFailed},
		{"lexical fails", nil, domain.ErrRetrievalUnavailable, ReasonLexicalPassFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, mr, _ := newTestService(t)

			mr.vectorFn = func(_ context.Context, _ []float32, _ filter.Set, _ int) ([]hit.Raw, error) {
				if tc.vectorErr != nil {
					return nil, tc.vectorErr
				}
				return []hit.Raw{rawHit("rec-1", 0.8)}, nil
			}
			mr.lexicalFn = func(_ context.Context, _ string, _ filter.Set, _ int) ([]hit.Raw, error) {
				if tc.lexicalErr != nil {
					return nil, tc.lexicalErr
				}
				return []hit.Raw{rawHit("rec-2", 6.0)}, nil
			}

			out, err := svc.Search(context.Background(), mustQuery(t, 0.6, 0.4, 0, 20))
			if err != nil {
				t.Fatalf("single pass failure must degrade, got error: %v", err)
			}
			if !out.Meta.Degraded || out.Meta.DegradedReason != tc.reason {
				t.Errorf("unexpected metadata: %+v", out.Meta)
			}
			if len(out.Hits) != 1 {
				t.Errorf("expected surviving pass hits, got %d", len(out.Hits))
			}
		})
	}
}

func TestSearch_BothPassesFailIsFatal(t *testing.T) {
	svc, mr, _ := newTestService(t)

	mr.vectorFn = func(_ context.Context, _ []float32, _ filter.Set, _ int) ([]hit.Raw, error) {
		return nil, domain.ErrRetrievalUnavailable
	}
	mr.lexicalFn = func(_ context.Context, _ string, _ filter.Set, _ int) ([]hit.Raw, error) {
		return nil, domain.ErrRetrievalUnavailable
	}

	_, err := svc.Search(context.Background(), mustQuery(t, 0.6, 0.4, 0, 20))
	if !errors.Is(err, domain.ErrSearchFailed) {
		t.Errorf("expected ErrSearchFailed, got %v", err)
	}
}

func TestSearch_BothPassesTimeOut(t *testing.T) {
	svc, mr, _ := newTestService(t)

	mr.vectorFn = func(ctx context.Context, _ []float32, _ filter.Set, _ int) ([]hit.Raw, error) {
		return nil, context.DeadlineExceeded
	}
	mr.lexicalFn = func(ctx context.Context, _ string, _ filter.Set, _ int) ([]hit.Raw, error) {
		return nil, context.DeadlineExceeded
	}

	_, err := svc.Search(context.Background(), mustQuery(t, 0.6, 0.4, 0, 20))
	if !errors.Is(err, domain.ErrSearchTimeout) {
		t.Errorf("expected ErrSearchTimeout, got %v", err)
	}
}

func TestSearch_FloorCanEmptyTheStream(t *testing.T) {
	svc, mr, _ := newTestService(t)

	// Sole candidate found only by the lexical pass: normalized 1.0 there,
	// 0 on the vector side, so combined = 0.4, under the 0.5 floor.
	mr.vectorFn = func(_ context.Context, _ []float32, _ filter.Set, _ int) ([]hit.Raw, error) {
		return nil, nil
	}
	mr.lexicalFn = func(_ context.Context, _ string, _ filter.Set, _ int) ([]hit.Raw, error) {
		return []hit.Raw{rawHit("rec-1", 6.0)}, nil
	}

	out, err := svc.Search(context.Background(), mustQuery(t, 0.6, 0.4, 0.5, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Hits) != 0 {
		t.Fatalf("expected empty hit list, got %d", len(out.Hits))
	}
	if out.Meta.Considered != 1 || out.Meta.Passed != 0 {
		t.Errorf("considered=%d passed=%d, want 1/0", out.Meta.Considered, out.Meta.Passed)
	}
}

func TestSearch_NormalizerFatalError(t *testing.T) {
	svc, _, mn := newTestService(t)
	mn.err = errors.New("context exploded")

	_, err := svc.Search(context.Background(), mustQuery(t, 0.6, 0.4, 0, 20))
	if err == nil {
		t.Fatal("expected error")
	}
}
