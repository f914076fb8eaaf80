package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireloop/matchdex/internal/domain"
	"github.com/hireloop/matchdex/internal/domain/search/hit"
	"github.com/hireloop/matchdex/internal/domain/search/query"
	"github.com/hireloop/matchdex/internal/metrics"
)

// Degradation reasons reported in stream metadata.
const (
	ReasonEmbeddingUnavailable = "embedding_unavailable"
	ReasonVectorPassFailed     = "vector_pass_failed"
	ReasonLexicalPassFailed    = "lexical_pass_failed"
)

// Config tunes the search pipeline.
type Config struct {
	PassTimeout     time.Duration // per-pass deadline
	ExactMatchFloor float64       // raw vector similarity that bypasses the floor
	ChunkSize       int           // hits per stream chunk
}

// Service runs the hybrid search pipeline: normalize, retrieve both
// passes in parallel, fuse, rank.
type Service struct {
	retr   Retriever
	norm   Normalizer
	cfg    Config
	logger *zap.Logger
}

// New creates a search service.
func New(retr Retriever, norm Normalizer, cfg Config, logger *zap.Logger) *Service {
	return &Service{retr: retr, norm: norm, cfg: cfg, logger: logger}
}

// Outcome is a completed search ready for streaming.
type Outcome struct {
	Hits []hit.Scored
	Meta hit.Metadata
}

// passOutcome collects one retrieval pass's result.
type passOutcome struct {
	hits []hit.Raw
	err  error
}

// Search executes one search end to end. A failing embedding provider
// or a single failing pass degrades the search rather than killing it;
// the outcome's metadata says so explicitly. Only both passes failing
// is fatal.
func (s *Service) Search(ctx context.Context, q *query.Query) (*Outcome, error) {
	searchID := uuid.NewString()
	log := s.logger.With(zap.String("search_id", searchID))

	norm, normErr := s.norm.Normalize(ctx, q)
	if normErr != nil && !errors.Is(normErr, domain.ErrEmbeddingUnavailable) {
		metrics.SearchesTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("normalize query: %w", normErr)
	}

	degradedReason := ""
	if normErr != nil {
		degradedReason = ReasonEmbeddingUnavailable
		log.Warn("Embedding unavailable, lexical-only search", zap.Error(normErr))
	}

	vecCh := make(chan passOutcome, 1)
	lexCh := make(chan passOutcome, 1)
	topK := q.RetrievalCap()

	if degradedReason == ReasonEmbeddingUnavailable {
		vecCh <- passOutcome{err: normErr}
	} else {
		go s.runVectorPass(ctx, norm.Vector, q, topK, vecCh)
	}
	go s.runLexicalPass(ctx, norm.Keywords, q, topK, lexCh)

	vec := <-vecCh
	lex := <-lexCh

	meta := hit.Metadata{
		SearchID:      searchID,
		VectorWeight:  q.VectorWeight(),
		LexicalWeight: q.LexicalWeight(),
		Floor:         q.Floor(),
	}
	if degradedReason == ReasonEmbeddingUnavailable {
		// No query vector existed, so the vector weight never applied.
		meta.VectorWeight = 0
	}

	switch {
	case vec.err != nil && lex.err != nil:
		metrics.SearchesTotal.WithLabelValues("failed").Inc()
		if isTimeout(vec.err) && isTimeout(lex.err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrSearchTimeout, errors.Join(vec.err, lex.err))
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, errors.Join(vec.err, lex.err))
	case vec.err != nil:
		if degradedReason == "" {
			degradedReason = ReasonVectorPassFailed
		}
		log.Warn("Vector pass dropped", zap.Error(vec.err))
	case lex.err != nil:
		degradedReason = ReasonLexicalPassFailed
		log.Warn("Lexical pass dropped", zap.Error(lex.err))
	}

	hits, considered, passed := fuse(vec.hits, lex.hits, fuseParams{
		vectorWeight:    q.VectorWeight(),
		lexicalWeight:   q.LexicalWeight(),
		floor:           q.Floor(),
		exactMatchFloor: s.cfg.ExactMatchFloor,
		limit:           q.MatchCount(),
	})

	meta.Considered = considered
	meta.Passed = passed
	if degradedReason != "" {
		meta.Degraded = true
		meta.DegradedReason = degradedReason
		metrics.SearchesTotal.WithLabelValues("degraded").Inc()
		metrics.SearchDegradedTotal.WithLabelValues(degradedReason).Inc()
	} else {
		metrics.SearchesTotal.WithLabelValues("ok").Inc()
	}
	metrics.SearchHitsReturned.Observe(float64(len(hits)))

	log.Info("Search completed",
		zap.Int("considered", considered),
		zap.Int("passed", passed),
		zap.Int("returned", len(hits)),
		zap.Bool("degraded", meta.Degraded),
	)

	return &Outcome{Hits: hits, Meta: meta}, nil
}

func (s *Service) runVectorPass(
	ctx context.Context, vector []float32, q *query.Query, topK int, out chan<- passOutcome,
) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PassTimeout)
	defer cancel()

	start := time.Now()
	hits, err := s.retr.VectorPass(ctx, vector, q.Filters(), topK)
	metrics.SearchPassDuration.WithLabelValues("vector").Observe(time.Since(start).Seconds())

	out <- passOutcome{hits: hits, err: err}
}

func (s *Service) runLexicalPass(
	ctx context.Context, keywords string, q *query.Query, topK int, out chan<- passOutcome,
) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PassTimeout)
	defer cancel()

	start := time.Now()
	hits, err := s.retr.LexicalPass(ctx, keywords, q.Filters(), topK)
	metrics.SearchPassDuration.WithLabelValues("lexical").Observe(time.Since(start).Seconds())

	out <- passOutcome{hits: hits, err: err}
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
