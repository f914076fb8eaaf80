package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hireloop/matchdex/internal/db"
	"github.com/hireloop/matchdex/internal/domain"
)

// store is the consumer interface for index bootstrap (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo bootstraps the record search index at startup.
type Repo struct {
	store     store
	vectorDim int
	hnsw      HNSWConfig
	logger    *zap.Logger
}

// New creates an index repository.
func New(s store, vectorDim int, logger *zap.Logger) *Repo {
	return &Repo{
		store:     s,
		vectorDim: vectorDim,
		hnsw:      HNSWConfig{M: 32, EFConstruct: 400},
		logger:    logger,
	}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureIndex creates the record index if it does not exist yet.
// Existing indexes are left untouched: schema changes require an
// explicit reindex, not a startup side effect.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, domain.RecordIndexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", domain.RecordIndexName, err)
	}
	if exists {
		r.logger.Debug("Record index present", zap.String("index", domain.RecordIndexName))
		return nil
	}

	def, err := recordIndex(r.vectorDim, r.hnsw)
	if err != nil {
		return fmt.Errorf("build index %s: %w", domain.RecordIndexName, err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", domain.RecordIndexName, err)
	}

	r.logger.Info("Record index created",
		zap.String("index", domain.RecordIndexName),
		zap.Int("vector_dim", r.vectorDim),
	)
	return nil
}

// recordIndex describes the hash schema every record is stored under.
func recordIndex(vectorDim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(domain.RecordIndexName).
		Prefix(domain.RecordKeyPrefix).
		Tag("status").
		Tag("owner").
		TagWithSeparator("skills", ",").
		Numeric("experience").
		Numeric("salary_min").
		Numeric("salary_max").
		Text("__content").
		VectorHNSW("__vector", vectorDim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
}
