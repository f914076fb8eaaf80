package db

import "github.com/hireloop/matchdex/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      filter.Set
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for BM25 lexical search.
type TextQuery struct {
	IndexName    string
	Keywords     string
	Filters      filter.Set
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single record hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
