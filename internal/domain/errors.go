package domain

import "errors"

// KeyPrefix namespaces all matchdex keys in the record store.
const KeyPrefix = "matchdex:"

const (
	// RecordKeyPrefix prefixes every record hash key.
	RecordKeyPrefix = KeyPrefix + "record:"
	// RecordIndexName is the RediSearch index over record hashes.
	RecordIndexName = KeyPrefix + "records:idx"
)

var (
	// ErrInvalidQuery signals a malformed search query or filter set.
	// Rejected before any store call.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmbeddingUnavailable signals an embedding provider failure.
	// Recovered locally by degrading to a lexical-only search.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrRetrievalUnavailable signals that the record store could not serve a pass.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrSearchTimeout signals that both retrieval passes exceeded their deadline.
	ErrSearchTimeout = errors.New("search timeout")
	// ErrSearchFailed signals that both retrieval passes failed fatally.
	ErrSearchFailed = errors.New("search failed")
)
