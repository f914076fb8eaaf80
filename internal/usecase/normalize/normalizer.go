// Package normalize turns a raw query plus optional structured hints into
// the semantic vector and lexical keyword string the retriever consumes.
package normalize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hireloop/matchdex/internal/domain"
	"github.com/hireloop/matchdex/internal/domain/search/query"
)

// MaxKeywords caps the extracted keyword list; lexical precision drops fast
// past a handful of terms.
const MaxKeywords = 12

// MaxRawFallbackLen truncates the raw-text fallback keyword string.
const MaxRawFallbackLen = 256

// Source identifies which stage of the keyword pipeline produced the keywords.
type Source string

const (
	// SourceHints means keywords came from structured skills/role hints.
	SourceHints Source = "hints"
	// SourceExtracted means keywords were extracted from the raw text.
	SourceExtracted Source = "extracted"
	// SourceRawText means extraction found nothing and the truncated raw text was used.
	SourceRawText Source = "raw_text"
)

// Result is the normalizer output. Vector is nil when the embedding
// provider was unavailable; the engine then degrades to lexical-only.
type Result struct {
	Vector   []float32
	Keywords string
	Source   Source
}

// Normalizer produces the per-pass query inputs.
type Normalizer struct {
	embed  domain.Embedder
	logger *zap.Logger
}

// New creates a query normalizer.
func New(embed domain.Embedder, logger *zap.Logger) *Normalizer {
	return &Normalizer{embed: embed, logger: logger}
}

// Normalize embeds the query text and derives lexical keywords.
// An embedding failure is returned as ErrEmbeddingUnavailable alongside a
// usable Result so the caller can still run the lexical pass.
func (n *Normalizer) Normalize(ctx context.Context, q *query.Query) (Result, error) {
	keywords, source := Keywords(q.Text(), q.QueryHints())
	res := Result{Keywords: keywords, Source: source}

	embRes, err := n.embed.Embed(ctx, q.Text())
	if err != nil {
		n.logger.Warn("query embedding failed, degrading to lexical-only",
			zap.Error(err))
		return res, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(embRes.Embedding) == 0 {
		return res, fmt.Errorf("%w: provider returned empty vector", domain.ErrEmbeddingUnavailable)
	}

	res.Vector = embRes.Embedding
	return res, nil
}

// Keywords derives the lexical keyword string without touching the provider.
// Three-stage pipeline: structured hints, lightweight extraction, raw fallback.
func Keywords(text string, hints query.Hints) (string, Source) {
	if kw := fromHints(hints); kw != "" {
		return kw, SourceHints
	}
	if kw := extract(text); kw != "" {
		return kw, SourceExtracted
	}
	return truncate(strings.TrimSpace(text), MaxRawFallbackLen), SourceRawText
}

// fromHints builds keywords from explicit skills/role hints,
// deduplicated and order-preserving.
func fromHints(hints query.Hints) string {
	terms := make([]string, 0, len(hints.Skills)+1)
	seen := make(map[string]struct{}, len(hints.Skills)+1)

	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" {
			return
		}
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		terms = append(terms, term)
	}

	add(hints.Role)
	for _, s := range hints.Skills {
		add(s)
	}

	return strings.Join(terms, " ")
}

// extract pulls high-precision tokens out of the raw text: lowercase,
// punctuation-trimmed, stop words removed, deduplicated, capped.
func extract(text string) string {
	words := strings.Fields(text)
	terms := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))

	for _, w := range words {
		cleaned := strings.ToLower(strings.Trim(w, ".,!?;:'\"-()[]{}"))
		if cleaned == "" || stopWords[cleaned] {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		terms = append(terms, cleaned)
		if len(terms) == MaxKeywords {
			break
		}
	}

	return strings.Join(terms, " ")
}

// truncate cuts s to at most n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true, "who": true, "we": true, "i": true,
	"looking": true, "seeking": true, "wanted": true, "need": true,
}
