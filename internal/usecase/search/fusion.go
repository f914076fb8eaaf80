package search

import (
	"sort"

	"github.com/hireloop/matchdex/internal/domain/search/hit"
)

// fuseParams carries the knobs the fusion step needs from the query
// and service configuration.
type fuseParams struct {
	vectorWeight    float64
	lexicalWeight   float64
	floor           float64
	exactMatchFloor float64
	limit           int
}

// candidate is one id in the union of both pass result sets.
type candidate struct {
	raw        hit.Raw
	rawVector  float64
	rawLexical float64
}

// fuse merges the two pass result sets into a single ranking.
//
// Each pass's raw scores are min-max normalized over the union of
// candidate ids; an id absent from a pass contributes raw 0 to that
// pass. The combined score is the weighted sum of the two normalized
// scores. Candidates below the floor are dropped unless their raw
// vector similarity clears the exact-match floor, so a near-identical
// record cannot be suppressed by a harsh floor setting.
//
// Returns the ranked surviving hits (capped at limit), the union size,
// and the count of candidates that cleared the floor.
func fuse(vector, lexical []hit.Raw, p fuseParams) ([]hit.Scored, int, int) {
	union := make(map[string]*candidate, len(vector)+len(lexical))

	for _, h := range vector {
		union[h.Record().ID()] = &candidate{raw: h, rawVector: h.Score()}
	}
	for _, h := range lexical {
		if c, ok := union[h.Record().ID()]; ok {
			c.rawLexical = h.Score()
			continue
		}
		union[h.Record().ID()] = &candidate{raw: h, rawLexical: h.Score()}
	}

	considered := len(union)
	if considered == 0 {
		return nil, 0, 0
	}

	vecNorm := minMax(union, func(c *candidate) float64 { return c.rawVector })
	lexNorm := minMax(union, func(c *candidate) float64 { return c.rawLexical })

	scored := make([]hit.Scored, 0, considered)
	for _, c := range union {
		nv := vecNorm(c)
		nl := lexNorm(c)
		combined := p.vectorWeight*nv + p.lexicalWeight*nl

		if combined < p.floor && c.rawVector < p.exactMatchFloor {
			continue
		}
		scored = append(scored, hit.NewScored(*c.raw.Record(), nv, nl, c.rawVector, combined))
	}

	passed := len(scored)

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].CombinedScore() != scored[j].CombinedScore() {
			return scored[i].CombinedScore() > scored[j].CombinedScore()
		}
		if scored[i].RawVector() != scored[j].RawVector() {
			return scored[i].RawVector() > scored[j].RawVector()
		}
		return scored[i].Record().ID() < scored[j].Record().ID()
	})

	if len(scored) > p.limit {
		scored = scored[:p.limit]
	}

	return scored, considered, passed
}

// minMax returns a normalizer over the union for one pass's raw scores.
// A degenerate range maps every candidate to 1 when the shared value is
// positive and to 0 when the pass produced nothing at all.
func minMax(union map[string]*candidate, rawOf func(*candidate) float64) func(*candidate) float64 {
	first := true
	var lo, hi float64
	for _, c := range union {
		v := rawOf(c)
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if hi == lo {
		if hi > 0 {
			return func(*candidate) float64 { return 1 }
		}
		return func(*candidate) float64 { return 0 }
	}

	spread := hi - lo
	return func(c *candidate) float64 {
		return (rawOf(c) - lo) / spread
	}
}
