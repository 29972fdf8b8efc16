// Package selection draws the items for a game session from a scored pool.
//
// The draw is weighted random sampling, not a top-k by score: every
// candidate gets a key of u*score where u is uniform in [0,1), and the
// candidates with the highest keys win. High-score items tend to appear
// earlier and more often, while low-score items keep a nonzero chance.
package selection

import (
	"math"
	"sort"

	"github.com/phrazzld/verba-api/internal/domain"
)

// DefaultLimit is the number of items drawn when the caller gives none.
const DefaultLimit = 500

// minWeight is used for candidates whose score is missing or not positive.
const minWeight = 1.0

// Source yields uniform random values in [0, 1).
// *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64
}

type keyed[T any] struct {
	entry domain.PoolEntry[T]
	key   float64
}

// Draw orders the pool by u*score descending and returns at most limit
// items. A limit of zero or less returns an empty slice. The input slice is
// not modified.
func Draw[T any](pool []domain.PoolEntry[T], limit int, rng Source) []T {
	if limit <= 0 || len(pool) == 0 {
		return []T{}
	}

	candidates := make([]keyed[T], len(pool))
	for i, entry := range pool {
		candidates[i] = keyed[T]{
			entry: entry,
			key:   rng.Float64() * weight(entry.Score),
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].key > candidates[j].key
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	out := make([]T, limit)
	for i := 0; i < limit; i++ {
		out[i] = candidates[i].entry.Item
	}
	return out
}

// ResolveLimit applies the default and the cap to a requested limit.
// A nil request means the default. Values above maxLimit are clamped.
func ResolveLimit(requested *int, def, maxLimit int) int {
	if def <= 0 {
		def = DefaultLimit
	}
	if requested == nil {
		if maxLimit > 0 && def > maxLimit {
			return maxLimit
		}
		return def
	}
	limit := *requested
	if maxLimit > 0 && limit > maxLimit {
		return maxLimit
	}
	return limit
}

func weight(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < minWeight {
		return minWeight
	}
	return score
}
