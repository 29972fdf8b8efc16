package selection

import (
	"math/rand/v2"
	"testing"

	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource returns the given values in order and then repeats the last.
type fixedSource struct {
	values []float64
	i      int
}

func (s *fixedSource) Float64() float64 {
	v := s.values[len(s.values)-1]
	if s.i < len(s.values) {
		v = s.values[s.i]
	}
	s.i++
	return v
}

func pool(scores ...float64) []domain.PoolEntry[int] {
	p := make([]domain.PoolEntry[int], len(scores))
	for i, s := range scores {
		p[i] = domain.PoolEntry[int]{Item: i, Score: s}
	}
	return p
}

func TestDraw_OrdersByRandomTimesScore(t *testing.T) {
	t.Parallel()

	// keys: 0.9*1=0.9, 0.5*4=2.0, 0.1*5=0.5
	rng := &fixedSource{values: []float64{0.9, 0.5, 0.1}}
	got := Draw(pool(1, 4, 5), 10, rng)

	assert.Equal(t, []int{1, 0, 2}, got)
}

func TestDraw_NotStrictTopK(t *testing.T) {
	t.Parallel()

	// The highest score loses when its random factor is small.
	rng := &fixedSource{values: []float64{0.01, 0.99}}
	got := Draw(pool(100, 3), 1, rng)

	assert.Equal(t, []int{1}, got)
}

func TestDraw_Limit(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	p := pool(5, 5, 5, 5, 5, 5, 5, 5)

	assert.Len(t, Draw(p, 3, rng), 3)
	assert.Len(t, Draw(p, 100, rng), len(p))
	assert.Empty(t, Draw(p, 0, rng))
	assert.Empty(t, Draw[int](nil, 10, rng))
}

func TestDraw_NoDuplicates(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 7))
	got := Draw(pool(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), 10, rng)

	seen := map[int]bool{}
	for _, item := range got {
		require.False(t, seen[item], "item %d drawn twice", item)
		seen[item] = true
	}
	assert.Len(t, seen, 10)
}

func TestDraw_HigherScoresLeadMoreOften(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 99))
	p := pool(1, 20)

	heavyFirst := 0
	const rounds = 2000
	for i := 0; i < rounds; i++ {
		if Draw(p, 1, rng)[0] == 1 {
			heavyFirst++
		}
	}

	// P(u2*20 > u1*1) = 1 - 1/40, so the heavy item leads ~97.5% of the time
	// while the light one still wins occasionally.
	assert.Greater(t, heavyFirst, rounds*9/10)
	assert.Less(t, heavyFirst, rounds)
}

func TestDraw_NonPositiveScoresStillDrawable(t *testing.T) {
	t.Parallel()

	rng := &fixedSource{values: []float64{0.5, 0.4}}
	got := Draw(pool(0, -3), 2, rng)

	// both weighted as 1: keys 0.5 and 0.4
	assert.Equal(t, []int{0, 1}, got)
}

func TestDraw_DoesNotMutatePool(t *testing.T) {
	t.Parallel()

	p := pool(1, 2, 3)
	before := append([]domain.PoolEntry[int](nil), p...)
	_ = Draw(p, 2, rand.New(rand.NewPCG(3, 4)))

	assert.Equal(t, before, p)
}

func TestResolveLimit(t *testing.T) {
	t.Parallel()

	n := func(i int) *int { return &i }

	assert.Equal(t, 500, ResolveLimit(nil, 500, 1000))
	assert.Equal(t, DefaultLimit, ResolveLimit(nil, 0, 0))
	assert.Equal(t, 20, ResolveLimit(n(20), 500, 1000))
	assert.Equal(t, 1000, ResolveLimit(n(5000), 500, 1000))
	assert.Equal(t, 300, ResolveLimit(nil, 500, 300))
	assert.Equal(t, 0, ResolveLimit(n(0), 500, 1000))
}
