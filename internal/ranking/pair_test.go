package ranking

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKey(t *testing.T) {
	t.Run("OrderIndependent", func(t *testing.T) {
		assert.Equal(t, PairKey(3, 17), PairKey(17, 3))
		assert.Equal(t, "17_3", PairKey(3, 17)) // lexicographic, not numeric
		assert.Equal(t, "12_7", PairKey(7, 12))
	})
}

func TestSelectPair(t *testing.T) {
	policy := DefaultPolicy()
	rng := rand.New(rand.NewSource(42))

	t.Run("InsufficientPopulation", func(t *testing.T) {
		_, outcome := policy.SelectPair([]int64{1}, nil, 0, rng)
		assert.Equal(t, InsufficientPopulation, outcome)

		_, outcome = policy.SelectPair(nil, nil, 0, rng)
		assert.Equal(t, InsufficientPopulation, outcome)
	})

	t.Run("ReturnsDistinctEligibleDishes", func(t *testing.T) {
		eligible := []int64{1, 2, 3, 4, 5}
		for i := 0; i < 200; i++ {
			pair, outcome := policy.SelectPair(eligible, nil, 0, rng)
			require.Equal(t, PairFound, outcome)
			assert.NotEqual(t, pair.First, pair.Second)
			assert.Contains(t, eligible, pair.First)
			assert.Contains(t, eligible, pair.Second)
		}
	})

	t.Run("NeverRepeatsJudgedPair", func(t *testing.T) {
		eligible := []int64{1, 2, 3}
		judged := map[string]struct{}{PairKey(1, 2): {}}
		for i := 0; i < 500; i++ {
			pair, outcome := policy.SelectPair(eligible, judged, 0, rng)
			require.Equal(t, PairFound, outcome)
			assert.NotEqual(t, PairKey(1, 2), PairKey(pair.First, pair.Second))
		}
	})

	t.Run("JudgedSetIsPerUser", func(t *testing.T) {
		// Another user's empty judged set still sees every pair.
		eligible := []int64{1, 2}
		pair, outcome := policy.SelectPair(eligible, map[string]struct{}{}, 0, rng)
		require.Equal(t, PairFound, outcome)
		assert.Equal(t, PairKey(1, 2), PairKey(pair.First, pair.Second))
	})

	t.Run("AllPairsJudged", func(t *testing.T) {
		eligible := []int64{1, 2, 3}
		judged := map[string]struct{}{
			PairKey(1, 2): {},
			PairKey(1, 3): {},
			PairKey(2, 3): {},
		}
		_, outcome := policy.SelectPair(eligible, judged, 0, rng)
		assert.Equal(t, NoUnjudgedPair, outcome)
	})

	t.Run("MustIncludeIsAlwaysFirst", func(t *testing.T) {
		eligible := []int64{1, 2, 3, 4, 5, 6, 7, 8}
		for i := 0; i < 200; i++ {
			pair, outcome := policy.SelectPair(eligible, nil, 5, rng)
			if outcome != PairFound {
				continue // sampling budget can miss the anchor; that is allowed
			}
			assert.Equal(t, int64(5), pair.First)
			assert.NotEqual(t, int64(5), pair.Second)
		}
	})
}
