package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFixed(t *testing.T) {
	policy := DefaultPolicy()
	rating := func(v float64) *float64 { return &v }

	t.Run("NeutralCases", func(t *testing.T) {
		assert.Equal(t, 5.0, policy.NormalizeFixed(nil))
		assert.Equal(t, 5.0, policy.NormalizeFixed(rating(1000)))
	})

	t.Run("AssumedBounds", func(t *testing.T) {
		assert.Equal(t, 1.0, policy.NormalizeFixed(rating(800)))
		assert.Equal(t, 10.0, policy.NormalizeFixed(rating(1400)))
	})

	t.Run("ClampsOutOfRange", func(t *testing.T) {
		assert.Equal(t, 1.0, policy.NormalizeFixed(rating(500)))
		assert.Equal(t, 10.0, policy.NormalizeFixed(rating(2000)))
	})

	t.Run("OneDecimalPlace", func(t *testing.T) {
		// 1 + 9*(1150-800)/600 = 6.25 → 6.3
		assert.Equal(t, 6.3, policy.NormalizeFixed(rating(1150)))
	})
}

func TestNormalizePopulation(t *testing.T) {
	t.Run("DegenerateSpread", func(t *testing.T) {
		assert.Equal(t, 5.0, NormalizePopulation(1000, 1000, 1000))
	})

	t.Run("StretchesDisplayedSet", func(t *testing.T) {
		assert.Equal(t, 1.0, NormalizePopulation(950, 950, 1100))
		assert.Equal(t, 10.0, NormalizePopulation(1100, 950, 1100))
		assert.Equal(t, 5.5, NormalizePopulation(1025, 950, 1100))
	})

	t.Run("Clamps", func(t *testing.T) {
		assert.Equal(t, 1.0, NormalizePopulation(900, 950, 1100))
		assert.Equal(t, 10.0, NormalizePopulation(1200, 950, 1100))
	})
}
