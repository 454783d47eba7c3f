package ranking

import "math"

// The app shows two flavors of the 1-10 score: dish detail uses a fixed
// assumed rating spread so scores are comparable across screens, while the
// ranked list stretches the currently displayed set across the full scale.

// NormalizeFixed maps a raw rating onto the 1.0-10.0 display scale against
// the policy's assumed population spread. A missing rating, or one still at
// the neutral default, deliberately pins to 5.0 so an unresolved dish never
// shows a misleadingly precise score.
func (p Policy) NormalizeFixed(rating *float64) float64 {
	if rating == nil || *rating == p.BaseRating {
		return 5.0
	}
	return normalize(*rating, p.AssumedMin, p.AssumedMax)
}

// NormalizePopulation maps a raw rating onto 1.0-10.0 relative to the actual
// min/max of the displayed set. A degenerate spread (min == max) yields 5.0.
func NormalizePopulation(rating, min, max float64) float64 {
	if max == min {
		return 5.0
	}
	return normalize(rating, min, max)
}

func normalize(rating, min, max float64) float64 {
	v := 1 + 9*(rating-min)/(max-min)
	if v < 1.0 {
		return 1.0
	}
	if v > 10.0 {
		return 10.0
	}
	// One decimal place for display.
	return math.Round(v*10) / 10
}
