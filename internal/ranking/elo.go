package ranking

import "math"

// ExpectedScore is the logistic-model probability that a dish rated ra would
// be preferred over one rated rb. ExpectedScore(a,b) + ExpectedScore(b,a)
// is always 1.
func ExpectedScore(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// Update carries both dishes' post-comparison ratings.
type Update struct {
	Winner float64
	Loser  float64
}

// ApplyPreference computes both new ratings after the user prefers the
// winner. The winner always gains and the loser always loses; the total of
// the two ratings is unchanged.
func (p Policy) ApplyPreference(winner, loser float64) Update {
	expWinner := ExpectedScore(winner, loser)
	expLoser := ExpectedScore(loser, winner)
	return Update{
		Winner: winner + p.KFactor*(1-expWinner),
		Loser:  loser + p.KFactor*(0-expLoser),
	}
}
