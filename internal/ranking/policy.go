package ranking

// Policy holds the tunable constants of the ranking engine. The values in
// DefaultPolicy are the product's shipped behavior; tests construct narrower
// policies where convenient.
type Policy struct {
	// SeedRanges maps each sentiment to the closed integer range its seed
	// ratings are drawn from. Ranges must not overlap and must be ordered
	// LOVE > MID > BAD.
	SeedRanges map[Sentiment]SeedRange

	// KFactor is the Elo volatility constant applied to every update.
	KFactor float64

	// BaseRating is the neutral default for dishes that have a stored
	// rating of exactly this value (or none at all).
	BaseRating float64

	// AssumedMin and AssumedMax bound the fixed-range display normalizer.
	AssumedMin float64
	AssumedMax float64

	// PairAttempts is the sampling budget for pair selection before
	// giving up with NoUnjudgedPair.
	PairAttempts int

	// ConflictRetries bounds how often a rating update is retried after
	// losing an optimistic-concurrency race.
	ConflictRetries int
}

// SeedRange is a closed integer interval [Min, Max].
type SeedRange struct {
	Min int
	Max int
}

func DefaultPolicy() Policy {
	return Policy{
		SeedRanges: map[Sentiment]SeedRange{
			SentimentLove: {Min: 1050, Max: 1200},
			SentimentMid:  {Min: 900, Max: 1049},
			SentimentBad:  {Min: 700, Max: 899},
		},
		KFactor:         50,
		BaseRating:      1000,
		AssumedMin:      800,
		AssumedMax:      1400,
		PairAttempts:    50,
		ConflictRetries: 3,
	}
}

// Source is the random source the engine samples from. *math/rand.Rand
// satisfies it; tests substitute a deterministic implementation.
type Source interface {
	Intn(n int) int
}
