package ranking

import (
	"errors"
	"fmt"
	"strings"
)

// Sentiment is a user's coarse first impression of a dish. The three values
// are the only recognized inputs; everything else is rejected at the
// boundary.
type Sentiment string

const (
	SentimentLove Sentiment = "LOVE"
	SentimentMid  Sentiment = "MID"
	SentimentBad  Sentiment = "BAD"
)

var ErrInvalidSentiment = errors.New("invalid sentiment")

// ParseSentiment validates a wire-level sentiment string.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(strings.ToUpper(s)) {
	case SentimentLove:
		return SentimentLove, nil
	case SentimentMid:
		return SentimentMid, nil
	case SentimentBad:
		return SentimentBad, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSentiment, s)
	}
}

// SeedRating draws a dish's initial rating uniformly from the sentiment's
// configured range so a brand-new dish enters the pool at a plausible
// position instead of the neutral default.
func (p Policy) SeedRating(s Sentiment, rng Source) (float64, error) {
	r, ok := p.SeedRanges[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSentiment, s)
	}
	return float64(r.Min + rng.Intn(r.Max-r.Min+1)), nil
}
