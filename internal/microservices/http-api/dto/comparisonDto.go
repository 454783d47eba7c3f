package dto

// Comparison pair statuses returned alongside (or instead of) a pair. These
// are routine outcomes, not errors, so they travel in 200 responses.
const (
	PairStatusFound = "pair_found"
	// PairStatusInsufficientPopulation: fewer than two ranked dishes exist.
	PairStatusInsufficientPopulation = "insufficient_population"
	// PairStatusExhausted: no unjudged pair was found for this user.
	PairStatusExhausted = "exhausted"
)

// ComparisonDishDTO is one side of a "which is better?" card.
type ComparisonDishDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	DiningHall string `json:"dining_hall"`
}

// NextPairResponse carries the next comparison for a user, or the reason
// there is none.
type NextPairResponse struct {
	Status string             `json:"status"`
	DishA  *ComparisonDishDTO `json:"dish_a,omitempty"`
	DishB  *ComparisonDishDTO `json:"dish_b,omitempty"`
}

// RecordPreferenceDTO for judging the current pair.
type RecordPreferenceDTO struct {
	WinnerID int64 `json:"winner_id" binding:"required"`
	LoserID  int64 `json:"loser_id" binding:"required"`
}

// PreferenceResponse reports both dishes' new display scores plus the next
// pair so the client can chain comparisons without a second round trip.
type PreferenceResponse struct {
	WinnerID           int64             `json:"winner_id"`
	LoserID            int64             `json:"loser_id"`
	WinnerDisplayScore float64           `json:"winner_display_score"`
	LoserDisplayScore  float64           `json:"loser_display_score"`
	NextPair           *NextPairResponse `json:"next_pair,omitempty"`
}
