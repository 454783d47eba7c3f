package ranking

import "strconv"

// PairKey builds the canonical order-independent key for a dish pair: the
// two IDs rendered as strings, sorted lexicographically, joined with "_".
// Recorded comparisons and exclusion lookups must use the same scheme or
// they will never match.
func PairKey(a, b int64) string {
	sa := strconv.FormatInt(a, 10)
	sb := strconv.FormatInt(b, 10)
	if sb < sa {
		sa, sb = sb, sa
	}
	return sa + "_" + sb
}

// Outcome reports what pair selection produced. The two empty outcomes are
// routine states, not errors: callers surface them as "nothing to compare
// right now".
type Outcome int

const (
	PairFound Outcome = iota
	// InsufficientPopulation means fewer than two eligible dishes exist.
	InsufficientPopulation
	// NoUnjudgedPair means the sampling budget ran out without finding a
	// pair the user has not already judged.
	NoUnjudgedPair
)

// Pair is an ordered presentation pair ("First vs Second"). When a
// must-include dish was requested it is always First.
type Pair struct {
	First  int64
	Second int64
}

// SelectPair picks two distinct dishes the user has not compared yet by
// rejection sampling over the eligible set. mustInclude (0 = none) restricts
// accepted pairs to those containing that dish, used to anchor a freshly
// seeded dish against the existing population.
//
// The budget bounds cost instead of exhaustively searching the exclusion
// set; with moderate populations that is a deliberate trade, and a
// NoUnjudgedPair result can occasionally be bad luck rather than true
// exhaustion.
func (p Policy) SelectPair(eligible []int64, judged map[string]struct{}, mustInclude int64, rng Source) (Pair, Outcome) {
	if len(eligible) < 2 {
		return Pair{}, InsufficientPopulation
	}

	for attempt := 0; attempt < p.PairAttempts; attempt++ {
		i := rng.Intn(len(eligible))
		j := rng.Intn(len(eligible))
		for j == i {
			j = rng.Intn(len(eligible))
		}

		a, b := eligible[i], eligible[j]
		if _, seen := judged[PairKey(a, b)]; seen {
			continue
		}

		if mustInclude != 0 {
			switch mustInclude {
			case a:
				return Pair{First: a, Second: b}, PairFound
			case b:
				return Pair{First: b, Second: a}, PairFound
			default:
				continue
			}
		}
		return Pair{First: a, Second: b}, PairFound
	}

	return Pair{}, NoUnjudgedPair
}
