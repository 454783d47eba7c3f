package ranking

import "math/rand"

type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

// DefaultSource returns the process-wide random source. Unlike a bare
// *rand.Rand it is safe for concurrent use.
func DefaultSource() Source { return globalSource{} }
