// Package dice provides the randomness abstraction shared by every
// probabilistic step of battle resolution.
package dice

// Source is the randomness provider for accuracy checks, critical hits,
// damage variance, capture shakes and AI move choice.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// Chance reports whether a percent-in-100 roll succeeds.
// Percentages >= 100 always succeed without consuming a draw; <= 0 never do.
//
// Postcondition: Returns true with probability percent/100.
func Chance(src Source, percent int) bool {
	if percent >= 100 {
		return true
	}
	if percent <= 0 {
		return false
	}
	return src.Intn(100) < percent
}

// Uniform returns a float uniformly distributed in [lo, hi).
//
// Precondition: lo <= hi.
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
