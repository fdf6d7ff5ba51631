// Package dice provides the randomness abstraction threaded through the
// combat engine, plus small helpers built on it.
//
// Every probabilistic decision in the engine draws from a Source passed in by
// the caller, so a seeded Source replays an encounter exactly.
package dice

import "fmt"

// Source is the randomness provider for the engine.
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

// Chance reports whether a single draw lands under p.
//
// Exactly one value is drawn from src regardless of p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Between returns an int drawn uniformly from the closed range [lo, hi].
// When hi < lo the range collapses to lo.
//
// Postcondition: lo <= result <= max(lo, hi). Exactly one Intn draw is made.
func Between(src Source, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Uniform returns a float drawn uniformly from [lo, hi).
//
// Precondition: lo <= hi.
func Uniform(src Source, lo, hi float64) float64 {
	if hi < lo {
		panic(fmt.Sprintf("dice: Uniform precondition violated: lo %v > hi %v", lo, hi))
	}
	return lo + (hi-lo)*src.Float64()
}

// Weighted picks an index from weights with probability proportional to each
// weight. Non-positive weights are never selected unless every weight is
// non-positive, in which case 0 is returned.
//
// Precondition: len(weights) > 0.
func Weighted(src Source, weights []float64) int {
	if len(weights) == 0 {
		panic("dice: Weighted called with no weights")
	}
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	roll := src.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return 0
}
