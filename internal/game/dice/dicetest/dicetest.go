// Package dicetest provides scripted dice.Source implementations for tests.
package dicetest

import "sync"

// Script is a dice.Source that replays queued values. Once a queue is empty
// the corresponding Fallback value is returned forever.
//
// Intn results are reduced modulo n so a scripted value can never escape
// [0, n).
type Script struct {
	mu     sync.Mutex
	floats []float64
	ints   []int

	// FloatFallback is returned by Float64 once the float queue is exhausted.
	FloatFallback float64
	// IntFallback is returned (mod n) by Intn once the int queue is exhausted.
	IntFallback int

	// FloatDraws and IntDraws count the draws made so far.
	FloatDraws int
	IntDraws   int
}

// New returns a Script with the given float queue. Fallbacks default to 0,
// which makes every Chance succeed and every range draw its minimum.
func New(floats ...float64) *Script {
	return &Script{floats: floats}
}

// Always returns a Script that answers every Float64 with f and every Intn
// with i mod n.
func Always(f float64, i int) *Script {
	return &Script{FloatFallback: f, IntFallback: i}
}

// Floats appends values to the Float64 queue.
func (s *Script) Floats(vals ...float64) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = append(s.floats, vals...)
	return s
}

// Ints appends values to the Intn queue.
func (s *Script) Ints(vals ...int) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, vals...)
	return s
}

// Float64 implements dice.Source.
func (s *Script) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FloatDraws++
	if len(s.floats) == 0 {
		return s.FloatFallback
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// Intn implements dice.Source.
func (s *Script) Intn(n int) int {
	if n <= 0 {
		panic("dicetest: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IntDraws++
	v := s.IntFallback
	if len(s.ints) > 0 {
		v = s.ints[0]
		s.ints = s.ints[1:]
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
