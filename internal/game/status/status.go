// Package status tracks the round-based statuses of a combatant: damage over
// time, stun, invisibility and magic shield.
package status

// DOT is a damage-over-time status.
type DOT struct {
	Damage int
	Rounds int
}

// Active reports whether the DOT still has rounds to deal.
func (d DOT) Active() bool { return d.Rounds > 0 && d.Damage > 0 }

// Tick deals one round of damage.
//
// Precondition: d.Active().
// Postcondition: returned DOT has Rounds one lower; it is the zero DOT once
// Rounds reaches 0.
func (d DOT) Tick() (int, DOT) {
	dmg := d.Damage
	d.Rounds--
	if d.Rounds <= 0 {
		return dmg, DOT{}
	}
	return dmg, d
}

// Shield is a stacked multiplicative damage reduction.
type Shield struct {
	// Factor multiplies incoming damage; 1 means no shield.
	Factor float64
	Rounds int
}

// Active reports whether the shield still reduces damage.
func (s Shield) Active() bool { return s.Rounds > 0 && s.Factor < 1 }

// Multiplier returns the damage factor, 1 when inactive.
func (s Shield) Multiplier() float64 {
	if !s.Active() {
		return 1
	}
	return s.Factor
}

// Stack layers another reduction on the shield and refreshes its duration.
func (s Shield) Stack(reduction float64, rounds int) Shield {
	factor := s.Factor
	if !s.Active() {
		factor = 1
	}
	return Shield{Factor: factor * (1 - reduction), Rounds: max(s.Rounds, rounds)}
}

// Tick counts down one round; the reduction is dropped at expiry.
func (s Shield) Tick() Shield {
	if s.Rounds <= 1 {
		return Shield{}
	}
	s.Rounds--
	return s
}

// Set is every status one combatant can carry.
type Set struct {
	Poison    DOT
	Burn      DOT
	Stunned   bool
	Invisible int
	Shield    Shield
}

// Clear removes every status, used when the owner dies.
func (s *Set) Clear() { *s = Set{} }

// TickTimers counts down invisibility and shield.
func (s *Set) TickTimers() {
	if s.Invisible > 0 {
		s.Invisible--
	}
	s.Shield = s.Shield.Tick()
}

// ConsumeStun reports whether the owner is stunned this turn and clears the
// flag.
func (s *Set) ConsumeStun() bool {
	was := s.Stunned
	s.Stunned = false
	return was
}
