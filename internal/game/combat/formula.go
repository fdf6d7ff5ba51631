package combat

import (
	"math"

	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/effect"
)

// Reduction returns the fraction of damage a defense value absorbs.
func Reduction(defense int) float64 {
	if defense <= 0 {
		return 0
	}
	d := float64(defense)
	return min(0.8, d/(d+100))
}

// BasicDamage computes one raw hit of attacker on defender.
//
// Draw order: attack value (Intn), defense value (Intn), variance (Float64).
// The drawn defense is reduced by mods' physical or magic penetration before
// the percentage reduction is taken.
//
// Postcondition: result >= 1.
func BasicDamage(src dice.Source, attacker, defender Participant, magic bool, mods effect.Modifiers) int {
	ar := attacker.DamageRange(magic)
	dr := defender.DefenseRange(magic)
	atk := dice.Between(src, ar.Min, ar.Max)
	def := dice.Between(src, dr.Min, dr.Max)
	def = effect.Penetrate(mods, def, magic)

	dmg := max(1, int(math.Round(float64(atk)*(1-Reduction(def)))))
	variance := dice.Uniform(src, 0.9, 1.1)
	return max(1, int(math.Round(float64(dmg)*variance)))
}
