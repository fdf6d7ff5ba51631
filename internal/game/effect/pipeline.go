package effect

import (
	"fmt"

	"github.com/cory-johannsen/legend/internal/game/dice"
)

// Attack is the input to one pipeline resolution.
type Attack struct {
	// Damage is the basic-formula damage plus any skill bonus.
	Damage   int
	Attacker Modifiers
	Defender Modifiers
	Magic    bool
}

// Outcome is the result of one pipeline resolution. The caller applies every
// field; Resolve itself mutates nothing.
type Outcome struct {
	Damage       int
	HealHP       int
	HealMP       int
	Missed       bool
	Dodged       bool
	Crit         bool
	Crush        bool
	Blocked      bool
	Stunned      bool
	Reflect      int
	Splash       int
	PoisonDamage int
	PoisonRounds int
	ExtraAttacks int
	Tags         []string
}

// Landed reports whether the attack connected.
func (o Outcome) Landed() bool { return !o.Missed && !o.Dodged }

// Resolve runs one attack through the fixed stage order: hit, dodge, crit,
// crush, flat bonus, block, reduction, lifesteal, on-hit regeneration,
// reflect, stun, splash, poison, double attack.
//
// Draw order from src: hit and dodge always; crit always once the attack
// lands; crush, block, stun, poison and double attack only when the governing
// modifier is positive. A miss or dodge returns immediately with every effect
// zeroed.
func Resolve(src dice.Source, t Tuning, a Attack) Outcome {
	var out Outcome
	atk, def := a.Attacker, a.Defender

	if !dice.Chance(src, t.HitFloor+atk.HitRate) {
		out.Missed = true
		out.Tags = append(out.Tags, "miss")
		return out
	}
	if dice.Chance(src, t.DodgeFloor+def.DodgeRate) {
		out.Dodged = true
		out.Tags = append(out.Tags, "dodged")
		return out
	}

	dmg := a.Damage

	if dice.Chance(src, t.CritFloor+atk.CritRate) {
		mult := t.CritMultiplier + atk.CritDamage
		dmg = int(float64(dmg) * mult)
		out.Crit = true
		out.Tags = append(out.Tags, fmt.Sprintf("crit x%.1f", mult))
	}

	if atk.CrushRate > 0 && dice.Chance(src, atk.CrushRate) {
		dmg = int(float64(dmg) * t.CrushMultiplier)
		out.Crush = true
		out.Tags = append(out.Tags, fmt.Sprintf("crush x%.1f", t.CrushMultiplier))
	}

	if atk.ExtraPhys > 0 {
		dmg += atk.ExtraPhys
		out.Tags = append(out.Tags, fmt.Sprintf("+%d phys", atk.ExtraPhys))
	}
	if atk.ExtraMagic > 0 {
		dmg += atk.ExtraMagic
		out.Tags = append(out.Tags, fmt.Sprintf("+%d magic", atk.ExtraMagic))
	}

	if blocked, after := t.Block(src, def, dmg); blocked {
		dmg = after
		out.Blocked = true
		out.Tags = append(out.Tags, "blocked")
	}

	dmg = t.Reduce(def, dmg)
	out.Damage = dmg

	if ls := min(atk.Lifesteal, t.MaxLifesteal); ls > 0 {
		if heal := int(float64(dmg) * ls * t.LifestealFactor); heal > 0 {
			out.HealHP += heal
			out.Tags = append(out.Tags, fmt.Sprintf("lifesteal +%d HP", heal))
		}
	}

	if atk.HPOnHit > 0 {
		out.HealHP += atk.HPOnHit
		out.Tags = append(out.Tags, fmt.Sprintf("on-hit +%d HP", atk.HPOnHit))
	}
	if atk.MPOnHit > 0 {
		out.HealMP += atk.MPOnHit
		out.Tags = append(out.Tags, fmt.Sprintf("on-hit +%d MP", atk.MPOnHit))
	}

	out.Reflect = ReflectDamage(def, dmg)
	if out.Reflect > 0 {
		out.Tags = append(out.Tags, fmt.Sprintf("reflect %d", out.Reflect))
	}

	if atk.StunRate > 0 && dice.Chance(src, atk.StunRate) {
		out.Stunned = true
		out.Tags = append(out.Tags, "stun")
	}

	out.Splash = int(float64(dmg) * atk.SplashRate)

	if atk.PoisonDamage > 0 && atk.PoisonRounds > 0 && src.Intn(t.PoisonProcSides) == 0 {
		out.PoisonDamage = atk.PoisonDamage
		out.PoisonRounds = atk.PoisonRounds
		out.Tags = append(out.Tags, fmt.Sprintf("poison %dx%d", atk.PoisonDamage, atk.PoisonRounds))
	}

	if atk.DoubleAttack > 0 && dice.Chance(src, atk.DoubleAttack) {
		out.ExtraAttacks = 1
		out.Tags = append(out.Tags, "double attack")
	}

	return out
}

// Block rolls the defender's capped block chance. On success the damage is
// cut by the capped block amount, never below MitigationFloor of its input.
// No value is drawn when the defender has no block rate.
func (t Tuning) Block(src dice.Source, def Modifiers, dmg int) (bool, int) {
	rate := min(def.BlockRate, t.MaxBlockRate)
	if rate <= 0 || !dice.Chance(src, rate) {
		return false, dmg
	}
	amount := def.BlockAmount
	if amount <= 0 {
		amount = t.DefaultBlockAmount
	}
	amount = min(amount, t.MaxBlockAmount)
	return true, max(int(float64(dmg)*t.MitigationFloor), int(float64(dmg)*(1-amount)))
}

// Reduce applies the defender's capped percentage reduction, never below
// MitigationFloor of its input. A zero reduction returns dmg unchanged.
func (t Tuning) Reduce(def Modifiers, dmg int) int {
	r := min(def.DamageReduction, t.MaxDamageReduction)
	if r <= 0 {
		return dmg
	}
	return max(int(float64(dmg)*t.MitigationFloor), int(float64(dmg)*(1-r)))
}

// ReflectDamage is the share of dmg returned to the attacker.
func ReflectDamage(def Modifiers, dmg int) int {
	if def.Reflect <= 0 {
		return 0
	}
	return int(float64(dmg) * def.Reflect)
}

// Penetrate lowers a drawn defense value by the attacker's ignore-defense
// modifier, choosing the magic variant for magic attacks.
//
// Postcondition: result >= 0.
func Penetrate(atk Modifiers, defense int, magic bool) int {
	ignore := atk.IgnoreDefense
	if magic {
		ignore = atk.IgnoreMagicDef
	}
	return max(0, int(float64(defense)*(1-ignore)))
}
