// Package effect holds the equipment modifier record, its aggregation across
// equipped items, and the ordered attack pipeline that consumes it.
package effect

import (
	"fmt"
	"math"
)

// Modifiers is the flat record of every named equipment modifier. A zero
// field means the modifier is absent.
//
// Rates are probabilities or fractions before capping. HPOnHit, MPOnHit,
// ExtraPhys, ExtraMagic, PoisonDamage and PoisonRounds are flat integers.
type Modifiers struct {
	DoubleAttack    float64 `yaml:"double_attack"`
	HitRate         float64 `yaml:"hit_rate"`
	DodgeRate       float64 `yaml:"dodge_rate"`
	CrushRate       float64 `yaml:"crush_rate"`
	Lifesteal       float64 `yaml:"lifesteal"`
	Reflect         float64 `yaml:"reflect"`
	BlockRate       float64 `yaml:"block_rate"`
	BlockAmount     float64 `yaml:"block_amount"`
	DamageReduction float64 `yaml:"damage_reduction"`
	StunRate        float64 `yaml:"stun_rate"`
	SplashRate      float64 `yaml:"splash_rate"`
	IgnoreDefense   float64 `yaml:"ignore_defense"`
	IgnoreMagicDef  float64 `yaml:"ignore_magic_def"`
	CritRate        float64 `yaml:"crit_rate"`
	CritDamage      float64 `yaml:"crit_damage"`

	HPOnHit      int `yaml:"hp_on_hit"`
	MPOnHit      int `yaml:"mp_on_hit"`
	ExtraPhys    int `yaml:"extra_phys"`
	ExtraMagic   int `yaml:"extra_magic"`
	PoisonDamage int `yaml:"poison_damage"`
	PoisonRounds int `yaml:"poison_rounds"`
}

// Field is one named modifier value, used for narration and reporting.
type Field struct {
	Name  string
	Value float64
	Flat  bool
}

// String renders flat values as "+N" and rates as percentages.
func (f Field) String() string {
	if f.Flat {
		return fmt.Sprintf("%s +%d", f.Name, int(f.Value))
	}
	return fmt.Sprintf("%s %.1f%%", f.Name, f.Value*100)
}

var rateNames = [...]string{
	"double_attack", "hit_rate", "dodge_rate", "crush_rate", "lifesteal",
	"reflect", "block_rate", "block_amount", "damage_reduction", "stun_rate",
	"splash_rate", "ignore_defense", "ignore_magic_def", "crit_rate", "crit_damage",
}

var flatNames = [...]string{
	"hp_on_hit", "mp_on_hit", "extra_phys", "extra_magic", "poison_damage", "poison_rounds",
}

func (m *Modifiers) rates() [len(rateNames)]*float64 {
	return [...]*float64{
		&m.DoubleAttack, &m.HitRate, &m.DodgeRate, &m.CrushRate, &m.Lifesteal,
		&m.Reflect, &m.BlockRate, &m.BlockAmount, &m.DamageReduction, &m.StunRate,
		&m.SplashRate, &m.IgnoreDefense, &m.IgnoreMagicDef, &m.CritRate, &m.CritDamage,
	}
}

func (m *Modifiers) flats() [len(flatNames)]*int {
	return [...]*int{
		&m.HPOnHit, &m.MPOnHit, &m.ExtraPhys, &m.ExtraMagic, &m.PoisonDamage, &m.PoisonRounds,
	}
}

// Add returns the field-by-field sum of m and o.
func (m Modifiers) Add(o Modifiers) Modifiers {
	out := m
	dst, src := out.rates(), o.rates()
	for i := range dst {
		*dst[i] += *src[i]
	}
	dflat, sflat := out.flats(), o.flats()
	for i := range dflat {
		*dflat[i] += *sflat[i]
	}
	return out
}

// IsZero reports whether every modifier is absent.
func (m Modifiers) IsZero() bool {
	return m == Modifiers{}
}

// Fields lists the non-zero modifiers in declaration order.
func (m Modifiers) Fields() []Field {
	var out []Field
	for i, p := range m.rates() {
		if *p != 0 {
			out = append(out, Field{Name: rateNames[i], Value: *p})
		}
	}
	for i, p := range m.flats() {
		if *p != 0 {
			out = append(out, Field{Name: flatNames[i], Value: float64(*p), Flat: true})
		}
	}
	return out
}

// Scaled multiplies every positive modifier by mult. Flat modifiers truncate
// and never drop below 1; fractional modifiers are rounded to three decimals.
// Zero and negative values are left untouched.
func (m Modifiers) Scaled(mult float64) Modifiers {
	out := m
	for _, p := range out.rates() {
		if *p > 0 {
			*p = math.Round(*p*mult*1000) / 1000
		}
	}
	for _, p := range out.flats() {
		if *p > 0 {
			*p = max(1, int(float64(*p)*mult))
		}
	}
	return out
}

// Provider is anything that contributes a modifier record, typically an
// equipped item or an active set bonus.
type Provider interface {
	Modifiers() Modifiers
}

// Aggregate sums the modifier records of every provider. An empty list
// yields the zero record.
func Aggregate[P Provider](providers []P) Modifiers {
	var total Modifiers
	for _, p := range providers {
		total = total.Add(p.Modifiers())
	}
	return total
}

// Sum adds plain modifier records together.
func Sum(records ...Modifiers) Modifiers {
	var total Modifiers
	for _, r := range records {
		total = total.Add(r)
	}
	return total
}
