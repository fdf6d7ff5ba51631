package quality

import (
	"fmt"

	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/effect"
)

// Attributes are the numeric equipment stats scaled by an attribute roll.
type Attributes struct {
	AttackMin       int `yaml:"attack_min" json:"attack_min,omitempty"`
	AttackMax       int `yaml:"attack_max" json:"attack_max,omitempty"`
	MagicMin        int `yaml:"magic_min" json:"magic_min,omitempty"`
	MagicMax        int `yaml:"magic_max" json:"magic_max,omitempty"`
	DefenseMin      int `yaml:"defense_min" json:"defense_min,omitempty"`
	DefenseMax      int `yaml:"defense_max" json:"defense_max,omitempty"`
	MagicDefenseMin int `yaml:"magic_defense_min" json:"magic_defense_min,omitempty"`
	MagicDefenseMax int `yaml:"magic_defense_max" json:"magic_defense_max,omitempty"`
	HPBonus         int `yaml:"hp_bonus" json:"hp_bonus,omitempty"`
	MPBonus         int `yaml:"mp_bonus" json:"mp_bonus,omitempty"`
}

func (a *Attributes) fields() []*int {
	return []*int{
		&a.AttackMin, &a.AttackMax, &a.MagicMin, &a.MagicMax,
		&a.DefenseMin, &a.DefenseMax, &a.MagicDefenseMin, &a.MagicDefenseMax,
		&a.HPBonus, &a.MPBonus,
	}
}

// Scaled truncates every positive attribute times mult. Zero attributes stay
// zero.
func (a Attributes) Scaled(mult float64) Attributes {
	out := a
	for _, p := range out.fields() {
		if *p > 0 {
			*p = int(float64(*p) * mult)
		}
	}
	return out
}

// Add returns the field-by-field sum.
func (a Attributes) Add(o Attributes) Attributes {
	out := a
	dst, src := out.fields(), o.fields()
	for i := range dst {
		*dst[i] += *src[i]
	}
	return out
}

// Template is the unrolled equipment data a roll is applied to.
type Template struct {
	Attributes Attributes
	Effects    effect.Modifiers
}

// Roll is the persisted record of one equipment roll. Re-applying it to the
// same template with Apply reproduces the rolled values exactly.
type Roll struct {
	Tier             Tier    `json:"tier"`
	AttrMultiplier   float64 `json:"attr_multiplier"`
	EffectMultiplier float64 `json:"effect_multiplier"`
}

// Rolled is a template with a roll applied.
type Rolled struct {
	Roll       Roll
	Attributes Attributes
	Effects    effect.Modifiers
}

// RollAttributes draws an attribute multiplier and then an effect multiplier
// from tier's intervals and applies both to tmpl. Exactly two values are drawn
// from src.
//
// Precondition: tier is present in t.
// Postcondition: the multipliers lie within the tier's intervals;
// Apply(tmpl, result.Roll) == result.
func (t *Table) RollAttributes(src dice.Source, tmpl Template, tier Tier) Rolled {
	def, ok := t.Lookup(tier)
	if !ok {
		panic(fmt.Sprintf("quality: RollAttributes precondition violated: unknown tier %q", tier))
	}
	r := Roll{
		Tier:             tier,
		AttrMultiplier:   dice.Uniform(src, def.Attr.Lo, def.Attr.Hi),
		EffectMultiplier: dice.Uniform(src, def.Effect.Lo, def.Effect.Hi),
	}
	return Apply(tmpl, r)
}

// Apply reconstructs rolled values from a persisted roll without drawing.
func Apply(tmpl Template, r Roll) Rolled {
	return Rolled{
		Roll:       r,
		Attributes: tmpl.Attributes.Scaled(r.AttrMultiplier),
		Effects:    tmpl.Effects.Scaled(r.EffectMultiplier),
	}
}

// Rating grades an attribute multiplier for display.
func Rating(mult float64) string {
	switch {
	case mult >= 1.12:
		return "perfect"
	case mult >= 1.08:
		return "excellent"
	case mult >= 1.03:
		return "good"
	case mult >= 0.98:
		return "normal"
	default:
		return "poor"
	}
}
