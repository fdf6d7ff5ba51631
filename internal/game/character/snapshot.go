package character

import (
	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/item"
	"github.com/cory-johannsen/legend/internal/game/quality"
	"github.com/cory-johannsen/legend/internal/game/skill"
)

// SetResolver finds the set bonuses reached by a list of equipped items.
type SetResolver interface {
	ActiveSets(equipped []item.Instance) []item.ActiveSet
}

// Loadout is everything that shapes a character's combat numbers.
type Loadout struct {
	Character *Character
	Equipped  []item.Instance
	Skills    []skill.Known
	// Disabled passive skills contribute nothing.
	Disabled map[string]bool
}

// Build derives the combat snapshot and the modifier providers of a loadout.
// Stats are the character's base values plus rolled equipment attributes,
// reached set bonuses and passive skill bonuses times skill level. Current
// HP and MP are capped to the new maximums.
//
// Precondition: l.Character is non-nil; sets may be nil.
func Build(l Loadout, sets SetResolver) (combat.Snapshot, []effect.Provider) {
	c := l.Character
	var attrs quality.Attributes
	providers := make([]effect.Provider, 0, len(l.Equipped))
	for _, in := range l.Equipped {
		if in.Def == nil {
			continue
		}
		attrs = attrs.Add(in.Attributes())
		providers = append(providers, in)
	}
	if sets != nil {
		for _, as := range sets.ActiveSets(l.Equipped) {
			for _, b := range as.Bonuses {
				attrs = attrs.Add(b.Attributes)
				providers = append(providers, b)
			}
		}
	}

	var passive quality.Attributes
	for _, k := range l.Skills {
		if k.Def == nil || !k.Def.Passive() || l.Disabled[k.Def.ID] {
			continue
		}
		lvl := k.EffectiveLevel()
		e := k.Def.Effect
		passive = passive.Add(quality.Attributes{
			AttackMin:  e.AttackBonus * lvl,
			AttackMax:  e.AttackBonus * lvl,
			DefenseMin: e.DefenseBonus * lvl,
			DefenseMax: e.DefenseBonus * lvl,
			HPBonus:    e.HPBonus * lvl,
			MPBonus:    e.MPBonus * lvl,
		})
	}
	attrs = attrs.Add(passive)

	maxHP := c.MaxHP + attrs.HPBonus
	maxMP := c.MaxMP + attrs.MPBonus
	snap := combat.Snapshot{
		ID:           c.ID,
		Name:         c.Name,
		Level:        c.Level,
		Class:        c.Class,
		HP:           min(c.HP, maxHP),
		MaxHP:        maxHP,
		MP:           min(c.MP, maxMP),
		MaxMP:        maxMP,
		Attack:       combat.Range{Min: c.Attack + attrs.AttackMin, Max: c.Attack + attrs.AttackMax},
		Magic:        combat.Range{Min: c.Magic + attrs.MagicMin, Max: c.Magic + attrs.MagicMax},
		Defense:      combat.Range{Min: c.Defense + attrs.DefenseMin, Max: c.Defense + attrs.DefenseMax},
		MagicDefense: combat.Range{Min: c.MagicDefense + attrs.MagicDefenseMin, Max: c.MagicDefense + attrs.MagicDefenseMax},
		Luck:         c.Luck,
	}
	return snap, providers
}
