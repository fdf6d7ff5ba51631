// Package skill defines class skills, their effect payloads and proficiency
// growth.
package skill

import (
	"errors"
	"fmt"
)

// Class tags. The class decides whether a character fights with physical or
// magic damage and how eagerly it casts.
const (
	ClassWarrior = "warrior"
	ClassMage    = "mage"
	ClassTaoist  = "taoist"
)

// ValidClass reports whether c names a known class.
func ValidClass(c string) bool {
	return c == ClassWarrior || c == ClassMage || c == ClassTaoist
}

// Type constants for Def.Type.
const (
	TypeActive  = "active"
	TypePassive = "passive"
)

// DOT kinds for Effect.DOT.
const (
	DOTPoison = "poison"
	DOTBurn   = "burn"
)

// Summon kinds for Effect.Summon.
const (
	SummonSkeleton    = "skeleton"
	SummonDivineBeast = "divine_beast"
)

// Effect is a skill's payload. Absent fields are no-ops.
type Effect struct {
	MagicDamage      int     `yaml:"magic_damage"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	IgnoreDefense    float64 `yaml:"ignore_defense"`
	FireDamage       int     `yaml:"fire_damage"`
	AOE              bool    `yaml:"aoe"`

	// DOT selects poison or burn for DOTDamage; poison is assumed when empty.
	DOT       string `yaml:"dot"`
	DOTDamage int    `yaml:"dot_damage"`
	Duration  int    `yaml:"duration"`

	HealHP       int     `yaml:"heal_hp"`
	Summon       string  `yaml:"summon"`
	Invisibility int     `yaml:"invisibility"`
	Shield       float64 `yaml:"shield"`

	// Passive payload.
	InstantKill  float64 `yaml:"instant_kill"`
	AttackBonus  int     `yaml:"attack_bonus"`
	DefenseBonus int     `yaml:"defense_bonus"`
	HPBonus      int     `yaml:"hp_bonus"`
	MPBonus      int     `yaml:"mp_bonus"`

	// Script names a Lua hook returning extra flat damage.
	Script string `yaml:"script"`
}

// Def is a skill definition loaded from YAML.
type Def struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Class    string `yaml:"class"`
	Type     string `yaml:"type"`
	LevelReq int    `yaml:"level_req"`
	MPCost   int    `yaml:"mp_cost"`
	Cooldown int    `yaml:"cooldown"`
	Effect   Effect `yaml:"effect"`
}

// Validate reports every violated invariant of d.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !ValidClass(d.Class) {
		errs = append(errs, fmt.Errorf("class must be warrior, mage or taoist; got %q", d.Class))
	}
	if d.Type != TypeActive && d.Type != TypePassive {
		errs = append(errs, fmt.Errorf("type must be active or passive; got %q", d.Type))
	}
	if d.MPCost < 0 || d.Cooldown < 0 {
		errs = append(errs, errors.New("mp_cost and cooldown must be >= 0"))
	}
	e := d.Effect
	if e.DOT != "" && e.DOT != DOTPoison && e.DOT != DOTBurn {
		errs = append(errs, fmt.Errorf("effect.dot must be poison or burn; got %q", e.DOT))
	}
	if e.Summon != "" && e.Summon != SummonSkeleton && e.Summon != SummonDivineBeast {
		errs = append(errs, fmt.Errorf("effect.summon must be skeleton or divine_beast; got %q", e.Summon))
	}
	if e.Shield < 0 || e.Shield >= 1 {
		errs = append(errs, fmt.Errorf("effect.shield must be in [0, 1); got %v", e.Shield))
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// Passive reports whether d never needs to be cast.
func (d *Def) Passive() bool { return d.Type == TypePassive }

// IsHeal reports whether d is a single-target heal, which is only worth
// casting when the caster is hurt.
func (d *Def) IsHeal() bool { return d.Effect.HealHP > 0 && !d.Effect.AOE }

// IsSummon reports whether d creates a summon.
func (d *Def) IsSummon() bool { return d.Effect.Summon != "" }

// HasDOT reports whether d attaches a damage-over-time status.
func (d *Def) HasDOT() bool { return d.Effect.DOTDamage > 0 && d.Effect.Duration > 0 }

// DOTKind returns the DOT kind, defaulting to poison.
func (d *Def) DOTKind() string {
	if d.Effect.DOT == "" {
		return DOTPoison
	}
	return d.Effect.DOT
}
