// Package monster provides monster templates and their rarity scaling.
package monster

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/loot"
)

// Damage types for Template.DamageType.
const (
	DamagePhysical = "physical"
	DamageMagic    = "magic"
)

// Template is a reusable monster archetype loaded from YAML.
type Template struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Level      int    `yaml:"level"`
	HP         int    `yaml:"hp"`
	Attack     int    `yaml:"attack"`
	Defense    int    `yaml:"defense"`
	// MagicDefense defaults to half of Defense when absent.
	MagicDefense *int   `yaml:"magic_defense"`
	Exp          int    `yaml:"exp"`
	Gold         int    `yaml:"gold"`
	Boss         bool   `yaml:"boss"`
	DamageType   string `yaml:"damage_type"`

	// Effects act as the monster's defensive modifiers (reflect, dodge).
	Effects effect.Modifiers `yaml:"effects"`

	// Offensive statuses the monster can inflict on a player it hits.
	PoisonRate   float64 `yaml:"poison_rate"`
	PoisonDamage int     `yaml:"poison_damage"`
	PoisonRounds int     `yaml:"poison_rounds"`
	StunRate     float64 `yaml:"stun_rate"`

	Drops      []loot.Entry `yaml:"drops"`
	DropGroups []string     `yaml:"drop_groups"`
}

// Validate reports every violated invariant of t.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.HP < 1 {
		errs = append(errs, errors.New("hp must be >= 1"))
	}
	if t.Attack < 0 || t.Defense < 0 || t.Exp < 0 || t.Gold < 0 {
		errs = append(errs, errors.New("attack, defense, exp and gold must be >= 0"))
	}
	if t.MagicDefense != nil && *t.MagicDefense < 0 {
		errs = append(errs, errors.New("magic_defense must be >= 0"))
	}
	if t.DamageType != "" && t.DamageType != DamagePhysical && t.DamageType != DamageMagic {
		errs = append(errs, fmt.Errorf("damage_type must be physical or magic; got %q", t.DamageType))
	}
	if t.PoisonRate < 0 || t.PoisonRate > 1 || t.StunRate < 0 || t.StunRate > 1 {
		errs = append(errs, errors.New("poison_rate and stun_rate must be in [0, 1]"))
	}
	if t.PoisonRate > 0 && (t.PoisonDamage < 1 || t.PoisonRounds < 1) {
		errs = append(errs, errors.New("poison_rate requires poison_damage and poison_rounds >= 1"))
	}
	for i, d := range t.Drops {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("drops[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("monster %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// MagicAttacker reports whether the monster deals magic damage.
func (t *Template) MagicAttacker() bool { return t.DamageType == DamageMagic }

// Stats are the rarity-scaled combat numbers of one spawned monster.
type Stats struct {
	HP           int
	Attack       int
	Defense      int
	MagicDefense int
	Exp          int
	Gold         int
}

// Scale multiplies every stat by mult, truncating.
//
// Postcondition: HP >= 1.
func (t *Template) Scale(mult float64) Stats {
	mdef := float64(t.Defense) * 0.5
	if t.MagicDefense != nil {
		mdef = float64(*t.MagicDefense)
	}
	return Stats{
		HP:           max(1, int(float64(t.HP)*mult)),
		Attack:       int(float64(t.Attack) * mult),
		Defense:      int(float64(t.Defense) * mult),
		MagicDefense: int(mdef * mult),
		Exp:          int(float64(t.Exp) * mult),
		Gold:         int(float64(t.Gold) * mult),
	}
}
