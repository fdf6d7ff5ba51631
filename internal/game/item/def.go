// Package item defines equipment and consumable templates, rolled equipment
// instances, and item set bonuses.
package item

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/quality"
)

// Kind constants for Def.Kind.
const (
	KindEquipment  = "equipment"
	KindConsumable = "consumable"
	KindMaterial   = "material"
	KindSkillbook  = "skillbook"
)

var validKinds = map[string]bool{
	KindEquipment:  true,
	KindConsumable: true,
	KindMaterial:   true,
	KindSkillbook:  true,
}

// Restore is what a consumable gives back when used.
type Restore struct {
	HP int `yaml:"heal_hp"`
	MP int `yaml:"heal_mp"`
}

// Def is the static template of an item, loaded from YAML.
type Def struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
	Slot        string `yaml:"slot"`
	Level       int    `yaml:"level"`
	SetID       string `yaml:"set_id"`
	Stackable   bool   `yaml:"stackable"`
	Price       int    `yaml:"price"`

	Attributes quality.Attributes `yaml:",inline"`
	Effects    effect.Modifiers   `yaml:"effects"`
	Restore    Restore            `yaml:"restore"`
}

// Validate reports every violated invariant of d.
//
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("kind must be one of equipment, consumable, material, skillbook; got %q", d.Kind))
	}
	if d.Kind == KindEquipment && d.Slot == "" {
		errs = append(errs, errors.New("slot is required for equipment"))
	}
	if d.Kind == KindConsumable && d.Restore.HP <= 0 && d.Restore.MP <= 0 {
		errs = append(errs, errors.New("consumable must restore hp or mp"))
	}
	if d.Kind != KindEquipment && !d.Effects.IsZero() {
		errs = append(errs, errors.New("only equipment may carry effects"))
	}
	a := d.Attributes
	if a.AttackMin > a.AttackMax || a.MagicMin > a.MagicMax || a.DefenseMin > a.DefenseMax || a.MagicDefenseMin > a.MagicDefenseMax {
		errs = append(errs, errors.New("attribute minimums must not exceed maximums"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// IsEquipment reports whether drops of d receive an attribute roll.
func (d *Def) IsEquipment() bool { return d.Kind == KindEquipment }

// Template returns the unrolled values a quality roll is applied to.
func (d *Def) Template() quality.Template {
	return quality.Template{Attributes: d.Attributes, Effects: d.Effects}
}
