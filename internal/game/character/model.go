// Package character defines the persistent character model, its combat
// snapshot and level progression.
package character

import (
	"errors"
	"fmt"
)

// Character is a player character's persistent state.
type Character struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Class string `yaml:"class" json:"class"`
	Level int    `yaml:"level" json:"level"`
	Exp   int    `yaml:"exp" json:"exp"`
	Gold  int    `yaml:"gold" json:"gold"`

	HP    int `yaml:"hp" json:"hp"`
	MaxHP int `yaml:"max_hp" json:"max_hp"`
	MP    int `yaml:"mp" json:"mp"`
	MaxMP int `yaml:"max_mp" json:"max_mp"`

	// Base combat stats before equipment and passives.
	Attack       int `yaml:"attack" json:"attack"`
	Magic        int `yaml:"magic" json:"magic"`
	Defense      int `yaml:"defense" json:"defense"`
	MagicDefense int `yaml:"magic_defense" json:"magic_defense"`
	Luck         int `yaml:"luck" json:"luck"`
}

// Growth is the stat gain of one level.
type Growth struct {
	HP           int
	MP           int
	Attack       int
	Magic        int
	Defense      int
	MagicDefense int
}

var classGrowth = map[string]Growth{
	"warrior": {HP: 25, MP: 5, Attack: 4, Magic: 0, Defense: 3, MagicDefense: 1},
	"mage":    {HP: 10, MP: 20, Attack: 1, Magic: 5, Defense: 1, MagicDefense: 2},
	"taoist":  {HP: 15, MP: 15, Attack: 2, Magic: 3, Defense: 2, MagicDefense: 1},
}

// GrowthFor returns the per-level gain of class. Unknown classes grow as
// taoists.
func GrowthFor(class string) Growth {
	if g, ok := classGrowth[class]; ok {
		return g
	}
	return classGrowth["taoist"]
}

// Starting stats per class.
var classBase = map[string]Character{
	"warrior": {HP: 150, MaxHP: 150, MP: 30, MaxMP: 30, Attack: 15, Defense: 10, MagicDefense: 5},
	"mage":    {HP: 80, MaxHP: 80, MP: 100, MaxMP: 100, Attack: 20, Magic: 20, Defense: 3, MagicDefense: 6},
	"taoist":  {HP: 100, MaxHP: 100, MP: 80, MaxMP: 80, Attack: 12, Magic: 8, Defense: 6, MagicDefense: 4},
}

// New returns a level 1 character of class with its starting stats.
func New(id, name, class string) (*Character, error) {
	base, ok := classBase[class]
	if !ok {
		return nil, fmt.Errorf("character: unknown class %q", class)
	}
	if id == "" || name == "" {
		return nil, errors.New("character: id and name must not be empty")
	}
	c := base
	c.ID, c.Name, c.Class, c.Level = id, name, class, 1
	return &c, nil
}
