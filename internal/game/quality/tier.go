// Package quality implements rarity tiers: the weighted tier roll for drops
// and the attribute/effect multiplier roll for equipment.
package quality

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/legend/internal/game/dice"
)

// Tier names a rarity band.
type Tier string

// Stock tiers in ascending rarity.
const (
	White  Tier = "white"
	Green  Tier = "green"
	Blue   Tier = "blue"
	Purple Tier = "purple"
	Red    Tier = "red"
	Orange Tier = "orange"
)

// Interval is a closed-open multiplier range [Lo, Hi). In YAML it is written
// as a two-element sequence.
type Interval struct {
	Lo float64
	Hi float64
}

// UnmarshalYAML decodes "[lo, hi]".
func (iv *Interval) UnmarshalYAML(node *yaml.Node) error {
	var pair []float64
	if err := node.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("interval must have exactly 2 elements, got %d", len(pair))
	}
	iv.Lo, iv.Hi = pair[0], pair[1]
	return nil
}

// MarshalYAML encodes the interval as a two-element sequence.
func (iv Interval) MarshalYAML() (any, error) {
	return []float64{iv.Lo, iv.Hi}, nil
}

// Contains reports whether v lies in [Lo, Hi].
func (iv Interval) Contains(v float64) bool {
	return v >= iv.Lo && v <= iv.Hi
}

// Def is one row of the tier table.
type Def struct {
	Name   Tier     `yaml:"name"`
	Attr   Interval `yaml:"attr_range"`
	Effect Interval `yaml:"effect_range"`
	// Weight is the base drop weight before the rarity boost.
	Weight float64 `yaml:"drop_weight"`
	// BoostFactor scales how strongly a rare drop favours this tier.
	BoostFactor float64 `yaml:"boost_factor"`
	// StatMultiplier scales a monster template spawned at this tier.
	StatMultiplier float64 `yaml:"stat_multiplier"`
	// DropBonus multiplies the drop rates of a monster at this tier.
	DropBonus float64 `yaml:"drop_bonus"`
}

// Table is the ordered tier table, lowest rarity first.
type Table struct {
	defs  []Def
	index map[Tier]int
}

// NewTable builds a table from defs in ascending rarity order.
//
// Postcondition: returns an error describing every invalid row.
func NewTable(defs []Def) (*Table, error) {
	var errs []error
	if len(defs) == 0 {
		errs = append(errs, errors.New("quality: table must have at least one tier"))
	}
	index := make(map[Tier]int, len(defs))
	for i, d := range defs {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("quality: tier[%d] name must not be empty", i))
		}
		if _, dup := index[d.Name]; dup {
			errs = append(errs, fmt.Errorf("quality: tier %q defined twice", d.Name))
		}
		index[d.Name] = i
		if d.Attr.Lo <= 0 || d.Attr.Lo > d.Attr.Hi {
			errs = append(errs, fmt.Errorf("quality: tier %q attr_range invalid: [%v, %v]", d.Name, d.Attr.Lo, d.Attr.Hi))
		}
		if d.Effect.Lo <= 0 || d.Effect.Lo > d.Effect.Hi {
			errs = append(errs, fmt.Errorf("quality: tier %q effect_range invalid: [%v, %v]", d.Name, d.Effect.Lo, d.Effect.Hi))
		}
		if d.Weight < 0 || d.BoostFactor < 0 {
			errs = append(errs, fmt.Errorf("quality: tier %q weight and boost_factor must be >= 0", d.Name))
		}
		if d.StatMultiplier <= 0 || d.DropBonus <= 0 {
			errs = append(errs, fmt.Errorf("quality: tier %q stat_multiplier and drop_bonus must be > 0", d.Name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Table{defs: append([]Def(nil), defs...), index: index}, nil
}

// DefaultDefs returns the stock six-tier table.
func DefaultDefs() []Def {
	return []Def{
		{Name: White, Attr: Interval{0.95, 1.05}, Effect: Interval{0.95, 1.05}, Weight: 50, StatMultiplier: 1.0, DropBonus: 1.0},
		{Name: Green, Attr: Interval{1.05, 1.15}, Effect: Interval{1.05, 1.20}, Weight: 30, StatMultiplier: 1.2, DropBonus: 1.5},
		{Name: Blue, Attr: Interval{1.18, 1.32}, Effect: Interval{1.15, 1.30}, Weight: 15, BoostFactor: 2, StatMultiplier: 1.5, DropBonus: 2.0},
		{Name: Purple, Attr: Interval{1.40, 1.60}, Effect: Interval{1.30, 1.45}, Weight: 4, BoostFactor: 3, StatMultiplier: 2.0, DropBonus: 3.0},
		{Name: Red, Attr: Interval{1.85, 2.15}, Effect: Interval{1.45, 1.60}, Weight: 1, BoostFactor: 3, StatMultiplier: 2.5, DropBonus: 4.0},
		{Name: Orange, Attr: Interval{2.80, 3.20}, Effect: Interval{1.90, 2.15}, Weight: 0.1, BoostFactor: 3, StatMultiplier: 3.0, DropBonus: 5.0},
	}
}

// DefaultTable returns the stock table.
func DefaultTable() *Table {
	t, err := NewTable(DefaultDefs())
	if err != nil {
		panic("quality: default table invalid: " + err.Error())
	}
	return t
}

// Defs returns a copy of the rows in ascending rarity order.
func (t *Table) Defs() []Def {
	return append([]Def(nil), t.defs...)
}

// Lookup returns the row for tier.
func (t *Table) Lookup(tier Tier) (Def, bool) {
	i, ok := t.index[tier]
	if !ok {
		return Def{}, false
	}
	return t.defs[i], true
}

// Lowest returns the most common tier.
func (t *Table) Lowest() Tier { return t.defs[0].Name }

// StatMultiplier is the monster stat scale for tier; unknown tiers scale by 1.
func (t *Table) StatMultiplier(tier Tier) float64 {
	if d, ok := t.Lookup(tier); ok {
		return d.StatMultiplier
	}
	return 1
}

// DropBonus is the drop-rate multiplier for tier; unknown tiers return 1.
func (t *Table) DropBonus(tier Tier) float64 {
	if d, ok := t.Lookup(tier); ok {
		return d.DropBonus
	}
	return 1
}

// Boost is the rarity boost for a drop with the given base rate: rarer drops
// push weight toward the higher tiers.
//
// Postcondition: 0 <= result <= 0.5.
func Boost(baseRate float64) float64 {
	return max(0, min(0.5, (1-baseRate)*0.8))
}

// Weights returns the boosted selection weights for baseRate.
func (t *Table) Weights(baseRate float64) []float64 {
	b := Boost(baseRate)
	out := make([]float64, len(t.defs))
	for i, d := range t.defs {
		out[i] = d.Weight * (1 + b*d.BoostFactor)
	}
	return out
}

// RollTier picks a tier for a drop whose base probability was baseRate.
// Exactly one value is drawn from src.
func (t *Table) RollTier(src dice.Source, baseRate float64) Tier {
	return t.defs[dice.Weighted(src, t.Weights(baseRate))].Name
}
