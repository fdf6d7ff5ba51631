package item

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/quality"
)

// SetBonus is granted once enough pieces of a set are equipped.
type SetBonus struct {
	Attributes quality.Attributes `yaml:"attributes"`
	Effects    effect.Modifiers   `yaml:"effects"`
}

// Modifiers makes SetBonus an effect.Provider.
func (b SetBonus) Modifiers() effect.Modifiers { return b.Effects }

// SetDef describes an item set. Bonuses is keyed by the number of pieces
// required.
type SetDef struct {
	ID      string           `yaml:"id"`
	Name    string           `yaml:"name"`
	Bonuses map[int]SetBonus `yaml:"bonuses"`
}

// Validate reports every violated invariant of s.
func (s *SetDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if len(s.Bonuses) == 0 {
		errs = append(errs, errors.New("at least one bonus threshold is required"))
	}
	for n := range s.Bonuses {
		if n < 1 {
			errs = append(errs, fmt.Errorf("threshold %d must be >= 1", n))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("set %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}

// ActiveSet is a set with at least one piece equipped.
type ActiveSet struct {
	Set   *SetDef
	Count int
	// Bonuses are the reached thresholds in ascending order.
	Bonuses []SetBonus
}

// ActiveSets counts equipped pieces per set and resolves every reached
// threshold. Sets are returned sorted by ID; unknown set IDs are ignored.
func (r *Registry) ActiveSets(equipped []Instance) []ActiveSet {
	counts := make(map[string]int)
	for _, in := range equipped {
		if in.Def != nil && in.Def.SetID != "" {
			counts[in.Def.SetID]++
		}
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []ActiveSet
	for _, id := range ids {
		def, ok := r.sets[id]
		if !ok {
			continue
		}
		thresholds := make([]int, 0, len(def.Bonuses))
		for n := range def.Bonuses {
			thresholds = append(thresholds, n)
		}
		sort.Ints(thresholds)

		as := ActiveSet{Set: def, Count: counts[id]}
		for _, n := range thresholds {
			if counts[id] >= n {
				as.Bonuses = append(as.Bonuses, def.Bonuses[n])
			}
		}
		out = append(out, as)
	}
	return out
}

// SetTotals sums attributes and modifiers across every reached threshold.
func SetTotals(active []ActiveSet) (quality.Attributes, effect.Modifiers) {
	var attrs quality.Attributes
	var bonuses []SetBonus
	for _, as := range active {
		for _, b := range as.Bonuses {
			attrs = attrs.Add(b.Attributes)
			bonuses = append(bonuses, b)
		}
	}
	return attrs, effect.Aggregate(bonuses)
}
