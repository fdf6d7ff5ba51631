package loot

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/item"
	"github.com/cory-johannsen/legend/internal/game/quality"
)

// Entry is one drop-table line.
type Entry struct {
	Item string `yaml:"item"`
	Rate Rate   `yaml:"rate"`
	// Quantity is an optional dice expression ("1d3", "2"); empty means 1.
	Quantity string `yaml:"quantity"`
}

// Validate checks the entry.
func (e Entry) Validate() error {
	var errs []error
	if e.Item == "" {
		errs = append(errs, errors.New("item must not be empty"))
	}
	if e.Quantity != "" {
		expr, err := dice.Parse(e.Quantity)
		if err != nil {
			errs = append(errs, err)
		} else if expr.Min() < 1 {
			errs = append(errs, fmt.Errorf("quantity %q can roll below 1", e.Quantity))
		}
	}
	return errors.Join(errs...)
}

// Group is a named, shared drop table that monsters reference by ID.
type Group struct {
	ID    string  `yaml:"id"`
	Drops []Entry `yaml:"drops"`
}

// Validate checks the group and each of its entries.
func (g *Group) Validate() error {
	var errs []error
	if g.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	for i, e := range g.Drops {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("drops[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("drop group %q: %w", g.ID, errors.Join(errs...))
	}
	return nil
}

// Kill is the drop-relevant data of one defeated monster.
type Kill struct {
	Name   string
	Tier   quality.Tier
	Drops  []Entry
	Groups []string
}

// Drop is one dropped item.
type Drop struct {
	InstanceID string
	ItemID     string
	Tier       quality.Tier
	Quantity   int
	// Rolled is set for equipment only.
	Rolled *quality.Rolled
}

// ItemLookup resolves item definitions.
type ItemLookup interface {
	Item(id string) (*item.Def, bool)
}

// Resolver turns kills into drops.
type Resolver struct {
	tiers  *quality.Table
	items  ItemLookup
	groups map[string]*Group
	logger *zap.Logger

	// NewID generates drop instance IDs.
	NewID func() string
}

// NewResolver builds a Resolver.
//
// Precondition: tiers, items and logger must be non-nil.
func NewResolver(tiers *quality.Table, items ItemLookup, groups map[string]*Group, logger *zap.Logger) *Resolver {
	return &Resolver{
		tiers:  tiers,
		items:  items,
		groups: groups,
		logger: logger,
		NewID:  uuid.NewString,
	}
}

// Merged is the combined chance and quantity of one item across every drop
// source of a kill.
type Merged struct {
	Rate     Rate
	Quantity string
}

// Rates merges a kill's direct entries and the entries of each referenced
// group. Rates for the same item combine through Merge; the first non-empty
// quantity expression wins. Items are returned in first-seen order. Unknown
// groups are skipped.
func (r *Resolver) Rates(k Kill) ([]string, map[string]Merged) {
	var order []string
	byItem := make(map[string]Merged)
	add := func(e Entry) {
		m, seen := byItem[e.Item]
		if !seen {
			order = append(order, e.Item)
			m = Merged{Rate: e.Rate, Quantity: e.Quantity}
		} else {
			m.Rate = Merge(m.Rate, e.Rate)
			if m.Quantity == "" {
				m.Quantity = e.Quantity
			}
		}
		byItem[e.Item] = m
	}
	for _, e := range k.Drops {
		add(e)
	}
	for _, id := range k.Groups {
		g, ok := r.groups[id]
		if !ok {
			r.logger.Warn("unknown drop group", zap.String("group", id), zap.String("monster", k.Name))
			continue
		}
		for _, e := range g.Drops {
			add(e)
		}
	}
	return order, byItem
}

// Resolve rolls drops for every kill in order. For each item the final
// chance is min(1, merged × tier bonus × multiplier). A successful Bernoulli
// draw is followed by a tier draw (weighted by the merged base rate), two
// attribute draws for equipment, and the quantity dice.
func (r *Resolver) Resolve(src dice.Source, kills []Kill, multiplier float64) []Drop {
	var drops []Drop
	for _, k := range kills {
		order, rates := r.Rates(k)
		bonus := r.tiers.DropBonus(k.Tier)
		for _, id := range order {
			m := rates[id]
			chance := min(1, float64(m.Rate)*bonus*multiplier)
			if !dice.Chance(src, chance) {
				continue
			}
			d := Drop{
				InstanceID: r.NewID(),
				ItemID:     id,
				Tier:       r.tiers.RollTier(src, float64(m.Rate)),
				Quantity:   1,
			}
			if def, ok := r.items.Item(id); ok && def.IsEquipment() {
				rolled := r.tiers.RollAttributes(src, def.Template(), d.Tier)
				d.Rolled = &rolled
			}
			if m.Quantity != "" {
				if expr, err := dice.Parse(m.Quantity); err == nil {
					d.Quantity = max(1, expr.Roll(src).Total())
				}
			}
			r.logger.Debug("item dropped",
				zap.String("monster", k.Name),
				zap.String("item", id),
				zap.String("tier", string(d.Tier)),
				zap.Float64("chance", chance),
				zap.Int("quantity", d.Quantity),
			)
			drops = append(drops, d)
		}
	}
	return drops
}
