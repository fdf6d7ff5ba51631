package content

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/item"
	"github.com/cory-johannsen/legend/internal/game/loot"
	"github.com/cory-johannsen/legend/internal/game/quality"
)

// Stack is a quantity of one item held in a player's bag.
type Stack struct {
	ItemID   string `yaml:"item" json:"item"`
	Quantity int    `yaml:"quantity" json:"quantity"`
}

// Potions returns the restoring consumables among stacks, in stack order.
// Stacks of other kinds and empty stacks are skipped.
func (r *Registry) Potions(stacks []Stack) ([]combat.Potion, error) {
	var out []combat.Potion
	for _, s := range stacks {
		d, err := r.Item(s.ItemID)
		if err != nil {
			return nil, err
		}
		if d.Kind != item.KindConsumable || s.Quantity <= 0 {
			continue
		}
		if d.Restore.HP <= 0 && d.Restore.MP <= 0 {
			continue
		}
		out = append(out, combat.Potion{
			ItemID:   d.ID,
			Name:     d.Name,
			HealHP:   d.Restore.HP,
			HealMP:   d.Restore.MP,
			Quantity: s.Quantity,
		})
	}
	return out, nil
}

// Spawn looks up a monster template and pairs it with tier. An empty tier
// means the lowest tier of the table.
func (r *Registry) Spawn(monsterID string, tier quality.Tier) (combat.Spawn, error) {
	m, err := r.Monster(monsterID)
	if err != nil {
		return combat.Spawn{}, err
	}
	if tier == "" {
		tier = r.Tiers.Lowest()
	}
	if _, ok := r.Tiers.Lookup(tier); !ok {
		return combat.Spawn{}, fmt.Errorf("monster %q: unknown tier %q", monsterID, tier)
	}
	return combat.Spawn{Template: m, Tier: tier}, nil
}

// Resolver builds a drop resolver over this content.
func (r *Registry) Resolver(logger *zap.Logger) *loot.Resolver {
	return loot.NewResolver(r.Tiers, r.Items, r.Groups, logger)
}
