// Package gameserver orchestrates encounters: it locks the player, builds
// the combat snapshot from content, runs the engine, streams the narration to
// the player's feed, applies rewards and stores a report.
package gameserver

import (
	"github.com/cory-johannsen/legend/internal/content"
	"github.com/cory-johannsen/legend/internal/game/character"
	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/item"
	"github.com/cory-johannsen/legend/internal/game/skill"
)

// PlayerState is the mutable, caller-owned state of one player. Handlers
// update it in place with the encounter's consequences.
type PlayerState struct {
	Character *character.Character
	Equipped  []item.Instance
	Skills    []skill.Known
	// Disabled skill IDs are neither cast nor counted as passives.
	Disabled map[string]bool
	Bag      []content.Stack
	// Stash receives equipment drops.
	Stash  []item.Instance
	Summon *combat.Summon
}

func (p *PlayerState) loadout() character.Loadout {
	return character.Loadout{
		Character: p.Character,
		Equipped:  p.Equipped,
		Skills:    p.Skills,
		Disabled:  p.Disabled,
	}
}

// removeFromBag deducts n of itemID, dropping emptied stacks.
func (p *PlayerState) removeFromBag(itemID string, n int) {
	out := p.Bag[:0]
	for _, s := range p.Bag {
		if s.ItemID == itemID && n > 0 {
			take := min(n, s.Quantity)
			s.Quantity -= take
			n -= take
		}
		if s.Quantity > 0 {
			out = append(out, s)
		}
	}
	p.Bag = out
}

// addToBag merges qty of itemID into an existing stack or appends a new one.
func (p *PlayerState) addToBag(itemID string, qty int) {
	for i := range p.Bag {
		if p.Bag[i].ItemID == itemID {
			p.Bag[i].Quantity += qty
			return
		}
	}
	p.Bag = append(p.Bag, content.Stack{ItemID: itemID, Quantity: qty})
}

// train adds proficiency for every skill cast uses times.
func (p *PlayerState) train(used map[string]int) {
	for i, k := range p.Skills {
		if k.Def == nil {
			continue
		}
		if n := used[k.Def.ID]; n > 0 {
			p.Skills[i] = k.Train(n)
		}
	}
}
