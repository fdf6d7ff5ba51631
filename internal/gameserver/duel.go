package gameserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/legend/internal/game/character"
	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/storage/postgres"
)

// ErrSelfDuel is returned when a player challenges themself.
var ErrSelfDuel = errors.New("a player cannot duel themself")

// Duel resolves a PvP duel between two players. Both players are locked for
// the duel and receive its log. Duels leave HP, MP and inventory untouched.
// One report is stored per participant.
//
// Precondition: both players and their characters must be non-nil.
func (h *EncounterHandler) Duel(ctx context.Context, src dice.Source, challenger, defender *PlayerState) (combat.DuelResult, error) {
	cID, dID := challenger.Character.ID, defender.Character.ID
	if cID == dID {
		return combat.DuelResult{}, ErrSelfDuel
	}
	releaseC, err := h.locks.Acquire(cID)
	if err != nil {
		return combat.DuelResult{}, err
	}
	defer releaseC()
	releaseD, err := h.locks.Acquire(dID)
	if err != nil {
		return combat.DuelResult{}, err
	}
	defer releaseD()

	res := h.engine.Duel(src, h.duelist(challenger), h.duelist(defender))
	h.publish(ctx, cID, res.Log)
	h.publish(ctx, dID, res.Log)

	if h.reports == nil {
		return res, nil
	}
	for _, r := range []postgres.EncounterReport{
		pvpReport(cID, defender.Character.Name, res),
		pvpReport(dID, challenger.Character.Name, res),
	} {
		if _, err := h.reports.Save(ctx, r); err != nil {
			return res, fmt.Errorf("saving duel report: %w", err)
		}
	}
	return res, nil
}

func (h *EncounterHandler) duelist(p *PlayerState) combat.Duelist {
	snap, providers := character.Build(p.loadout(), h.content.Items)
	return combat.Duelist{Snapshot: snap, Equipment: providers}
}

func pvpReport(playerID, opponent string, res combat.DuelResult) postgres.EncounterReport {
	return postgres.EncounterReport{
		PlayerID: playerID,
		Kind:     postgres.KindPvP,
		Opponent: opponent,
		Victory:  res.WinnerID == playerID,
		Rounds:   res.Rounds,
		Log:      res.Log,
	}
}
