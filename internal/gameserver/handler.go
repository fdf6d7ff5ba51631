package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/content"
	"github.com/cory-johannsen/legend/internal/game/character"
	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/item"
	"github.com/cory-johannsen/legend/internal/game/quality"
	"github.com/cory-johannsen/legend/internal/game/session"
	"github.com/cory-johannsen/legend/internal/storage/postgres"
)

// ErrNoMonsters is returned for an encounter request without monsters.
var ErrNoMonsters = errors.New("encounter needs at least one monster")

// ReportStore persists encounter reports.
type ReportStore interface {
	Save(ctx context.Context, r postgres.EncounterReport) (postgres.EncounterReport, error)
}

// MonsterSpec names a monster template and the tier to spawn it at. An empty
// tier spawns the lowest tier.
type MonsterSpec struct {
	ID   string       `yaml:"id" json:"id"`
	Tier quality.Tier `yaml:"tier" json:"tier"`
}

// EncounterRequest asks for one PvE fight.
type EncounterRequest struct {
	Player   *PlayerState
	Monsters []MonsterSpec
	// Seed is recorded in the report when the source was seeded.
	Seed *int64
}

// EncounterOutcome is the engine result plus the applied consequences.
type EncounterOutcome struct {
	Result   combat.Result
	LevelUps []character.LevelUp
	// ReportID is uuid.Nil when no report store is configured.
	ReportID uuid.UUID
}

// EncounterHandler runs PvE encounters and PvP duels for players.
//
// EncounterHandler is safe for concurrent use; a player can be in at most
// one encounter at a time.
type EncounterHandler struct {
	engine  *combat.Engine
	content *content.Registry
	locks   *session.Locks
	hub     *session.Hub
	reports ReportStore
	rates   combat.Rates
	logger  *zap.Logger
}

// NewEncounterHandler creates an EncounterHandler.
//
// Precondition: engine, reg, locks, hub and logger must be non-nil. reports
// may be nil, in which case nothing is persisted.
func NewEncounterHandler(
	engine *combat.Engine,
	reg *content.Registry,
	locks *session.Locks,
	hub *session.Hub,
	reports ReportStore,
	rates combat.Rates,
	logger *zap.Logger,
) *EncounterHandler {
	if engine == nil || reg == nil || locks == nil || hub == nil || logger == nil {
		panic("gameserver.NewEncounterHandler: engine, content, locks, hub and logger must be non-nil")
	}
	return &EncounterHandler{
		engine:  engine,
		content: reg,
		locks:   locks,
		hub:     hub,
		reports: reports,
		rates:   rates,
		logger:  logger,
	}
}

// Fight resolves one PvE encounter for req.Player and applies its outcome:
// HP, MP and summon state always; exp, gold, drops and skill proficiency on
// victory; consumed potions in every case. A player who dies is left with
// 1 HP.
//
// Precondition: req.Player and req.Player.Character must be non-nil.
// Postcondition: returns session.ErrEncounterInProgress without side effects
// if the player is already fighting.
func (h *EncounterHandler) Fight(ctx context.Context, src dice.Source, req EncounterRequest) (EncounterOutcome, error) {
	p := req.Player
	if len(req.Monsters) == 0 {
		return EncounterOutcome{}, ErrNoMonsters
	}
	release, err := h.locks.Acquire(p.Character.ID)
	if err != nil {
		return EncounterOutcome{}, err
	}
	defer release()

	enc, err := h.prepare(p, req.Monsters)
	if err != nil {
		return EncounterOutcome{}, err
	}
	res := h.engine.Resolve(src, enc)
	h.publish(ctx, p.Character.ID, res.Log)

	out := EncounterOutcome{Result: res}
	out.LevelUps = h.apply(p, res)

	if h.reports != nil {
		saved, err := h.reports.Save(ctx, pveReport(p.Character.ID, req, res))
		if err != nil {
			return out, fmt.Errorf("saving encounter report: %w", err)
		}
		out.ReportID = saved.ID
	}
	return out, nil
}

func (h *EncounterHandler) prepare(p *PlayerState, specs []MonsterSpec) (combat.Encounter, error) {
	spawns := make([]combat.Spawn, 0, len(specs))
	for _, s := range specs {
		sp, err := h.content.Spawn(s.ID, s.Tier)
		if err != nil {
			return combat.Encounter{}, fmt.Errorf("preparing encounter: %w", err)
		}
		spawns = append(spawns, sp)
	}
	potions, err := h.content.Potions(p.Bag)
	if err != nil {
		return combat.Encounter{}, fmt.Errorf("preparing encounter: %w", err)
	}
	snap, providers := character.Build(p.loadout(), h.content.Items)
	return combat.Encounter{
		Player:    snap,
		Equipment: providers,
		Monsters:  spawns,
		Skills:    p.Skills,
		Potions:   potions,
		Summon:    p.Summon,
		Disabled:  p.Disabled,
		Rates:     h.rates,
	}, nil
}

// publish streams every line to the player's feed in order, waiting on a
// slow consumer until ctx ends. A closed feed or an expired ctx stops the
// stream but never fails the encounter.
func (h *EncounterHandler) publish(ctx context.Context, playerID string, lines []string) {
	for i, line := range lines {
		if err := h.hub.Publish(ctx, playerID, line); err != nil {
			h.logger.Warn("encounter feed interrupted",
				zap.String("player", playerID),
				zap.Int("delivered", i),
				zap.Int("lines", len(lines)),
				zap.Error(err),
			)
			return
		}
	}
}

func (h *EncounterHandler) apply(p *PlayerState, res combat.Result) []character.LevelUp {
	c := p.Character
	c.HP, c.MP = res.PlayerHP, res.PlayerMP
	if res.PlayerDied {
		c.HP = 1
	}
	for id, n := range res.PotionsUsed {
		p.removeFromBag(id, n)
	}
	p.Summon = res.Summon
	if res.Summon != nil && !res.Summon.Alive() {
		p.Summon = nil
	}
	if !res.Victory {
		return nil
	}

	c.Gold += res.Gold
	levels := c.GainExp(res.Exp)
	p.train(res.SkillsUsed)
	for _, d := range res.Drops {
		def, err := h.content.Item(d.ItemID)
		if err != nil {
			h.logger.Warn("dropped unknown item", zap.String("item", d.ItemID))
			continue
		}
		if d.Rolled != nil {
			roll := d.Rolled.Roll
			p.Stash = append(p.Stash, item.Instance{InstanceID: d.InstanceID, Def: def, Roll: &roll})
			continue
		}
		p.addToBag(d.ItemID, d.Quantity)
	}
	for _, lu := range levels {
		h.logger.Info("level up", zap.String("player", c.ID), zap.Int("level", lu.Level))
	}
	return levels
}

func pveReport(playerID string, req EncounterRequest, res combat.Result) postgres.EncounterReport {
	names := make([]string, 0, len(res.Monsters))
	for _, m := range res.Monsters {
		names = append(names, m.Name)
	}
	drops := make([]postgres.ReportDrop, 0, len(res.Drops))
	for _, d := range res.Drops {
		drops = append(drops, postgres.ReportDrop{
			InstanceID: d.InstanceID,
			ItemID:     d.ItemID,
			Tier:       string(d.Tier),
			Quantity:   d.Quantity,
		})
	}
	return postgres.EncounterReport{
		PlayerID:   playerID,
		Kind:       postgres.KindPvE,
		Opponent:   strings.Join(names, ", "),
		Victory:    res.Victory,
		PlayerDied: res.PlayerDied,
		Rounds:     res.Rounds,
		Exp:        res.Exp,
		Gold:       res.Gold,
		Drops:      drops,
		SkillsUsed: res.SkillsUsed,
		Log:        res.Log,
		Seed:       req.Seed,
	}
}
