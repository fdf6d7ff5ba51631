package combat

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/loot"
	"github.com/cory-johannsen/legend/internal/game/monster"
	"github.com/cory-johannsen/legend/internal/game/quality"
	"github.com/cory-johannsen/legend/internal/game/skill"
)

// Spawn is one monster to fight at a given rarity tier.
type Spawn struct {
	Template *monster.Template
	Tier     quality.Tier
}

// Potion is a stack of restoring consumables the player may drink.
type Potion struct {
	ItemID   string
	Name     string
	HealHP   int
	HealMP   int
	Quantity int
}

// Rates are the global reward multipliers.
type Rates struct {
	Exp  float64 `mapstructure:"exp"`
	Gold float64 `mapstructure:"gold"`
	Drop float64 `mapstructure:"drop"`
}

// DefaultRates returns unit multipliers.
func DefaultRates() Rates { return Rates{Exp: 1, Gold: 1, Drop: 1} }

// Encounter is everything the caller supplies for one PvE fight.
type Encounter struct {
	Player Snapshot
	// Equipment contributes the player's attack modifiers.
	Equipment []effect.Provider
	Monsters  []Spawn
	Skills    []skill.Known
	Potions   []Potion
	// Summon is a companion carried over from an earlier encounter.
	Summon *Summon
	// Disabled holds skill IDs the player has switched off.
	Disabled map[string]bool
	// Rates defaults to DefaultRates when zero.
	Rates Rates
}

// Result is the outcome of one encounter.
type Result struct {
	Victory    bool
	PlayerDied bool
	Rounds     int
	Log        []string
	Exp        int
	Gold       int
	Drops      []loot.Drop
	// SkillsUsed counts casts per skill ID.
	SkillsUsed map[string]int
	// PassiveSkills lists the enabled passive skill IDs.
	PassiveSkills []string
	SummonDied    bool
	// Summon is the companion after the fight; nil when none is alive.
	Summon   *Summon
	PlayerHP int
	PlayerMP int
	Monsters []Monster
	// PotionsUsed counts consumed potions per item ID; the caller deducts
	// them from the inventory.
	PotionsUsed map[string]int
}

// encounter is the mutable state of one Resolve call.
type encounter struct {
	e         *Engine
	src       dice.Source
	rates     Rates
	player    *Player
	monsters  []*Monster
	summon    *Summon
	active    []skill.Known
	passives  []skill.Known
	cooldowns map[string]int
	potions   []Potion
	round     int
	res       Result
}

// Resolve fights one encounter to victory, defeat or the round cap.
//
// Precondition: req.Monsters is non-empty and every template is non-nil.
// Postcondition: Victory iff every monster ended with HP 0; rewards and
// drops are granted only on victory.
func (e *Engine) Resolve(src dice.Source, req Encounter) Result {
	if len(req.Monsters) == 0 {
		panic("combat.Engine.Resolve: encounter has no monsters")
	}
	x := e.newEncounter(src, req)

	x.logf("%s engages %s.", x.player.Name, x.rosterNames())
	if fields := x.player.Mods.Fields(); len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f.String())
		}
		x.logf("Equipment effects: %s", strings.Join(parts, ", "))
	}
	x.emit(KindInit)

	for x.round < e.cfg.MaxRounds && x.player.Alive() && x.anyAlive() {
		x.round++
		x.logf("-- Round %d --", x.round)
		x.playRound()
	}
	return x.finish()
}

func (e *Engine) newEncounter(src dice.Source, req Encounter) *encounter {
	rates := req.Rates
	if rates == (Rates{}) {
		rates = DefaultRates()
	}
	x := &encounter{
		e:         e,
		src:       src,
		rates:     rates,
		player:    NewPlayer(req.Player, effect.Aggregate(req.Equipment)),
		cooldowns: make(map[string]int),
		potions:   append([]Potion(nil), req.Potions...),
		res: Result{
			SkillsUsed:  make(map[string]int),
			PotionsUsed: make(map[string]int),
		},
	}
	for i, s := range req.Monsters {
		x.monsters = append(x.monsters, NewMonster(i, s.Template, s.Tier, e.tiers))
	}
	if req.Summon != nil && req.Summon.Alive() {
		s := *req.Summon
		x.summon = &s
	}
	for _, k := range req.Skills {
		if k.Def == nil || req.Disabled[k.Def.ID] {
			continue
		}
		if k.Def.Passive() {
			x.passives = append(x.passives, k)
			x.res.PassiveSkills = append(x.res.PassiveSkills, k.Def.ID)
			continue
		}
		x.active = append(x.active, k)
	}
	sort.SliceStable(x.active, func(i, j int) bool {
		return x.active[i].Def.LevelReq > x.active[j].Def.LevelReq
	})
	return x
}

func (x *encounter) logf(format string, args ...any) {
	x.res.Log = append(x.res.Log, fmt.Sprintf(format, args...))
}

// alive returns the living monsters in roster order.
func (x *encounter) alive() []*Monster {
	var out []*Monster
	for _, m := range x.monsters {
		if m.Alive() {
			out = append(out, m)
		}
	}
	return out
}

func (x *encounter) anyAlive() bool {
	for _, m := range x.monsters {
		if m.Alive() {
			return true
		}
	}
	return false
}

func (x *encounter) rosterNames() string {
	names := make([]string, len(x.monsters))
	for i, m := range x.monsters {
		names[i] = fmt.Sprintf("%s [%s]", m.Name, m.Tier)
	}
	return strings.Join(names, ", ")
}

func (x *encounter) emit(kind string) {
	line := StatusLine{
		Kind:  kind,
		HP:    x.player.HPNow,
		MaxHP: x.player.MaxHP,
		MP:    x.player.MPNow,
		MaxMP: x.player.MaxMP,
	}
	for _, m := range x.monsters {
		line.Monsters = append(line.Monsters, MonsterStatus{
			Index: m.Index, Name: m.Name, Tier: m.Tier, HP: m.HP, MaxHP: m.MaxHP,
		})
	}
	if kind == KindStatus && x.summon.Alive() {
		line.Summon = &SummonStatus{Name: x.summon.Name, HP: x.summon.HP, MaxHP: x.summon.MaxHP}
	}
	x.res.Log = append(x.res.Log, line.String())
}

func (x *encounter) finish() Result {
	res := x.res
	p := x.player
	res.Rounds = x.round
	res.PlayerHP = p.HPNow
	res.PlayerMP = p.MPNow
	res.PlayerDied = !p.Alive()
	res.Victory = !x.anyAlive()
	if x.summon.Alive() {
		s := *x.summon
		res.Summon = &s
	}
	for _, m := range x.monsters {
		res.Monsters = append(res.Monsters, *m)
	}

	switch {
	case res.Victory:
		x.reward(&res)
	case res.PlayerDied:
		res.Log = append(res.Log, fmt.Sprintf("%s has fallen.", p.Name))
	default:
		res.Log = append(res.Log, fmt.Sprintf("%s withdraws after %d rounds.", p.Name, x.round))
	}

	x.e.logger.Debug("encounter resolved",
		zap.String("player", p.ID),
		zap.Int("monsters", len(x.monsters)),
		zap.Int("rounds", res.Rounds),
		zap.Bool("victory", res.Victory),
		zap.Bool("player_died", res.PlayerDied),
		zap.Int("exp", res.Exp),
		zap.Int("gold", res.Gold),
		zap.Int("drops", len(res.Drops)),
	)
	return res
}

// reward totals rarity-scaled exp and gold, applies the global multipliers
// and rolls drops.
func (x *encounter) reward(res *Result) {
	var exp, gold int
	var kills []loot.Kill
	for _, m := range x.monsters {
		exp += m.Exp
		gold += m.Gold
		kills = append(kills, loot.Kill{
			Name:   m.Name,
			Tier:   m.Tier,
			Drops:  m.tmpl.Drops,
			Groups: m.tmpl.DropGroups,
		})
	}
	res.Exp = int(float64(exp) * x.rates.Exp)
	res.Gold = int(float64(gold) * x.rates.Gold)
	res.Log = append(res.Log, fmt.Sprintf("Victory! Gained %d exp and %d gold.", res.Exp, res.Gold))

	if x.e.drops == nil {
		return
	}
	res.Drops = x.e.drops.Resolve(x.src, kills, x.rates.Drop)
	for _, d := range res.Drops {
		res.Log = append(res.Log, fmt.Sprintf("Loot: %s x%d [%s]", d.ItemID, d.Quantity, d.Tier))
	}
}
