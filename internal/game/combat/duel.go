package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/effect"
)

// Duelist is one side of a PvP duel.
type Duelist struct {
	Snapshot  Snapshot
	Equipment []effect.Provider
}

// DuelResult is the outcome of a duel.
type DuelResult struct {
	WinnerID string
	LoserID  string
	Rounds   int
	Log      []string
	// Final HP of the challenger and defender.
	ChallengerHP int
	DefenderHP   int
}

// Duel fights challenger against defender in strictly alternating turns,
// challenger first. Both sides start at full HP whatever their snapshot's
// current HP. Each turn is one basic-formula hit refined by the attack
// pipeline with both sides' modifiers. Stun skips the victim's next turn.
//
// The challenger wins whenever it is still standing when the duel ends,
// including when both survive DuelRounds turns.
func (e *Engine) Duel(src dice.Source, challenger, defender Duelist) DuelResult {
	a := newDuelist(challenger)
	b := newDuelist(defender)
	var res DuelResult
	logf := func(format string, args ...any) {
		res.Log = append(res.Log, fmt.Sprintf(format, args...))
	}
	logf("%s challenges %s!", a.Name, b.Name)

	for res.Rounds < e.cfg.DuelRounds && a.Alive() && b.Alive() {
		atk, def := a, b
		if res.Rounds%2 == 1 {
			atk, def = b, a
		}
		res.Rounds++

		if atk.Status.ConsumeStun() {
			logf("%s is stunned and loses the turn.", atk.Name)
			continue
		}
		magic := atk.MagicUser()
		base := BasicDamage(src, atk, def, magic, atk.Mods)
		out := effect.Resolve(src, e.cfg.Tuning, effect.Attack{
			Damage:   base,
			Attacker: atk.Mods,
			Defender: def.Mods,
			Magic:    magic,
		})
		switch {
		case out.Missed:
			logf("%s misses %s.", atk.Name, def.Name)
			continue
		case out.Dodged:
			logf("%s dodges %s's attack.", def.Name, atk.Name)
			continue
		}

		def.Damage(out.Damage)
		logf("%s hits %s for %d%s. (%d/%d)", atk.Name, def.Name, out.Damage, tagSuffix(out.Tags), def.HPNow, def.MaxHP)
		atk.Heal(out.HealHP)
		atk.RestoreMP(out.HealMP)
		if out.Reflect > 0 {
			atk.Damage(out.Reflect)
			logf("%s reflects %d damage to %s.", def.Name, out.Reflect, atk.Name)
		}
		if out.Stunned && def.Alive() {
			def.Status.Stunned = true
		}
	}

	winner, loser := b, a
	if a.Alive() {
		winner, loser = a, b
	}
	res.WinnerID, res.LoserID = winner.ID, loser.ID
	res.ChallengerHP, res.DefenderHP = a.HPNow, b.HPNow
	logf("%s wins the duel.", winner.Name)

	e.logger.Debug("duel resolved",
		zap.String("challenger", a.ID),
		zap.String("defender", b.ID),
		zap.String("winner", winner.ID),
		zap.Int("rounds", res.Rounds),
	)
	return res
}

func newDuelist(d Duelist) *Player {
	p := NewPlayer(d.Snapshot, effect.Aggregate(d.Equipment))
	p.HPNow = max(0, p.MaxHP)
	return p
}
