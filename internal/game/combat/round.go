package combat

import (
	"strings"

	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/status"
)

// playRound runs one round in its fixed order: status ticks, instant-kill
// passives, the player's turn (potions, cooldowns, skill, summon, attacks),
// monster retaliation, timers and the status line.
func (x *encounter) playRound() {
	x.tickDOTs()
	if !x.player.Alive() || !x.anyAlive() {
		x.emit(KindStatus)
		return
	}

	x.instantKill()

	if x.player.Status.ConsumeStun() {
		x.logf("%s is stunned and cannot act.", x.player.Name)
	} else {
		x.playerTurn()
	}

	x.monstersTurn()
	x.player.Status.TickTimers()
	x.emit(KindStatus)
}

func (x *encounter) tickDOTs() {
	p := x.player
	if p.Status.Poison.Active() {
		var dmg int
		dmg, p.Status.Poison = p.Status.Poison.Tick()
		p.Damage(dmg)
		x.logf("%s takes %d poison damage.", p.Name, dmg)
	}
	for _, m := range x.monsters {
		if m.Alive() && m.Status.Poison.Active() {
			var dmg int
			dmg, m.Status.Poison = m.Status.Poison.Tick()
			x.hurtMonster(m, dmg, "poison")
		}
	}
	for _, m := range x.monsters {
		if m.Alive() && m.Status.Burn.Active() {
			var dmg int
			dmg, m.Status.Burn = m.Status.Burn.Tick()
			x.hurtMonster(m, dmg, "burn")
		}
	}
}

func (x *encounter) hurtMonster(m *Monster, dmg int, cause string) {
	killed := m.Damage(dmg)
	x.logf("%s takes %d %s damage.", m.Name, dmg, cause)
	if killed {
		x.logf("%s is slain!", m.Name)
	}
}

func (x *encounter) instantKill() {
	for _, k := range x.passives {
		chance := k.Def.Effect.InstantKill * float64(k.EffectiveLevel())
		if chance <= 0 {
			continue
		}
		alive := x.alive()
		if len(alive) == 0 {
			return
		}
		if !dice.Chance(x.src, chance) {
			continue
		}
		m := alive[x.src.Intn(len(alive))]
		m.Damage(m.HP)
		x.logf("%s triggers %s: %s is slain instantly!", x.player.Name, k.Def.Name, m.Name)
	}
}

func (x *encounter) playerTurn() {
	x.drinkPotions()
	x.tickCooldowns()
	if !x.anyAlive() {
		return
	}
	c := x.trySkill()
	x.summonAttack()
	x.playerAttacks(c)
}

func (x *encounter) drinkPotions() {
	p := x.player
	if float64(p.HPNow) < float64(p.MaxHP)*PotionThreshold {
		x.drink(func(pt Potion) int { return pt.HealHP })
	}
	if float64(p.MPNow) < float64(p.MaxMP)*PotionThreshold {
		x.drink(func(pt Potion) int { return pt.HealMP })
	}
}

// drink consumes one of the weakest potions with a positive restore amount.
// Ties go to the earlier stack.
func (x *encounter) drink(restore func(Potion) int) {
	best := -1
	for i, pt := range x.potions {
		if pt.Quantity <= 0 || restore(pt) <= 0 {
			continue
		}
		if best < 0 || restore(pt) < restore(x.potions[best]) {
			best = i
		}
	}
	if best < 0 {
		return
	}
	pt := &x.potions[best]
	pt.Quantity--
	x.res.PotionsUsed[pt.ItemID]++
	x.player.Heal(pt.HealHP)
	x.player.RestoreMP(pt.HealMP)
	x.logf("%s drinks %s.", x.player.Name, pt.Name)
}

func (x *encounter) tickCooldowns() {
	for id, left := range x.cooldowns {
		if left <= 1 {
			delete(x.cooldowns, id)
			continue
		}
		x.cooldowns[id] = left - 1
	}
}

func (x *encounter) summonAttack() {
	s := x.summon
	if !s.Alive() {
		return
	}
	alive := x.alive()
	if len(alive) == 0 {
		return
	}
	t := alive[0]
	dmg := BasicDamage(x.src, s, t, false, effect.Modifiers{})
	killed := t.Damage(dmg)
	x.logf("%s hits %s for %d.", s.Name, t.Name, dmg)
	if killed {
		x.logf("%s is slain!", t.Name)
	}
}

// playerAttacks resolves the player's basic attacks. A second attack is
// granted the first time any outcome reports an extra attack.
func (x *encounter) playerAttacks(c *cast) {
	p := x.player
	magic := p.MagicUser()
	extra, aoe := 0, false
	if c != nil {
		extra, aoe = c.extra, c.aoe
	}

	attacks := 1
	for n := 0; n < attacks && p.Alive(); n++ {
		alive := x.alive()
		if len(alive) == 0 {
			return
		}
		targets := alive[:1]
		if aoe {
			targets = alive[:min(AOETargets, len(alive))]
		}
		if n > 0 {
			x.logf("%s strikes again!", p.Name)
		}
		for _, t := range targets {
			if !t.Alive() || !p.Alive() {
				continue
			}
			base := BasicDamage(x.src, p, t, magic, p.Mods) + extra
			out := effect.Resolve(x.src, x.e.cfg.Tuning, effect.Attack{
				Damage:   base,
				Attacker: p.Mods,
				Defender: t.Effects,
				Magic:    magic,
			})
			x.applyOutcome(t, targets, out)
			if out.ExtraAttacks > 0 && attacks < 2 {
				attacks = 2
			}
		}
	}
}

func (x *encounter) applyOutcome(t *Monster, involved []*Monster, out effect.Outcome) {
	p := x.player
	if out.Missed {
		x.logf("%s misses %s.", p.Name, t.Name)
		return
	}
	if out.Dodged {
		x.logf("%s dodges %s's attack.", t.Name, p.Name)
		return
	}

	killed := t.Damage(out.Damage)
	x.logf("%s hits %s for %d%s.", p.Name, t.Name, out.Damage, tagSuffix(out.Tags))
	p.Heal(out.HealHP)
	p.RestoreMP(out.HealMP)
	if t.Alive() {
		if out.Stunned {
			t.Status.Stunned = true
		}
		if out.PoisonRounds > 0 {
			t.Status.Poison = status.DOT{Damage: out.PoisonDamage, Rounds: out.PoisonRounds}
		}
	}
	if killed {
		x.logf("%s is slain!", t.Name)
	}

	if out.Reflect > 0 {
		p.Damage(out.Reflect)
		x.logf("%s reflects %d damage to %s.", t.Name, out.Reflect, p.Name)
	}

	if out.Splash > 0 {
		for _, m := range x.monsters {
			if !m.Alive() || contains(involved, m) {
				continue
			}
			x.hurtMonster(m, out.Splash, "splash")
		}
	}
}

func (x *encounter) monstersTurn() {
	for _, m := range x.monsters {
		if !x.player.Alive() {
			return
		}
		if !m.Alive() {
			continue
		}
		if m.Status.ConsumeStun() {
			x.logf("%s is stunned.", m.Name)
			continue
		}
		x.monsterAttack(m)
	}
}

func (x *encounter) monsterAttack(m *Monster) {
	p := x.player
	if p.Status.Invisible > 0 {
		if x.summon.Alive() {
			x.monsterHitsSummon(m)
		} else {
			x.logf("%s cannot find %s.", m.Name, p.Name)
		}
		return
	}
	if x.summon.Alive() && dice.Chance(x.src, SummonAggro) {
		x.monsterHitsSummon(m)
		return
	}

	base := BasicDamage(x.src, m, p, m.MagicDamage, effect.Modifiers{})
	dmg, blocked := x.mitigate(base)
	p.Damage(dmg)
	if blocked {
		x.logf("%s hits %s for %d (blocked).", m.Name, p.Name, dmg)
	} else {
		x.logf("%s hits %s for %d.", m.Name, p.Name, dmg)
	}

	if reflect := effect.ReflectDamage(p.Mods, dmg); reflect > 0 {
		x.logf("%s reflects %d damage to %s.", p.Name, reflect, m.Name)
		if m.Damage(reflect) {
			x.logf("%s is slain!", m.Name)
		}
	}

	tmpl := m.tmpl
	if tmpl.PoisonRate > 0 && tmpl.PoisonDamage > 0 && tmpl.PoisonRounds > 0 && dice.Chance(x.src, tmpl.PoisonRate) {
		p.Status.Poison = status.DOT{Damage: tmpl.PoisonDamage, Rounds: tmpl.PoisonRounds}
		x.logf("%s is poisoned.", p.Name)
	}
	if tmpl.StunRate > 0 && dice.Chance(x.src, tmpl.StunRate) {
		p.Status.Stunned = true
		x.logf("%s is stunned.", p.Name)
	}
}

// mitigate applies the player's block or, failing that, damage reduction to
// a monster hit, then the retaliation floor and the magic shield.
//
// Postcondition: result >= 1.
func (x *encounter) mitigate(base int) (int, bool) {
	p := x.player
	t := x.e.cfg.Tuning
	dmg := base
	blocked, after := t.Block(x.src, p.Mods, base)
	switch {
	case blocked:
		dmg = after
	case p.Mods.DamageReduction > 0:
		dmg = t.Reduce(p.Mods, base)
	}
	dmg = max(dmg, int(float64(base)*RetaliationFloor))
	dmg = int(float64(dmg) * p.Status.Shield.Multiplier())
	return max(1, dmg), blocked
}

func (x *encounter) monsterHitsSummon(m *Monster) {
	s := x.summon
	dmg := BasicDamage(x.src, m, s, m.MagicDamage, effect.Modifiers{})
	died := s.Damage(dmg)
	x.logf("%s hits %s for %d.", m.Name, s.Name, dmg)
	if died {
		x.res.SummonDied = true
		x.logf("%s is destroyed.", s.Name)
	}
}

func tagSuffix(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " (" + strings.Join(tags, ", ") + ")"
}

func contains(ms []*Monster, m *Monster) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}
