package combat

import (
	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/skill"
	"github.com/cory-johannsen/legend/internal/game/status"
)

// cast is the part of a skill that rides on this round's basic attacks.
type cast struct {
	extra int
	aoe   bool
}

// summonBase holds the level-1, zero-magic stats of each summon kind.
var summonBase = map[string]Summon{
	skill.SummonSkeleton:    {Name: "Skeleton", Kind: skill.SummonSkeleton, HP: 100, Attack: 15, Defense: 5},
	skill.SummonDivineBeast: {Name: "Divine Beast", Kind: skill.SummonDivineBeast, HP: 200, Attack: 30, Defense: 15},
}

// SkillPower is the caster's class stat average scaled by skill level.
// Warriors draw on attack; everyone else on magic.
func SkillPower(s Snapshot, level int) int {
	avg := s.Magic.Avg()
	if s.Class == skill.ClassWarrior {
		avg = s.Attack.Avg()
	}
	return int(float64(avg) * (1 + float64(level-1)*0.5))
}

// NewSummon creates the companion a summon skill of the given level calls.
// It returns nil for an unknown kind.
func NewSummon(kind string, magicAvg, level int) *Summon {
	base, ok := summonBase[kind]
	if !ok {
		return nil
	}
	mult := 1 + float64(magicAvg)*0.02 + float64(level-1)*0.3
	s := base
	s.HP = int(float64(base.HP) * mult)
	s.MaxHP = s.HP
	s.Attack = int(float64(base.Attack) * mult)
	s.Defense = int(float64(base.Defense) * mult)
	s.Living = true
	return &s
}

// InvisibilityWeights returns the weight of each duration 1..maxRounds for
// a skill of the given level. Higher levels favour longer durations.
func InvisibilityWeights(maxRounds, level int) []float64 {
	w := make([]float64, maxRounds)
	for d := 1; d <= maxRounds; d++ {
		w[d-1] = 1 + float64((level-1)*(d-1))
	}
	return w
}

// trySkill rolls the class casting gate and casts the first usable skill.
// The gate is only drawn when the player knows an active skill and has MP.
func (x *encounter) trySkill() *cast {
	p := x.player
	if len(x.active) == 0 || p.MPNow <= 0 {
		return nil
	}
	if !dice.Chance(x.src, x.e.cfg.SkillChance[p.Class]) {
		return nil
	}
	for _, k := range x.active {
		d := k.Def
		if d.MPCost > p.MPNow || x.cooldowns[d.ID] > 0 {
			continue
		}
		if d.IsHeal() && float64(p.HPNow) >= float64(p.MaxHP)*HealThreshold {
			continue
		}
		if d.IsSummon() && x.summon.Alive() {
			continue
		}
		p.MPNow -= d.MPCost
		x.cooldowns[d.ID] = max(1, d.Cooldown)
		x.res.SkillsUsed[d.ID]++
		return x.castSkill(k)
	}
	return nil
}

// castSkill applies a skill's effects and returns the bonus carried by this
// round's attacks. Summons return nil.
//
// Precondition: at least one monster is alive.
func (x *encounter) castSkill(k skill.Known) *cast {
	p := x.player
	d, lvl := k.Def, k.EffectiveLevel()
	eff := d.Effect

	if d.IsSummon() {
		x.summon = NewSummon(eff.Summon, p.Magic.Avg(), lvl)
		if x.summon != nil {
			x.logf("%s casts %s and calls a %s.", p.Name, d.Name, x.summon.Name)
		}
		return nil
	}

	x.logf("%s casts %s.", p.Name, d.Name)
	c := &cast{aoe: eff.AOE}
	alive := x.alive()
	first := alive[0]
	power := SkillPower(p.Snapshot, lvl)

	switch {
	case eff.MagicDamage > 0:
		c.extra = int(float64(eff.MagicDamage) * (1 + float64(power)*0.02))
	case eff.DamageMultiplier > 0:
		base := BasicDamage(x.src, p, first, p.Class != skill.ClassWarrior, p.Mods)
		c.extra = int(float64(base) * (eff.DamageMultiplier - 1) * (1 + float64(lvl)*0.3))
	}
	if eff.IgnoreDefense > 0 {
		c.extra += int(float64(first.Defense) * eff.IgnoreDefense * (1 + float64(lvl)*0.2))
	}
	if eff.FireDamage > 0 {
		c.extra += int(float64(eff.FireDamage) * (1 + float64(power)*0.02))
	}
	if eff.Script != "" && x.e.scripts != nil {
		c.extra += x.e.scripts.SkillBonus(eff.Script, ScriptInput{
			SkillID:       d.ID,
			Level:         lvl,
			Power:         power,
			TargetHP:      first.HP,
			TargetDefense: first.Defense,
		})
	}
	c.extra = max(0, c.extra)

	if d.HasDOT() {
		dot := status.DOT{
			Damage: int((float64(eff.DOTDamage) + float64(p.Magic.Avg())*0.3) * (1 + float64(lvl-1)*0.5)),
			Rounds: eff.Duration + lvl - 1,
		}
		targets := alive[:1]
		if eff.AOE {
			targets = alive[:min(AOETargets, len(alive))]
		}
		for _, t := range targets {
			if d.DOTKind() == skill.DOTBurn {
				t.Status.Burn = dot
				x.logf("%s is burning (%d x%d).", t.Name, dot.Damage, dot.Rounds)
			} else {
				t.Status.Poison = dot
				x.logf("%s is poisoned (%d x%d).", t.Name, dot.Damage, dot.Rounds)
			}
		}
	}

	if eff.HealHP > 0 {
		heal := int((float64(eff.HealHP) + float64(p.Magic.Avg())*0.5) * (1 + float64(lvl-1)*0.3))
		p.Heal(heal)
		x.logf("%s recovers %d HP.", p.Name, heal)
	}

	if eff.Invisibility > 0 {
		rounds := 1 + dice.Weighted(x.src, InvisibilityWeights(eff.Invisibility+lvl-1, lvl))
		p.Status.Invisible = max(p.Status.Invisible, rounds)
		x.logf("%s vanishes for %d rounds.", p.Name, rounds)
	}

	if eff.Shield > 0 {
		reduction := min(MaxShield, eff.Shield*(1+float64(lvl-1)*0.1))
		p.Status.Shield = p.Status.Shield.Stack(reduction, eff.Duration+lvl)
		x.logf("%s raises a magic shield (%.0f%%).", p.Name, reduction*100)
	}
	return c
}
