package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/dice/dicetest"
	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/monster"
	"github.com/cory-johannsen/legend/internal/game/quality"
	"github.com/cory-johannsen/legend/internal/game/skill"
)

func TestResolve_PlayerAtOneHPDies(t *testing.T) {
	p := hero(skill.ClassWarrior, 20)
	p.HP = 1
	res := newEngine(t, 0).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   p,
		Monsters: []combat.Spawn{spawn(goblin(), quality.White)},
	})
	assert.True(t, res.PlayerDied)
	assert.False(t, res.Victory)
	assert.Zero(t, res.Exp)
	assert.Zero(t, res.Gold)
	assert.Empty(t, res.Drops)
	assert.Zero(t, res.PlayerHP)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 30, res.Monsters[0].HP)
}

func TestResolve_VictoryRewardsAreRarityScaled(t *testing.T) {
	res := newEngine(t, 0).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassWarrior, 100),
		Monsters: []combat.Spawn{spawn(goblin(), quality.White), spawn(goblin(), quality.Blue)},
	})
	require.True(t, res.Victory)
	assert.False(t, res.PlayerDied)
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, 50, res.Exp)  // 20 + 30
	assert.Equal(t, 12, res.Gold) // 5 + 7
	assert.Equal(t, 85, res.PlayerHP)
	for _, m := range res.Monsters {
		assert.Zero(t, m.HP)
	}
}

func TestResolve_RewardsScaleLinearly(t *testing.T) {
	eng := newEngine(t, 0)
	rapid.Check(t, func(rt *rapid.T) {
		rates := combat.Rates{
			Exp:  rapid.Float64Range(0.1, 10).Draw(rt, "exp"),
			Gold: rapid.Float64Range(0.1, 10).Draw(rt, "gold"),
			Drop: 1,
		}
		res := eng.Resolve(dicetest.Always(0.5, 0), combat.Encounter{
			Player:   hero(skill.ClassWarrior, 100),
			Monsters: []combat.Spawn{spawn(goblin(), quality.White), spawn(goblin(), quality.Blue)},
			Rates:    rates,
		})
		if !res.Victory {
			rt.Fatalf("expected victory")
		}
		if res.Exp != int(50*rates.Exp) || res.Gold != int(12*rates.Gold) {
			rt.Fatalf("rewards %d/%d at rates %+v", res.Exp, res.Gold, rates)
		}
	})
}

func TestResolve_InitLineListsRoster(t *testing.T) {
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassWarrior, 20),
		Monsters: []combat.Spawn{spawn(goblin(), quality.White)},
	})
	assert.Contains(t, res.Log, "COMBAT_INIT|100/100|50/50|#0Goblin[white]:50/50")
	assert.Contains(t, res.Log, "COMBAT_STATUS|90/100|50/50|#0Goblin[white]:30/50")
}

// Per round with no modifiers and no skills: player variance, hit, dodge,
// crit; monster variance; monster poison proc.
func poisonRound(proc float64) []float64 {
	return []float64{0.5, 0, 0.5, 0.5, 0.5, proc}
}

func TestResolve_MonsterPoisonTicksForItsDuration(t *testing.T) {
	spider := dummy(1000, 1)
	spider.PoisonRate = 0.5
	spider.PoisonDamage = 5
	spider.PoisonRounds = 3

	src := dicetest.New()
	src.Floats(poisonRound(0)...)
	for i := 0; i < 4; i++ {
		src.Floats(poisonRound(0.99)...)
	}
	res := newEngine(t, 5).Resolve(src, combat.Encounter{
		Player:   hero(skill.ClassWarrior, 20),
		Monsters: []combat.Spawn{spawn(spider, quality.White)},
	})

	var hp []int
	for _, s := range statusLines(t, res.Log)[1:] {
		hp = append(hp, s.HP)
	}
	// 1 damage per hit every round; 5 poison at the start of rounds 2 to 4.
	assert.Equal(t, []int{99, 93, 87, 81, 80}, hp)
	assert.Equal(t, 3, countLines(res.Log, "takes 5 poison damage"))
	assert.False(t, res.Victory)
	assert.False(t, res.PlayerDied)
	assert.True(t, logContains(res.Log, "withdraws"))
}

func TestResolve_MonsterHitBlockExcludesReduction(t *testing.T) {
	p := hero(skill.ClassWarrior, 1)
	p.HP, p.MaxHP = 1000, 1000
	eq := []effect.Provider{gear{BlockRate: 1, BlockAmount: 0.3, DamageReduction: 0.3}}

	// player variance, hit, dodge, crit; monster variance; block draw.
	blocked := dicetest.New(0.5, 0, 0.5, 0.5, 0.5, 0)
	res := newEngine(t, 1).Resolve(blocked, combat.Encounter{
		Player: p, Equipment: eq, Monsters: []combat.Spawn{spawn(dummy(1000, 100), quality.White)},
	})
	assert.Equal(t, 930, res.PlayerHP)
	assert.True(t, logContains(res.Log, "(blocked)"))

	unblocked := dicetest.New(0.5, 0, 0.5, 0.5, 0.5, 0.99)
	res = newEngine(t, 1).Resolve(unblocked, combat.Encounter{
		Player: p, Equipment: eq, Monsters: []combat.Spawn{spawn(dummy(1000, 100), quality.White)},
	})
	assert.Equal(t, 930, res.PlayerHP)
	assert.False(t, logContains(res.Log, "(blocked)"))
}

func TestResolve_ReflectHurtsMonster(t *testing.T) {
	p := hero(skill.ClassWarrior, 1)
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:    p,
		Equipment: []effect.Provider{gear{Reflect: 0.5}},
		Monsters:  []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	// player hits for 1; reflect returns half of the 10 taken.
	assert.Equal(t, 1000-1-5, res.Monsters[0].HP)
	assert.Equal(t, 90, res.PlayerHP)
}

func TestResolve_DoubleAttack(t *testing.T) {
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:    hero(skill.ClassWarrior, 20),
		Equipment: []effect.Provider{gear{DoubleAttack: 1}},
		Monsters:  []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	assert.Equal(t, 960, res.Monsters[0].HP)
	assert.Equal(t, 1, countLines(res.Log, "strikes again"))
}

func TestResolve_SplashHitsOtherMonsters(t *testing.T) {
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:    hero(skill.ClassWarrior, 20),
		Equipment: []effect.Provider{gear{SplashRate: 0.5}},
		Monsters: []combat.Spawn{
			spawn(dummy(1000, 1), quality.White),
			spawn(dummy(1000, 1), quality.White),
		},
	})
	assert.Equal(t, 980, res.Monsters[0].HP)
	assert.Equal(t, 990, res.Monsters[1].HP)
}

func TestResolve_PotionsLowestFirst(t *testing.T) {
	p := hero(skill.ClassWarrior, 20)
	p.HP = 20
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player: p,
		Potions: []combat.Potion{
			{ItemID: "big", Name: "Big Potion", HealHP: 50, Quantity: 1},
			{ItemID: "small", Name: "Small Potion", HealHP: 10, Quantity: 2},
			{ItemID: "mana", Name: "Mana Potion", HealMP: 30, Quantity: 1},
		},
		Monsters: []combat.Spawn{spawn(goblin(), quality.White)},
	})
	assert.Equal(t, map[string]int{"small": 1}, res.PotionsUsed)
	assert.Equal(t, 20, res.PlayerHP) // 20 + 10 - 10
}

func TestResolve_MagicDamageSkill(t *testing.T) {
	fireball := &skill.Def{ID: "fireball", Name: "Fireball", Class: skill.ClassMage, Type: skill.TypeActive,
		LevelReq: 1, MPCost: 10, Effect: skill.Effect{MagicDamage: 30}}
	// gate, player variance, hit, dodge, crit, monster variance
	src := dicetest.New(0, 0.5, 0, 0.5, 0.5, 0.5)
	res := newEngine(t, 1).Resolve(src, combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(fireball)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	// 20 basic + int(30 * (1 + 20*0.02))
	assert.Equal(t, 1000-62, res.Monsters[0].HP)
	assert.Equal(t, 40, res.PlayerMP)
	assert.Equal(t, map[string]int{"fireball": 1}, res.SkillsUsed)
}

func TestResolve_HealSkippedAtHighHP(t *testing.T) {
	heal := &skill.Def{ID: "heal", Name: "Heal", Class: skill.ClassMage, Type: skill.TypeActive,
		LevelReq: 10, MPCost: 5, Effect: skill.Effect{HealHP: 30}}
	fireball := &skill.Def{ID: "fireball", Name: "Fireball", Class: skill.ClassMage, Type: skill.TypeActive,
		LevelReq: 1, MPCost: 10, Effect: skill.Effect{MagicDamage: 30}}
	res := newEngine(t, 1).Resolve(dicetest.New(0, 0.5, 0, 0.5, 0.5, 0.5), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(fireball), known(heal)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	assert.Equal(t, map[string]int{"fireball": 1}, res.SkillsUsed)
}

func TestResolve_DisabledSkillNeverCast(t *testing.T) {
	fireball := &skill.Def{ID: "fireball", Name: "Fireball", Class: skill.ClassMage, Type: skill.TypeActive,
		LevelReq: 1, MPCost: 10, Effect: skill.Effect{MagicDamage: 30}}
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(fireball)},
		Disabled: map[string]bool{"fireball": true},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	assert.Empty(t, res.SkillsUsed)
	assert.Equal(t, 50, res.PlayerMP)
	assert.Equal(t, 980, res.Monsters[0].HP)
}

func TestResolve_SummonFightsAndIsReported(t *testing.T) {
	call := &skill.Def{ID: "skeleton", Name: "Summon Skeleton", Class: skill.ClassTaoist, Type: skill.TypeActive,
		LevelReq: 1, MPCost: 10, Effect: skill.Effect{Summon: skill.SummonSkeleton}}
	p := hero(skill.ClassTaoist, 20)
	p.Magic = combat.Flat(10)
	// gate, summon variance, player variance, hit, dodge, crit, aggro miss, monster variance
	src := dicetest.New(0, 0.5, 0.5, 0, 0.5, 0.5, 0.99, 0.5)
	res := newEngine(t, 1).Resolve(src, combat.Encounter{
		Player:   p,
		Skills:   []skill.Known{known(call)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	require.NotNil(t, res.Summon)
	assert.Equal(t, combat.Summon{Name: "Skeleton", Kind: skill.SummonSkeleton, HP: 120, MaxHP: 120, Attack: 18, Defense: 6, Living: true}, *res.Summon)
	assert.Equal(t, 1000-18-20, res.Monsters[0].HP)
	assert.Equal(t, 90, res.PlayerHP)

	lines := statusLines(t, res.Log)
	assert.Nil(t, lines[0].Summon)
	require.NotNil(t, lines[len(lines)-1].Summon)
	assert.Equal(t, combat.SummonStatus{Name: "Skeleton", HP: 120, MaxHP: 120}, *lines[len(lines)-1].Summon)
}

func TestResolve_InvisiblePlayerIsNotAttacked(t *testing.T) {
	cloak := &skill.Def{ID: "cloak", Name: "Cloak", Class: skill.ClassMage, Type: skill.TypeActive,
		LevelReq: 1, MPCost: 5, Effect: skill.Effect{Invisibility: 2}}
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(cloak)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	assert.Equal(t, 100, res.PlayerHP)
	assert.True(t, logContains(res.Log, "cannot find"))
}

func TestResolve_ShieldHalvesMonsterHits(t *testing.T) {
	ward := &skill.Def{ID: "ward", Name: "Ward", Class: skill.ClassMage, Type: skill.TypeActive,
		LevelReq: 1, MPCost: 5, Effect: skill.Effect{Shield: 0.5, Duration: 1}}
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(ward)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	assert.Equal(t, 95, res.PlayerHP)
}

func TestResolve_BurnTicksOnMonsters(t *testing.T) {
	flame := &skill.Def{ID: "flame", Name: "Flame", Class: skill.ClassMage, Type: skill.TypeActive,
		LevelReq: 1, MPCost: 5, Cooldown: 5, Effect: skill.Effect{DOT: skill.DOTBurn, DOTDamage: 10, Duration: 2}}
	res := newEngine(t, 2).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(flame)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	// int(10 + 20*0.3) = 16 burn at the start of round 2, 20 per hit
	assert.Equal(t, 1000-20-16-20, res.Monsters[0].HP)
	assert.Equal(t, 1, countLines(res.Log, "16 burn damage"))
	assert.Equal(t, map[string]int{"flame": 1}, res.SkillsUsed)
}

func TestResolve_InstantKillPassive(t *testing.T) {
	reaper := &skill.Def{ID: "reaper", Name: "Reaper", Class: skill.ClassWarrior, Type: skill.TypePassive,
		Effect: skill.Effect{InstantKill: 0.5}}
	src := dicetest.New(0)
	src.FloatFallback = 0.5
	res := newEngine(t, 1).Resolve(src, combat.Encounter{
		Player:   hero(skill.ClassWarrior, 20),
		Skills:   []skill.Known{known(reaper)},
		Monsters: []combat.Spawn{spawn(goblin(), quality.White), spawn(goblin(), quality.White)},
	})
	assert.Zero(t, res.Monsters[0].HP)
	assert.Equal(t, 30, res.Monsters[1].HP)
	assert.Equal(t, []string{"reaper"}, res.PassiveSkills)
	assert.True(t, logContains(res.Log, "slain instantly"))
}

func TestResolve_PanicsWithoutMonsters(t *testing.T) {
	assert.Panics(t, func() {
		newEngine(t, 0).Resolve(dicetest.Always(0.5, 0), combat.Encounter{Player: hero(skill.ClassWarrior, 10)})
	})
}

func randomEncounter(rt *rapid.T) combat.Encounter {
	classes := []string{skill.ClassWarrior, skill.ClassMage, skill.ClassTaoist}
	tiers := []quality.Tier{quality.White, quality.Green, quality.Blue, quality.Purple}
	p := hero(rapid.SampledFrom(classes).Draw(rt, "class"), rapid.IntRange(1, 60).Draw(rt, "attack"))
	p.HP = rapid.IntRange(1, 100).Draw(rt, "hp")
	var spawns []combat.Spawn
	for i, n := 0, rapid.IntRange(1, 4).Draw(rt, "monsters"); i < n; i++ {
		tmpl := &monster.Template{
			ID:           "m",
			Name:         "Monster",
			HP:           rapid.IntRange(1, 200).Draw(rt, "mhp"),
			Attack:       rapid.IntRange(0, 40).Draw(rt, "matk"),
			Defense:      rapid.IntRange(0, 60).Draw(rt, "mdef"),
			Exp:          10,
			Gold:         3,
			PoisonRate:   0.2,
			PoisonDamage: 2,
			PoisonRounds: 2,
			StunRate:     0.05,
			Effects:      effect.Modifiers{Reflect: 0.1, DodgeRate: 0.05},
		}
		spawns = append(spawns, spawn(tmpl, rapid.SampledFrom(tiers).Draw(rt, "tier")))
	}
	bolt := &skill.Def{ID: "bolt", Name: "Bolt", Class: p.Class, Type: skill.TypeActive, LevelReq: 5,
		MPCost: 8, Cooldown: 2, Effect: skill.Effect{MagicDamage: 12, AOE: true}}
	call := &skill.Def{ID: "call", Name: "Call", Class: p.Class, Type: skill.TypeActive, LevelReq: 3,
		MPCost: 10, Effect: skill.Effect{Summon: skill.SummonSkeleton}}
	return combat.Encounter{
		Player:    p,
		Equipment: []effect.Provider{gear{Lifesteal: 0.1, StunRate: 0.1, DoubleAttack: 0.1, SplashRate: 0.2, PoisonDamage: 3, PoisonRounds: 2}},
		Monsters:  spawns,
		Skills:    []skill.Known{known(bolt), known(call)},
		Potions:   []combat.Potion{{ItemID: "hp", Name: "Potion", HealHP: 20, Quantity: 2}},
	}
}

func TestResolve_Invariants(t *testing.T) {
	eng := newEngine(t, 0)
	rapid.Check(t, func(rt *rapid.T) {
		req := randomEncounter(rt)
		seed := rapid.Uint64().Draw(rt, "seed")
		res := eng.Resolve(dice.NewSeededSource(seed), req)

		if res.PlayerHP < 0 || res.PlayerMP < 0 {
			rt.Fatalf("negative player state %d/%d", res.PlayerHP, res.PlayerMP)
		}
		allDead := true
		for _, m := range res.Monsters {
			if m.HP < 0 {
				rt.Fatalf("negative monster HP %d", m.HP)
			}
			if m.HP > 0 {
				allDead = false
			}
		}
		if res.Victory != allDead {
			rt.Fatalf("victory %v but all dead %v", res.Victory, allDead)
		}
		if res.PlayerDied != (res.PlayerHP == 0) {
			rt.Fatalf("player died %v at HP %d", res.PlayerDied, res.PlayerHP)
		}
		if !res.Victory && (res.Exp != 0 || res.Gold != 0 || len(res.Drops) != 0) {
			rt.Fatalf("rewards granted on defeat")
		}
		if res.Rounds > eng.Config().MaxRounds {
			rt.Fatalf("round cap exceeded: %d", res.Rounds)
		}
		if res.PotionsUsed["hp"] > 2 {
			rt.Fatalf("drank %d of 2 potions", res.PotionsUsed["hp"])
		}
		lines := statusLines(rt, res.Log)
		if len(lines) != res.Rounds+1 || lines[0].Kind != combat.KindInit {
			rt.Fatalf("%d status lines for %d rounds", len(lines), res.Rounds)
		}
	})
}

func TestResolve_SameSeedReplays(t *testing.T) {
	eng := newEngine(t, 0)
	rapid.Check(t, func(rt *rapid.T) {
		req := randomEncounter(rt)
		seed := rapid.Uint64().Draw(rt, "seed")
		a := eng.Resolve(dice.NewSeededSource(seed), req)
		b := eng.Resolve(dice.NewSeededSource(seed), req)
		if !assert.ObjectsAreEqual(a, b) {
			rt.Fatalf("replay diverged")
		}
	})
}

func mageSkill(id string, levelReq, mpCost int, eff skill.Effect) *skill.Def {
	return &skill.Def{ID: id, Name: id, Class: skill.ClassMage, Type: skill.TypeActive,
		LevelReq: levelReq, MPCost: mpCost, Effect: eff}
}

func TestResolve_DamageMultiplierSkill(t *testing.T) {
	cleave := &skill.Def{ID: "cleave", Name: "Cleave", Class: skill.ClassWarrior, Type: skill.TypeActive,
		LevelReq: 1, MPCost: 10, Effect: skill.Effect{DamageMultiplier: 2}}
	// gate passes at 0, every later draw lands mid-range
	src := dicetest.New(0)
	src.FloatFallback = 0.5
	res := newEngine(t, 1).Resolve(src, combat.Encounter{
		Player:   hero(skill.ClassWarrior, 20),
		Skills:   []skill.Known{known(cleave)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	// 20 basic + int(20 * (2-1) * (1 + 1*0.3))
	assert.Equal(t, 1000-46, res.Monsters[0].HP)
	assert.Equal(t, map[string]int{"cleave": 1}, res.SkillsUsed)
}

func TestResolve_IgnoreDefenseSkill(t *testing.T) {
	pierce := mageSkill("pierce", 1, 10, skill.Effect{IgnoreDefense: 0.5})
	noMagicDefense := 0
	armoured := dummy(1000, 10)
	armoured.Defense = 100
	armoured.MagicDefense = &noMagicDefense
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(pierce)},
		Monsters: []combat.Spawn{spawn(armoured, quality.White)},
	})
	// 20 basic + int(100 * 0.5 * (1 + 1*0.2))
	assert.Equal(t, 1000-80, res.Monsters[0].HP)
}

func TestResolve_FireDamageSkill(t *testing.T) {
	scorch := mageSkill("scorch", 1, 10, skill.Effect{FireDamage: 10})
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 25),
		Skills:   []skill.Known{known(scorch)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	// 25 basic + int(10 * (1 + 25*0.02))
	assert.Equal(t, 1000-40, res.Monsters[0].HP)
	assert.Equal(t, 40, res.PlayerMP)
}

func fourDummies() []combat.Spawn {
	out := make([]combat.Spawn, 4)
	for i := range out {
		out[i] = spawn(dummy(1000, 10), quality.White)
	}
	return out
}

func TestResolve_AreaPoisonReachesThreeTargets(t *testing.T) {
	cloud := mageSkill("cloud", 1, 10, skill.Effect{DOT: skill.DOTPoison, DOTDamage: 10, Duration: 2, AOE: true})
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(cloud)},
		Monsters: fourDummies(),
	})
	assert.Equal(t, combat.AOETargets, countLines(res.Log, "is poisoned ("))
	for i := range combat.AOETargets {
		assert.Equal(t, 16, res.Monsters[i].Status.Poison.Damage, "monster %d", i)
		assert.Equal(t, 2, res.Monsters[i].Status.Poison.Rounds, "monster %d", i)
	}
	assert.False(t, res.Monsters[3].Status.Poison.Active())
}

func TestResolve_AreaSkillHitsAtMostThree(t *testing.T) {
	storm := mageSkill("storm", 1, 10, skill.Effect{MagicDamage: 30, AOE: true})
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(storm)},
		Monsters: fourDummies(),
	})
	for i := range combat.AOETargets {
		assert.Equal(t, 1000-62, res.Monsters[i].HP, "monster %d", i)
	}
	assert.Equal(t, 1000, res.Monsters[3].HP)
}

func TestResolve_CooldownFallsThroughToNextSkill(t *testing.T) {
	meteor := mageSkill("meteor", 10, 10, skill.Effect{MagicDamage: 30})
	meteor.Cooldown = 3
	spark := mageSkill("spark", 1, 5, skill.Effect{MagicDamage: 5})
	res := newEngine(t, 2).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(spark), known(meteor)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	assert.Equal(t, map[string]int{"meteor": 1, "spark": 1}, res.SkillsUsed)
	assert.Equal(t, 50-10-5, res.PlayerMP)
}

func TestResolve_UnaffordableSkillSkipped(t *testing.T) {
	meteor := mageSkill("meteor", 10, 60, skill.Effect{MagicDamage: 30})
	spark := mageSkill("spark", 1, 5, skill.Effect{MagicDamage: 5})
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(meteor), known(spark)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	assert.Equal(t, map[string]int{"spark": 1}, res.SkillsUsed)
	assert.Equal(t, 45, res.PlayerMP)
}

func TestResolve_HighestLevelReqCastFirst(t *testing.T) {
	spark := mageSkill("spark", 1, 5, skill.Effect{MagicDamage: 5})
	bolt := mageSkill("bolt", 5, 5, skill.Effect{MagicDamage: 10})
	nova := mageSkill("nova", 20, 5, skill.Effect{MagicDamage: 30})
	res := newEngine(t, 1).Resolve(dicetest.Always(0.5, 0), combat.Encounter{
		Player:   hero(skill.ClassMage, 20),
		Skills:   []skill.Known{known(spark), known(nova), known(bolt)},
		Monsters: []combat.Spawn{spawn(dummy(1000, 10), quality.White)},
	})
	assert.Equal(t, map[string]int{"nova": 1}, res.SkillsUsed)
	assert.Equal(t, 1000-62, res.Monsters[0].HP)
}

func TestInvisibilityWeights(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1, 1}, combat.InvisibilityWeights(4, 1))
	assert.Equal(t, []float64{1, 3, 5, 7}, combat.InvisibilityWeights(4, 3))

	rapid.Check(t, func(rt *rapid.T) {
		maxRounds := rapid.IntRange(2, 8).Draw(rt, "maxRounds")
		level := rapid.IntRange(2, skill.MaxLevel).Draw(rt, "level")
		w := combat.InvisibilityWeights(maxRounds, level)
		require.Len(rt, w, maxRounds)
		for d := 1; d < maxRounds; d++ {
			require.Greater(rt, w[d], w[d-1], "duration %d", d+1)
		}
	})
}
