package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/dice/dicetest"
	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/monster"
	"github.com/cory-johannsen/legend/internal/game/quality"
)

func target(defense int) *combat.Monster {
	tmpl := &monster.Template{ID: "t", Name: "Target", HP: 100, Defense: defense}
	return combat.NewMonster(0, tmpl, quality.White, quality.DefaultTable())
}

func TestBasicDamage_ZeroDefenseBounds(t *testing.T) {
	attacker := combat.NewPlayer(combat.Snapshot{
		Name: "Hero", HP: 10, MaxHP: 10, Attack: combat.Range{Min: 18, Max: 22},
	}, effect.Modifiers{})
	src := dice.NewSeededSource(42)
	for i := 0; i < 10000; i++ {
		dmg := combat.BasicDamage(src, attacker, target(0), false, effect.Modifiers{})
		assert.GreaterOrEqual(t, dmg, 16)
		assert.LessOrEqual(t, dmg, 24)
	}
}

func TestBasicDamage_DrawOrder(t *testing.T) {
	attacker := combat.NewPlayer(combat.Snapshot{
		Name: "Hero", HP: 10, MaxHP: 10, Attack: combat.Range{Min: 18, Max: 22},
	}, effect.Modifiers{})
	src := dicetest.New(0.5).Ints(2)
	dmg := combat.BasicDamage(src, attacker, target(0), false, effect.Modifiers{})
	assert.Equal(t, 20, dmg)
	assert.Equal(t, 2, src.IntDraws)
	assert.Equal(t, 1, src.FloatDraws)
}

func TestBasicDamage_DefenseAndPenetration(t *testing.T) {
	attacker := combat.NewPlayer(combat.Snapshot{Name: "Hero", HP: 10, MaxHP: 10, Attack: combat.Flat(20)}, effect.Modifiers{})

	// defense 100 halves the hit
	assert.Equal(t, 10, combat.BasicDamage(dicetest.New(0.5), attacker, target(100), false, effect.Modifiers{}))

	// half of the defense ignored: 50/(150) reduction
	pen := effect.Modifiers{IgnoreDefense: 0.5}
	assert.Equal(t, 13, combat.BasicDamage(dicetest.New(0.5), attacker, target(100), false, pen))

	// magic penetration does nothing to physical hits
	assert.Equal(t, 10, combat.BasicDamage(dicetest.New(0.5), attacker, target(100), false, effect.Modifiers{IgnoreMagicDef: 1}))
}

func TestReduction(t *testing.T) {
	assert.Zero(t, combat.Reduction(0))
	assert.Zero(t, combat.Reduction(-5))
	assert.InDelta(t, 0.5, combat.Reduction(100), 1e-12)
	assert.InDelta(t, 0.8, combat.Reduction(1_000_000), 1e-12)
}

func TestBasicDamage_AtLeastOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(0, 500).Draw(rt, "lo")
		hi := rapid.IntRange(lo, lo+500).Draw(rt, "hi")
		def := rapid.IntRange(0, 1_000_000).Draw(rt, "def")
		seed := rapid.Uint64().Draw(rt, "seed")
		attacker := combat.NewPlayer(combat.Snapshot{Name: "A", HP: 1, MaxHP: 1, Attack: combat.Range{Min: lo, Max: hi}}, effect.Modifiers{})
		dmg := combat.BasicDamage(dice.NewSeededSource(seed), attacker, target(def), false, effect.Modifiers{})
		if dmg < 1 {
			rt.Fatalf("damage %d < 1", dmg)
		}
	})
}
