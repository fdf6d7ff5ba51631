package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/dice/dicetest"
	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/skill"
)

func duelist(id string, attack, hp int, eq ...effect.Provider) combat.Duelist {
	s := hero(skill.ClassWarrior, attack)
	s.ID, s.Name = id, id
	s.HP, s.MaxHP = hp, hp
	return combat.Duelist{Snapshot: s, Equipment: eq}
}

func TestDuel_OneHitKill(t *testing.T) {
	res := newEngine(t, 0).Duel(dicetest.Always(0.5, 0), duelist("alice", 200, 100), duelist("bob", 10, 100))
	assert.Equal(t, "alice", res.WinnerID)
	assert.Equal(t, "bob", res.LoserID)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 100, res.ChallengerHP)
	assert.Zero(t, res.DefenderHP)
}

func TestDuel_CapGoesToStandingChallenger(t *testing.T) {
	res := newEngine(t, 0).Duel(dicetest.Always(0.5, 0), duelist("alice", 1, 1000), duelist("bob", 1, 1000))
	assert.Equal(t, 100, res.Rounds)
	assert.Equal(t, 950, res.ChallengerHP)
	assert.Equal(t, 950, res.DefenderHP)
	assert.Equal(t, "alice", res.WinnerID)
	assert.Equal(t, "bob", res.LoserID)
}

func TestDuel_CapIgnoresHPLead(t *testing.T) {
	res := newEngine(t, 0).Duel(dicetest.Always(0.5, 0), duelist("alice", 1, 1000), duelist("bob", 2, 1000))
	assert.Equal(t, 100, res.Rounds)
	assert.Equal(t, 900, res.ChallengerHP)
	assert.Equal(t, 950, res.DefenderHP)
	assert.Equal(t, "alice", res.WinnerID)
}

func TestDuel_StartsAtFullHP(t *testing.T) {
	alice := duelist("alice", 20, 1000)
	alice.Snapshot.HP = 1
	bob := duelist("bob", 20, 1000)
	bob.Snapshot.HP = 0

	res := newEngine(t, 0).Duel(dicetest.Always(0.5, 0), alice, bob)
	assert.Greater(t, res.Rounds, 2)
	assert.Greater(t, res.ChallengerHP, 1)
	assert.Equal(t, "alice", res.WinnerID)
}

func TestDuel_ReflectHurtsAttacker(t *testing.T) {
	res := newEngine(t, 1).Duel(dicetest.Always(0.5, 0),
		duelist("alice", 20, 100),
		duelist("bob", 20, 100, gear{Reflect: 0.5}))
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 90, res.ChallengerHP)
	assert.Equal(t, 80, res.DefenderHP)
	assert.Equal(t, "alice", res.WinnerID)
}

func TestDuel_StunSkipsTurn(t *testing.T) {
	res := newEngine(t, 2).Duel(dicetest.Always(0.5, 0),
		duelist("alice", 20, 100, gear{StunRate: 1}),
		duelist("bob", 20, 100))
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, 100, res.ChallengerHP)
	assert.Equal(t, 80, res.DefenderHP)
	assert.True(t, logContains(res.Log, "bob is stunned"))
}

func TestDuel_AlwaysNamesBothSides(t *testing.T) {
	eng := newEngine(t, 0)
	rapid.Check(t, func(rt *rapid.T) {
		a := duelist("alice", rapid.IntRange(1, 50).Draw(rt, "a"), rapid.IntRange(1, 300).Draw(rt, "ahp"), gear{Lifesteal: 0.2, CritRate: 0.1})
		b := duelist("bob", rapid.IntRange(1, 50).Draw(rt, "b"), rapid.IntRange(1, 300).Draw(rt, "bhp"), gear{Reflect: 0.1, BlockRate: 0.1})
		res := eng.Duel(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), a, b)
		if res.WinnerID == res.LoserID {
			rt.Fatalf("winner and loser both %q", res.WinnerID)
		}
		if res.Rounds > eng.Config().DuelRounds {
			rt.Fatalf("cap exceeded: %d", res.Rounds)
		}
		if res.ChallengerHP < 0 || res.DefenderHP < 0 {
			rt.Fatalf("negative HP")
		}
	})
}
