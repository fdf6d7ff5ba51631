package monster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/legend/internal/game/loot"
	"github.com/cory-johannsen/legend/internal/game/monster"
)

const spiderYAML = `
id: cave_spider
name: Cave Spider
level: 5
hp: 60
attack: 14
defense: 6
exp: 30
gold: 12
damage_type: physical
poison_rate: 0.2
poison_damage: 3
poison_rounds: 2
effects:
  dodge_rate: 0.05
drops:
  - item: spider_silk
    rate: "1/4"
    quantity: 1d2
drop_groups: [common]
`

func TestTemplate_Decode(t *testing.T) {
	var tmpl monster.Template
	require.NoError(t, yaml.Unmarshal([]byte(spiderYAML), &tmpl))
	require.NoError(t, tmpl.Validate())
	assert.Nil(t, tmpl.MagicDefense)
	assert.Equal(t, 0.05, tmpl.Effects.DodgeRate)
	require.Len(t, tmpl.Drops, 1)
	assert.Equal(t, loot.Rate(0.25), tmpl.Drops[0].Rate)
	assert.Equal(t, []string{"common"}, tmpl.DropGroups)
	assert.False(t, tmpl.MagicAttacker())
}

func TestTemplate_ValidateCollectsErrors(t *testing.T) {
	tmpl := monster.Template{Attack: -1, DamageType: "holy", PoisonRate: 0.5, Drops: []loot.Entry{{}}}
	err := tmpl.Validate()
	require.Error(t, err)
	for _, want := range []string{"id must not be empty", "hp must be", "attack, defense", "damage_type", "poison_rate requires", "drops[0]"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestTemplate_Scale(t *testing.T) {
	tmpl := monster.Template{HP: 50, Attack: 10, Defense: 5, Exp: 20, Gold: 7}
	s := tmpl.Scale(1.5)
	assert.Equal(t, monster.Stats{HP: 75, Attack: 15, Defense: 7, MagicDefense: 3, Exp: 30, Gold: 10}, s)

	mdef := 9
	tmpl.MagicDefense = &mdef
	assert.Equal(t, 18, tmpl.Scale(2).MagicDefense)
}

func TestTemplate_Scale_IdentityAtOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tmpl := monster.Template{
			HP:      rapid.IntRange(1, 10000).Draw(rt, "hp"),
			Attack:  rapid.IntRange(0, 1000).Draw(rt, "atk"),
			Defense: rapid.IntRange(0, 1000).Draw(rt, "def"),
			Exp:     rapid.IntRange(0, 1000).Draw(rt, "exp"),
			Gold:    rapid.IntRange(0, 1000).Draw(rt, "gold"),
		}
		s := tmpl.Scale(1)
		assert.Equal(rt, tmpl.HP, s.HP)
		assert.Equal(rt, tmpl.Attack, s.Attack)
		assert.Equal(rt, tmpl.Defense/2, s.MagicDefense)
		assert.Equal(rt, tmpl.Exp, s.Exp)
	})
}
