package skill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/legend/internal/game/skill"
)

func TestDef_DecodeAndClassify(t *testing.T) {
	var d skill.Def
	require.NoError(t, yaml.Unmarshal([]byte(`
id: poison_cloud
name: Poison Cloud
class: taoist
type: active
level_req: 14
mp_cost: 12
cooldown: 3
effect:
  dot_damage: 8
  duration: 4
  aoe: true
`), &d))
	require.NoError(t, d.Validate())
	assert.True(t, d.HasDOT())
	assert.Equal(t, skill.DOTPoison, d.DOTKind())
	assert.False(t, d.IsHeal())
	assert.False(t, d.Passive())
}

func TestDef_ValidateCollectsErrors(t *testing.T) {
	d := skill.Def{Class: "bard", Type: "toggle", MPCost: -1, Effect: skill.Effect{DOT: "frost", Summon: "dragon", Shield: 1.5}}
	err := d.Validate()
	require.Error(t, err)
	for _, want := range []string{"id must not be empty", "class must be", "type must be", "mp_cost", "effect.dot", "effect.summon", "effect.shield"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestDef_Kinds(t *testing.T) {
	heal := skill.Def{Effect: skill.Effect{HealHP: 40}}
	assert.True(t, heal.IsHeal())
	groupHeal := skill.Def{Effect: skill.Effect{HealHP: 40, AOE: true}}
	assert.False(t, groupHeal.IsHeal())
	burn := skill.Def{Effect: skill.Effect{DOT: skill.DOTBurn, DOTDamage: 3, Duration: 2}}
	assert.Equal(t, skill.DOTBurn, burn.DOTKind())
	assert.True(t, (&skill.Def{Effect: skill.Effect{Summon: skill.SummonSkeleton}}).IsSummon())
}

func TestKnown_Train(t *testing.T) {
	k := skill.Known{Level: 1, Proficiency: 990}
	k = k.Train(1)
	assert.Equal(t, 2, k.Level)
	assert.Equal(t, 0, k.Proficiency)

	k = skill.Known{Level: 3, Proficiency: 0}.Train(150)
	assert.Equal(t, 3, k.Level)
	assert.Equal(t, 1500, k.Proficiency)
}

func TestKnown_Train_NeverExceedsCap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k := skill.Known{Level: rapid.IntRange(1, 3).Draw(rt, "level")}
		k = k.Train(rapid.IntRange(0, 10000).Draw(rt, "uses"))
		assert.LessOrEqual(rt, k.Level, skill.MaxLevel)
		if k.Level < skill.MaxLevel {
			assert.Less(rt, k.Proficiency, skill.ProficiencyPerLevel)
		}
	})
}

func TestKnown_EffectiveLevel(t *testing.T) {
	assert.Equal(t, 1, skill.Known{}.EffectiveLevel())
	assert.Equal(t, 2, skill.Known{Level: 2}.EffectiveLevel())
}
