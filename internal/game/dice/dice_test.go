package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/dice/dicetest"
)

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}

func TestCryptoSource_Float64_InUnitInterval(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSource_SameSeedSameSequence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		a := dice.NewSeededSource(seed)
		b := dice.NewSeededSource(seed)
		for i := 0; i < 50; i++ {
			assert.Equal(rt, a.Float64(), b.Float64())
			assert.Equal(rt, a.Intn(100), b.Intn(100))
		}
	})
}

func TestSeededSource_DifferentSeedsDiverge(t *testing.T) {
	a := dice.NewSeededSource(1)
	b := dice.NewSeededSource(2)
	same := true
	for i := 0; i < 20; i++ {
		if a.Float64() != b.Float64() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestBetween_Property(t *testing.T) {
	src := dice.NewSeededSource(7)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-100, 100).Draw(rt, "lo")
		hi := rapid.IntRange(-100, 200).Draw(rt, "hi")
		v := dice.Between(src, lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		if hi >= lo {
			assert.LessOrEqual(rt, v, hi)
		} else {
			assert.Equal(rt, lo, v)
		}
	})
}

func TestUniform_Property(t *testing.T) {
	src := dice.NewSeededSource(11)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.Float64Range(0, 10).Draw(rt, "lo")
		width := rapid.Float64Range(0, 10).Draw(rt, "width")
		v := dice.Uniform(src, lo, lo+width)
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, lo+width)
	})
}

func TestUniform_PanicsOnInvertedRange(t *testing.T) {
	assert.Panics(t, func() { dice.Uniform(dice.NewSeededSource(1), 2, 1) })
}

func TestChance_UsesExactlyOneDraw(t *testing.T) {
	src := dicetest.New(0.3, 0.7)
	assert.True(t, dice.Chance(src, 0.5))
	assert.False(t, dice.Chance(src, 0.5))
	assert.Equal(t, 2, src.FloatDraws)
}

func TestWeighted_SelectsByCumulativeWeight(t *testing.T) {
	weights := []float64{50, 30, 20}
	assert.Equal(t, 0, dice.Weighted(dicetest.New(0.0), weights))
	assert.Equal(t, 1, dice.Weighted(dicetest.New(0.55), weights))
	assert.Equal(t, 2, dice.Weighted(dicetest.New(0.99), weights))
}

func TestWeighted_SkipsNonPositive(t *testing.T) {
	assert.Equal(t, 1, dice.Weighted(dicetest.New(0.0), []float64{0, 5}))
	assert.Equal(t, 0, dice.Weighted(dicetest.New(0.5), []float64{0, 0}))
}

func TestParse_Forms(t *testing.T) {
	cases := map[string]dice.Expression{
		"3":     {Raw: "3", Modifier: 3},
		"d6":    {Raw: "d6", Count: 1, Sides: 6},
		"1d3":   {Raw: "1d3", Count: 1, Sides: 3},
		"2d4+1": {Raw: "2d4+1", Count: 2, Sides: 4, Modifier: 1},
		"3d6-2": {Raw: "3d6-2", Count: 3, Sides: 6, Modifier: -2},
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			got, err := dice.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, raw := range []string{"", "x", "0d6", "2d1", "2dx", "2d6+x"} {
		_, err := dice.Parse(raw)
		assert.Error(t, err, "expected error for %q", raw)
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("bad") })
}

func TestExpression_Roll_WithinBounds(t *testing.T) {
	src := dice.NewSeededSource(3)
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 5).Draw(rt, "count")
		sides := rapid.IntRange(2, 12).Draw(rt, "sides")
		mod := rapid.IntRange(-3, 3).Draw(rt, "mod")
		e := dice.Expression{Raw: "q", Count: count, Sides: sides, Modifier: mod}
		r := e.Roll(src)
		assert.Len(rt, r.Dice, count)
		assert.GreaterOrEqual(rt, r.Total(), e.Min())
		assert.LessOrEqual(rt, r.Total(), e.Max())
	})
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d4+1", Dice: []int{3, 2}, Modifier: 1}
	assert.Equal(t, "2d4+1 [3 2] +1 = 6", r.String())
}

func TestLoggedSource_PassesThroughAndLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	src := dice.NewLoggedSource(dicetest.New(0.25).Ints(4), zap.New(core))

	assert.Equal(t, 0.25, src.Float64())
	assert.Equal(t, 4, src.Intn(6))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "dice draw", logs.All()[0].Message)
}
