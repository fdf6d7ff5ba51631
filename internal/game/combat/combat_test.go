package combat_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/game/combat"
	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/monster"
	"github.com/cory-johannsen/legend/internal/game/quality"
	"github.com/cory-johannsen/legend/internal/game/skill"
)

// gear is an effect.Provider carrying a fixed modifier record.
type gear effect.Modifiers

func (g gear) Modifiers() effect.Modifiers { return effect.Modifiers(g) }

func newEngine(t testing.TB, maxRounds int) *combat.Engine {
	t.Helper()
	cfg := combat.DefaultConfig()
	if maxRounds > 0 {
		cfg.MaxRounds = maxRounds
		cfg.DuelRounds = maxRounds
	}
	return combat.NewEngine(cfg, quality.DefaultTable(), nil, zap.NewNop())
}

func goblin() *monster.Template {
	return &monster.Template{ID: "goblin", Name: "Goblin", Level: 1, HP: 50, Attack: 10, Exp: 20, Gold: 5}
}

func dummy(hp, attack int) *monster.Template {
	return &monster.Template{ID: "dummy", Name: "Dummy", Level: 1, HP: hp, Attack: attack}
}

func hero(class string, attack int) combat.Snapshot {
	return combat.Snapshot{
		ID:     "p1",
		Name:   "Hero",
		Level:  10,
		Class:  class,
		HP:     100,
		MaxHP:  100,
		MP:     50,
		MaxMP:  50,
		Attack: combat.Flat(attack),
		Magic:  combat.Flat(attack),
	}
}

func spawn(tmpl *monster.Template, tier quality.Tier) combat.Spawn {
	return combat.Spawn{Template: tmpl, Tier: tier}
}

func known(d *skill.Def) skill.Known { return skill.Known{Def: d, Level: 1} }

// fatalfer is satisfied by both *testing.T and *rapid.T.
type fatalfer interface {
	Helper()
	Fatalf(format string, args ...any)
}

func statusLines(t fatalfer, log []string) []combat.StatusLine {
	t.Helper()
	var out []combat.StatusLine
	for _, l := range log {
		if !combat.IsStatusLine(l) {
			continue
		}
		s, err := combat.ParseStatusLine(l)
		if err != nil {
			t.Fatalf("parse %q: %v", l, err)
		}
		out = append(out, s)
	}
	return out
}

func logContains(log []string, substr string) bool {
	for _, l := range log {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func countLines(log []string, substr string) int {
	n := 0
	for _, l := range log {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}
