// Package simulate runs batches of seeded encounters through the encounter
// handler and summarizes their outcomes for balance testing.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/legend/internal/content"
	"github.com/cory-johannsen/legend/internal/game/character"
	"github.com/cory-johannsen/legend/internal/game/dice"
	"github.com/cory-johannsen/legend/internal/game/quality"
	"github.com/cory-johannsen/legend/internal/game/skill"
	"github.com/cory-johannsen/legend/internal/gameserver"
)

// Plan describes one batch. Trial i draws from a source seeded with Seed+i,
// so a batch is reproducible whatever the worker count.
type Plan struct {
	Class    string
	Level    int
	Monsters []gameserver.MonsterSpec
	// Potions is the starting bag of every trial.
	Potions []content.Stack
	Trials  int
	Workers int
	Seed    uint64
}

// Validate reports every invalid field of p.
func (p Plan) Validate() error {
	var errs []error
	if !skill.ValidClass(p.Class) {
		errs = append(errs, fmt.Errorf("unknown class %q", p.Class))
	}
	if p.Level < 1 {
		errs = append(errs, fmt.Errorf("level must be >= 1, got %d", p.Level))
	}
	if len(p.Monsters) == 0 {
		errs = append(errs, gameserver.ErrNoMonsters)
	}
	if p.Trials < 1 {
		errs = append(errs, fmt.Errorf("trials must be >= 1, got %d", p.Trials))
	}
	if p.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", p.Workers))
	}
	return errors.Join(errs...)
}

// Summary aggregates a batch.
type Summary struct {
	Trials int
	Wins   int
	Deaths int
	Rounds int
	Exp    int
	Gold   int
	// Drops counts dropped quantity per item ID.
	Drops map[string]int
	// SkillsUsed counts casts per skill ID.
	SkillsUsed map[string]int
	LevelUps   int
}

// WinRate returns the fraction of trials won.
func (s Summary) WinRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Trials)
}

// AvgRounds returns the mean encounter length.
func (s Summary) AvgRounds() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Rounds) / float64(s.Trials)
}

// DropIDs returns the dropped item IDs sorted.
func (s Summary) DropIDs() []string {
	ids := make([]string, 0, len(s.Drops))
	for id := range s.Drops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Summary) add(out gameserver.EncounterOutcome) {
	res := out.Result
	s.Trials++
	if res.Victory {
		s.Wins++
	}
	if res.PlayerDied {
		s.Deaths++
	}
	s.Rounds += res.Rounds
	s.Exp += res.Exp
	s.Gold += res.Gold
	s.LevelUps += len(out.LevelUps)
	for _, d := range res.Drops {
		s.Drops[d.ItemID] += d.Quantity
	}
	for id, n := range res.SkillsUsed {
		s.SkillsUsed[id] += n
	}
}

// Runner executes plans.
type Runner struct {
	handler *gameserver.EncounterHandler
	content *content.Registry
	// wrap decorates every trial source, e.g. with dice logging.
	wrap   func(dice.Source) dice.Source
	logger *zap.Logger
}

// NewRunner creates a Runner. A nil wrap uses the seeded sources as is.
//
// Precondition: handler, reg and logger must be non-nil.
func NewRunner(handler *gameserver.EncounterHandler, reg *content.Registry, wrap func(dice.Source) dice.Source, logger *zap.Logger) *Runner {
	if handler == nil || reg == nil || logger == nil {
		panic("simulate.NewRunner: handler, reg and logger must not be nil")
	}
	if wrap == nil {
		wrap = func(s dice.Source) dice.Source { return s }
	}
	return &Runner{handler: handler, content: reg, wrap: wrap, logger: logger}
}

// Run fights plan.Trials encounters on plan.Workers goroutines. Every trial
// gets a fresh character so trials never contend for a player lock.
//
// Postcondition: on success the Summary covers every trial; the first
// failing trial cancels the rest and its error is returned.
func (r *Runner) Run(ctx context.Context, plan Plan) (Summary, error) {
	if err := plan.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid plan: %w", err)
	}
	outcomes := make([]gameserver.EncounterOutcome, plan.Trials)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(plan.Workers)
	for i := range plan.Trials {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			player, err := r.newPlayer(plan, i)
			if err != nil {
				return err
			}
			seed := plan.Seed + uint64(i)
			recorded := int64(seed)
			out, err := r.handler.Fight(gctx, r.wrap(dice.NewSeededSource(seed)), gameserver.EncounterRequest{
				Player:   player,
				Monsters: plan.Monsters,
				Seed:     &recorded,
			})
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{Drops: make(map[string]int), SkillsUsed: make(map[string]int)}
	for _, out := range outcomes {
		sum.add(out)
	}
	r.logger.Info("simulation finished",
		zap.Int("trials", sum.Trials),
		zap.Float64("win_rate", sum.WinRate()),
		zap.Float64("avg_rounds", sum.AvgRounds()),
	)
	return sum, nil
}

// PlayerID returns the character ID used by trial.
func PlayerID(trial int) string { return fmt.Sprintf("sim-%d", trial) }

// ScriptHooks returns the Lua hooks named by class's skills, sorted and
// without duplicates.
func ScriptHooks(reg *content.Registry, class string) []string {
	seen := make(map[string]bool)
	var hooks []string
	for _, def := range reg.ClassSkills(class) {
		if h := def.Effect.Script; h != "" && !seen[h] {
			seen[h] = true
			hooks = append(hooks, h)
		}
	}
	sort.Strings(hooks)
	return hooks
}

// newPlayer builds a fresh character at plan.Level knowing every class skill
// it qualifies for at level 1.
func (r *Runner) newPlayer(plan Plan, trial int) (*gameserver.PlayerState, error) {
	c, err := character.New(PlayerID(trial), "Simulant", plan.Class)
	if err != nil {
		return nil, err
	}
	c.Raise(plan.Level)

	var known []skill.Known
	for _, def := range r.content.ClassSkills(plan.Class) {
		if def.LevelReq <= plan.Level {
			known = append(known, skill.Known{Def: def, Level: 1})
		}
	}
	return &gameserver.PlayerState{
		Character: c,
		Skills:    known,
		Bag:       append([]content.Stack(nil), plan.Potions...),
	}, nil
}

// ParseMonsters parses a comma separated list of id[:tier].
func ParseMonsters(s string) ([]gameserver.MonsterSpec, error) {
	var out []gameserver.MonsterSpec
	for _, field := range splitList(s) {
		id, tier, _ := strings.Cut(field, ":")
		if id == "" {
			return nil, fmt.Errorf("monster %q: empty id", field)
		}
		out = append(out, gameserver.MonsterSpec{ID: id, Tier: quality.Tier(tier)})
	}
	return out, nil
}

// ParseStacks parses a comma separated list of item[:quantity]; the quantity
// defaults to 1.
func ParseStacks(s string) ([]content.Stack, error) {
	var out []content.Stack
	for _, field := range splitList(s) {
		id, qty, found := strings.Cut(field, ":")
		if id == "" {
			return nil, fmt.Errorf("stack %q: empty item id", field)
		}
		n := 1
		if found {
			v, err := strconv.Atoi(qty)
			if err != nil || v < 1 {
				return nil, fmt.Errorf("stack %q: quantity must be a positive integer", field)
			}
			n = v
		}
		out = append(out, content.Stack{ItemID: id, Quantity: n})
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
