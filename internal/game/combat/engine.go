package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/loot"
	"github.com/cory-johannsen/legend/internal/game/quality"
	"github.com/cory-johannsen/legend/internal/game/skill"
)

// Fixed encounter policy.
const (
	// HealThreshold is the HP fraction below which heal skills are cast.
	HealThreshold = 0.6
	// PotionThreshold is the HP or MP fraction below which a potion is drunk.
	PotionThreshold = 0.3
	// SummonAggro is the chance a monster attacks a living summon instead of
	// a visible player.
	SummonAggro = 0.5
	// RetaliationFloor is the fraction of a monster hit that survives the
	// player's block or reduction.
	RetaliationFloor = 0.5
	// MaxShield caps the reduction of a single shield cast.
	MaxShield = 0.6
	// AOETargets is how many monsters an area skill hits.
	AOETargets = 3
)

// Config tunes the engine.
type Config struct {
	// MaxRounds caps a PvE encounter; reaching it is a defeat.
	MaxRounds int `mapstructure:"max_rounds"`
	// DuelRounds caps a PvP duel, counted in attacker turns.
	DuelRounds int           `mapstructure:"duel_rounds"`
	Tuning     effect.Tuning `mapstructure:"tuning"`
	// SkillChance is the per-round chance each class tries to cast.
	SkillChance map[string]float64 `mapstructure:"skill_chance"`
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxRounds:  100,
		DuelRounds: 100,
		Tuning:     effect.DefaultTuning(),
		SkillChance: map[string]float64{
			skill.ClassMage:    0.6,
			skill.ClassTaoist:  0.5,
			skill.ClassWarrior: 0.35,
		},
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.MaxRounds < 1 {
		errs = append(errs, fmt.Errorf("max_rounds must be >= 1, got %d", c.MaxRounds))
	}
	if c.DuelRounds < 1 {
		errs = append(errs, fmt.Errorf("duel_rounds must be >= 1, got %d", c.DuelRounds))
	}
	for class, p := range c.SkillChance {
		if !skill.ValidClass(class) {
			errs = append(errs, fmt.Errorf("skill_chance: unknown class %q", class))
		}
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("skill_chance.%s must be in [0, 1], got %v", class, p))
		}
	}
	if err := c.Tuning.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ScriptInput is what a skill script sees when computing its bonus.
type ScriptInput struct {
	SkillID       string
	Level         int
	Power         int
	TargetHP      int
	TargetDefense int
}

// SkillScripts computes scripted skill bonuses. Implementations must be safe
// for concurrent use and must not draw randomness.
type SkillScripts interface {
	SkillBonus(hook string, in ScriptInput) int
}

// Engine resolves encounters and duels. It holds no per-encounter state and
// is safe for concurrent use.
type Engine struct {
	cfg     Config
	tiers   *quality.Table
	drops   *loot.Resolver
	scripts SkillScripts
	logger  *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithScripts enables scripted skill bonuses.
func WithScripts(s SkillScripts) Option {
	return func(e *Engine) { e.scripts = s }
}

// NewEngine builds an Engine. A nil drops resolver disables drops.
//
// Precondition: tiers and logger must be non-nil; cfg must validate.
func NewEngine(cfg Config, tiers *quality.Table, drops *loot.Resolver, logger *zap.Logger, opts ...Option) *Engine {
	if tiers == nil {
		panic("combat.NewEngine: tiers must not be nil")
	}
	if logger == nil {
		panic("combat.NewEngine: logger must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("combat.NewEngine: %v", err))
	}
	e := &Engine{cfg: cfg, tiers: tiers, drops: drops, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }
