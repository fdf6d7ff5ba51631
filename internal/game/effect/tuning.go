package effect

import (
	"errors"
	"fmt"
)

// Tuning holds the constants a balance designer adjusts. The zero value is
// not useful; start from DefaultTuning.
type Tuning struct {
	HitFloor           float64 `mapstructure:"hit_floor" yaml:"hit_floor"`
	DodgeFloor         float64 `mapstructure:"dodge_floor" yaml:"dodge_floor"`
	CritFloor          float64 `mapstructure:"crit_floor" yaml:"crit_floor"`
	CritMultiplier     float64 `mapstructure:"crit_multiplier" yaml:"crit_multiplier"`
	CrushMultiplier    float64 `mapstructure:"crush_multiplier" yaml:"crush_multiplier"`
	MaxDamageReduction float64 `mapstructure:"max_damage_reduction" yaml:"max_damage_reduction"`
	MaxBlockRate       float64 `mapstructure:"max_block_rate" yaml:"max_block_rate"`
	MaxBlockAmount     float64 `mapstructure:"max_block_amount" yaml:"max_block_amount"`
	DefaultBlockAmount float64 `mapstructure:"default_block_amount" yaml:"default_block_amount"`
	MaxLifesteal       float64 `mapstructure:"max_lifesteal" yaml:"max_lifesteal"`
	LifestealFactor    float64 `mapstructure:"lifesteal_factor" yaml:"lifesteal_factor"`
	MitigationFloor    float64 `mapstructure:"mitigation_floor" yaml:"mitigation_floor"`
	PoisonProcSides    int     `mapstructure:"poison_proc_sides" yaml:"poison_proc_sides"`
}

// DefaultTuning returns the stock balance constants.
func DefaultTuning() Tuning {
	return Tuning{
		HitFloor:           0.95,
		DodgeFloor:         0.05,
		CritFloor:          0.05,
		CritMultiplier:     1.5,
		CrushMultiplier:    1.5,
		MaxDamageReduction: 0.3,
		MaxBlockRate:       0.15,
		MaxBlockAmount:     0.3,
		DefaultBlockAmount: 0.2,
		MaxLifesteal:       0.2,
		LifestealFactor:    0.5,
		MitigationFloor:    0.7,
		PoisonProcSides:    10,
	}
}

// Validate reports every out-of-range constant.
func (t Tuning) Validate() error {
	var errs []error
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0, 1], got %v", name, v))
		}
	}
	unit("hit_floor", t.HitFloor)
	unit("dodge_floor", t.DodgeFloor)
	unit("crit_floor", t.CritFloor)
	unit("max_damage_reduction", t.MaxDamageReduction)
	unit("max_block_rate", t.MaxBlockRate)
	unit("max_block_amount", t.MaxBlockAmount)
	unit("default_block_amount", t.DefaultBlockAmount)
	unit("max_lifesteal", t.MaxLifesteal)
	unit("lifesteal_factor", t.LifestealFactor)
	unit("mitigation_floor", t.MitigationFloor)
	if t.CritMultiplier < 1 {
		errs = append(errs, fmt.Errorf("crit_multiplier must be >= 1, got %v", t.CritMultiplier))
	}
	if t.CrushMultiplier < 1 {
		errs = append(errs, fmt.Errorf("crush_multiplier must be >= 1, got %v", t.CrushMultiplier))
	}
	if t.PoisonProcSides < 1 {
		errs = append(errs, fmt.Errorf("poison_proc_sides must be >= 1, got %d", t.PoisonProcSides))
	}
	return errors.Join(errs...)
}
