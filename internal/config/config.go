// Package config provides Viper-based configuration loading for the combat
// server and its tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/legend/internal/game/combat"
)

// EnvPrefix is prepended to every environment override, e.g.
// LEGEND_DATABASE_HOST or LEGEND_COMBAT_MAX_ROUNDS.
const EnvPrefix = "LEGEND"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// LogDice logs every random draw at debug level.
	LogDice bool `mapstructure:"log_dice"`
}

// ContentConfig locates the YAML content and Lua skill scripts.
type ContentConfig struct {
	Dir string `mapstructure:"dir"`
	// ScriptsDir is optional; empty disables skill scripts.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// InstructionLimit caps the Lua opcodes of one hook call; 0 uses the
	// scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// SimulateConfig drives cmd/simulate.
type SimulateConfig struct {
	Workers int `mapstructure:"workers"`
	Trials  int `mapstructure:"trials"`
	// Seed is the base seed; worker i uses Seed+i.
	Seed uint64 `mapstructure:"seed"`
	// Persist saves every simulated encounter report to the database.
	Persist bool `mapstructure:"persist"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Rates    combat.Rates   `mapstructure:"rates"`
	Combat   combat.Config  `mapstructure:"combat"`
	Content  ContentConfig  `mapstructure:"content"`
	Simulate SimulateConfig `mapstructure:"simulate"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateDatabase(c.Database),
		validateLogging(c.Logging),
		validateRates(c.Rates),
		validateCombat(c.Combat),
		validateContent(c.Content),
		validateSimulate(c.Simulate),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRates(r combat.Rates) error {
	var errs []string
	for name, v := range map[string]float64{"exp": r.Exp, "gold": r.Gold, "drop": r.Drop} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("rates.%s must be >= 0, got %v", name, v))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c combat.Config) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("combat: %w", err)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []error
	if c.Dir == "" {
		errs = append(errs, errors.New("content.dir must not be empty"))
	}
	if c.InstructionLimit < 0 {
		errs = append(errs, fmt.Errorf("content.instruction_limit must be >= 0, got %d", c.InstructionLimit))
	}
	return errors.Join(errs...)
}

func validateSimulate(s SimulateConfig) error {
	var errs []error
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("simulate.workers must be >= 1, got %d", s.Workers))
	}
	if s.Trials < 1 {
		errs = append(errs, fmt.Errorf("simulate.trials must be >= 1, got %d", s.Trials))
	}
	return errors.Join(errs...)
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "legend")
	v.SetDefault("database.password", "legend")
	v.SetDefault("database.name", "legend")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.log_dice", false)

	rates := combat.DefaultRates()
	v.SetDefault("rates.exp", rates.Exp)
	v.SetDefault("rates.gold", rates.Gold)
	v.SetDefault("rates.drop", rates.Drop)

	cc := combat.DefaultConfig()
	v.SetDefault("combat.max_rounds", cc.MaxRounds)
	v.SetDefault("combat.duel_rounds", cc.DuelRounds)
	for class, p := range cc.SkillChance {
		v.SetDefault("combat.skill_chance."+class, p)
	}
	t := cc.Tuning
	v.SetDefault("combat.tuning.hit_floor", t.HitFloor)
	v.SetDefault("combat.tuning.dodge_floor", t.DodgeFloor)
	v.SetDefault("combat.tuning.crit_floor", t.CritFloor)
	v.SetDefault("combat.tuning.crit_multiplier", t.CritMultiplier)
	v.SetDefault("combat.tuning.crush_multiplier", t.CrushMultiplier)
	v.SetDefault("combat.tuning.max_damage_reduction", t.MaxDamageReduction)
	v.SetDefault("combat.tuning.max_block_rate", t.MaxBlockRate)
	v.SetDefault("combat.tuning.max_block_amount", t.MaxBlockAmount)
	v.SetDefault("combat.tuning.default_block_amount", t.DefaultBlockAmount)
	v.SetDefault("combat.tuning.max_lifesteal", t.MaxLifesteal)
	v.SetDefault("combat.tuning.lifesteal_factor", t.LifestealFactor)
	v.SetDefault("combat.tuning.mitigation_floor", t.MitigationFloor)
	v.SetDefault("combat.tuning.poison_proc_sides", t.PoisonProcSides)

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.instruction_limit", 0)

	v.SetDefault("simulate.workers", 4)
	v.SetDefault("simulate.trials", 1000)
	v.SetDefault("simulate.seed", 1)
	v.SetDefault("simulate.persist", false)
}
