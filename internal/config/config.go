// Package config provides Viper-based configuration loading for the battle simulator.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds battlefield and scheduler settings.
type BattleConfig struct {
	// GridWidth is the number of battlefield columns (x axis).
	GridWidth int `mapstructure:"grid_width"`
	// GridHeight is the number of battlefield rows (y axis).
	GridHeight int `mapstructure:"grid_height"`
	// Algorithm selects the path search: "dijkstra" or "astar".
	Algorithm string `mapstructure:"algorithm"`
	// ActionDelay paces the scheduler between unit actions. Zero disables pacing.
	ActionDelay time.Duration `mapstructure:"action_delay"`
	// MaxRounds aborts a battle that has not finished after this many rounds. Zero disables the cap.
	MaxRounds int `mapstructure:"max_rounds"`
}

// ArmyConfig holds army generation settings.
type ArmyConfig struct {
	Budget              int `mapstructure:"budget"`
	MaxUnitsPerType     int `mapstructure:"max_units_per_type"`
	MaxPlacementRetries int `mapstructure:"max_placement_retries"`
	// FieldDepth is the number of columns each side may deploy into.
	FieldDepth int `mapstructure:"field_depth"`
	// FieldSpan is the number of rows each side may deploy into.
	FieldSpan int `mapstructure:"field_span"`
	// Seed makes generation reproducible. Zero selects a crypto-backed source.
	Seed int64 `mapstructure:"seed"`
}

// ContentConfig locates the YAML and Lua content loaded at startup.
type ContentConfig struct {
	UnitsDir               string `mapstructure:"units_dir"`
	AIDir                  string `mapstructure:"ai_dir"`
	ScriptsDir             string `mapstructure:"scripts_dir"`
	ScriptInstructionLimit int    `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Battle  BattleConfig  `mapstructure:"battle"`
	Army    ArmyConfig    `mapstructure:"army"`
	Content ContentConfig `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateArmy(c.Army, c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.GridWidth < 1 {
		errs = append(errs, fmt.Sprintf("battle.grid_width must be >= 1, got %d", b.GridWidth))
	}
	if b.GridHeight < 1 {
		errs = append(errs, fmt.Sprintf("battle.grid_height must be >= 1, got %d", b.GridHeight))
	}
	validAlgorithms := map[string]bool{"dijkstra": true, "astar": true}
	if !validAlgorithms[b.Algorithm] {
		errs = append(errs, fmt.Sprintf("battle.algorithm must be one of [dijkstra, astar], got %q", b.Algorithm))
	}
	if b.ActionDelay < 0 {
		errs = append(errs, "battle.action_delay must not be negative")
	}
	if b.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("battle.max_rounds must be >= 0, got %d", b.MaxRounds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateArmy(a ArmyConfig, b BattleConfig) error {
	var errs []string
	if a.Budget < 0 {
		errs = append(errs, fmt.Sprintf("army.budget must be >= 0, got %d", a.Budget))
	}
	if a.MaxUnitsPerType < 1 {
		errs = append(errs, fmt.Sprintf("army.max_units_per_type must be >= 1, got %d", a.MaxUnitsPerType))
	}
	if a.MaxPlacementRetries < 1 {
		errs = append(errs, fmt.Sprintf("army.max_placement_retries must be >= 1, got %d", a.MaxPlacementRetries))
	}
	if a.FieldDepth < 1 {
		errs = append(errs, fmt.Sprintf("army.field_depth must be >= 1, got %d", a.FieldDepth))
	}
	if a.FieldSpan < 1 {
		errs = append(errs, fmt.Sprintf("army.field_span must be >= 1, got %d", a.FieldSpan))
	}
	if a.FieldDepth*2 > b.GridWidth {
		errs = append(errs, "army.field_depth must fit twice within battle.grid_width")
	}
	if a.FieldSpan > b.GridHeight {
		errs = append(errs, "army.field_span must not exceed battle.grid_height")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.UnitsDir == "" {
		errs = append(errs, "content.units_dir must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, "content.script_instruction_limit must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and SKIRMISH_ environment
// overrides applied but no config file attached.
//
// Postcondition: LoadFromViper(NewViper()) yields the default configuration.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("battle.grid_width", 27)
	v.SetDefault("battle.grid_height", 21)
	v.SetDefault("battle.algorithm", "dijkstra")
	v.SetDefault("battle.action_delay", "0s")
	v.SetDefault("battle.max_rounds", 1000)

	v.SetDefault("army.budget", 1500)
	v.SetDefault("army.max_units_per_type", 11)
	v.SetDefault("army.max_placement_retries", 100)
	v.SetDefault("army.field_depth", 3)
	v.SetDefault("army.field_span", 21)
	v.SetDefault("army.seed", 0)

	v.SetDefault("content.units_dir", "content/units")
	v.SetDefault("content.ai_dir", "content/ai")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.script_instruction_limit", 0)
}
