// Package config provides Viper-based configuration loading for the
// storybattle runner.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g.
// STORYBATTLE_BATTLE_MAX_ROUNDS.
const EnvPrefix = "STORYBATTLE"

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path. Interactive play keeps
	// stdout for the story text.
	Output string `mapstructure:"output"`
}

// ContentConfig selects the content directory and the story to play.
type ContentConfig struct {
	// Root is the content directory holding abilities/, enemies/, stories/ and so on.
	Root string `mapstructure:"root"`
	// Story is the id of the story to play; empty picks the first story by id.
	Story string `mapstructure:"story"`
}

// BattleConfig holds the battle rules shared by every encounter.
type BattleConfig struct {
	// CritChance is the fraction used by abilities that do not set their own.
	CritChance     float64 `mapstructure:"crit_chance"`
	CritMultiplier float64 `mapstructure:"crit_multiplier"`
	// FleeThreshold is the minimum 1d6 roll that lets a combatant flee.
	FleeThreshold int `mapstructure:"flee_threshold"`
	// MaxRounds ends a battle as fled once reached; 0 means unlimited.
	MaxRounds int `mapstructure:"max_rounds"`
	// ScriptInstructionLimit caps the Lua instructions one tactic hook call may run; 0 means unlimited.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// DatabaseConfig holds PostgreSQL connection settings for the optional
// battle history.
type DatabaseConfig struct {
	// Enabled turns battle history recording on.
	Enabled         bool          `mapstructure:"enabled"`
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
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Content  ContentConfig  `mapstructure:"content"`
	Battle   BattleConfig   `mapstructure:"battle"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	errs = append(errs, validateLogging(c.Logging)...)
	errs = append(errs, validateContent(c.Content)...)
	errs = append(errs, validateBattle(c.Battle)...)
	if c.Database.Enabled {
		errs = append(errs, validateDatabase(c.Database)...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) []string {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if strings.TrimSpace(l.Output) == "" {
		errs = append(errs, "logging.output must not be empty")
	}
	return errs
}

func validateContent(c ContentConfig) []string {
	if strings.TrimSpace(c.Root) == "" {
		return []string{"content.root must not be empty"}
	}
	return nil
}

func validateBattle(b BattleConfig) []string {
	var errs []string
	if b.CritChance < 0 || b.CritChance > 1 {
		errs = append(errs, fmt.Sprintf("battle.crit_chance must be in [0, 1], got %g", b.CritChance))
	}
	if b.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("battle.crit_multiplier must be >= 1, got %g", b.CritMultiplier))
	}
	if b.FleeThreshold < 1 || b.FleeThreshold > 6 {
		errs = append(errs, fmt.Sprintf("battle.flee_threshold must be in [1, 6], got %d", b.FleeThreshold))
	}
	if b.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("battle.max_rounds must be >= 0, got %d", b.MaxRounds))
	}
	if b.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("battle.script_instruction_limit must be >= 0, got %d", b.ScriptInstructionLimit))
	}
	return errs
}

func validateDatabase(d DatabaseConfig) []string {
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
	return errs
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
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

// SetDefaults registers the default value of every key on v. Every key needs
// a default so that AutomaticEnv can override it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("content.root", "content")
	v.SetDefault("content.story", "")

	v.SetDefault("battle.crit_chance", 0.05)
	v.SetDefault("battle.crit_multiplier", 2.0)
	v.SetDefault("battle.flee_threshold", 4)
	v.SetDefault("battle.max_rounds", 50)
	v.SetDefault("battle.script_instruction_limit", 100000)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "storybattle")
	v.SetDefault("database.password", "storybattle")
	v.SetDefault("database.name", "storybattle")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
