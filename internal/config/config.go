// Package config loads the launcher configuration and resolves
// per-application profiles.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/winlaunch/internal/geometry"
)

// Defaults applied before any file overlay.
const (
	DefaultWaitSeconds    = 10
	DefaultPollIntervalMs = 500
	DefaultSettleMs       = 100
	DefaultStrategy       = "poll"
	DefaultLogLevel       = "info"
)

// Profile is a named preset for one application: the command to run plus
// the hints to apply to its window. Class and Name switch matching away
// from the spawned pid; they are mutually exclusive.
type Profile struct {
	Command     string   `yaml:"command,omitempty"`
	Args        []string `yaml:"args,omitempty"`
	Icon        string   `yaml:"icon,omitempty"`
	Size        string   `yaml:"size,omitempty"`
	Above       bool     `yaml:"above,omitempty"`
	Undecorate  bool     `yaml:"undecorate,omitempty"`
	Type        string   `yaml:"type,omitempty"`
	Geometry    string   `yaml:"geometry,omitempty"`
	SkipTaskbar bool     `yaml:"skip_taskbar,omitempty"`
	Class       string   `yaml:"class,omitempty"`
	Name        string   `yaml:"name,omitempty"`
	Strategy    string   `yaml:"strategy,omitempty"`
	WaitSeconds int      `yaml:"wait_seconds,omitempty"`
}

// Config is the effective configuration after defaults and file overlay.
type Config struct {
	WaitSeconds    int                `yaml:"wait_seconds"`
	PollIntervalMs int                `yaml:"poll_interval_ms"`
	SettleMs       int                `yaml:"settle_ms"`
	Strategy       string             `yaml:"strategy"`
	FailOnTimeout  bool               `yaml:"fail_on_timeout"`
	Reapply        bool               `yaml:"reapply"`
	Display        string             `yaml:"display"`
	XAuthority     string             `yaml:"xauthority"`
	LogLevel       string             `yaml:"log_level"`
	Profiles       map[string]Profile `yaml:"profiles,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		WaitSeconds:    DefaultWaitSeconds,
		PollIntervalMs: DefaultPollIntervalMs,
		SettleMs:       DefaultSettleMs,
		Strategy:       DefaultStrategy,
		Reapply:        true,
		LogLevel:       DefaultLogLevel,
		Profiles:       map[string]Profile{},
	}
}

// RawConfig mirrors Config with pointer fields so the overlay can tell an
// absent key from an explicit zero.
type RawConfig struct {
	WaitSeconds    *int               `yaml:"wait_seconds"`
	PollIntervalMs *int               `yaml:"poll_interval_ms"`
	SettleMs       *int               `yaml:"settle_ms"`
	Strategy       *string            `yaml:"strategy"`
	FailOnTimeout  *bool              `yaml:"fail_on_timeout"`
	Reapply        *bool              `yaml:"reapply"`
	Display        *string            `yaml:"display"`
	XAuthority     *string            `yaml:"xauthority"`
	LogLevel       *string            `yaml:"log_level"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// BuildEffectiveConfig overlays raw onto the defaults. Only keys present in
// the file replace default values.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.WaitSeconds != nil {
		cfg.WaitSeconds = *raw.WaitSeconds
	}
	if raw.PollIntervalMs != nil {
		cfg.PollIntervalMs = *raw.PollIntervalMs
	}
	if raw.SettleMs != nil {
		cfg.SettleMs = *raw.SettleMs
	}
	if raw.Strategy != nil {
		cfg.Strategy = *raw.Strategy
	}
	if raw.FailOnTimeout != nil {
		cfg.FailOnTimeout = *raw.FailOnTimeout
	}
	if raw.Reapply != nil {
		cfg.Reapply = *raw.Reapply
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	for name, profile := range raw.Profiles {
		cfg.Profiles[name] = profile
	}
	return cfg
}

type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Validate performs strict validation of the effective configuration.
// Window type keywords are left to the launch path, which owns the keyword
// table.
func (c *Config) Validate() error {
	if c.WaitSeconds <= 0 {
		return &ValidationError{Path: "wait_seconds", Err: fmt.Errorf("wait_seconds must be > 0")}
	}
	if c.PollIntervalMs <= 0 {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be > 0")}
	}
	if c.SettleMs < 0 {
		return &ValidationError{Path: "settle_ms", Err: fmt.Errorf("settle_ms must be >= 0")}
	}
	if err := validStrategy(c.Strategy); err != nil {
		return &ValidationError{Path: "strategy", Err: err}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	for name, profile := range c.Profiles {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "profiles", Err: fmt.Errorf("profiles contains an empty name")}
		}
		if err := validateProfile(profile); err != nil {
			return &ValidationError{Path: "profiles." + name, Err: err}
		}
	}
	return nil
}

func validStrategy(s string) error {
	switch s {
	case "poll", "reparent":
		return nil
	}
	return fmt.Errorf("strategy must be one of: poll, reparent")
}

func validateProfile(p Profile) error {
	switch p.Size {
	case "", "max", "min", "fullscreen":
	default:
		return fmt.Errorf("size must be one of: max, min, fullscreen")
	}
	if p.Strategy != "" {
		if err := validStrategy(p.Strategy); err != nil {
			return err
		}
	}
	if p.Geometry != "" {
		if _, err := geometry.Parse(p.Geometry); err != nil {
			return err
		}
	}
	if p.WaitSeconds < 0 {
		return fmt.Errorf("wait_seconds must be >= 0")
	}
	if p.Class != "" && p.Name != "" {
		return fmt.Errorf("class and name are mutually exclusive")
	}
	return nil
}

// ParseLogLevel maps a log_level value onto a slog level. Unknown values
// fall back to info.
func ParseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
