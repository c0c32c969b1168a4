package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.WaitSeconds != DefaultWaitSeconds || cfg.Strategy != DefaultStrategy {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Reapply {
		t.Fatal("reapply should default to true")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PollIntervalMs != DefaultPollIntervalMs {
		t.Fatalf("expected default poll interval, got %d", cfg.PollIntervalMs)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WaitSeconds != DefaultWaitSeconds {
		t.Fatalf("expected default wait_seconds, got %d", cfg.WaitSeconds)
	}
}

func TestLoadFromPath_OverlaysOnlyPresentKeys(t *testing.T) {
	data := strings.Join([]string{
		"wait_seconds: 5",
		"strategy: reparent",
		"display: \":1\"",
		"",
	}, "\n")

	cfg, err := LoadFromPath(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WaitSeconds != 5 {
		t.Errorf("wait_seconds = %d, want 5", cfg.WaitSeconds)
	}
	if cfg.Strategy != "reparent" {
		t.Errorf("strategy = %q, want reparent", cfg.Strategy)
	}
	if cfg.Display != ":1" {
		t.Errorf("display = %q, want :1", cfg.Display)
	}
	if cfg.PollIntervalMs != DefaultPollIntervalMs {
		t.Errorf("poll_interval_ms = %d, want untouched default", cfg.PollIntervalMs)
	}
	if !cfg.Reapply {
		t.Error("reapply should keep its default when absent")
	}
}

func TestLoadFromPath_ExplicitFalseOverridesDefault(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "reapply: false\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reapply {
		t.Fatal("explicit reapply: false must override the default")
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "wait_secs: 3\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "field") {
		t.Fatalf("error should name the unknown field: %v", err)
	}
}

func TestLoadFromPath_InvalidStrategy(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "strategy: magic\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "strategy" {
		t.Fatalf("Path = %q, want strategy", verr.Path)
	}
}

func TestLoadFromPath_ProfilesParsed(t *testing.T) {
	data := strings.Join([]string{
		"profiles:",
		"  slack:",
		"    command: slack",
		"    args: [\"--ozone-platform=x11\"]",
		"    icon: icons/slack.png",
		"    size: max",
		"    skip_taskbar: true",
		"  scratch:",
		"    class: kitty-scratch",
		"    geometry: 1200x800+50+50",
		"    above: true",
		"",
	}, "\n")

	path := writeConfig(t, data)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	slack, ok := cfg.Profiles["slack"]
	if !ok {
		t.Fatal("slack profile missing")
	}
	if slack.Command != "slack" || slack.Size != "max" || !slack.SkipTaskbar {
		t.Errorf("slack profile = %+v", slack)
	}
	if want := filepath.Join(filepath.Dir(path), "icons", "slack.png"); slack.Icon != want {
		t.Errorf("icon = %q, want %q resolved against the config file", slack.Icon, want)
	}

	scratch := cfg.Profiles["scratch"]
	if scratch.Class != "kitty-scratch" || !scratch.Above {
		t.Errorf("scratch profile = %+v", scratch)
	}
}

func TestLoadFromPath_TildeIconPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	data := strings.Join([]string{
		"profiles:",
		"  app:",
		"    command: app",
		"    icon: ~/icons/app.png",
		"",
	}, "\n")

	cfg, err := LoadFromPath(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := filepath.Join(home, "icons", "app.png")
	if got := cfg.Profiles["app"].Icon; got != want {
		t.Errorf("icon = %q, want %q", got, want)
	}
}

func TestValidate_ProfileErrors(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		wantSub string
	}{
		{"bad size", Profile{Size: "huge"}, "size"},
		{"bad strategy", Profile{Strategy: "magic"}, "strategy"},
		{"bad geometry", Profile{Geometry: "200x"}, "geometry"},
		{"negative wait", Profile{WaitSeconds: -1}, "wait_seconds"},
		{"class and name", Profile{Class: "a", Name: "b"}, "mutually exclusive"},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		cfg.Profiles["bad"] = tc.profile
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), "profiles.bad") {
			t.Errorf("%s: error should carry the profile path: %v", tc.name, err)
		}
		if !strings.Contains(err.Error(), tc.wantSub) {
			t.Errorf("%s: error = %v, want mention of %q", tc.name, err, tc.wantSub)
		}
	}
}

func TestValidate_TopLevelErrors(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"zero wait", func(c *Config) { c.WaitSeconds = 0 }, "wait_seconds"},
		{"zero interval", func(c *Config) { c.PollIntervalMs = 0 }, "poll_interval_ms"},
		{"negative settle", func(c *Config) { c.SettleMs = -1 }, "settle_ms"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected *ValidationError, got %v", tc.name, err)
			continue
		}
		if verr.Path != tc.wantPath {
			t.Errorf("%s: Path = %q, want %q", tc.name, verr.Path, tc.wantPath)
		}
	}
}
