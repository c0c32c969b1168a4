package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/winlaunch/internal/config"
	"github.com/1broseidon/winlaunch/internal/discover"
	"github.com/1broseidon/winlaunch/internal/launch"
	"github.com/1broseidon/winlaunch/internal/x11"
)

func boolPtr(b bool) *bool { return &b }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Profiles["slack"] = config.Profile{
		Command:     "slack",
		Args:        []string{"--silent"},
		Size:        "max",
		SkipTaskbar: true,
		Class:       "Slack",
		WaitSeconds: 20,
	}
	return cfg
}

func TestLaunchOptionsDefaults(t *testing.T) {
	opts, err := launchOptions(config.DefaultConfig(), LaunchWindowInput{Command: "xterm"})
	if err != nil {
		t.Fatalf("launchOptions: %v", err)
	}
	if opts.Command != "xterm" {
		t.Errorf("Command = %q, want xterm", opts.Command)
	}
	if opts.Strategy != launch.StrategyPoll {
		t.Errorf("Strategy = %q, want poll", opts.Strategy)
	}
	if opts.Wait != 10*time.Second {
		t.Errorf("Wait = %s, want 10s", opts.Wait)
	}
	if opts.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %s, want 500ms", opts.PollInterval)
	}
	if opts.Settle != 100*time.Millisecond {
		t.Errorf("Settle = %s, want 100ms", opts.Settle)
	}
	if !opts.Reapply {
		t.Error("Reapply = false, want true")
	}
	if opts.Match != nil {
		t.Errorf("Match = %v, want nil (pid match is the default)", opts.Match)
	}
}

func TestLaunchOptionsProfileFillsGaps(t *testing.T) {
	opts, err := launchOptions(testConfig(), LaunchWindowInput{Profile: "slack"})
	if err != nil {
		t.Fatalf("launchOptions: %v", err)
	}
	if opts.Command != "slack" {
		t.Errorf("Command = %q, want slack", opts.Command)
	}
	if len(opts.Args) != 1 || opts.Args[0] != "--silent" {
		t.Errorf("Args = %v, want [--silent]", opts.Args)
	}
	if opts.Hints.Size != x11.SizeMax {
		t.Errorf("Size = %v, want max", opts.Hints.Size)
	}
	if !opts.Hints.SkipTaskbar {
		t.Error("SkipTaskbar = false, want true")
	}
	if opts.Match == nil || opts.Match.Kind != x11.MatchClass || opts.Match.Class != "Slack" {
		t.Errorf("Match = %v, want class Slack", opts.Match)
	}
	if opts.Wait != 20*time.Second {
		t.Errorf("Wait = %s, want 20s", opts.Wait)
	}
}

func TestLaunchOptionsExplicitOverridesProfile(t *testing.T) {
	opts, err := launchOptions(testConfig(), LaunchWindowInput{
		Profile:     "slack",
		Command:     "slack-beta",
		Size:        "fullscreen",
		SkipTaskbar: boolPtr(false),
		Name:        "Slack | general",
		WaitSeconds: 3,
	})
	if err != nil {
		t.Fatalf("launchOptions: %v", err)
	}
	if opts.Command != "slack-beta" {
		t.Errorf("Command = %q, want slack-beta", opts.Command)
	}
	if opts.Hints.Size != x11.SizeFullscreen {
		t.Errorf("Size = %v, want fullscreen", opts.Hints.Size)
	}
	if opts.Hints.SkipTaskbar {
		t.Error("SkipTaskbar = true, explicit false should override the profile")
	}
	if opts.Match == nil || opts.Match.Kind != x11.MatchName {
		t.Errorf("Match = %v, want a name match replacing the profile class", opts.Match)
	}
	if opts.Wait != 3*time.Second {
		t.Errorf("Wait = %s, want 3s", opts.Wait)
	}
}

func TestLaunchOptionsUnknownProfile(t *testing.T) {
	_, err := launchOptions(testConfig(), LaunchWindowInput{Profile: "void"})
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
	if !strings.Contains(err.Error(), `unknown profile "void"`) || !strings.Contains(err.Error(), "slack") {
		t.Errorf("error should name the profile and list the configured ones, got: %v", err)
	}
}

func TestLaunchOptionsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args LaunchWindowInput
	}{
		{"missing command", LaunchWindowInput{}},
		{"bad size", LaunchWindowInput{Command: "xterm", Size: "enormous"}},
		{"bad strategy", LaunchWindowInput{Command: "xterm", Strategy: "teleport"}},
		{"bad geometry", LaunchWindowInput{Command: "xterm", Geometry: "200x"}},
		{"bad type", LaunchWindowInput{Command: "xterm", Type: "spaceship"}},
		{"class and name", LaunchWindowInput{Command: "xterm", Class: "XTerm", Name: "xterm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := launchOptions(config.DefaultConfig(), tt.args); err == nil {
				t.Errorf("launchOptions(%+v) succeeded, want error", tt.args)
			}
		})
	}
}

func TestApplyOptionsSelectors(t *testing.T) {
	cfg := config.DefaultConfig()

	opts, err := applyOptions(cfg, ApplyHintsInput{Window: "0x2c00041", Size: "max"})
	if err != nil {
		t.Fatalf("applyOptions(window): %v", err)
	}
	if opts.Window != 0x2c00041 {
		t.Errorf("Window = 0x%x, want 0x2c00041", uint32(opts.Window))
	}
	if opts.Strategy != launch.StrategyPoll {
		t.Errorf("Strategy = %q, apply must always poll", opts.Strategy)
	}

	opts, err = applyOptions(cfg, ApplyHintsInput{Class: "Firefox", Above: true})
	if err != nil {
		t.Fatalf("applyOptions(class): %v", err)
	}
	if opts.Match == nil || opts.Match.Kind != x11.MatchClass {
		t.Errorf("Match = %v, want class match", opts.Match)
	}
	if opts.Wait != 10*time.Second {
		t.Errorf("Wait = %s, want the config default", opts.Wait)
	}

	opts, err = applyOptions(cfg, ApplyHintsInput{Name: "emacs", Undecorate: true})
	if err != nil {
		t.Fatalf("applyOptions(name): %v", err)
	}
	if opts.Match == nil || opts.Match.Kind != x11.MatchName {
		t.Errorf("Match = %v, want name match", opts.Match)
	}
}

func TestApplyOptionsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		args    ApplyHintsInput
		wantErr string
	}{
		{"no selector", ApplyHintsInput{Size: "max"}, "window, class, or name is required"},
		{"no hints", ApplyHintsInput{Window: "0x42"}, "no hints requested"},
		{"bad window id", ApplyHintsInput{Window: "zzz", Size: "max"}, "invalid window id"},
		{"class and name", ApplyHintsInput{Class: "a", Name: "b", Size: "max"}, "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := applyOptions(config.DefaultConfig(), tt.args)
			if err == nil {
				t.Fatalf("applyOptions(%+v) succeeded, want error", tt.args)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestHandleLaunchWindowTimeoutIsNotAnError(t *testing.T) {
	s := &Server{
		config: config.DefaultConfig(),
		runFn: func(opts launch.Options) (*launch.Result, error) {
			return &launch.Result{Pid: 4242}, discover.ErrTimeout
		},
	}

	_, out, err := s.handleLaunchWindow(context.Background(), nil, LaunchWindowInput{Command: "xterm"})
	if err != nil {
		t.Fatalf("handleLaunchWindow: %v", err)
	}
	if !out.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if out.Pid != 4242 {
		t.Errorf("Pid = %d, want 4242", out.Pid)
	}
}

func TestHandleLaunchWindowReportsHintWarnings(t *testing.T) {
	s := &Server{
		config: config.DefaultConfig(),
		runFn: func(opts launch.Options) (*launch.Result, error) {
			return &launch.Result{
				Pid:        7,
				Window:     0x400021,
				Applied:    []string{"icon"},
				HintErrors: []string{"size: something refused"},
			}, nil
		},
	}

	_, out, err := s.handleLaunchWindow(context.Background(), nil, LaunchWindowInput{Command: "xterm"})
	if err != nil {
		t.Fatalf("handleLaunchWindow: %v", err)
	}
	if out.Window != 0x400021 {
		t.Errorf("Window = 0x%x, want 0x400021", out.Window)
	}
	if len(out.Applied) != 1 || out.Applied[0] != "icon" {
		t.Errorf("Applied = %v, want [icon]", out.Applied)
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "size") {
		t.Errorf("Warnings = %v, want the size failure", out.Warnings)
	}
}

func TestHandleApplyHintsTimeoutIsAnError(t *testing.T) {
	s := &Server{
		config: config.DefaultConfig(),
		runFn: func(opts launch.Options) (*launch.Result, error) {
			return &launch.Result{}, discover.ErrTimeout
		},
	}

	_, _, err := s.handleApplyHints(context.Background(), nil, ApplyHintsInput{Class: "Firefox", Size: "max"})
	if err == nil {
		t.Fatal("expected error when no window matches")
	}
	if !strings.Contains(err.Error(), "no window matched") {
		t.Errorf("error = %v, want a no-window-matched message", err)
	}
}

func TestHandleListWindows(t *testing.T) {
	s := &Server{
		config: config.DefaultConfig(),
		listFn: func() ([]x11.WindowInfo, error) {
			return []x11.WindowInfo{
				{ID: 0x400021, Pid: 1234, Class: "XTerm", Title: "xterm"},
			}, nil
		},
	}

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("handleListWindows: %v", err)
	}
	if len(out.Windows) != 1 || out.Windows[0].Class != "XTerm" {
		t.Errorf("Windows = %v, want the single XTerm entry", out.Windows)
	}
}
