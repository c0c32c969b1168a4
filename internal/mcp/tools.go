package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winlaunch/internal/config"
	"github.com/1broseidon/winlaunch/internal/discover"
	"github.com/1broseidon/winlaunch/internal/launch"
	"github.com/1broseidon/winlaunch/internal/x11"
)

func (s *Server) handleLaunchWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchWindowInput) (*mcpsdk.CallToolResult, LaunchWindowOutput, error) {
	opts, err := launchOptions(s.config, args)
	if err != nil {
		return nil, LaunchWindowOutput{}, err
	}

	res, err := s.runFn(opts)
	if err != nil {
		if res != nil && errors.Is(err, discover.ErrTimeout) {
			// The command is running; its window just never showed up
			// inside the wait budget.
			return nil, LaunchWindowOutput{Pid: res.Pid, TimedOut: true}, nil
		}
		return nil, LaunchWindowOutput{}, err
	}

	return nil, LaunchWindowOutput{
		Pid:      res.Pid,
		Window:   uint32(res.Window),
		Applied:  res.Applied,
		Warnings: res.HintErrors,
	}, nil
}

func (s *Server) handleApplyHints(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyHintsInput) (*mcpsdk.CallToolResult, ApplyHintsOutput, error) {
	opts, err := applyOptions(s.config, args)
	if err != nil {
		return nil, ApplyHintsOutput{}, err
	}

	res, err := s.runFn(opts)
	if err != nil {
		if errors.Is(err, discover.ErrTimeout) {
			return nil, ApplyHintsOutput{}, fmt.Errorf("no window matched within %s", opts.Wait)
		}
		return nil, ApplyHintsOutput{}, err
	}

	return nil, ApplyHintsOutput{
		Window:   uint32(res.Window),
		Applied:  res.Applied,
		Warnings: res.HintErrors,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.listFn()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

// resolveProfile looks up a named profile, failing with the list of
// configured names so callers can self-correct.
func resolveProfile(cfg *config.Config, name string) (config.Profile, error) {
	if name == "" {
		return config.Profile{}, nil
	}
	p, ok := cfg.Profiles[name]
	if !ok {
		available := make([]string, 0, len(cfg.Profiles))
		for k := range cfg.Profiles {
			available = append(available, k)
		}
		sort.Strings(available)
		return config.Profile{}, fmt.Errorf("unknown profile %q; available: %v", name, available)
	}
	return p, nil
}

// launchOptions merges config defaults, the selected profile, and the
// explicit tool arguments, in ascending precedence.
func launchOptions(cfg *config.Config, args LaunchWindowInput) (launch.Options, error) {
	profile, err := resolveProfile(cfg, args.Profile)
	if err != nil {
		return launch.Options{}, err
	}

	command := strings.TrimSpace(args.Command)
	if command == "" {
		command = profile.Command
	}
	if command == "" {
		return launch.Options{}, errors.New("command is required, directly or via the profile")
	}
	cmdArgs := args.Args
	if len(cmdArgs) == 0 {
		cmdArgs = profile.Args
	}

	params := launch.HintParams{
		IconPath:    stringOr(args.Icon, profile.Icon),
		Size:        stringOr(args.Size, profile.Size),
		Above:       boolOr(args.Above, profile.Above),
		Undecorate:  boolOr(args.Undecorate, profile.Undecorate),
		Type:        stringOr(args.Type, profile.Type),
		Geometry:    stringOr(args.Geometry, profile.Geometry),
		SkipTaskbar: boolOr(args.SkipTaskbar, profile.SkipTaskbar),
	}
	hints, err := params.HintSet()
	if err != nil {
		return launch.Options{}, err
	}

	strategy, err := launch.ParseStrategy(stringOr(args.Strategy, stringOr(profile.Strategy, cfg.Strategy)))
	if err != nil {
		return launch.Options{}, err
	}

	waitSeconds := args.WaitSeconds
	if waitSeconds <= 0 {
		waitSeconds = profile.WaitSeconds
	}
	if waitSeconds <= 0 {
		waitSeconds = cfg.WaitSeconds
	}

	opts := launch.Options{
		Command:      command,
		Args:         cmdArgs,
		Hints:        hints,
		Strategy:     strategy,
		Wait:         time.Duration(waitSeconds) * time.Second,
		PollInterval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		Settle:       time.Duration(cfg.SettleMs) * time.Millisecond,
		Reapply:      cfg.Reapply,
	}

	// An explicit selector replaces the profile's wholesale so a name
	// argument is not mixed with a profile class.
	class, name := args.Class, args.Name
	if class == "" && name == "" {
		class, name = profile.Class, profile.Name
	}
	switch {
	case class != "" && name != "":
		return launch.Options{}, errors.New("class and name are mutually exclusive")
	case class != "":
		spec := x11.MatchByClass(class)
		opts.Match = &spec
	case name != "":
		spec := x11.MatchByName(name)
		opts.Match = &spec
	}
	return opts, nil
}

// applyOptions builds the options for styling an existing window. Discovery
// is forced onto the polling strategy: a window that already exists will
// never produce a reparent notification.
func applyOptions(cfg *config.Config, args ApplyHintsInput) (launch.Options, error) {
	params := launch.HintParams{
		IconPath:    args.Icon,
		Size:        args.Size,
		Above:       args.Above,
		Undecorate:  args.Undecorate,
		Type:        args.Type,
		Geometry:    args.Geometry,
		SkipTaskbar: args.SkipTaskbar,
	}
	hints, err := params.HintSet()
	if err != nil {
		return launch.Options{}, err
	}
	if hints.Empty() {
		return launch.Options{}, errors.New("no hints requested")
	}

	waitSeconds := args.WaitSeconds
	if waitSeconds <= 0 {
		waitSeconds = cfg.WaitSeconds
	}

	opts := launch.Options{
		Hints:        hints,
		Strategy:     launch.StrategyPoll,
		Wait:         time.Duration(waitSeconds) * time.Second,
		PollInterval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
	}

	switch {
	case args.Window != "":
		win, err := launch.ParseWindowID(args.Window)
		if err != nil {
			return launch.Options{}, err
		}
		opts.Window = win
	case args.Class != "" && args.Name != "":
		return launch.Options{}, errors.New("class and name are mutually exclusive")
	case args.Class != "":
		spec := x11.MatchByClass(args.Class)
		opts.Match = &spec
	case args.Name != "":
		spec := x11.MatchByName(args.Name)
		opts.Match = &spec
	default:
		return launch.Options{}, errors.New("window, class, or name is required")
	}
	return opts, nil
}

func stringOr(explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	return fallback
}

func boolOr(explicit *bool, fallback bool) bool {
	if explicit != nil {
		return *explicit
	}
	return fallback
}
