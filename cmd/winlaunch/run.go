package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/winlaunch/internal/config"
	"github.com/1broseidon/winlaunch/internal/discover"
	"github.com/1broseidon/winlaunch/internal/launch"
	"github.com/1broseidon/winlaunch/internal/x11"
)

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	hints := registerHintFlags(fs)
	class := fs.String("class", "", "Match the window by WM_CLASS segment instead of process id")
	name := fs.String("name", "", "Match the window by exact title instead of process id")
	strategy := fs.String("strategy", "", "Discovery strategy: poll or reparent (default from config)")
	wait := fs.Int("wait", 0, "Seconds to wait for the window (default from config)")
	profileName := fs.String("profile", "", "Profile name from the config file")
	failOnTimeout := fs.Bool("fail-on-timeout", false, "Exit nonzero when the window never appears")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/winlaunch/config.yaml)")
	verbose := fs.Bool("verbose", false, "Log discovery progress to stderr")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winlaunch run [flags] <command> [args...]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Launch a command, wait for its window, and apply the requested hints.")
		fmt.Fprintln(os.Stderr, "The window is matched by process id unless -class or -name is given.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	v := runValues{
		hints:    hints.params(),
		class:    *class,
		name:     *name,
		strategy: *strategy,
		wait:     *wait,
		profile:  *profileName,
	}
	if fs.NArg() > 0 {
		v.command = fs.Arg(0)
		v.args = fs.Args()[1:]
	}
	set := setFlags(fs)

	opts, err := buildRunOptions(cfg, v, set)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	failTimeout := *failOnTimeout
	if !set["fail-on-timeout"] {
		failTimeout = cfg.FailOnTimeout
	}

	logger := newLogger(*verbose, cfg.LogLevel)
	res, err := connectAndRun(cfg, logger, opts)
	switch {
	case errors.Is(err, discover.ErrTimeout):
		fmt.Fprintf(os.Stderr, "no window appeared within %s (pid %d keeps running)\n", opts.Wait, res.Pid)
		if failTimeout {
			return 1
		}
		return 0
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("pid:    %d\n", res.Pid)
	fmt.Printf("window: 0x%x\n", uint32(res.Window))
	if len(res.Applied) > 0 {
		fmt.Printf("applied: %s\n", strings.Join(res.Applied, ", "))
	}
	for _, hintErr := range res.HintErrors {
		fmt.Fprintf(os.Stderr, "hint failed: %s\n", hintErr)
	}
	return 0
}

// runValues collects the run flag values so option assembly is testable
// without a FlagSet.
type runValues struct {
	hints    launch.HintParams
	class    string
	name     string
	strategy string
	wait     int
	profile  string
	command  string
	args     []string
}

// buildRunOptions merges config defaults, the selected profile, and the
// command line, in ascending precedence. Profile values only fill fields
// whose flags were not given.
func buildRunOptions(cfg *config.Config, v runValues, set map[string]bool) (launch.Options, error) {
	var profile config.Profile
	if v.profile != "" {
		p, ok := cfg.Profiles[v.profile]
		if !ok {
			available := make([]string, 0, len(cfg.Profiles))
			for k := range cfg.Profiles {
				available = append(available, k)
			}
			sort.Strings(available)
			return launch.Options{}, fmt.Errorf("unknown profile %q; available: %v", v.profile, available)
		}
		profile = p
	}

	params := v.hints
	if !set["icon"] && profile.Icon != "" {
		params.IconPath = profile.Icon
	}
	if !set["size"] && profile.Size != "" {
		params.Size = profile.Size
	}
	if !set["above"] && profile.Above {
		params.Above = true
	}
	if !set["undecorate"] && profile.Undecorate {
		params.Undecorate = true
	}
	if !set["type"] && profile.Type != "" {
		params.Type = profile.Type
	}
	if !set["geometry"] && profile.Geometry != "" {
		params.Geometry = profile.Geometry
	}
	if !set["skip-taskbar"] && profile.SkipTaskbar {
		params.SkipTaskbar = true
	}

	hintSet, err := params.HintSet()
	if err != nil {
		return launch.Options{}, err
	}

	strategyName := v.strategy
	if !set["strategy"] {
		strategyName = cfg.Strategy
		if profile.Strategy != "" {
			strategyName = profile.Strategy
		}
	}
	strategy, err := launch.ParseStrategy(strategyName)
	if err != nil {
		return launch.Options{}, err
	}

	waitSeconds := v.wait
	if !set["wait"] {
		waitSeconds = cfg.WaitSeconds
		if profile.WaitSeconds > 0 {
			waitSeconds = profile.WaitSeconds
		}
	}
	if waitSeconds <= 0 {
		return launch.Options{}, errors.New("wait must be > 0 seconds")
	}

	command := v.command
	cmdArgs := v.args
	if command == "" {
		command = profile.Command
		cmdArgs = profile.Args
	}
	if command == "" {
		return launch.Options{}, errors.New("no command to launch; pass one or use a profile that sets command")
	}

	opts := launch.Options{
		Command:      command,
		Args:         cmdArgs,
		Hints:        hintSet,
		Strategy:     strategy,
		Wait:         time.Duration(waitSeconds) * time.Second,
		PollInterval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		Settle:       time.Duration(cfg.SettleMs) * time.Millisecond,
		Reapply:      cfg.Reapply,
	}

	// An explicit selector replaces the profile's wholesale so -name is
	// not mixed with a profile class.
	matchClass, matchName := v.class, v.name
	if matchClass == "" && matchName == "" {
		matchClass, matchName = profile.Class, profile.Name
	}
	switch {
	case matchClass != "" && matchName != "":
		return launch.Options{}, errors.New("-class and -name are mutually exclusive")
	case matchClass != "":
		spec := x11.MatchByClass(matchClass)
		opts.Match = &spec
	case matchName != "":
		spec := x11.MatchByName(matchName)
		opts.Match = &spec
	}
	return opts, nil
}
