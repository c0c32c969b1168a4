package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/1broseidon/winlaunch/internal/config"
	"github.com/1broseidon/winlaunch/internal/discover"
	"github.com/1broseidon/winlaunch/internal/launch"
	"github.com/1broseidon/winlaunch/internal/x11"
)

func runApply(args []string) int {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	hints := registerHintFlags(fs)
	window := fs.String("window", "", "Window id, decimal or 0x-prefixed hex")
	class := fs.String("class", "", "Select the window by WM_CLASS segment")
	name := fs.String("name", "", "Select the window by exact title")
	wait := fs.Int("wait", 0, "Seconds to wait for a class or name match (default from config)")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/winlaunch/config.yaml)")
	verbose := fs.Bool("verbose", false, "Log discovery progress to stderr")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winlaunch apply [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Apply hints to a window that already exists, selected by -window,")
		fmt.Fprintln(os.Stderr, "-class, or -name. Use 'winlaunch windows' to find targets.")
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
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "apply takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	v := applyValues{
		hints:  hints.params(),
		window: *window,
		class:  *class,
		name:   *name,
		wait:   *wait,
	}
	opts, err := buildApplyOptions(cfg, v, setFlags(fs))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := newLogger(*verbose, cfg.LogLevel)
	res, err := connectAndRun(cfg, logger, opts)
	switch {
	case errors.Is(err, discover.ErrTimeout):
		fmt.Fprintf(os.Stderr, "no window matched within %s\n", opts.Wait)
		return 1
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("window: 0x%x\n", uint32(res.Window))
	if len(res.Applied) > 0 {
		fmt.Printf("applied: %s\n", strings.Join(res.Applied, ", "))
	}
	for _, hintErr := range res.HintErrors {
		fmt.Fprintf(os.Stderr, "hint failed: %s\n", hintErr)
	}
	return 0
}

// applyValues collects the apply flag values so option assembly is testable
// without a FlagSet.
type applyValues struct {
	hints  launch.HintParams
	window string
	class  string
	name   string
	wait   int
}

// buildApplyOptions builds the options for styling an existing window.
// Discovery is forced onto the polling strategy: a window that already
// exists will never produce a reparent notification.
func buildApplyOptions(cfg *config.Config, v applyValues, set map[string]bool) (launch.Options, error) {
	hintSet, err := v.hints.HintSet()
	if err != nil {
		return launch.Options{}, err
	}
	if hintSet.Empty() {
		return launch.Options{}, errors.New("no hints requested; pass at least one hint flag")
	}

	waitSeconds := v.wait
	if !set["wait"] {
		waitSeconds = cfg.WaitSeconds
	}
	if waitSeconds <= 0 {
		return launch.Options{}, errors.New("wait must be > 0 seconds")
	}

	opts := launch.Options{
		Hints:        hintSet,
		Strategy:     launch.StrategyPoll,
		Wait:         time.Duration(waitSeconds) * time.Second,
		PollInterval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
	}

	switch {
	case v.window != "":
		win, err := launch.ParseWindowID(v.window)
		if err != nil {
			return launch.Options{}, err
		}
		opts.Window = win
	case v.class != "" && v.name != "":
		return launch.Options{}, errors.New("-class and -name are mutually exclusive")
	case v.class != "":
		spec := x11.MatchByClass(v.class)
		opts.Match = &spec
	case v.name != "":
		spec := x11.MatchByName(v.name)
		opts.Match = &spec
	default:
		return launch.Options{}, errors.New("-window, -class, or -name is required")
	}
	return opts, nil
}
