// Package launch orchestrates one run: start the command, discover its
// window, apply the hint set, and keep re-asserting the fragile hints until
// the wait budget runs out.
package launch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winlaunch/internal/discover"
	"github.com/1broseidon/winlaunch/internal/geometry"
	"github.com/1broseidon/winlaunch/internal/icon"
	"github.com/1broseidon/winlaunch/internal/x11"
)

// Strategy selects how the launched window is discovered.
type Strategy string

const (
	// StrategyPoll walks the window tree on an interval.
	StrategyPoll Strategy = "poll"
	// StrategyReparent waits for window manager reparent notifications.
	StrategyReparent Strategy = "reparent"
)

// ParseStrategy validates a strategy keyword. Empty selects polling.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", string(StrategyPoll):
		return StrategyPoll, nil
	case string(StrategyReparent):
		return StrategyReparent, nil
	}
	return "", fmt.Errorf("unknown strategy %q (valid: poll, reparent)", s)
}

// Session is the X11 surface the runner drives. *x11.Connection implements
// it; tests substitute fakes.
type Session interface {
	PrimeAtoms() error
	WindowPID(win xproto.Window) (uint32, bool)
	HasIcon(win xproto.Window) bool
	ClassSegments(win xproto.Window) ([]string, bool)
	WindowName(win xproto.Window) (string, bool)
	SetIcon(win xproto.Window, img *icon.Image) error
	Maximize(win xproto.Window) error
	Minimize(win xproto.Window) error
	Fullscreen(win xproto.Window) error
	KeepAbove(win xproto.Window) error
	HideFromTaskbar(win xproto.Window) error
	RemoveDecorations(win xproto.Window) error
	SetWindowType(win xproto.Window, keyword string) error
	ConfigureGeometry(win xproto.Window, spec geometry.Spec) error
}

// Options carries everything one run needs.
type Options struct {
	// Command is the program to launch. Empty means operate on an
	// already existing window selected by Window or Match.
	Command string
	Args    []string

	// Window short-circuits discovery when nonzero.
	Window xproto.Window

	// Match overrides the default pid match for spawned commands.
	Match *x11.MatchSpec

	Hints    x11.HintSet
	Strategy Strategy

	Wait         time.Duration
	PollInterval time.Duration
	Settle       time.Duration

	// Reapply re-sends icon and size during the remaining wait budget.
	// Some clients overwrite both while they finish starting up.
	Reapply bool
}

// Result reports what one run did.
type Result struct {
	Pid        int
	Window     xproto.Window
	Applied    []string
	HintErrors []string
}

// Runner wires a session, a logger, and a spawner into the launch flow.
type Runner struct {
	session   Session
	logger    *slog.Logger
	newFinder func(Options) discover.Finder
	spawn     func(name string, args []string) (int, error)
}

// NewRunner builds a runner over a live connection. Spawned commands
// inherit display and xauthority.
func NewRunner(conn *x11.Connection, display, xauthority string, logger *slog.Logger) *Runner {
	return &Runner{
		session: conn,
		logger:  logger,
		newFinder: func(opts Options) discover.Finder {
			if opts.Strategy == StrategyReparent {
				return &discover.ReparentFinder{Conn: conn}
			}
			return &discover.PollFinder{
				Walker:   conn,
				Root:     conn.Root,
				Interval: opts.PollInterval,
				Settle:   opts.Settle,
			}
		},
		spawn: func(name string, args []string) (int, error) {
			return spawnCommand(name, args, display, xauthority)
		},
	}
}

// Run launches the command when one is given, finds the target window, and
// applies the hint set. Individual hint failures are collected in the
// result rather than aborting; only spawn failures and discovery timeouts
// end the run early.
func (r *Runner) Run(opts Options) (*Result, error) {
	log := r.logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := r.session.PrimeAtoms(); err != nil {
		return nil, err
	}

	res := &Result{}
	deadline := time.Now().Add(opts.Wait)

	if opts.Command != "" {
		pid, err := r.spawn(opts.Command, opts.Args)
		if err != nil {
			return nil, err
		}
		res.Pid = pid
		log.Debug("launched command", "command", opts.Command, "pid", pid)
	}

	var spec x11.MatchSpec
	switch {
	case opts.Match != nil:
		spec = *opts.Match
	case res.Pid != 0:
		spec = x11.MatchByPid(uint32(res.Pid))
	case opts.Window == 0:
		return nil, errors.New("nothing to target: need a command, a window id, or a match rule")
	}

	win := opts.Window
	if win == 0 {
		// The icon heuristic only helps the tree walk, where a window
		// can be seen mid-construction. Reparent notifications already
		// imply the window manager considers the window ready.
		requireIcon := opts.Strategy != StrategyReparent && spec.Kind == x11.MatchPid
		matcher := x11.NewMatcher(r.session, spec, requireIcon)

		found, err := r.newFinder(opts).Find(matcher, opts.Wait)
		if err != nil {
			return res, err
		}
		win = found
		log.Debug("found window", "window", fmt.Sprintf("0x%x", uint32(win)), "match", spec.String())
	}
	res.Window = win

	r.applyHints(log, win, opts.Hints, res)

	if opts.Reapply && opts.Command != "" {
		r.reapplyLoop(log, win, opts, deadline)
	}
	return res, nil
}

type hintOp struct {
	name  string
	apply func() error
}

// applyHints issues the requested hints in a fixed order: icon, size,
// above, undecorate, type, geometry, skip-taskbar. Each failure is logged
// and recorded, and the rest still run.
func (r *Runner) applyHints(log *slog.Logger, win xproto.Window, hints x11.HintSet, res *Result) {
	var ops []hintOp
	if hints.Icon != nil {
		ops = append(ops, hintOp{"icon", func() error { return r.session.SetIcon(win, hints.Icon) }})
	}
	if hints.Size != x11.SizeNone {
		ops = append(ops, hintOp{"size", func() error { return r.applySize(win, hints.Size) }})
	}
	if hints.Above {
		ops = append(ops, hintOp{"above", func() error { return r.session.KeepAbove(win) }})
	}
	if hints.Undecorate {
		ops = append(ops, hintOp{"undecorate", func() error { return r.session.RemoveDecorations(win) }})
	}
	if hints.Type != "" {
		ops = append(ops, hintOp{"type", func() error { return r.session.SetWindowType(win, hints.Type) }})
	}
	if hints.Geometry != nil {
		ops = append(ops, hintOp{"geometry", func() error { return r.session.ConfigureGeometry(win, *hints.Geometry) }})
	}
	if hints.SkipTaskbar {
		ops = append(ops, hintOp{"skip-taskbar", func() error { return r.session.HideFromTaskbar(win) }})
	}

	for _, op := range ops {
		if err := op.apply(); err != nil {
			log.Warn("hint failed", "hint", op.name, "error", err)
			res.HintErrors = append(res.HintErrors, fmt.Sprintf("%s: %v", op.name, err))
			continue
		}
		res.Applied = append(res.Applied, op.name)
	}
}

func (r *Runner) applySize(win xproto.Window, mode x11.SizeMode) error {
	switch mode {
	case x11.SizeMax:
		return r.session.Maximize(win)
	case x11.SizeMin:
		return r.session.Minimize(win)
	case x11.SizeFullscreen:
		return r.session.Fullscreen(win)
	}
	return nil
}

// reapplyLoop re-sends icon and size every poll interval until the wait
// budget is spent. A failure stops the loop; the window is likely gone.
func (r *Runner) reapplyLoop(log *slog.Logger, win xproto.Window, opts Options, deadline time.Time) {
	if opts.Hints.Icon == nil && opts.Hints.Size == x11.SizeNone {
		return
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if remaining < interval {
			time.Sleep(remaining)
		} else {
			time.Sleep(interval)
		}

		if opts.Hints.Icon != nil {
			if err := r.session.SetIcon(win, opts.Hints.Icon); err != nil {
				log.Debug("stopped re-applying hints", "error", err)
				return
			}
		}
		if opts.Hints.Size != x11.SizeNone {
			if err := r.applySize(win, opts.Hints.Size); err != nil {
				log.Debug("stopped re-applying hints", "error", err)
				return
			}
		}
	}
}
