// Package discover locates the window a freshly launched process maps on
// the X11 display. Two strategies exist: polling the window tree, and
// listening for reparent notifications from the window manager. Both sit
// behind the Finder interface so callers choose per run.
package discover

import (
	"errors"
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

// ErrTimeout reports that the wait budget elapsed without a match.
var ErrTimeout = errors.New("timed out waiting for window")

// Matcher decides whether a candidate window is the target.
type Matcher interface {
	Matches(win xproto.Window) bool
}

// TreeWalker lists the children of a window.
type TreeWalker interface {
	Children(win xproto.Window) ([]xproto.Window, error)
}

// Finder locates the target window within the wait budget.
type Finder interface {
	Find(m Matcher, budget time.Duration) (xproto.Window, error)
}
