package discover

import (
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

// PollFinder repeatedly walks the window tree under Root until a window
// matches or the budget is spent. The attempt count is fixed up front from
// budget and Interval, so a slow tree walk never extends the wait.
type PollFinder struct {
	Walker   TreeWalker
	Root     xproto.Window
	Interval time.Duration
	// Settle delays the first walk, giving the client time to create its
	// window at all.
	Settle time.Duration
}

// Find walks the tree max(1, budget/Interval) times, sleeping Interval
// between walks, and returns the first match.
func (f *PollFinder) Find(m Matcher, budget time.Duration) (xproto.Window, error) {
	if f.Settle > 0 {
		time.Sleep(f.Settle)
	}

	attempts := 1
	if f.Interval > 0 {
		if n := int(budget / f.Interval); n > attempts {
			attempts = n
		}
	}

	for i := 0; i < attempts; i++ {
		if win, ok := f.scan(m); ok {
			return win, nil
		}
		if i < attempts-1 {
			time.Sleep(f.Interval)
		}
	}
	return 0, ErrTimeout
}

// scan visits the tree depth-first with an explicit worklist, checking each
// window before its descendants. The root itself is never a candidate. A
// window that disappears mid-walk just drops out of the scan.
func (f *PollFinder) scan(m Matcher) (xproto.Window, bool) {
	stack := []xproto.Window{f.Root}
	for len(stack) > 0 {
		win := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if win != f.Root && m.Matches(win) {
			return win, true
		}

		children, err := f.Walker.Children(win)
		if err != nil {
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return 0, false
}
