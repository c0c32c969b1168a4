package discover

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winlaunch/internal/x11"
)

// ReparentFinder waits for the window manager to reparent a new client into
// its frame, which signals the window is mapped and addressable. Each
// reparented window is tested against the matcher as it arrives.
type ReparentFinder struct {
	Conn *x11.Connection
	// Events overrides the live event stream. Tests feed canned events
	// here; when nil, Find subscribes on the root and pumps the
	// connection itself.
	Events <-chan xgb.Event
}

// Find blocks until a reparented window matches or the budget elapses.
func (f *ReparentFinder) Find(m Matcher, budget time.Duration) (xproto.Window, error) {
	events := f.Events
	if events == nil {
		if err := f.Conn.ListenSubstructure(f.Conn.Root); err != nil {
			return 0, fmt.Errorf("subscribe to root events: %w", err)
		}
		ch := make(chan xgb.Event, 16)
		go forwardEvents(f.Conn.XUtil.Conn(), ch)
		events = ch
	}

	timer := time.NewTimer(budget)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return 0, errors.New("event stream closed")
			}
			reparent, ok := ev.(xproto.ReparentNotifyEvent)
			if !ok {
				continue
			}
			if m.Matches(reparent.Window) {
				return reparent.Window, nil
			}
		case <-timer.C:
			return 0, ErrTimeout
		}
	}
}

// forwardEvents pumps the connection's event stream into ch. WaitForEvent
// returns a nil, nil pair once the connection closes; protocol errors are
// skipped rather than fatal.
func forwardEvents(conn *xgb.Conn, ch chan<- xgb.Event) {
	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			close(ch)
			return
		}
		if xerr != nil {
			continue
		}
		ch <- ev
	}
}
