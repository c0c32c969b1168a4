package discover

import (
	"errors"
	"testing"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

type fakeTree struct {
	children map[xproto.Window][]xproto.Window
	errs     map[xproto.Window]error
	visits   []xproto.Window
}

func (ft *fakeTree) Children(win xproto.Window) ([]xproto.Window, error) {
	ft.visits = append(ft.visits, win)
	if err := ft.errs[win]; err != nil {
		return nil, err
	}
	return ft.children[win], nil
}

func (ft *fakeTree) rootVisits(root xproto.Window) int {
	n := 0
	for _, win := range ft.visits {
		if win == root {
			n++
		}
	}
	return n
}

type recordingMatcher struct {
	target xproto.Window
	seen   []xproto.Window
}

func (r *recordingMatcher) Matches(win xproto.Window) bool {
	r.seen = append(r.seen, win)
	return win == r.target
}

func TestPollFinderWalksDepthFirst(t *testing.T) {
	const root = xproto.Window(1)
	tree := &fakeTree{children: map[xproto.Window][]xproto.Window{
		root: {10, 20},
		10:   {11},
	}}
	m := &recordingMatcher{target: 20}
	finder := &PollFinder{Walker: tree, Root: root, Interval: time.Millisecond}

	win, err := finder.Find(m, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if win != 20 {
		t.Fatalf("Find = %d, want 20", win)
	}

	want := []xproto.Window{10, 11, 20}
	if len(m.seen) != len(want) {
		t.Fatalf("matcher saw %v, want %v", m.seen, want)
	}
	for i := range want {
		if m.seen[i] != want[i] {
			t.Fatalf("matcher saw %v, want %v", m.seen, want)
		}
	}
}

func TestPollFinderNeverOffersRoot(t *testing.T) {
	const root = xproto.Window(1)
	tree := &fakeTree{children: map[xproto.Window][]xproto.Window{
		root: {10},
	}}
	m := &recordingMatcher{target: 10}
	finder := &PollFinder{Walker: tree, Root: root, Interval: time.Millisecond}

	if _, err := finder.Find(m, 5*time.Millisecond); err != nil {
		t.Fatalf("Find: %v", err)
	}
	for _, win := range m.seen {
		if win == root {
			t.Fatal("the root window must never be a candidate")
		}
	}
}

func TestPollFinderAttemptCountFromBudget(t *testing.T) {
	const root = xproto.Window(1)
	tree := &fakeTree{}
	m := &recordingMatcher{target: 999}
	finder := &PollFinder{Walker: tree, Root: root, Interval: 2 * time.Millisecond}

	_, err := finder.Find(m, 10*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Find error = %v, want ErrTimeout", err)
	}
	if got := tree.rootVisits(root); got != 5 {
		t.Errorf("walked the tree %d times, want 5", got)
	}
}

func TestPollFinderScansAtLeastOnce(t *testing.T) {
	const root = xproto.Window(1)
	tree := &fakeTree{}
	m := &recordingMatcher{target: 999}
	finder := &PollFinder{Walker: tree, Root: root, Interval: 50 * time.Millisecond}

	start := time.Now()
	_, err := finder.Find(m, time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Find error = %v, want ErrTimeout", err)
	}
	if got := tree.rootVisits(root); got != 1 {
		t.Errorf("walked the tree %d times, want exactly 1", got)
	}
	// The single attempt must not be followed by an interval sleep.
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("single attempt took %v, should not sleep the full interval", elapsed)
	}
}

func TestPollFinderQueryErrorsAreNotFatal(t *testing.T) {
	const root = xproto.Window(1)
	tree := &fakeTree{
		children: map[xproto.Window][]xproto.Window{root: {10, 20}},
		errs:     map[xproto.Window]error{10: errors.New("window gone")},
	}
	m := &recordingMatcher{target: 20}
	finder := &PollFinder{Walker: tree, Root: root, Interval: time.Millisecond}

	win, err := finder.Find(m, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if win != 20 {
		t.Fatalf("Find = %d, want 20 despite the sibling's error", win)
	}
}

func TestReparentFinderMatchesNotifiedWindow(t *testing.T) {
	events := make(chan xgb.Event, 3)
	events <- xproto.CreateNotifyEvent{Window: 99}
	events <- xproto.ReparentNotifyEvent{Window: 41, Parent: 7}
	events <- xproto.ReparentNotifyEvent{Window: 42, Parent: 7}

	m := &recordingMatcher{target: 42}
	finder := &ReparentFinder{Events: events}

	win, err := finder.Find(m, time.Second)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if win != 42 {
		t.Fatalf("Find = %d, want 42", win)
	}
	// Only reparent notifications reach the matcher.
	for _, seen := range m.seen {
		if seen == 99 {
			t.Error("create notification should not have been offered")
		}
	}
}

func TestReparentFinderTimeout(t *testing.T) {
	events := make(chan xgb.Event)
	finder := &ReparentFinder{Events: events}

	start := time.Now()
	_, err := finder.Find(&recordingMatcher{target: 1}, 10*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Find error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("timeout took %v, want close to the 10ms budget", elapsed)
	}
}

func TestReparentFinderStreamClosed(t *testing.T) {
	events := make(chan xgb.Event)
	close(events)
	finder := &ReparentFinder{Events: events}

	_, err := finder.Find(&recordingMatcher{target: 1}, time.Second)
	if err == nil || errors.Is(err, ErrTimeout) {
		t.Fatalf("Find error = %v, want a closed-stream error", err)
	}
}
