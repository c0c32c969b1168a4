package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// WindowProps reads the window properties a match decision needs. The live
// implementation is Connection; tests substitute canned values.
type WindowProps interface {
	WindowPID(win xproto.Window) (uint32, bool)
	HasIcon(win xproto.Window) bool
	ClassSegments(win xproto.Window) ([]string, bool)
	WindowName(win xproto.Window) (string, bool)
}

// MatchKind selects which window property identifies the target.
type MatchKind int

const (
	// MatchPid matches on the process id the window advertises.
	MatchPid MatchKind = iota
	// MatchClass matches any NUL-delimited WM_CLASS segment exactly.
	MatchClass
	// MatchName matches the window title exactly.
	MatchName
)

// MatchSpec names one target window by pid, class, or title.
type MatchSpec struct {
	Kind  MatchKind
	Pid   uint32
	Class string
	Name  string
}

// MatchByPid targets the window owned by the given process.
func MatchByPid(pid uint32) MatchSpec {
	return MatchSpec{Kind: MatchPid, Pid: pid}
}

// MatchByClass targets the window whose WM_CLASS contains class as a full
// segment. Substrings do not match, so "firefox" never selects firefox-esr.
func MatchByClass(class string) MatchSpec {
	return MatchSpec{Kind: MatchClass, Class: class}
}

// MatchByName targets the window whose title equals name exactly.
func MatchByName(name string) MatchSpec {
	return MatchSpec{Kind: MatchName, Name: name}
}

func (s MatchSpec) String() string {
	switch s.Kind {
	case MatchPid:
		return fmt.Sprintf("pid %d", s.Pid)
	case MatchClass:
		return fmt.Sprintf("class %q", s.Class)
	case MatchName:
		return fmt.Sprintf("name %q", s.Name)
	}
	return "unknown match"
}

// Matcher evaluates candidate windows against one MatchSpec.
type Matcher struct {
	props       WindowProps
	spec        MatchSpec
	requireIcon bool
}

// NewMatcher builds a matcher over props. With requireIcon set, pid matches
// additionally demand a non-empty icon property; the tree walk uses that to
// skip windows the client has not finished setting up.
func NewMatcher(props WindowProps, spec MatchSpec, requireIcon bool) *Matcher {
	return &Matcher{props: props, spec: spec, requireIcon: requireIcon}
}

// Matches reports whether win satisfies the spec. Windows missing the
// relevant property never match.
func (m *Matcher) Matches(win xproto.Window) bool {
	switch m.spec.Kind {
	case MatchPid:
		pid, ok := m.props.WindowPID(win)
		if !ok || pid != m.spec.Pid {
			return false
		}
		if m.requireIcon && !m.props.HasIcon(win) {
			return false
		}
		return true
	case MatchClass:
		segments, ok := m.props.ClassSegments(win)
		if !ok {
			return false
		}
		for _, segment := range segments {
			if segment == m.spec.Class {
				return true
			}
		}
		return false
	case MatchName:
		name, ok := m.props.WindowName(win)
		return ok && name == m.spec.Name
	}
	return false
}
