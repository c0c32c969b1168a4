package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Well-known protocol names. Everything the tool touches on the wire is
// listed here and resolved through the AtomCache, never as a raw number.
const (
	atomNetWmPid              = "_NET_WM_PID"
	atomNetWmIcon             = "_NET_WM_ICON"
	atomNetWmName             = "_NET_WM_NAME"
	atomWmName                = "WM_NAME"
	atomWmClass               = "WM_CLASS"
	atomUtf8String            = "UTF8_STRING"
	atomWmChangeState         = "WM_CHANGE_STATE"
	atomMotifWmHints          = "_MOTIF_WM_HINTS"
	atomNetWmState            = "_NET_WM_STATE"
	atomNetWmStateMaxVert     = "_NET_WM_STATE_MAXIMIZED_VERT"
	atomNetWmStateMaxHorz     = "_NET_WM_STATE_MAXIMIZED_HORZ"
	atomNetWmStateFullscreen  = "_NET_WM_STATE_FULLSCREEN"
	atomNetWmStateAbove       = "_NET_WM_STATE_ABOVE"
	atomNetWmStateSkipTaskbar = "_NET_WM_STATE_SKIP_TASKBAR"
	atomNetWmWindowType       = "_NET_WM_WINDOW_TYPE"
)

// windowTypeAtoms maps the caller-facing type keywords to their atoms.
var windowTypeAtoms = map[string]string{
	"normal":       "_NET_WM_WINDOW_TYPE_NORMAL",
	"dialog":       "_NET_WM_WINDOW_TYPE_DIALOG",
	"dock":         "_NET_WM_WINDOW_TYPE_DOCK",
	"desktop":      "_NET_WM_WINDOW_TYPE_DESKTOP",
	"toolbar":      "_NET_WM_WINDOW_TYPE_TOOLBAR",
	"menu":         "_NET_WM_WINDOW_TYPE_MENU",
	"utility":      "_NET_WM_WINDOW_TYPE_UTILITY",
	"splash":       "_NET_WM_WINDOW_TYPE_SPLASH",
	"notification": "_NET_WM_WINDOW_TYPE_NOTIFICATION",
}

// wellKnownAtoms is the full registry primed before discovery starts.
var wellKnownAtoms = func() []string {
	names := []string{
		atomNetWmPid, atomNetWmIcon, atomNetWmName, atomWmName, atomWmClass,
		atomUtf8String, atomWmChangeState, atomMotifWmHints, atomNetWmState,
		atomNetWmStateMaxVert, atomNetWmStateMaxHorz, atomNetWmStateFullscreen,
		atomNetWmStateAbove, atomNetWmStateSkipTaskbar, atomNetWmWindowType,
	}
	for _, name := range windowTypeAtoms {
		names = append(names, name)
	}
	return names
}()

// Interner resolves one protocol name to its server-assigned atom. The live
// implementation issues an InternAtom round trip; tests substitute stubs.
type Interner interface {
	Intern(name string) (xproto.Atom, error)
}

type connInterner struct {
	conn *xgb.Conn
}

func (ci connInterner) Intern(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(ci.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern atom %s: %w", name, err)
	}
	if reply == nil || reply.Atom == xproto.AtomNone {
		return 0, fmt.Errorf("server returned no atom for %s", name)
	}
	return reply.Atom, nil
}

// AtomCache memoizes atom lookups for one connection. Entries are only ever
// added; a repeated lookup returns the cached atom without a round trip.
type AtomCache struct {
	interner Interner
	atoms    map[string]xproto.Atom
}

// NewAtomCache returns an empty cache resolving through interner.
func NewAtomCache(interner Interner) *AtomCache {
	return &AtomCache{
		interner: interner,
		atoms:    make(map[string]xproto.Atom),
	}
}

// Atom resolves name, hitting the cache first.
func (c *AtomCache) Atom(name string) (xproto.Atom, error) {
	if atom, ok := c.atoms[name]; ok {
		return atom, nil
	}
	atom, err := c.interner.Intern(name)
	if err != nil {
		return 0, err
	}
	c.atoms[name] = atom
	return atom, nil
}

// WindowTypeAtomName maps a type keyword to its atom name. Unknown keywords
// are an input error raised before any protocol traffic.
func WindowTypeAtomName(keyword string) (string, error) {
	name, ok := windowTypeAtoms[keyword]
	if !ok {
		return "", fmt.Errorf("unknown window type %q (valid: desktop, dialog, dock, menu, normal, notification, splash, toolbar, utility)", keyword)
	}
	return name, nil
}
