package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Connection manages the X11 connection and the core X resources every
// request needs: the root window, the default screen, and the atom cache.
type Connection struct {
	XUtil  *xgbutil.XUtil
	Root   xproto.Window
	Screen *xproto.ScreenInfo
	Atoms  *AtomCache
}

// NewConnection connects to the display named by the environment.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	return newConnection(xu), nil
}

// NewConnectionDisplay connects to an explicit display such as ":1". An
// empty string falls back to the DISPLAY environment variable.
func NewConnectionDisplay(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}
	return newConnection(xu), nil
}

func newConnection(xu *xgbutil.XUtil) *Connection {
	return &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		Screen: xu.Screen(),
		Atoms:  NewAtomCache(connInterner{conn: xu.Conn()}),
	}
}

// PrimeAtoms resolves the full protocol name registry up front so that a
// dead or misbehaving server surfaces as a startup error rather than as a
// silent match failure later.
func (c *Connection) PrimeAtoms() error {
	for _, name := range wellKnownAtoms {
		if _, err := c.Atoms.Atom(name); err != nil {
			return fmt.Errorf("resolve protocol atoms: %w", err)
		}
	}
	return nil
}

// ListenSubstructure subscribes the client to structure events for the
// children of win. Reparent notifications arrive only after this.
func (c *Connection) ListenSubstructure(win xproto.Window) error {
	return xwindow.New(c.XUtil, win).Listen(xproto.EventMaskSubstructureNotify)
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
