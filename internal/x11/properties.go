package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// WindowPID reads _NET_WM_PID. A missing or malformed property (wrong
// format, zero or several values) reports false rather than an error, so
// broken clients simply never match by pid.
func (c *Connection) WindowPID(win xproto.Window) (uint32, bool) {
	atom, err := c.Atoms.Atom(atomNetWmPid)
	if err != nil {
		return 0, false
	}
	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, win, atom,
		xproto.AtomCardinal, 0, 1).Reply()
	if err != nil || reply == nil {
		return 0, false
	}
	if reply.Format != 32 || reply.ValueLen != 1 {
		return 0, false
	}
	return xgb.Get32(reply.Value), true
}

// HasIcon reports whether the window carries a non-empty _NET_WM_ICON
// payload. Only the first word is fetched; its presence is the signal.
func (c *Connection) HasIcon(win xproto.Window) bool {
	atom, err := c.Atoms.Atom(atomNetWmIcon)
	if err != nil {
		return false
	}
	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, win, atom,
		xproto.AtomCardinal, 0, 1).Reply()
	return err == nil && reply != nil && reply.ValueLen == 1
}

// ClassSegments returns the NUL-delimited segments of WM_CLASS, normally
// the instance name followed by the class name.
func (c *Connection) ClassSegments(win xproto.Window) ([]string, bool) {
	atom, err := c.Atoms.Atom(atomWmClass)
	if err != nil {
		return nil, false
	}
	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, win, atom,
		xproto.GetPropertyTypeAny, 0, 1024).Reply()
	if err != nil || reply == nil || reply.ValueLen == 0 {
		return nil, false
	}
	return strings.Split(string(reply.Value), "\x00"), true
}

// WindowName returns the window title, preferring _NET_WM_NAME and falling
// back to the older WM_NAME.
func (c *Connection) WindowName(win xproto.Window) (string, bool) {
	if name, ok := c.textProperty(win, atomNetWmName); ok {
		return name, true
	}
	return c.textProperty(win, atomWmName)
}

func (c *Connection) textProperty(win xproto.Window, propName string) (string, bool) {
	atom, err := c.Atoms.Atom(propName)
	if err != nil {
		return "", false
	}
	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, win, atom,
		xproto.GetPropertyTypeAny, 0, 1024).Reply()
	if err != nil || reply == nil || reply.ValueLen == 0 {
		return "", false
	}
	return string(reply.Value), true
}

// Children lists the direct children of win, bottom-to-top in stacking
// order as the server reports them.
func (c *Connection) Children(win xproto.Window) ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return nil, fmt.Errorf("query tree for %d: %w", win, err)
	}
	return tree.Children, nil
}

// WindowSize reads the current width and height of win.
func (c *Connection) WindowSize(win xproto.Window) (int, int, error) {
	geo, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("get geometry for %d: %w", win, err)
	}
	return int(geo.Width), int(geo.Height), nil
}
