package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winlaunch/internal/geometry"
	"github.com/1broseidon/winlaunch/internal/icon"
)

// SizeMode is the requested sizing state for a window.
type SizeMode int

const (
	SizeNone SizeMode = iota
	SizeMax
	SizeMin
	SizeFullscreen
)

// ParseSizeMode maps the caller-facing keyword to a SizeMode. The empty
// string means no sizing request.
func ParseSizeMode(s string) (SizeMode, error) {
	switch s {
	case "":
		return SizeNone, nil
	case "max":
		return SizeMax, nil
	case "min":
		return SizeMin, nil
	case "fullscreen":
		return SizeFullscreen, nil
	}
	return SizeNone, fmt.Errorf("unknown size mode %q (valid: max, min, fullscreen)", s)
}

func (m SizeMode) String() string {
	switch m {
	case SizeMax:
		return "max"
	case SizeMin:
		return "min"
	case SizeFullscreen:
		return "fullscreen"
	}
	return "none"
}

// HintSet collects the optional presentation requests for one window. Zero
// values mean the hint was not requested.
type HintSet struct {
	Icon        *icon.Image
	Size        SizeMode
	Above       bool
	Undecorate  bool
	Type        string
	Geometry    *geometry.Spec
	SkipTaskbar bool
}

// Empty reports whether no hint at all was requested.
func (h HintSet) Empty() bool {
	return h.Icon == nil && h.Size == SizeNone && !h.Above && !h.Undecorate &&
		h.Type == "" && h.Geometry == nil && !h.SkipTaskbar
}

// _NET_WM_STATE client message constants.
const (
	stateAdd = 1
	// stateSourceApplication marks the request as coming from the client
	// itself rather than from a pager.
	stateSourceApplication = 1
)

// WM_CHANGE_STATE argument for iconification.
const iconicState = 3

// _MOTIF_WM_HINTS flag selecting the decorations field.
const motifHintDecorations = 1 << 1

func stateMessageData(first, second xproto.Atom) []uint32 {
	return []uint32{stateAdd, uint32(first), uint32(second), stateSourceApplication, 0}
}

func iconifyData() []uint32 {
	return []uint32{iconicState, 0, 0, 0, 0}
}

func motifUndecorateData() []uint32 {
	return []uint32{motifHintDecorations, 0, 0, 0, 0}
}

// sendClientMessage delivers a 32-bit client message about win to the root
// window with the substructure masks window managers listen on. We build the
// event manually because the xgbutil ewmh helpers panic on this library
// version (uint vs int type assertion).
func (c *Connection) sendClientMessage(win xproto.Window, typ xproto.Atom, data []uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// addStates asks the window manager to add one or two _NET_WM_STATE tokens
// in a single message. second may be empty.
func (c *Connection) addStates(win xproto.Window, first, second string) error {
	stateAtom, err := c.Atoms.Atom(atomNetWmState)
	if err != nil {
		return err
	}
	firstAtom, err := c.Atoms.Atom(first)
	if err != nil {
		return err
	}
	var secondAtom xproto.Atom
	if second != "" {
		secondAtom, err = c.Atoms.Atom(second)
		if err != nil {
			return err
		}
	}
	return c.sendClientMessage(win, stateAtom, stateMessageData(firstAtom, secondAtom))
}

// SetIcon replaces the window icon with the packed payload.
func (c *Connection) SetIcon(win xproto.Window, img *icon.Image) error {
	prop, err := c.Atoms.Atom(atomNetWmIcon)
	if err != nil {
		return err
	}
	err = xproto.ChangePropertyChecked(c.XUtil.Conn(), xproto.PropModeReplace,
		win, prop, xproto.AtomCardinal, 32, img.Words(), img.Data).Check()
	if err != nil {
		return fmt.Errorf("set icon property: %w", err)
	}
	return nil
}

// Maximize requests both maximize tokens in one message.
func (c *Connection) Maximize(win xproto.Window) error {
	return c.addStates(win, atomNetWmStateMaxVert, atomNetWmStateMaxHorz)
}

// Minimize iconifies via the legacy WM_CHANGE_STATE message, which reaches
// more window managers than the hidden state token does.
func (c *Connection) Minimize(win xproto.Window) error {
	atom, err := c.Atoms.Atom(atomWmChangeState)
	if err != nil {
		return err
	}
	return c.sendClientMessage(win, atom, iconifyData())
}

// Fullscreen requests the fullscreen state token.
func (c *Connection) Fullscreen(win xproto.Window) error {
	return c.addStates(win, atomNetWmStateFullscreen, "")
}

// KeepAbove requests the above state token.
func (c *Connection) KeepAbove(win xproto.Window) error {
	return c.addStates(win, atomNetWmStateAbove, "")
}

// HideFromTaskbar requests the skip-taskbar state token.
func (c *Connection) HideFromTaskbar(win xproto.Window) error {
	return c.addStates(win, atomNetWmStateSkipTaskbar, "")
}

// RemoveDecorations writes Motif hints declaring an empty decoration set.
// Window managers that never implemented the Motif format ignore it.
func (c *Connection) RemoveDecorations(win xproto.Window) error {
	prop, err := c.Atoms.Atom(atomMotifWmHints)
	if err != nil {
		return err
	}
	words := motifUndecorateData()
	data := make([]byte, 0, len(words)*4)
	var buf [4]byte
	for _, word := range words {
		xgb.Put32(buf[:], word)
		data = append(data, buf[:]...)
	}
	// The property type is _MOTIF_WM_HINTS itself.
	err = xproto.ChangePropertyChecked(c.XUtil.Conn(), xproto.PropModeReplace,
		win, prop, prop, 32, uint32(len(words)), data).Check()
	if err != nil {
		return fmt.Errorf("set motif hints: %w", err)
	}
	return nil
}

// SetWindowType declares the window type named by keyword.
func (c *Connection) SetWindowType(win xproto.Window, keyword string) error {
	name, err := WindowTypeAtomName(keyword)
	if err != nil {
		return err
	}
	prop, err := c.Atoms.Atom(atomNetWmWindowType)
	if err != nil {
		return err
	}
	typeAtom, err := c.Atoms.Atom(name)
	if err != nil {
		return err
	}
	var buf [4]byte
	xgb.Put32(buf[:], uint32(typeAtom))
	err = xproto.ChangePropertyChecked(c.XUtil.Conn(), xproto.PropModeReplace,
		win, prop, xproto.AtomAtom, 32, 1, buf[:]).Check()
	if err != nil {
		return fmt.Errorf("set window type: %w", err)
	}
	return nil
}

// ConfigureGeometry resolves spec against the screen and issues a single
// configure request carrying exactly the fields the spec set. Far-edge
// offsets read the current window size only when no explicit size was
// requested.
func (c *Connection) ConfigureGeometry(win xproto.Window, spec geometry.Spec) error {
	resolved, err := spec.Resolve(
		int(c.Screen.WidthInPixels),
		int(c.Screen.HeightInPixels),
		func() (int, int, error) { return c.WindowSize(win) },
	)
	if err != nil {
		return err
	}

	var mask uint16
	var values []uint32
	if resolved.HasPos {
		mask |= xproto.ConfigWindowX | xproto.ConfigWindowY
		values = append(values, uint32(int32(resolved.X)), uint32(int32(resolved.Y)))
	}
	if resolved.HasSize {
		mask |= xproto.ConfigWindowWidth | xproto.ConfigWindowHeight
		values = append(values, uint32(resolved.Width), uint32(resolved.Height))
	}
	if mask == 0 {
		return nil
	}
	err = xproto.ConfigureWindowChecked(c.XUtil.Conn(), win, mask, values).Check()
	if err != nil {
		return fmt.Errorf("configure geometry: %w", err)
	}
	return nil
}
