package launch

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winlaunch/internal/geometry"
	"github.com/1broseidon/winlaunch/internal/icon"
	"github.com/1broseidon/winlaunch/internal/x11"
)

// HintParams is the string-level form of a hint request as it arrives from
// flags, config profiles, or MCP tool arguments.
type HintParams struct {
	IconPath    string
	Size        string
	Above       bool
	Undecorate  bool
	Type        string
	Geometry    string
	SkipTaskbar bool
}

// HintSet loads and validates every requested hint. Anything wrong here is
// an input error the caller reports before touching the display.
func (p HintParams) HintSet() (x11.HintSet, error) {
	var hints x11.HintSet

	if p.IconPath != "" {
		img, err := icon.Load(p.IconPath)
		if err != nil {
			return x11.HintSet{}, err
		}
		hints.Icon = img
	}

	mode, err := x11.ParseSizeMode(p.Size)
	if err != nil {
		return x11.HintSet{}, err
	}
	hints.Size = mode

	if p.Type != "" {
		if _, err := x11.WindowTypeAtomName(p.Type); err != nil {
			return x11.HintSet{}, err
		}
		hints.Type = p.Type
	}

	if p.Geometry != "" {
		spec, err := geometry.Parse(p.Geometry)
		if err != nil {
			return x11.HintSet{}, err
		}
		hints.Geometry = &spec
	}

	hints.Above = p.Above
	hints.Undecorate = p.Undecorate
	hints.SkipTaskbar = p.SkipTaskbar
	return hints, nil
}

// ParseWindowID accepts a decimal or 0x-prefixed hexadecimal window id, the
// two forms wmctrl and xwininfo print.
func ParseWindowID(s string) (xproto.Window, error) {
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	if id == 0 {
		return 0, errors.New("window id must be nonzero")
	}
	return xproto.Window(id), nil
}
