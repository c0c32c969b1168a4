// Package geometry parses the compact window geometry mini-language
// ("800x600+10-20") and resolves it against screen and window extents.
package geometry

import (
	"errors"
	"fmt"
	"strconv"
)

// Size is an explicit width/height request in pixels.
type Size struct {
	Width  int
	Height int
}

// Offset places the window on each axis. FarX/FarY select measuring the
// offset from the right/bottom screen edge instead of the left/top.
type Offset struct {
	X    int
	Y    int
	FarX bool
	FarY bool
}

// Spec is a parsed geometry request. Either block may be absent.
type Spec struct {
	Size   *Size
	Offset *Offset
}

// Parse parses a geometry string of the form [<w>x<h>][<sign><x><sign><y>]
// where sign is '+' (offset from the near edge) or '-' (offset from the far
// edge). The size block comes first, the blocks are concatenated without a
// separator, and the whole string must be consumed. Numbers are unsigned
// decimals bounded to 16 bits, so negative and oversized values never parse.
func Parse(s string) (Spec, error) {
	var spec Spec
	rest := s

	if rest != "" && rest[0] != '+' && rest[0] != '-' {
		w, r, err := parseNumber(rest)
		if err != nil {
			return Spec{}, fmt.Errorf("geometry %q: width: %w", s, err)
		}
		if r == "" || (r[0] != 'x' && r[0] != 'X') {
			return Spec{}, fmt.Errorf("geometry %q: expected 'x' after width", s)
		}
		h, r2, err := parseNumber(r[1:])
		if err != nil {
			return Spec{}, fmt.Errorf("geometry %q: height: %w", s, err)
		}
		spec.Size = &Size{Width: w, Height: h}
		rest = r2
	}

	if rest != "" {
		farX, x, r, err := parseOffset(rest)
		if err != nil {
			return Spec{}, fmt.Errorf("geometry %q: x offset: %w", s, err)
		}
		farY, y, r, err := parseOffset(r)
		if err != nil {
			return Spec{}, fmt.Errorf("geometry %q: y offset: %w", s, err)
		}
		if r != "" {
			return Spec{}, fmt.Errorf("geometry %q: trailing %q", s, r)
		}
		spec.Offset = &Offset{X: x, Y: y, FarX: farX, FarY: farY}
	}

	return spec, nil
}

func parseNumber(s string) (int, string, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", errors.New("expected a decimal number")
	}
	n, err := strconv.ParseUint(s[:i], 10, 16)
	if err != nil {
		return 0, "", fmt.Errorf("value %s out of range", s[:i])
	}
	return int(n), s[i:], nil
}

func parseOffset(s string) (far bool, n int, rest string, err error) {
	if s == "" {
		return false, 0, "", errors.New("expected '+' or '-'")
	}
	switch s[0] {
	case '+':
		far = false
	case '-':
		far = true
	default:
		return false, 0, "", fmt.Errorf("expected '+' or '-', got %q", s[0])
	}
	n, rest, err = parseNumber(s[1:])
	return far, n, rest, err
}

// Resolved carries the final configure values computed from a Spec.
type Resolved struct {
	HasSize bool
	Width   int
	Height  int
	HasPos  bool
	X       int
	Y       int
}

// Resolve computes final coordinates against the screen. A far-edge offset
// becomes screen extent minus offset minus window extent, where the window
// extent is the requested size when present. winSize supplies the current
// window size otherwise; it is called at most once and its result is reused
// when both axes need it.
func (s Spec) Resolve(screenW, screenH int, winSize func() (int, int, error)) (Resolved, error) {
	var res Resolved
	if s.Size != nil {
		res.HasSize = true
		res.Width = s.Size.Width
		res.Height = s.Size.Height
	}
	if s.Offset == nil {
		return res, nil
	}

	var curW, curH int
	fetched := false
	fetch := func() error {
		if fetched {
			return nil
		}
		w, h, err := winSize()
		if err != nil {
			return fmt.Errorf("query window size: %w", err)
		}
		curW, curH, fetched = w, h, true
		return nil
	}

	x := s.Offset.X
	if s.Offset.FarX {
		w := 0
		if s.Size != nil {
			w = s.Size.Width
		} else {
			if err := fetch(); err != nil {
				return Resolved{}, err
			}
			w = curW
		}
		x = screenW - s.Offset.X - w
	}

	y := s.Offset.Y
	if s.Offset.FarY {
		h := 0
		if s.Size != nil {
			h = s.Size.Height
		} else {
			if err := fetch(); err != nil {
				return Resolved{}, err
			}
			h = curH
		}
		y = screenH - s.Offset.Y - h
	}

	res.HasPos = true
	res.X = x
	res.Y = y
	return res, nil
}
