package x11

import (
	"fmt"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// WindowInfo describes one managed top-level window.
type WindowInfo struct {
	ID       uint32 `json:"id"`
	Pid      uint32 `json:"pid,omitempty"`
	Desktop  int    `json:"desktop"`
	Instance string `json:"instance,omitempty"`
	Class    string `json:"class,omitempty"`
	Title    string `json:"title,omitempty"`
}

// ListWindows returns the window manager's managed windows in client-list
// order. Windows missing individual properties are still listed with those
// fields blank. Desktop is -1 for sticky windows.
func (c *Connection) ListWindows() ([]WindowInfo, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	infos := make([]WindowInfo, 0, len(clients))
	for _, win := range clients {
		info := WindowInfo{ID: uint32(win), Desktop: -1}
		if pid, ok := c.WindowPID(win); ok {
			info.Pid = pid
		}
		if wmClass, err := icccm.WmClassGet(c.XUtil, win); err == nil && wmClass != nil {
			info.Instance = wmClass.Instance
			info.Class = wmClass.Class
		}
		if title, ok := c.WindowName(win); ok {
			info.Title = title
		}
		// 0xFFFFFFFF means the window is on all desktops (sticky)
		if desktop, err := ewmh.WmDesktopGet(c.XUtil, win); err == nil && desktop != 0xFFFFFFFF {
			info.Desktop = int(desktop)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
