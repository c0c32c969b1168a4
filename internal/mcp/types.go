package mcp

import "github.com/1broseidon/winlaunch/internal/x11"

// LaunchWindowInput is the input for the launch_window tool.
type LaunchWindowInput struct {
	Command     string   `json:"command,omitempty" jsonschema:"Program to launch, resolved via PATH. Required unless the profile provides one."`
	Args        []string `json:"args,omitempty" jsonschema:"Arguments passed to the program"`
	Profile     string   `json:"profile,omitempty" jsonschema:"Profile name from the config file; its fields fill in anything not set explicitly"`
	Icon        string   `json:"icon,omitempty" jsonschema:"Path to an image file to install as the window icon"`
	Size        string   `json:"size,omitempty" jsonschema:"Size hint: max, min, or fullscreen"`
	Above       *bool    `json:"above,omitempty" jsonschema:"Keep the window above others"`
	Undecorate  *bool    `json:"undecorate,omitempty" jsonschema:"Ask the window manager to drop title bar and borders"`
	Type        string   `json:"type,omitempty" jsonschema:"Window type keyword: normal, dialog, dock, desktop, toolbar, menu, utility, splash, or notification"`
	Geometry    string   `json:"geometry,omitempty" jsonschema:"Geometry like 800x600+100+50; a - sign measures the offset from the right or bottom edge"`
	SkipTaskbar *bool    `json:"skip_taskbar,omitempty" jsonschema:"Hide the window from the taskbar"`
	Class       string   `json:"class,omitempty" jsonschema:"Match the window by WM_CLASS segment instead of process id"`
	Name        string   `json:"name,omitempty" jsonschema:"Match the window by exact title instead of process id"`
	Strategy    string   `json:"strategy,omitempty" jsonschema:"Discovery strategy: poll or reparent (default from config)"`
	WaitSeconds int      `json:"wait_seconds,omitempty" jsonschema:"Seconds to wait for the window to appear (default from config)"`
}

// LaunchWindowOutput is the output for the launch_window tool.
type LaunchWindowOutput struct {
	Pid      int      `json:"pid"`
	Window   uint32   `json:"window,omitempty"`
	TimedOut bool     `json:"timed_out,omitempty"`
	Applied  []string `json:"applied,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ApplyHintsInput is the input for the apply_hints tool.
type ApplyHintsInput struct {
	Window      string `json:"window,omitempty" jsonschema:"Window id, decimal or 0x-prefixed hex (as printed by list_windows, wmctrl, or xwininfo)"`
	Class       string `json:"class,omitempty" jsonschema:"Select the window by WM_CLASS segment"`
	Name        string `json:"name,omitempty" jsonschema:"Select the window by exact title"`
	Icon        string `json:"icon,omitempty" jsonschema:"Path to an image file to install as the window icon"`
	Size        string `json:"size,omitempty" jsonschema:"Size hint: max, min, or fullscreen"`
	Above       bool   `json:"above,omitempty" jsonschema:"Keep the window above others"`
	Undecorate  bool   `json:"undecorate,omitempty" jsonschema:"Ask the window manager to drop title bar and borders"`
	Type        string `json:"type,omitempty" jsonschema:"Window type keyword: normal, dialog, dock, desktop, toolbar, menu, utility, splash, or notification"`
	Geometry    string `json:"geometry,omitempty" jsonschema:"Geometry like 800x600+100+50; a - sign measures the offset from the right or bottom edge"`
	SkipTaskbar bool   `json:"skip_taskbar,omitempty" jsonschema:"Hide the window from the taskbar"`
	WaitSeconds int    `json:"wait_seconds,omitempty" jsonschema:"Seconds to wait for a class or name match to appear (default from config)"`
}

// ApplyHintsOutput is the output for the apply_hints tool.
type ApplyHintsOutput struct {
	Window   uint32   `json:"window"`
	Applied  []string `json:"applied,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []x11.WindowInfo `json:"windows"`
}
