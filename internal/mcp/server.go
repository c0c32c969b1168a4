// Package mcp exposes winlaunch over the Model Context Protocol so agent
// tooling can launch programs and style their windows without shelling out.
package mcp

import (
	"context"
	"log/slog"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winlaunch/internal/config"
	"github.com/1broseidon/winlaunch/internal/launch"
	"github.com/1broseidon/winlaunch/internal/x11"
)

const (
	ServerName    = "winlaunch"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for launching and styling X11 windows.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	logger    *slog.Logger

	// runFn and listFn are swapped in tests to avoid a live display.
	runFn  func(opts launch.Options) (*launch.Result, error)
	listFn func() ([]x11.WindowInfo, error)
}

// NewServer creates an MCP server over the loaded configuration. Every tool
// call opens its own X connection, so a restarted X server does not wedge a
// long-lived MCP session.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: config.ParseLogLevel(cfg.LogLevel),
		})),
	}
	s.runFn = s.runOnce
	s.listFn = s.listOnce

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_window",
		Description: "Launch a program and style its window once it appears: icon, size (max/min/fullscreen), keep-above, decorations, window type, geometry, taskbar visibility. The window is matched by process id by default; pass class or name when the program hands its window to another process (single-instance browsers, flatpaks). Hints that fail are reported as warnings, not errors. Returns the pid, the window id, and which hints were applied.",
	}, s.handleLaunchWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_hints",
		Description: "Apply hints to a window that already exists, selected by window id, WM_CLASS, or exact title. Class and name selectors wait up to wait_seconds for a match. Hint failures are reported as warnings; the remaining hints still apply.",
	}, s.handleApplyHints)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows the window manager is managing: id, pid, desktop, WM_CLASS instance and class, and title. Useful for picking apply_hints targets.",
	}, s.handleListWindows)
}

// runOnce opens a connection, runs one launch, and disconnects.
func (s *Server) runOnce(opts launch.Options) (*launch.Result, error) {
	display, xauthority, err := launch.ResolveDisplay(s.config.Display, s.config.XAuthority)
	if err != nil {
		return nil, err
	}
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return launch.NewRunner(conn, display, xauthority, s.logger).Run(opts)
}

func (s *Server) listOnce() ([]x11.WindowInfo, error) {
	display, _, err := launch.ResolveDisplay(s.config.Display, s.config.XAuthority)
	if err != nil {
		return nil, err
	}
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return conn.ListWindows()
}
