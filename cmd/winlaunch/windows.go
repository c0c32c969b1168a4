package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/winlaunch/internal/launch"
	"github.com/1broseidon/winlaunch/internal/x11"
)

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output the window list as JSON")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/winlaunch/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winlaunch windows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the windows the window manager is managing: id, pid, desktop,")
		fmt.Fprintln(os.Stderr, "WM_CLASS, and title.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "windows takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	display, _, err := launch.ResolveDisplay(cfg.Display, cfg.XAuthority)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()

	windows, err := conn.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(windows); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	printWindowTable(os.Stdout, windows, terminalWidth())
	return 0
}

// terminalWidth reports the stdout width, or 0 when stdout is not a
// terminal so piped output keeps full titles.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// printWindowTable renders the fixed columns and gives the title whatever
// width remains.
func printWindowTable(w io.Writer, windows []x11.WindowInfo, width int) {
	fmt.Fprintf(w, "%-10s %7s %5s %-24s %s\n", "WINDOW", "PID", "DESK", "CLASS", "TITLE")
	for _, win := range windows {
		class := win.Class
		if win.Instance != "" && win.Instance != win.Class {
			class = win.Instance + "." + win.Class
		}
		title := win.Title
		// Column widths above plus separators.
		if used := 10 + 1 + 7 + 1 + 5 + 1 + 24 + 1; width > used {
			title = truncate(title, width-used)
		}
		fmt.Fprintf(w, "0x%08x %7d %5d %-24.24s %s\n", win.ID, win.Pid, win.Desktop, class, title)
	}
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max <= 3 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
