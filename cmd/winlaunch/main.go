package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winlaunch/internal/config"
	"github.com/1broseidon/winlaunch/internal/launch"
	"github.com/1broseidon/winlaunch/internal/x11"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "apply":
		os.Exit(runApply(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "-v", "--version":
		fmt.Println("winlaunch " + version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winlaunch <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run         Launch a command and style its window")
	fmt.Fprintln(w, "  apply       Apply hints to an existing window")
	fmt.Fprintln(w, "  windows     List managed windows")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config path      Print the config file location")
	fmt.Fprintln(w, "  config print     Print the effective configuration")
	fmt.Fprintln(w, "  config validate  Validate the configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp         Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "  version     Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winlaunch <command> --help' for command-specific options.")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  winlaunch config path")
		fmt.Fprintln(os.Stderr, "  winlaunch config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  winlaunch config validate [--path PATH]")
		return 2
	}

	switch args[0] {
	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winlaunch/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			var err error
			cfg, err = loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winlaunch/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

// newLogger builds the stderr logger; -verbose wins over the config level.
func newLogger(verbose bool, level string) *slog.Logger {
	lvl := config.ParseLogLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// connectAndRun opens the display, runs one launch, and disconnects.
func connectAndRun(cfg *config.Config, logger *slog.Logger, opts launch.Options) (*launch.Result, error) {
	display, xauthority, err := launch.ResolveDisplay(cfg.Display, cfg.XAuthority)
	if err != nil {
		return nil, err
	}
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return launch.NewRunner(conn, display, xauthority, logger).Run(opts)
}

// hintFlags are the styling flags shared by run and apply.
type hintFlags struct {
	icon        *string
	size        *string
	above       *bool
	undecorate  *bool
	typ         *string
	geometry    *string
	skipTaskbar *bool
}

func registerHintFlags(fs *flag.FlagSet) *hintFlags {
	return &hintFlags{
		icon:        fs.String("icon", "", "Path to an image file to install as the window icon"),
		size:        fs.String("size", "", "Size hint: max, min, or fullscreen"),
		above:       fs.Bool("above", false, "Keep the window above others"),
		undecorate:  fs.Bool("undecorate", false, "Remove title bar and borders"),
		typ:         fs.String("type", "", "Window type keyword (dialog, utility, splash, ...)"),
		geometry:    fs.String("geometry", "", "Geometry like 800x600+100+50; a - offset measures from the far edge"),
		skipTaskbar: fs.Bool("skip-taskbar", false, "Hide the window from the taskbar"),
	}
}

func (h *hintFlags) params() launch.HintParams {
	return launch.HintParams{
		IconPath:    *h.icon,
		Size:        *h.size,
		Above:       *h.above,
		Undecorate:  *h.undecorate,
		Type:        *h.typ,
		Geometry:    *h.geometry,
		SkipTaskbar: *h.skipTaskbar,
	}
}

// setFlags reports which flags were given on the command line, so profile
// and config values only fill what the user left untouched.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
