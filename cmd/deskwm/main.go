package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/wm"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "close", "minimize", "maximize", "restore", "activate", "toggle":
		os.Exit(runWindowAction(os.Args[1], os.Args[2:]))
	case "closeall":
		os.Exit(runCloseAll(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: deskwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the deskwm daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  list                List windows bottom to top")
	fmt.Fprintln(w, "  reload              Reload configuration in the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <id>           Open a window")
	fmt.Fprintln(w, "  close [id]          Close a window (default: active)")
	fmt.Fprintln(w, "  minimize [id]       Minimize a window (default: active)")
	fmt.Fprintln(w, "  maximize [id]       Toggle maximize (default: active)")
	fmt.Fprintln(w, "  restore <id>        Restore a minimized window")
	fmt.Fprintln(w, "  activate <id>       Focus and raise a window")
	fmt.Fprintln(w, "  toggle <id>         Taskbar-style toggle")
	fmt.Fprintln(w, "  closeall            Remove every window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config init         Write the default configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the terminal desktop")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskwm <command> --help' for command-specific options.")
}

// newFlagSet returns a flag set that prints usage to stderr.
func newFlagSet(name, usage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm "+usage)
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags returns the exit code to use when parsing stops the command.
func parseFlags(fs *pflag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

// actionKinds maps CLI verbs to commands. requireID marks verbs that
// cannot default to the active window.
var actionKinds = map[string]struct {
	kind      wm.CommandKind
	requireID bool
}{
	"close":    {wm.CmdClose, false},
	"minimize": {wm.CmdMinimize, false},
	"maximize": {wm.CmdToggleMaximize, false},
	"restore":  {wm.CmdRestore, true},
	"activate": {wm.CmdActivate, true},
	"toggle":   {wm.CmdToggle, true},
}

func runWindowAction(verb string, args []string) int {
	action := actionKinds[verb]
	usage := verb + " [id]"
	if action.requireID {
		usage = verb + " <id>"
	}
	fs := newFlagSet(verb, usage)
	quiet := fs.BoolP("quiet", "q", false, "Do not print events")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 || (action.requireID && fs.NArg() == 0) {
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	var (
		events []wm.Event
		err    error
	)
	if id := fs.Arg(0); id != "" {
		events, err = client.Do(action.kind, id)
	} else {
		events, err = client.ActOnActive(action.kind)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !*quiet {
		printEvents(os.Stdout, events)
	}
	return 0
}

func runCloseAll(args []string) int {
	fs := newFlagSet("closeall", "closeall")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "closeall takes no arguments")
		return 2
	}
	events, err := ipc.NewClient().Execute(wm.Command{Kind: wm.CmdCloseAll})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printEvents(os.Stdout, events)
	return 0
}

func runList(args []string) int {
	fs := newFlagSet("list", "list [--json]")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	printWindows(os.Stdout, data.Windows)
	return 0
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "status [--json]")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("active_window:  %s\n", orDash(status.ActiveID))
	fmt.Printf("interaction:    %s\n", status.Interaction)
	fmt.Printf("animations:     %d\n", status.Animations)
	fmt.Printf("viewport:       %dx%d (taskbar %d)\n", status.Container.Width, status.Container.Height, status.Container.ReservedBottom)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runReload(args []string) int {
	fs := newFlagSet("reload", "reload")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func printEvents(w io.Writer, events []wm.Event) {
	for _, e := range events {
		line := e.String()
		switch {
		case e.Geometry != nil:
			line += " " + e.Geometry.String()
		case e.Sound != "":
			line += " " + e.Sound
		case e.Detail != "":
			line += " " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

func printWindows(w io.Writer, windows []wm.Record) {
	if len(windows) == 0 {
		fmt.Fprintln(w, "no windows")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATE\tZ\tGEOMETRY\t")
	for _, r := range windows {
		id := r.ID
		if r.Active {
			id = "*" + id
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t\n", id, r.Title, r.State, r.ZIndex, r.Geometry)
	}
	tw.Flush()
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
