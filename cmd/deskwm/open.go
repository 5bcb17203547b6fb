package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/1broseidon/deskwm/internal/ipc"
)

func runOpen(args []string) int {
	fs := newFlagSet("open", "open [--title TITLE] [--icon ICON] <id>")
	title := fs.StringP("title", "t", "", "Window title (prompted on a terminal when omitted)")
	icon := fs.StringP("icon", "i", "", "Icon reference for the taskbar entry")
	quiet := fs.BoolP("quiet", "q", false, "Do not print events")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	id := fs.Arg(0)
	if (id == "" || *title == "") && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := promptWindow(&id, title, icon); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	id = strings.TrimSpace(id)
	if id == "" {
		fmt.Fprintln(os.Stderr, "open requires a window id")
		fs.Usage()
		return 2
	}
	if *title == "" {
		*title = id
	}

	events, err := ipc.NewClient().Open(id, *title, *icon)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !*quiet {
		printEvents(os.Stdout, events)
	}
	return 0
}

// promptWindow asks for the fields not given on the command line.
func promptWindow(id, title, icon *string) error {
	var fields []huh.Field
	if *id == "" {
		fields = append(fields, huh.NewInput().
			Key("id").
			Title("Window ID").
			Description("Unique identifier used by close, minimize and friends").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("id is required")
				}
				return nil
			}).
			Value(id))
	}
	if *title == "" {
		fields = append(fields, huh.NewInput().
			Key("title").
			Title("Title").
			Description("Shown in the title bar and on the taskbar").
			Value(title))
	}
	if *icon == "" {
		fields = append(fields, huh.NewInput().
			Key("icon").
			Title("Icon").
			Description("Optional icon reference").
			Value(icon))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}
