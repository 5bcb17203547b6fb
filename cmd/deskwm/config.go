package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskwm/internal/config"
)

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  deskwm config validate [--path PATH]")
	fmt.Fprintln(os.Stderr, "  deskwm config print [--path PATH] [--defaults]")
	fmt.Fprintln(os.Stderr, "  deskwm config explain [--path PATH] <yaml.path>")
	fmt.Fprintln(os.Stderr, "  deskwm config init [--path PATH] [--force]")
}

func loadWithSources(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage()
		return 2
	}

	switch args[0] {
	case "validate":
		fs := newFlagSet("validate", "config validate [--path PATH]")
		path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if _, err := loadWithSources(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := newFlagSet("print", "config print [--path PATH] [--defaults]")
		path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadWithSources(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := newFlagSet("explain", "config explain [--path PATH] <yaml.path>")
		path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadWithSources(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	case "init":
		fs := newFlagSet("init", "config init [--path PATH] [--force]")
		path := fs.String("path", "", "Destination (default: ~/.config/deskwm/config.yaml)")
		force := fs.Bool("force", false, "Overwrite an existing file")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		dest := *path
		if dest == "" {
			var err error
			dest, err = config.DefaultConfigPathOrEnv()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		if _, err := os.Stat(dest); err == nil && !*force {
			fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", dest)
			return 1
		}
		if err := config.DefaultConfig().Save(dest); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("wrote %s\n", dest)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		printConfigUsage()
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
