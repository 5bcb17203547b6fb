package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/tui"
)

func runTUI(args []string) int {
	fs := newFlagSet("tui", "tui [--config PATH] [--log-file PATH]")
	path := fs.String("config", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
	logFile := fs.String("log-file", "", "Write debug logs to this file")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, err := loadConfigFrom(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := slog.New(slog.DiscardHandler)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: config.SlogLevel(cfg.LogLevel)}))
	}

	if err := tui.Run(tui.Options{Config: cfg, Logger: logger}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
