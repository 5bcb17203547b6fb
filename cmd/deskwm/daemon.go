package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/hotkeys"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/x11"
)

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "daemon [--config PATH] [--display :N] [--xauthority PATH]")
	path := fs.String("config", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
	display := fs.String("display", "", "X display for viewport.source=x11 (overrides config and $DISPLAY)")
	xauth := fs.String("xauthority", "", "Xauthority file for the X display")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		log.Println("daemon takes no arguments")
		fs.Usage()
		return 2
	}

	loadConfig := func() (*config.Config, error) {
		return loadConfigFrom(*path)
	}
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (viewport: %s, log level: %s)", cfg.Viewport.Source, cfg.LogLevel)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.SlogLevel(cfg.LogLevel),
	}))

	opts := daemon.Options{Config: cfg, Logger: logger}

	var conn *x11.Connection
	if cfg.Viewport.Source == "x11" {
		d, xa := cfg.Display, cfg.XAuthority
		if *display != "" {
			d = *display
		}
		if *xauth != "" {
			xa = *xauth
		}
		env, err := x11.ResolveDisplay(os.Environ(), d, xa)
		if err != nil {
			log.Fatalf("Failed to resolve X display: %v", err)
		}
		conn, err = x11.NewConnection(env)
		if err != nil {
			log.Fatalf("Failed to connect to display: %v", err)
		}
		defer conn.Close()
		opts.Viewport = conn.Viewport
		log.Printf("Connected to X display %s", env.Display)
	}

	d, err := daemon.New(opts)
	if err != nil {
		log.Fatalf("Failed to start window manager: %v", err)
	}

	if conn != nil {
		handler := hotkeys.NewHandler(conn, d, logger)
		if err := handler.RegisterAll(cfg.Hotkeys); err != nil {
			log.Printf("Warning: some hotkeys could not be registered: %v", err)
		}
		go conn.EventLoop()
		defer conn.Quit()
	}

	ipcServer, err := ipc.NewServer(d, ipc.ServerOptions{
		LoadConfig: loadConfig,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				newCfg, err := loadConfig()
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				if err := d.Reload(ctx, newCfg); err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				log.Println("Config reloaded successfully")
			default:
				log.Println("Shutting down deskwm daemon...")
				cancel()
				return
			}
		}
	}()

	log.Println("deskwm daemon started successfully")
	if err := d.Run(ctx); err != nil {
		log.Printf("Daemon stopped with error: %v", err)
		return 1
	}
	return 0
}

// loadConfigFrom loads path, or the default location when path is empty.
func loadConfigFrom(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}
