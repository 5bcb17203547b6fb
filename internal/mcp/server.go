// Package mcp exposes the desktop to MCP clients. Tools forward to a
// running daemon over the IPC socket.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/wm"
)

const (
	ServerName    = "deskwm"
	ServerVersion = "0.1.0"
)

// WindowClient is the daemon connection the tools use. *ipc.Client
// implements it.
type WindowClient interface {
	Execute(cmd wm.Command) ([]wm.Event, error)
	ActOnActive(kind wm.CommandKind) ([]wm.Event, error)
	ListWindows() (*ipc.WindowsData, error)
	GetStatus() (*ipc.StatusData, error)
}

var _ WindowClient = (*ipc.Client)(nil)

// Server is the MCP server for deskwm.
type Server struct {
	mcpServer *mcpsdk.Server
	client    WindowClient
	logger    *slog.Logger
}

// NewServer creates a new MCP server backed by client.
func NewServer(client WindowClient, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		client: client,
		logger: logger.With("component", "mcp"),
	}
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
		Name:        "open_window",
		Description: "Open a new window with a unique id. It is placed centered at the default size, gets a taskbar entry and becomes the active window. Fails if the id is already open.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. It animates out and is removed along with its taskbar entry. Defaults to the active window.",
	}, s.handleClose)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window into its taskbar entry. Defaults to the active window. Minimizing an already minimized window does nothing.",
	}, s.handleMinimize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Toggle a window between normal and maximized. A maximized window fills the desktop above the taskbar; toggling again returns it to its previous rectangle. Defaults to the active window.",
	}, s.handleMaximize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a minimized window to the state it was minimized from and activate it.",
	}, s.handleRestore)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Bring a window to the front and give it focus.",
	}, s.handleActivate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_window",
		Description: "Behave like a taskbar click: restore a minimized window, minimize the active window, otherwise activate it.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_all_windows",
		Description: "Remove every window immediately without close animations.",
	}, s.handleCloseAll)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List windows bottom to top with their state, geometry and z-index.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_status",
		Description: "Report the window count, active window, pointer interaction, running animations and viewport size.",
	}, s.handleStatus)
}

// act sends kind for id, or for the active window when id is empty.
func (s *Server) act(kind wm.CommandKind, id string) (ActionOutput, error) {
	var (
		events []wm.Event
		err    error
	)
	if id == "" {
		events, err = s.client.ActOnActive(kind)
	} else {
		events, err = s.client.Execute(wm.Command{Kind: kind, WindowID: id})
	}
	if err != nil {
		s.logger.Debug("tool command failed", "kind", kind, "window_id", id, "error", err)
		return ActionOutput{}, fmt.Errorf("%s: %w", kind, err)
	}
	if id == "" {
		for _, e := range events {
			if e.WindowID != "" {
				id = e.WindowID
				break
			}
		}
	}
	return ActionOutput{WindowID: id, Events: eventNames(events)}, nil
}
