package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/runtimepath"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Backend is the window manager host the server forwards requests to.
// *daemon.Daemon implements it.
type Backend interface {
	Execute(ctx context.Context, cmd wm.Command) ([]wm.Event, error)
	ActOnActive(ctx context.Context, kind wm.CommandKind) ([]wm.Event, error)
	Snapshot(ctx context.Context) (daemon.Snapshot, error)
	Reload(ctx context.Context, cfg *config.Config) error
	Uptime() time.Duration
}

var _ Backend = (*daemon.Daemon)(nil)

// ServerOptions configures a Server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPathOrEnv.
	SocketPath string
	// LoadConfig is used by RELOAD. Defaults to config.Load.
	LoadConfig     func() (*config.Config, error)
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	backend      Backend
	loadConfig   func() (*config.Config, error)
	timeout      time.Duration
	logger       *slog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(backend Backend, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPathOrEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	// Remove a stale socket left by a crashed daemon.
	os.Remove(socketPath)

	loadConfig := opts.LoadConfig
	if loadConfig == nil {
		loadConfig = config.Load
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		socketPath: socketPath,
		backend:    backend,
		loadConfig: loadConfig,
		timeout:    timeout,
		logger:     logger.With("component", "ipc"),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one newline-terminated JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout + time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(CodeBadRequest, fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.writeResponse(conn, s.handleCommand(ctx, req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandExecute:
		return s.handleExecute(ctx, req.Payload)
	case CommandActive:
		return s.handleActive(ctx, req.Payload)
	case CommandListWindows:
		return s.handleListWindows(ctx)
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandReload:
		return s.handleReload(ctx)
	default:
		return NewErrorResponse(CodeBadRequest, fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleExecute(ctx context.Context, payload json.RawMessage) *Response {
	var cmd wm.Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return NewErrorResponse(CodeBadRequest, fmt.Sprintf("Invalid command payload: %v", err))
	}

	events, err := s.backend.Execute(ctx, cmd)
	if err != nil {
		s.logger.Debug("command rejected", "kind", cmd.Kind, "window_id", cmd.WindowID, "error", err)
		return NewErrorResponse(ErrorCode(err), err.Error())
	}
	s.logger.Debug("command applied", "kind", cmd.Kind, "window_id", cmd.WindowID, "events", len(events))
	return okOrInternal(EventsData{Events: events})
}

func (s *Server) handleActive(ctx context.Context, payload json.RawMessage) *Response {
	var req ActivePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(CodeBadRequest, fmt.Sprintf("Invalid active payload: %v", err))
	}
	if req.Kind == "" {
		return NewErrorResponse(CodeBadRequest, "kind is required")
	}

	events, err := s.backend.ActOnActive(ctx, req.Kind)
	if err != nil {
		return NewErrorResponse(ErrorCode(err), err.Error())
	}
	return okOrInternal(EventsData{Events: events})
}

func (s *Server) handleListWindows(ctx context.Context) *Response {
	snap, err := s.backend.Snapshot(ctx)
	if err != nil {
		return NewErrorResponse(ErrorCode(err), err.Error())
	}
	return okOrInternal(WindowsData{Windows: snap.Windows, ActiveID: snap.ActiveID})
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	snap, err := s.backend.Snapshot(ctx)
	if err != nil {
		return NewErrorResponse(ErrorCode(err), err.Error())
	}

	open := 0
	for _, w := range snap.Windows {
		if w.State.IsOpen() {
			open++
		}
	}

	return okOrInternal(StatusData{
		WindowCount:   open,
		ActiveID:      snap.ActiveID,
		Interaction:   snap.Interaction,
		Animations:    snap.Animations,
		Container:     snap.Container,
		UptimeSeconds: int64(s.backend.Uptime().Seconds()),
		DaemonRunning: true,
	})
}

func (s *Server) handleReload(ctx context.Context) *Response {
	s.logger.Info("received RELOAD")

	cfg, err := s.loadConfig()
	if err != nil {
		return NewErrorResponse(CodeBadRequest, fmt.Sprintf("Failed to reload config: %v", err))
	}
	if err := s.backend.Reload(ctx, cfg); err != nil {
		return NewErrorResponse(ErrorCode(err), fmt.Sprintf("Failed to apply config: %v", err))
	}

	s.logger.Info("config reloaded")
	return okOrInternal(nil)
}

func okOrInternal(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(CodeInternal, err.Error())
	}
	return resp
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
