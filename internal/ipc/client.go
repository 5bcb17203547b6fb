package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/runtimepath"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPathOrEnv()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, &RemoteError{Code: resp.Code, Message: resp.Error}
	}

	return &resp, nil
}

func (c *Client) events(req *Request) ([]wm.Event, error) {
	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}
	var data EventsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	return data.Events, nil
}

// Execute sends a window manager command and returns the events it
// produced.
func (c *Client) Execute(cmd wm.Command) ([]wm.Event, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}
	return c.events(&Request{Command: CommandExecute, Payload: payload})
}

// Open opens a window.
func (c *Client) Open(id, title, icon string) ([]wm.Event, error) {
	return c.Execute(wm.Command{Kind: wm.CmdOpen, WindowID: id, Title: title, Icon: icon})
}

// Do applies a single-window command kind to id.
func (c *Client) Do(kind wm.CommandKind, id string) ([]wm.Event, error) {
	return c.Execute(wm.Command{Kind: kind, WindowID: id})
}

// Pointer sends a pointer command.
func (c *Client) Pointer(kind wm.CommandKind, id string, region wm.Region, h wm.Handle, p geometry.Point) ([]wm.Event, error) {
	return c.Execute(wm.Command{Kind: kind, WindowID: id, Region: region, Handle: h, Point: p})
}

// ActOnActive applies kind to whichever window has focus.
func (c *Client) ActOnActive(kind wm.CommandKind) ([]wm.Event, error) {
	payload, err := json.Marshal(ActivePayload{Kind: kind})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal active payload: %w", err)
	}
	return c.events(&Request{Command: CommandActive, Payload: payload})
}

// ListWindows retrieves every window, bottom to top.
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return &data, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
