// Package x11 reads the desktop geometry from a running X server.
package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to the display described by env and initializes
// RandR and keybind.
func NewConnection(env DisplayEnv) (*Connection, error) {
	if env.XAuthority != "" {
		// xgb reads the cookie location from the environment.
		if err := os.Setenv("XAUTHORITY", env.XAuthority); err != nil {
			return nil, fmt.Errorf("set XAUTHORITY: %w", err)
		}
	}

	xu, err := xgbutil.NewConnDisplay(env.Display)
	if err != nil {
		return nil, fmt.Errorf("connect to X display %q: %w", env.Display, err)
	}

	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops EventLoop.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
