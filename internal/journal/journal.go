// Package journal appends window manager events to a size-rotated log file.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/deskwm/internal/wm"
)

// Level defines the journal verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// eventLevel returns the level an event is journaled at.
func eventLevel(kind wm.EventKind) Level {
	switch kind {
	case wm.EventGeometryChanged, wm.EventAnimationStarted, wm.EventAnimationFinished,
		wm.EventAnimationCancelled, wm.EventSound, wm.EventInteractionStarted, wm.EventInteractionEnded:
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Config holds configuration for the journal.
type Config struct {
	Enabled   bool
	Level     Level
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Journal writes one line per event with file rotation.
type Journal struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	currentSize int64
	now         func() time.Time
}

// New opens the journal file. A disabled config yields a Journal that
// discards everything.
func New(cfg Config) (*Journal, error) {
	if !cfg.Enabled {
		return &Journal{config: cfg, now: time.Now}, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat journal: %w", err)
	}

	return &Journal{
		file:        f,
		config:      cfg,
		currentSize: stat.Size(),
		now:         time.Now,
	}, nil
}

// Event records a manager event. Suitable for wm.Manager.Subscribe.
func (j *Journal) Event(e wm.Event) {
	details := map[string]any{}
	if e.State != "" {
		details["state"] = e.State
	}
	if e.Geometry != nil {
		details["geometry"] = e.Geometry.String()
	}
	if e.ZIndex != 0 {
		details["z"] = e.ZIndex
	}
	if e.Animation != nil {
		details["animation"] = string(e.Animation.Kind)
	}
	if e.Sound != "" {
		details["sound"] = e.Sound
	}
	if e.Detail != "" {
		details["detail"] = e.Detail
	}
	stamp := e.Time
	if stamp.IsZero() {
		stamp = j.clock()
	}
	j.write(eventLevel(e.Kind), stamp, strings.ToUpper(string(e.Kind)), e.WindowID, details)
}

// CommandFailed records a rejected command.
func (j *Journal) CommandFailed(cmd wm.Command, err error) {
	j.write(LevelWarn, j.clock(), "COMMAND-FAILED", cmd.WindowID, map[string]any{
		"command": string(cmd.Kind),
		"error":   err.Error(),
	})
}

func (j *Journal) clock() time.Time {
	if j == nil || j.now == nil {
		return time.Now()
	}
	return j.now()
}

func (j *Journal) write(level Level, stamp time.Time, action, windowID string, details map[string]any) {
	if j == nil || !j.config.Enabled {
		return
	}
	if level < j.config.Level {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return
	}

	maxBytes := int64(j.config.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && j.currentSize >= maxBytes {
		if err := j.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "journal rotation failed: %v\n", err)
		}
		if j.file == nil {
			return
		}
	}

	var sb strings.Builder
	sb.WriteString(stamp.Format("2006-01-02 15:04:05.000"))
	sb.WriteString(" [")
	sb.WriteString(action)
	sb.WriteString("]")
	if windowID != "" {
		sb.WriteString(" window=")
		sb.WriteString(windowID)
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch val := details[k].(type) {
		case string:
			sb.WriteString(fmt.Sprintf(" %s=%q", k, val))
		default:
			sb.WriteString(fmt.Sprintf(" %s=%v", k, val))
		}
	}
	sb.WriteString("\n")

	n, err := j.file.WriteString(sb.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write journal entry: %v\n", err)
		return
	}
	j.currentSize += int64(n)
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// rotate shifts events.log -> events.log.1 -> events.log.2 ..., dropping
// the file past MaxFiles.
func (j *Journal) rotate() error {
	if j.file != nil {
		j.file.Close()
		j.file = nil
	}

	basePath := j.config.FilePath
	for i := j.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == j.config.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
		}
	}

	if j.config.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate journal: %w", err)
		}
	} else {
		os.Remove(basePath)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new journal: %w", err)
	}

	j.file = f
	j.currentSize = 0
	return nil
}

// ParseLevel converts a string to Level.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
