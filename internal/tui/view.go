package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/deskwm/internal/wm"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	cv := newCanvas(m.width, m.height, styleDesktop)
	for _, b := range m.boxes() {
		drawBox(cv, b)
	}
	m.drawTaskbar(cv)
	if m.help.ShowAll {
		m.drawHelp(cv)
	}

	lines := strings.SplitN(cv.render(), "\n", desktopTop+1)
	return lipgloss.JoinVertical(lipgloss.Left, m.statusBar(), lines[len(lines)-1])
}

func drawBox(cv *canvas, b box) {
	c := b.Cells
	if b.ghost() {
		outline(cv, c, styleGhost)
		return
	}

	frame, title := styleFrame, styleTitle
	if b.Active {
		frame, title = styleFrameActive, styleTitleActive
	}

	cv.fill(c, ' ', styleContent)
	outline(cv, c, frame)

	// Title bar replaces the top border.
	cv.fill(cellRect{X: c.X, Y: c.Y, W: c.W, H: 1}, ' ', title)
	titleWidth := c.W - 2
	if c.W >= controlsMin {
		titleWidth = c.W - 9
		cv.set(controlCol(c, wm.CmdMinimize), c.Y, '_', title)
		cv.set(controlCol(c, wm.CmdToggleMaximize), c.Y, '□', title)
		cv.set(controlCol(c, wm.CmdClose), c.Y, '×', title)
	}
	cv.text(c.X+1, c.Y, b.Title, titleWidth, title)

	if c.H > 2 {
		info := fmt.Sprintf("%s · %s · %s", b.ID, b.State, b.Frame.Rect.Size())
		cv.text(c.X+2, c.Y+1, info, c.W-4, styleDim)
	}
}

func outline(cv *canvas, c cellRect, s styleID) {
	right, bottom := c.X+c.W-1, c.Y+c.H-1
	for x := c.X + 1; x < right; x++ {
		cv.set(x, c.Y, '─', s)
		cv.set(x, bottom, '─', s)
	}
	for y := c.Y + 1; y < bottom; y++ {
		cv.set(c.X, y, '│', s)
		cv.set(right, y, '│', s)
	}
	cv.set(c.X, c.Y, '┌', s)
	cv.set(right, c.Y, '┐', s)
	cv.set(c.X, bottom, '└', s)
	cv.set(right, bottom, '┘', s)
}

func (m *Model) drawTaskbar(cv *canvas) {
	row := m.height - 1
	cv.fill(cellRect{X: 0, Y: row, W: m.width, H: 1}, ' ', styleTaskbar)

	start := m.scale.cells(m.taskbar.StartRect())
	cv.fill(cellRect{X: start.X, Y: row, W: start.W, H: 1}, ' ', styleStart)
	cv.text(start.X+1, row, "+ new", start.W-1, styleStart)

	states := make(map[string]wm.State)
	for _, r := range m.manager.Windows() {
		states[r.ID] = r.State
	}
	for _, e := range m.taskbar.Entries() {
		c := m.scale.cells(e.Rect)
		s := styleTaskbar
		switch {
		case e.Active:
			s = styleTaskbarActive
		case states[e.WindowID] == wm.StateMinimized:
			s = styleTaskbarMinimized
		}
		cv.fill(cellRect{X: c.X, Y: row, W: c.W - 1, H: 1}, ' ', s)
		label := e.Title
		if e.Icon != "" {
			label = e.Icon + " " + label
		}
		cv.text(c.X+1, row, label, c.W-2, s)
	}
}

func (m *Model) drawHelp(cv *canvas) {
	lines := strings.Split(ansi.Strip(m.help.View(m.keys)), "\n")
	w := 0
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	area := cellRect{X: 1, Y: desktopTop, W: w + 2, H: len(lines)}
	cv.fill(area, ' ', styleOverlay)
	for i, l := range lines {
		cv.text(area.X+1, area.Y+i, l, w, styleOverlay)
	}
}

var (
	statusStyle    = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")).Padding(0, 1)
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func (m *Model) statusBar() string {
	open := 0
	for _, r := range m.manager.Windows() {
		if r.State.IsOpen() {
			open++
		}
	}
	parts := []string{"deskwm", fmt.Sprintf("%d windows", open)}
	if id := m.manager.ActiveID(); id != "" {
		parts = append(parts, "active:"+id)
	}
	if kind, id := m.manager.Interaction(); kind != wm.InteractionIdle {
		parts = append(parts, kind.String()+":"+id)
	}
	if m.lastEvent != "" {
		parts = append(parts, m.lastEvent)
	}
	status := strings.Join(parts, "  ")
	if m.lastErr != "" {
		status += "  " + statusErrStyle.Render(m.lastErr)
	}
	if !m.help.ShowAll {
		status += "  " + m.help.View(m.keys)
	}
	status = ansi.Truncate(status, max(m.width-2, 0), "…")
	return statusStyle.Width(m.width).MaxHeight(1).Render(status)
}
