package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type styleID uint8

const (
	styleDesktop styleID = iota
	styleFrame
	styleFrameActive
	styleGhost
	styleTitle
	styleTitleActive
	styleContent
	styleDim
	styleTaskbar
	styleTaskbarActive
	styleTaskbarMinimized
	styleStart
	styleOverlay
	styleCount
)

var palette = [styleCount]lipgloss.Style{
	styleDesktop:          lipgloss.NewStyle().Background(lipgloss.Color("23")),
	styleFrame:            lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("236")),
	styleFrameActive:      lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Background(lipgloss.Color("236")).Bold(true),
	styleGhost:            lipgloss.NewStyle().Foreground(lipgloss.Color("66")).Background(lipgloss.Color("23")),
	styleTitle:            lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238")),
	styleTitleActive:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Bold(true),
	styleContent:          lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")),
	styleDim:              lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")),
	styleTaskbar:          lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("235")),
	styleTaskbarActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Bold(true),
	styleTaskbarMinimized: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("235")).Italic(true),
	styleStart:            lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("29")).Bold(true),
	styleOverlay:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237")),
}

type cell struct {
	r rune
	s styleID
}

// canvas is a grid of styled runes. A zero rune is the trailing half of a
// wide character and is skipped when rendering.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int, fill styleID) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', s: fill}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s styleID) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, s: s}
}

func (c *canvas) fill(r cellRect, ch rune, s styleID) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			c.set(x, y, ch, s)
		}
	}
}

// text writes str from (x, y), truncated to width cells.
func (c *canvas) text(x, y int, str string, width int, s styleID) {
	if width <= 0 {
		return
	}
	str = ansi.Truncate(str, width, "…")
	for _, r := range str {
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		c.set(x, y, r, s)
		if w == 2 {
			c.set(x+1, y, 0, s)
		}
		x += w
	}
}

// render joins runs of equally styled cells into styled segments.
func (c *canvas) render() string {
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		cur := c.cells[y*c.w].s
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.s != cur {
				out.WriteString(palette[cur].Render(run.String()))
				run.Reset()
				cur = cl.s
			}
			if cl.r != 0 {
				run.WriteRune(cl.r)
			}
		}
		out.WriteString(palette[cur].Render(run.String()))
		run.Reset()
	}
	return out.String()
}
