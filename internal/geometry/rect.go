package geometry

import "fmt"

// Rect represents a window position and size in container units.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Point is a pointer position in container units.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Container describes the desktop viewport. ReservedBottom is the strip
// occupied by the taskbar.
type Container struct {
	Width          int `json:"width"`
	Height         int `json:"height"`
	ReservedBottom int `json:"reserved_bottom"`
}

// UsableHeight returns the height above the reserved bottom strip.
func (c Container) UsableHeight() int {
	h := c.Height - c.ReservedBottom
	if h < 0 {
		return 0
	}
	return h
}

// Usable returns the area windows may be maximized into.
func (c Container) Usable() Rect {
	return Rect{X: 0, Y: 0, Width: c.Width, Height: c.UsableHeight()}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains checks if a point is within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Sub returns the vector p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseSize parses "WIDTHxHEIGHT".
func ParseSize(s string) (Size, error) {
	var size Size
	if _, err := fmt.Sscanf(s, "%dx%d", &size.Width, &size.Height); err != nil {
		return Size{}, fmt.Errorf("invalid size %q: expected WIDTHxHEIGHT", s)
	}
	if size.Width <= 0 || size.Height <= 0 {
		return Size{}, fmt.Errorf("invalid size %q: dimensions must be positive", s)
	}
	return size, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
