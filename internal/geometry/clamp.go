package geometry

// Near reports whether a and b are within threshold units of each other.
func Near(a, b, threshold int) bool {
	return abs(a-b) <= threshold
}

// ClampSize raises s to at least min in both dimensions.
func ClampSize(s, min Size) Size {
	if s.Width < min.Width {
		s.Width = min.Width
	}
	if s.Height < min.Height {
		s.Height = min.Height
	}
	return s
}

// Place returns a rectangle of the requested size centered in the usable
// area of c. The size is first shrunk to fit the container and then raised
// back to min, so min always wins on tiny viewports.
func Place(size, min Size, c Container) Rect {
	w, h := size.Width, size.Height
	if c.Width > 0 && w > c.Width {
		w = c.Width
	}
	if usable := c.UsableHeight(); usable > 0 && h > usable {
		h = usable
	}
	s := ClampSize(Size{Width: w, Height: h}, min)

	x := (c.Width - s.Width) / 2
	y := (c.UsableHeight() - s.Height) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Rect{X: x, Y: y, Width: s.Width, Height: s.Height}
}

// KeepVisible moves r so that at least margin units of it stay inside the
// usable area horizontally, its top edge never leaves the container and at
// least margin units of it remain above the reserved bottom strip.
func KeepVisible(r Rect, c Container, margin int) Rect {
	r.X = clampInt(r.X, margin-r.Width, c.Width-margin)
	r.Y = clampInt(r.Y, 0, c.UsableHeight()-margin)
	return r
}

// SnapPosition applies edge and center snapping to r. For each axis the
// first matching rule wins, checked in the order left, right, top, bottom,
// horizontal center.
func SnapPosition(r Rect, c Container, threshold int) Rect {
	usable := c.UsableHeight()

	switch {
	case Near(r.X, 0, threshold):
		r.X = 0
	case Near(r.Right(), c.Width, threshold):
		r.X = c.Width - r.Width
	case Near(r.X+r.Width/2, c.Width/2, threshold):
		r.X = (c.Width - r.Width) / 2
	}

	switch {
	case Near(r.Y, 0, threshold):
		r.Y = 0
	case Near(r.Bottom(), usable, threshold):
		r.Y = usable - r.Height
	}

	return r
}

// SnapSize returns the common size closest to s when both dimensions are
// within threshold of it. Ties resolve to the earlier entry.
func SnapSize(s Size, common []Size, threshold int) (Size, bool) {
	best := -1
	bestDist := 0
	for i, c := range common {
		if !Near(s.Width, c.Width, threshold) || !Near(s.Height, c.Height, threshold) {
			continue
		}
		dist := abs(s.Width-c.Width) + abs(s.Height-c.Height)
		if best < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	if best < 0 {
		return s, false
	}
	return common[best], true
}

// Fit clamps r into the usable area of c without changing its size when it
// fits. Used when the viewport shrinks.
func Fit(r Rect, c Container) Rect {
	if r.Width > c.Width && c.Width > 0 {
		r.Width = c.Width
	}
	if usable := c.UsableHeight(); r.Height > usable && usable > 0 {
		r.Height = usable
	}
	r.X = clampInt(r.X, 0, c.Width-r.Width)
	r.Y = clampInt(r.Y, 0, c.UsableHeight()-r.Height)
	return r
}

// clampInt clamps v into [lo, hi]. When the range is empty lo wins.
func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
