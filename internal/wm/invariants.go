package wm

import (
	"fmt"

	"github.com/1broseidon/deskwm/internal/geometry"
)

// Validate checks the registry-wide invariants and returns every
// violation found. A healthy manager returns nil.
func (m *Manager) Validate() []error {
	var errs []error
	var active []string
	zSeen := make(map[int]string)

	for _, rec := range m.registry.live() {
		if rec.Active {
			active = append(active, rec.ID)
			if !rec.Visible() {
				errs = append(errs, fmt.Errorf("window %s is active while %s", rec.ID, rec.State))
			}
		}
		if rec.Visible() {
			if other, dup := zSeen[rec.ZIndex]; dup {
				errs = append(errs, fmt.Errorf("windows %s and %s share z-index %d", other, rec.ID, rec.ZIndex))
			}
			zSeen[rec.ZIndex] = rec.ID
		}
		if rec.State == StateNormal && belowMin(rec.Geometry, m.opts.MinSize) {
			errs = append(errs, fmt.Errorf("%w: window %s is %dx%d, below minimum %s",
				ErrInvalidGeometry, rec.ID, rec.Geometry.Width, rec.Geometry.Height, m.opts.MinSize))
		}
		if rec.State == StateMaximized && rec.SavedGeometry == nil {
			errs = append(errs, fmt.Errorf("maximized window %s has no saved geometry", rec.ID))
		}
		if rec.State != StateClosed && rec.TaskbarRef == "" {
			errs = append(errs, fmt.Errorf("window %s has no taskbar entry", rec.ID))
		}
	}
	if len(active) > 1 {
		errs = append(errs, fmt.Errorf("multiple active windows: %v", active))
	}
	return errs
}

func belowMin(r geometry.Rect, minSize geometry.Size) bool {
	return r.Width < minSize.Width || r.Height < minSize.Height
}

// enforceInvariants repairs what it can and logs every violation. It runs
// after each transition.
func (m *Manager) enforceInvariants() {
	var keep *Record
	for _, rec := range m.registry.live() {
		if rec.Active && !rec.Visible() {
			m.logger.Warn("repairing active flag on hidden window", "window", rec.ID, "state", rec.State.String())
			rec.Active = false
			continue
		}
		if rec.Active {
			if keep == nil || rec.ZIndex > keep.ZIndex {
				if keep != nil {
					keep.Active = false
				}
				keep = rec
			} else {
				rec.Active = false
			}
		}
		if rec.State == StateNormal && belowMin(rec.Geometry, m.opts.MinSize) {
			s := geometry.ClampSize(rec.Geometry.Size(), m.opts.MinSize)
			m.logger.Warn("repairing window geometry",
				"window", rec.ID,
				"error", fmt.Errorf("%w: %s below %s", ErrInvalidGeometry, rec.Geometry.Size(), m.opts.MinSize))
			rec.Geometry.Width, rec.Geometry.Height = s.Width, s.Height
		}
	}

	for _, err := range m.Validate() {
		m.logger.Debug("invariant violation", "error", err)
	}
}
