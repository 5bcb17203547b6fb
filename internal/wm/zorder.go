package wm

// ActiveID returns the id of the active window, or "" if none.
func (m *Manager) ActiveID() string {
	for _, rec := range m.registry.live() {
		if rec.Active {
			return rec.ID
		}
	}
	return ""
}

// TopmostVisible returns the open window with the highest z-index.
func (m *Manager) TopmostVisible() (string, bool) {
	var top *Record
	for _, rec := range m.registry.live() {
		if !rec.Visible() {
			continue
		}
		if top == nil || rec.ZIndex > top.ZIndex {
			top = rec
		}
	}
	if top == nil {
		return "", false
	}
	return top.ID, true
}

// activate raises rec above every other window and makes it the sole
// active one. rec must be visible.
func (m *Manager) activate(rec *Record) {
	m.cancelFocus()
	if rec.Active && rec.ZIndex == m.zCounter {
		return
	}

	for _, other := range m.registry.live() {
		if other != rec && other.Active {
			other.Active = false
		}
	}
	m.zCounter++
	rec.ZIndex = m.zCounter
	rec.Active = true

	m.emit(Event{Kind: EventActivated, WindowID: rec.ID, State: rec.State.String(), ZIndex: rec.ZIndex})
	m.taskbarActive(rec.ID)
}

// deactivate clears rec's active flag and, when it held focus, hands focus
// to the topmost remaining window after the activate delay.
func (m *Manager) deactivate(rec *Record) {
	if !rec.Active {
		return
	}
	rec.Active = false
	m.emit(Event{Kind: EventDeactivated, WindowID: rec.ID, State: rec.State.String()})
	m.taskbarActive("")
	m.scheduleFocus()
}

// scheduleFocus arms the single pending auto-activation. It supersedes any
// earlier one.
func (m *Manager) scheduleFocus() {
	m.cancelFocus()
	m.focusGen++
	gen := m.focusGen
	m.focusTimer = m.opts.Clock.AfterFunc(m.opts.ActivateDelay, func() {
		m.opts.Post(func() {
			if gen != m.focusGen {
				return
			}
			m.focusTimer = nil
			m.deferred(m.focusTopmost)
		})
	})
}

func (m *Manager) cancelFocus() {
	if m.focusTimer != nil {
		m.focusTimer.Stop()
		m.focusTimer = nil
	}
	m.focusGen++
}

func (m *Manager) focusTopmost() {
	if m.ActiveID() != "" {
		return
	}
	id, ok := m.TopmostVisible()
	if !ok {
		return
	}
	rec, _ := m.registry.lookup(id)
	m.activate(rec)
}
