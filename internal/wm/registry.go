package wm

import (
	"fmt"

	"github.com/1broseidon/deskwm/internal/geometry"
)

// Registry maps window ids to records. It is the single source of truth for
// window state; every other component reads and writes through it.
type Registry struct {
	records map[string]*Record
	order   []string

	// onRemove runs for every record actually deleted.
	onRemove func(*Record)
}

// NewRegistry creates an empty registry. onRemove may be nil.
func NewRegistry(onRemove func(*Record)) *Registry {
	return &Registry{
		records:  make(map[string]*Record),
		onRemove: onRemove,
	}
}

// Register creates a Normal record with the given geometry.
func (r *Registry) Register(id, title, icon string, geom geometry.Rect) (*Record, error) {
	if _, exists := r.records[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	rec := &Record{
		ID:           id,
		Title:        title,
		Icon:         icon,
		Geometry:     geom,
		State:        StateNormal,
		RestoreState: StateNormal,
	}
	r.records[id] = rec
	r.order = append(r.order, id)
	return rec, nil
}

// Get returns a snapshot of the record for id.
func (r *Registry) Get(id string) (Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec.clone(), nil
}

// lookup returns the live record for id.
func (r *Registry) lookup(id string) (*Record, bool) {
	rec, ok := r.records[id]
	return rec, ok
}

// Remove deletes the record for id and tears down its taskbar entry.
// Removing an absent id is a no-op.
func (r *Registry) Remove(id string) bool {
	rec, ok := r.records[id]
	if !ok {
		return false
	}
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.onRemove != nil {
		r.onRemove(rec)
	}
	return true
}

// All returns snapshots of every record. Callers that need stacking order
// must sort by ZIndex (SortByZ).
func (r *Registry) All() []Record {
	out := make([]Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id].clone())
	}
	return out
}

// live returns the live records in registration order.
func (r *Registry) live() []*Record {
	out := make([]*Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out
}

// Len returns the number of records, including ones still closing.
func (r *Registry) Len() int {
	return len(r.records)
}
