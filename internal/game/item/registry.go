package item

import (
	"fmt"
	"sort"
)

// Registry holds item and set definitions indexed by ID.
type Registry struct {
	items map[string]*Def
	sets  map[string]*SetDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		items: make(map[string]*Def),
		sets:  make(map[string]*SetDef),
	}
}

// Register adds d.
//
// Postcondition: Item(d.ID) returns d; returns an error if d.ID is already registered.
func (r *Registry) Register(d *Def) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("item: Registry.Register: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// RegisterSet adds s.
//
// Postcondition: Set(s.ID) returns s; returns an error if s.ID is already registered.
func (r *Registry) RegisterSet(s *SetDef) error {
	if _, exists := r.sets[s.ID]; exists {
		return fmt.Errorf("item: Registry.RegisterSet: set ID %q already registered", s.ID)
	}
	r.sets[s.ID] = s
	return nil
}

// Item returns the definition for id.
func (r *Registry) Item(id string) (*Def, bool) {
	d, ok := r.items[id]
	return d, ok
}

// Set returns the set definition for id.
func (r *Registry) Set(id string) (*SetDef, bool) {
	s, ok := r.sets[id]
	return s, ok
}

// Items returns every definition sorted by ID.
func (r *Registry) Items() []*Def {
	out := make([]*Def, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of item definitions.
func (r *Registry) Len() int { return len(r.items) }
