package entity

import (
	"sort"

	"github.com/milk9111/portalworks/ecs"
)

// Registry maps level names to the entities built for them. Handles are
// generational, so a lookup after the entity was destroyed fails instead of
// returning a recycled slot.
type Registry struct {
	w        *ecs.World
	byName   map[string]ecs.Entity
	portals  map[string]ecs.Entity
	plates   map[string]ecs.Entity
	actors   map[string]ecs.Entity
	switches map[string]ecs.Entity
}

func newRegistry(w *ecs.World) *Registry {
	return &Registry{
		w:        w,
		byName:   make(map[string]ecs.Entity),
		portals:  make(map[string]ecs.Entity),
		plates:   make(map[string]ecs.Entity),
		actors:   make(map[string]ecs.Entity),
		switches: make(map[string]ecs.Entity),
	}
}

func (r *Registry) add(group map[string]ecs.Entity, name string, e ecs.Entity) {
	r.byName[name] = e
	if group != nil {
		group[name] = e
	}
}

func (r *Registry) find(group map[string]ecs.Entity, name string) (ecs.Entity, bool) {
	if r == nil {
		return 0, false
	}
	e, ok := group[name]
	if !ok || !r.w.IsAlive(e) {
		return 0, false
	}
	return e, true
}

// Lookup finds any named entity.
func (r *Registry) Lookup(name string) (ecs.Entity, bool) {
	if r == nil {
		return 0, false
	}
	return r.find(r.byName, name)
}

func (r *Registry) Portal(name string) (ecs.Entity, bool) { return r.find(r.portals, name) }
func (r *Registry) Plate(name string) (ecs.Entity, bool)  { return r.find(r.plates, name) }
func (r *Registry) Actor(name string) (ecs.Entity, bool)  { return r.find(r.actors, name) }
func (r *Registry) Switch(name string) (ecs.Entity, bool) { return r.find(r.switches, name) }

// PortalNames returns the names of all portals, sorted.
func (r *Registry) PortalNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.portals))
	for name := range r.portals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MustLookup panics when name is unknown. Only meant for tests and tools.
func (r *Registry) MustLookup(name string) ecs.Entity {
	e, ok := r.Lookup(name)
	if !ok {
		panic("entity: unknown name " + name)
	}
	return e
}
