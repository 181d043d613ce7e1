package system

import (
	"sort"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

// ZoneSystem recomputes portal occupants and plate ledgers from trigger zone
// overlap every tick.
type ZoneSystem struct {
	opts options
}

func NewZoneSystem(opts ...Option) *ZoneSystem {
	return &ZoneSystem{opts: buildOptions(opts)}
}

func (s *ZoneSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, e := range w.Query(component.PortalComponent.Kind(), component.TransformComponent.Kind()) {
		s.updatePortal(w, e)
	}
	for _, e := range w.Query(component.PressurePlateComponent.Kind(), component.TransformComponent.Kind()) {
		s.updatePlate(w, e)
	}
}

func (s *ZoneSystem) updatePortal(w *ecs.World, e ecs.Entity) {
	p, _ := ecs.Get(w, e, component.PortalComponent)
	t, _ := ecs.Get(w, e, component.TransformComponent)
	rt := portalState(w, e)
	if rt == nil {
		return
	}

	rt.Occupants = rt.Occupants[:0]
	rt.Occupancy = 0
	inside := make(map[uint64]struct{})
	for _, o := range transportables(w) {
		if !inZone(w, o, p.Zone, t) {
			continue
		}
		inside[uint64(o)] = struct{}{}
		rt.Occupants = append(rt.Occupants, uint64(o))
		if ecs.Has(w, o, component.AgentTagComponent) || ecs.Has(w, o, component.AITagComponent) {
			rt.Occupancy++
		}
	}

	for id := range rt.Arrivals {
		o := ecs.Entity(id)
		if !w.IsAlive(o) {
			delete(rt.Arrivals, id)
			continue
		}
		if _, ok := inside[id]; ok || ecs.Has(w, o, component.TeleportingComponent) {
			continue
		}
		delete(rt.Arrivals, id)
	}
}

func (s *ZoneSystem) updatePlate(w *ecs.World, e ecs.Entity) {
	plate, _ := ecs.Get(w, e, component.PressurePlateComponent)
	t, _ := ecs.Get(w, e, component.TransformComponent)
	rt := plateState(w, e)
	if rt == nil {
		return
	}

	inside := make(map[uint64]struct{})
	for _, o := range w.Query(component.TransformComponent.Kind()) {
		if o == e || ecs.Has(w, o, component.TeleportingComponent) {
			continue
		}
		if _, ok := occupantWeight(w, o); !ok {
			continue
		}
		if inZone(w, o, plate.Zone, t) {
			inside[uint64(o)] = struct{}{}
		}
	}

	for _, id := range sortedKeys(rt.Ledger) {
		if _, ok := inside[id]; !ok {
			PlateExit(w, e, ecs.Entity(id))
		}
	}
	ids := make([]uint64, 0, len(inside))
	for id := range inside {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		PlateEnter(w, e, ecs.Entity(id))
	}
}

// transportables lists every live entity a portal could classify, excluding
// members of open transactions.
func transportables(w *ecs.World) []ecs.Entity {
	seen := make(map[ecs.Entity]struct{})
	var out []ecs.Entity
	for _, kind := range []component.Kind{
		component.AgentTagComponent.Kind(),
		component.AITagComponent.Kind(),
		component.VehicleComponent.Kind(),
		component.VehiclePartComponent.Kind(),
	} {
		for _, e := range w.Query(kind, component.TransformComponent.Kind()) {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			if ecs.Has(w, e, component.TeleportingComponent) {
				continue
			}
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func inZone(w *ecs.World, e ecs.Entity, zone component.AABB, at component.Transform) bool {
	x, y, width, height, ok := footprint(w, e)
	if !ok {
		return false
	}
	return zone.Intersects(at.X, at.Y, x, y, width, height)
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
