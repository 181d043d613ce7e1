package system

import (
	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

// Category is the kind of an effective transport target.
type Category int

const (
	CategoryAgent Category = iota + 1
	CategoryAI
	CategoryVehicle
)

func (c Category) String() string {
	switch c {
	case CategoryAgent:
		return "agent"
	case CategoryAI:
		return "ai"
	case CategoryVehicle:
		return "vehicle"
	default:
		return "unknown"
	}
}

// TransportTarget is what a portal actually moves for a raw trigger
// participant.
type TransportTarget struct {
	Root     ecs.Entity
	Category Category
	Riders   []ecs.Entity
	Parts    []ecs.Entity
	// Members is Root, then riders, then parts.
	Members []ecs.Entity
	// Group is true when the vehicle carries at least one rider.
	Group bool
}

// Classifier resolves raw zone participants to transport targets.
type Classifier struct {
	links RideLinks
}

func NewClassifier(links RideLinks) *Classifier {
	if links == nil {
		links = ComponentRideLinks{}
	}
	return &Classifier{links: links}
}

// Resolve climbs from a vehicle part to its vehicle, escalates a riding agent
// to its whole vehicle group and categorises the result.
func (c *Classifier) Resolve(w *ecs.World, raw ecs.Entity) (TransportTarget, bool) {
	if !w.IsAlive(raw) {
		return TransportTarget{}, false
	}

	e := raw
	if part, ok := ecs.Get(w, e, component.VehiclePartComponent); ok {
		root := ecs.Entity(part.Root)
		if !ecs.Has(w, root, component.VehicleComponent) {
			return TransportTarget{}, false
		}
		e = root
	}
	if vehicle, ok := c.links.RidingVehicle(w, e); ok {
		e = vehicle
	}

	if ecs.Has(w, e, component.VehicleComponent) {
		riders := c.links.AttachedRiders(w, e)
		parts := vehicleParts(w, e)
		members := make([]ecs.Entity, 0, 1+len(riders)+len(parts))
		members = append(members, e)
		members = append(members, riders...)
		members = append(members, parts...)
		return TransportTarget{
			Root:     e,
			Category: CategoryVehicle,
			Riders:   riders,
			Parts:    parts,
			Members:  members,
			Group:    len(riders) > 0,
		}, true
	}

	var cat Category
	switch {
	case ecs.Has(w, e, component.AgentTagComponent):
		cat = CategoryAgent
	case ecs.Has(w, e, component.AITagComponent):
		cat = CategoryAI
	default:
		return TransportTarget{}, false
	}
	return TransportTarget{Root: e, Category: cat, Members: []ecs.Entity{e}}, true
}

// FilterAllows reports whether a portal filter admits a target category.
func FilterAllows(f component.TargetFilter, c Category) bool {
	switch f {
	case component.FilterAll, "":
		return c != 0
	case component.FilterAgentsOnly:
		return c == CategoryAgent
	case component.FilterVehicleOnly:
		return c == CategoryVehicle
	case component.FilterAgentsAndAI:
		return c == CategoryAgent || c == CategoryAI
	case component.FilterVehicleAndAgents:
		return c == CategoryVehicle || c == CategoryAgent
	default:
		return false
	}
}
