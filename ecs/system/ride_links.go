package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

// RideLinks is the vehicle/rider collaborator consumed by the classifier and
// the teleport transaction.
type RideLinks interface {
	// AttachedRiders returns the agents attached to vehicle, in mount order.
	AttachedRiders(w *ecs.World, vehicle ecs.Entity) []ecs.Entity
	// RidingVehicle returns the vehicle an agent is attached to.
	RidingVehicle(w *ecs.World, agent ecs.Entity) (ecs.Entity, bool)
	// ApplyGroupTransform moves the vehicle to (x, y) and carries its riders
	// and parts along, preserving their offsets.
	ApplyGroupTransform(w *ecs.World, vehicle ecs.Entity, x, y float64)
	Velocity(w *ecs.World, vehicle ecs.Entity) cp.Vector
}

// ComponentRideLinks implements RideLinks over the Vehicle, Rider and
// VehiclePart components.
type ComponentRideLinks struct{}

var _ RideLinks = ComponentRideLinks{}

func (ComponentRideLinks) AttachedRiders(w *ecs.World, vehicle ecs.Entity) []ecs.Entity {
	v, ok := ecs.Get(w, vehicle, component.VehicleComponent)
	if !ok {
		return nil
	}
	riders := make([]ecs.Entity, 0, len(v.Riders))
	for _, raw := range v.Riders {
		rider := ecs.Entity(raw)
		r, ok := ecs.Get(w, rider, component.RiderComponent)
		if !ok || ecs.Entity(r.Vehicle) != vehicle {
			continue
		}
		riders = append(riders, rider)
	}
	return riders
}

func (ComponentRideLinks) RidingVehicle(w *ecs.World, agent ecs.Entity) (ecs.Entity, bool) {
	r, ok := ecs.Get(w, agent, component.RiderComponent)
	if !ok {
		return 0, false
	}
	vehicle := ecs.Entity(r.Vehicle)
	if !ecs.Has(w, vehicle, component.VehicleComponent) {
		return 0, false
	}
	return vehicle, true
}

func (l ComponentRideLinks) ApplyGroupTransform(w *ecs.World, vehicle ecs.Entity, x, y float64) {
	vx, vy, ok := positionOf(w, vehicle)
	if !ok {
		return
	}
	dx, dy := x-vx, y-vy
	group := append([]ecs.Entity{vehicle}, l.AttachedRiders(w, vehicle)...)
	group = append(group, vehicleParts(w, vehicle)...)
	for _, e := range group {
		if t, ok := ecs.GetPtr(w, e, component.TransformComponent); ok {
			t.X += dx
			t.Y += dy
			syncBody(w, e)
		}
	}
}

func (ComponentRideLinks) Velocity(w *ecs.World, vehicle ecs.Entity) cp.Vector {
	return velocityOf(w, vehicle)
}

func vehicleParts(w *ecs.World, root ecs.Entity) []ecs.Entity {
	var parts []ecs.Entity
	for _, e := range w.Query(component.VehiclePartComponent.Kind()) {
		p, ok := ecs.Get(w, e, component.VehiclePartComponent)
		if ok && ecs.Entity(p.Root) == root {
			parts = append(parts, e)
		}
	}
	return parts
}
