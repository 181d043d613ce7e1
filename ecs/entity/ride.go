package entity

import (
	"errors"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

var (
	ErrNotVehicle     = errors.New("entity: not a vehicle")
	ErrAlreadyMounted = errors.New("entity: rider already mounted")
)

// Mount attaches rider to vehicle. Riders keep their mount order.
func Mount(w *ecs.World, vehicle, rider ecs.Entity) error {
	if !w.IsAlive(rider) {
		return component.ErrEntityNotAlive
	}
	v, ok := ecs.GetPtr(w, vehicle, component.VehicleComponent)
	if !ok {
		return ErrNotVehicle
	}
	if r, ok := ecs.Get(w, rider, component.RiderComponent); ok && w.IsAlive(ecs.Entity(r.Vehicle)) {
		return ErrAlreadyMounted
	}
	v.Riders = append(v.Riders, uint64(rider))
	return ecs.Add(w, rider, component.RiderComponent, component.Rider{Vehicle: uint64(vehicle)})
}

// Dismount detaches rider from whatever it rides. It reports whether the
// rider was mounted.
func Dismount(w *ecs.World, rider ecs.Entity) bool {
	r, ok := ecs.Get(w, rider, component.RiderComponent)
	if !ok {
		return false
	}
	ecs.Remove(w, rider, component.RiderComponent)
	if v, ok := ecs.GetPtr(w, ecs.Entity(r.Vehicle), component.VehicleComponent); ok {
		kept := v.Riders[:0]
		for _, id := range v.Riders {
			if id != uint64(rider) {
				kept = append(kept, id)
			}
		}
		v.Riders = kept
	}
	return true
}
