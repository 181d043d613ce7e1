package component

// Vehicle is the root of a transport group. Riders is kept in mount order;
// entries are ecs.Entity handles.
type Vehicle struct {
	Riders []uint64
}

var VehicleComponent = NewComponent[Vehicle]()

// Rider links an agent to the vehicle it is attached to.
type Rider struct {
	Vehicle uint64
}

var RiderComponent = NewComponent[Rider]()

// VehiclePart marks a collider that belongs to a vehicle's sub-structure
// (wheels, cargo beds). Root is the vehicle entity.
type VehiclePart struct {
	Root uint64
}

var VehiclePartComponent = NewComponent[VehiclePart]()
