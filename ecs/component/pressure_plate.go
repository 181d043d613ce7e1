package component

// PlateState is the state of a pressure plate.
type PlateState int

const (
	PlateReleased PlateState = iota
	PlatePressed
	PlateActivated
)

func (s PlateState) String() string {
	switch s {
	case PlateReleased:
		return "released"
	case PlatePressed:
		return "pressed"
	case PlateActivated:
		return "activated"
	default:
		return "unknown"
	}
}

// PressurePlate is the authored configuration of a weight trigger.
type PressurePlate struct {
	Name           string
	RequiredWeight float64
	HoldTime       float64
	OneShot        bool
	// Targets are ecs.Entity handles of portals or switches.
	Targets []uint64
	// ActiveDuration, when > 0, activates portal targets for a bounded window.
	ActiveDuration float64
	Zone           AABB
}

var PressurePlateComponent = NewComponent[PressurePlate]()

// PressurePlateRuntime tracks plate occupants and the hold timer.
type PressurePlateRuntime struct {
	State   PlateState
	HeldFor float64
	Weight  float64
	// Ledger maps occupant handle to the weight it contributed on entry.
	Ledger map[uint64]float64
}

var PressurePlateRuntimeComponent = NewComponent[PressurePlateRuntime]()
