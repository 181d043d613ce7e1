package component

// Switch is a generic activatable target for pressure plates and scripts
// (doors, lights). It only records its state; listeners react to the
// activated/deactivated events.
type Switch struct {
	On bool
}

var SwitchComponent = NewComponent[Switch]()
