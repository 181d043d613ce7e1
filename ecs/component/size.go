package component

// Size is the trigger footprint of an entity without a physics body, centred
// on its Transform.
type Size struct {
	W float64
	H float64
}

var SizeComponent = NewComponent[Size]()
