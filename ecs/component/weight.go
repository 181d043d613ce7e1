package component

// Weight is the load an occupant puts on pressure plates. Entities without a
// Weight fall back to their physics mass.
type Weight struct {
	Value float64
}

var WeightComponent = NewComponent[Weight]()
