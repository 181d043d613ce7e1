package component

// Opacity is the render alpha of an entity in [0,1]. Absent means fully opaque.
type Opacity struct {
	Alpha float64
}

var OpacityComponent = NewComponent[Opacity]()
