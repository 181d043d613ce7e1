package component

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/portalworks/common"
)

// Transform is an entity's placement in world units. Rotation is in radians.
// Teleport fades animate Scale and Rotation and restore them on completion.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

// Placed returns an unscaled transform at (x, y).
func Placed(x, y, rotation float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1, Rotation: rotation}
}

func (t Transform) Position() cp.Vector { return cp.Vector{X: t.X, Y: t.Y} }

// Forward is the unit axis the rotation points along.
func (t Transform) Forward() cp.Vector { return common.AxisFromAngle(t.Rotation) }

var TransformComponent = NewComponent[Transform]()

// GravityScale multiplies world gravity for one dynamic body. Zero floats.
type GravityScale struct {
	Scale float64
}

var GravityScaleComponent = NewComponent[GravityScale]()
