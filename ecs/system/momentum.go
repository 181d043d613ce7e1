package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/portalworks/common"
	"github.com/milk9111/portalworks/ecs/component"
)

// ApplyMomentum computes the exit velocity for an entry velocity v. forward is
// the destination's exit axis and only matters for DirectionTowardsTarget.
func ApplyMomentum(policy component.MomentumPolicy, v, forward cp.Vector) cp.Vector {
	if !policy.Preserve {
		return cp.Vector{}
	}
	scaled := cp.Vector{X: v.X * policy.Multiplier, Y: v.Y * policy.Multiplier}

	switch policy.Mode {
	case component.DirectionZero:
		return cp.Vector{}
	case component.DirectionReverse:
		return cp.Vector{X: -scaled.X, Y: -scaled.Y}
	case component.DirectionTowardsTarget:
		axis := common.Unit(forward)
		if axis.X == 0 && axis.Y == 0 {
			return scaled
		}
		mag := math.Hypot(scaled.X, scaled.Y)
		return cp.Vector{X: axis.X * mag, Y: axis.Y * mag}
	default:
		return scaled
	}
}
