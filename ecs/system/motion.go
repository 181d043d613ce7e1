package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

func dynamicBody(w *ecs.World, e ecs.Entity) (*cp.Body, bool) {
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
	if !ok || body.Body == nil || body.Static {
		return nil, false
	}
	return body.Body, true
}

func velocityOf(w *ecs.World, e ecs.Entity) cp.Vector {
	if body, ok := dynamicBody(w, e); ok {
		return body.Velocity()
	}
	if v, ok := ecs.Get(w, e, component.VelocityComponent); ok {
		return cp.Vector{X: v.X, Y: v.Y}
	}
	return cp.Vector{}
}

func setVelocity(w *ecs.World, e ecs.Entity, v cp.Vector) {
	if body, ok := dynamicBody(w, e); ok {
		body.SetVelocity(v.X, v.Y)
	}
	if vel, ok := ecs.GetPtr(w, e, component.VelocityComponent); ok {
		vel.X = v.X
		vel.Y = v.Y
	}
}

func positionOf(w *ecs.World, e ecs.Entity) (float64, float64, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return 0, 0, false
	}
	return t.X, t.Y, true
}

// setPosition writes the transform and moves the physics body in the same
// step so the two never disagree across a tick boundary.
func setPosition(w *ecs.World, e ecs.Entity, x, y float64) bool {
	t, ok := ecs.GetPtr(w, e, component.TransformComponent)
	if !ok {
		return false
	}
	t.X = x
	t.Y = y
	syncBody(w, e)
	return true
}

func syncBody(w *ecs.World, e ecs.Entity) {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return
	}
	if body, ok := dynamicBody(w, e); ok {
		body.SetPosition(t.Position())
	}
}

// footprint returns the centre and size used for zone overlap tests.
func footprint(w *ecs.World, e ecs.Entity) (x, y, width, height float64, ok bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return 0, 0, 0, 0, false
	}
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent); ok {
		width, height = body.Width, body.Height
		if body.Radius > 0 {
			width, height = body.Radius*2, body.Radius*2
		}
	} else if size, ok := ecs.Get(w, e, component.SizeComponent); ok {
		width, height = size.W, size.H
	}
	return t.X, t.Y, width, height, true
}
