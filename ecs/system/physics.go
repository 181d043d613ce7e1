package system

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

// DefaultGravity is the downward acceleration used when a level sets none.
const DefaultGravity = 900.0

type PhysicsSystem struct {
	space    *cp.Space
	gravity  cp.Vector
	entities map[ecs.Entity]*bodyInfo
	world    *ecs.World
	logger   *zap.Logger
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

func NewPhysicsSystem(gravity cp.Vector, opts ...Option) *PhysicsSystem {
	o := buildOptions(opts)
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)
	return &PhysicsSystem{
		space:    space,
		gravity:  gravity,
		entities: make(map[ecs.Entity]*bodyInfo),
		logger:   o.logger,
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = cp.NewSpace()
		ps.space.Iterations = 20
		ps.space.SetGravity(ps.gravity)
	}
	ps.world = w

	ps.syncEntities(w)
	if dt := w.Delta(); dt > 0 {
		ps.space.Step(dt)
		ps.integrateLoose(w, dt)
	}
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		bodyComp, ok := ecs.GetPtr(w, e, component.PhysicsBodyComponent)
		if !ok {
			continue
		}
		if info := ps.entities[e]; info != nil {
			if bodyComp.Body == nil {
				bodyComp.Body = info.body
				bodyComp.Shape = info.shape
			}
			continue
		}
		transform, _ := ecs.Get(w, e, component.TransformComponent)
		info := ps.createBodyInfo(e, transform, *bodyComp)
		if info == nil {
			continue
		}
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape

		if !info.static {
			if v, ok := ecs.Get(w, e, component.VelocityComponent); ok {
				info.body.SetVelocity(v.X, v.Y)
			}
		}
	}
}

// createBodyInfo builds a Chipmunk body centred on the transform.
func (ps *PhysicsSystem) createBodyInfo(e ecs.Entity, transform component.Transform, bodyComp component.PhysicsBody) *bodyInfo {
	width, height, radius := bodyComp.Width, bodyComp.Height, bodyComp.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width, height = 32, 32
	}

	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, cp.Vector{X: transform.X, Y: transform.Y})
		} else {
			bb := cp.BB{L: transform.X - width/2, B: transform.Y - height/2, R: transform.X + width/2, T: transform.Y + height/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true}
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	var moment float64
	if radius > 0 {
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	} else {
		moment = cp.MomentForBox(mass, width, height)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)
	body.SetVelocityUpdateFunc(ps.gravityScaled(e))

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shape: shape}
}

// gravityScaled integrates velocity with the entity's GravityScale applied.
func (ps *PhysicsSystem) gravityScaled(e ecs.Entity) cp.BodyVelocityFunc {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		scale := 1.0
		if ps.world != nil {
			if gs, ok := ecs.Get(ps.world, e, component.GravityScaleComponent); ok {
				scale = gs.Scale
			}
		}
		cp.BodyUpdateVelocity(body, gravity.Mult(scale), damping, dt)
	}
}

// integrateLoose moves entities that carry a Velocity but no Chipmunk body.
func (ps *PhysicsSystem) integrateLoose(w *ecs.World, dt float64) {
	ecs.ForEach2(w, component.VelocityComponent, component.TransformComponent, func(e ecs.Entity, v *component.Velocity, t *component.Transform) {
		if ecs.Has(w, e, component.PhysicsBodyComponent) || ecs.Has(w, e, component.TeleportingComponent) {
			return
		}
		t.X += v.X * dt
		t.Y += v.Y * dt
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info == nil || info.static || info.body == nil {
			continue
		}
		if ecs.Has(w, e, component.TeleportingComponent) {
			continue
		}
		t, ok := ecs.GetPtr(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		pos := info.body.Position()
		t.X = pos.X
		t.Y = pos.Y
		if vel, ok := ecs.GetPtr(w, e, component.VelocityComponent); ok {
			v := info.body.Velocity()
			vel.X = v.X
			vel.Y = v.Y
		}
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent) {
			continue
		}
		ps.removeBody(info)
		delete(ps.entities, e)
		ps.logger.Debug("physics: body removed", zap.Stringer("entity", e))
	}
}

func (ps *PhysicsSystem) removeBody(info *bodyInfo) {
	if info == nil || ps.space == nil {
		return
	}
	if info.shape != nil {
		ps.space.RemoveShape(info.shape)
	}
	if !info.static && info.body != nil {
		ps.space.RemoveBody(info.body)
	}
}
