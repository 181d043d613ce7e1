package system

import (
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

// GuardDelay is how long in-transit membership outlives the position swap.
const GuardDelay = 0.18

// TeleportSystem opens teleport transactions for portal occupants and
// advances the open ones.
type TeleportSystem struct {
	opts       options
	classifier *Classifier
}

func NewTeleportSystem(opts ...Option) *TeleportSystem {
	o := buildOptions(opts)
	return &TeleportSystem{opts: o, classifier: NewClassifier(o.links)}
}

func (s *TeleportSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, txn := range w.Query(component.TeleportTransactionComponent.Kind()) {
		s.step(w, txn, w.Delta())
	}

	for _, portal := range w.Query(component.PortalComponent.Kind(), component.PortalRuntimeComponent.Kind()) {
		if !IsPortalEligible(w, portal) {
			continue
		}
		rt, _ := ecs.Get(w, portal, component.PortalRuntimeComponent)
		occupants := append([]uint64(nil), rt.Occupants...)
		for _, id := range occupants {
			s.TryAccept(w, portal, ecs.Entity(id))
		}
	}
}

// TryAccept resolves raw to a transport target and, when the portal can take
// it, opens a transaction. Rejections are silent apart from a one-time
// warning for portals without a usable destination.
func (s *TeleportSystem) TryAccept(w *ecs.World, portal, raw ecs.Entity) bool {
	if s == nil || w == nil {
		return false
	}
	p, ok := ecs.Get(w, portal, component.PortalComponent)
	if !ok {
		return false
	}
	rt := portalState(w, portal)
	if rt == nil || rt.Disabled {
		return false
	}

	dest := ecs.Entity(p.Destination)
	if p.Destination == 0 || dest == portal || !ecs.Has(w, dest, component.PortalComponent) {
		if !rt.Warned {
			rt.Warned = true
			s.opts.logger.Warn("portal: no usable destination, portal is inert",
				zap.String("portal", p.Name),
				zap.Stringer("entity", portal),
			)
		}
		return false
	}
	dp, _ := ecs.Get(w, dest, component.PortalComponent)
	drt := portalState(w, dest)
	if drt == nil || drt.Disabled {
		return false
	}
	if p.Direction == component.PortalOneWayOut || dp.Direction == component.PortalOneWayIn {
		return false
	}
	if !IsPortalEligible(w, portal) {
		return false
	}

	target, ok := s.classifier.Resolve(w, raw)
	if !ok || !FilterAllows(p.Filter, target.Category) {
		s.opts.logger.Debug("portal: target rejected",
			zap.String("portal", p.Name),
			zap.Stringer("entity", raw),
		)
		return false
	}
	for _, m := range target.Members {
		id := uint64(m)
		if _, busy := rt.InTransit[id]; busy {
			return false
		}
		if _, busy := drt.InTransit[id]; busy {
			return false
		}
		if _, locked := rt.Arrivals[id]; locked {
			return false
		}
		if ecs.Has(w, m, component.TeleportingComponent) {
			return false
		}
	}

	s.open(w, portal, dest, p, dp, target)
	return true
}

func (s *TeleportSystem) open(w *ecs.World, src, dst ecs.Entity, p, dp component.Portal, target TransportTarget) {
	rep := target.Root
	var saved cp.Vector
	if target.Category == CategoryVehicle {
		saved = s.opts.links.Velocity(w, rep)
	} else {
		saved = velocityOf(w, rep)
	}
	forward := cp.Vector{X: dp.ForwardX, Y: dp.ForwardY}
	if forward.X == 0 && forward.Y == 0 {
		if t, ok := ecs.Get(w, dst, component.TransformComponent); ok {
			forward = t.Forward()
		}
	}
	applied := ApplyMomentum(p.Momentum, saved, forward)

	e := w.CreateEntity()
	txn := component.TeleportTransaction{
		ID:             uuid.NewString(),
		Source:         uint64(src),
		Destination:    uint64(dst),
		Representative: uint64(rep),
		Members:        make([]uint64, 0, len(target.Members)),
		Snapshots:      make(map[uint64]component.MemberSnapshot, len(target.Members)),
		Phase:          component.TeleportFadingOut,
		FadeOut:        p.FadeOut,
		FadeIn:         p.FadeIn,
		SavedVX:        saved.X,
		SavedVY:        saved.Y,
		AppliedVX:      applied.X,
		AppliedVY:      applied.Y,
	}

	for _, m := range target.Members {
		id := uint64(m)
		txn.Members = append(txn.Members, id)
		txn.Snapshots[id] = snapshot(w, m)
	}
	for _, r := range target.Riders {
		txn.Riders = append(txn.Riders, uint64(r))
	}
	// members are frozen only once their record exists
	if err := ecs.Add(w, e, component.TeleportTransactionComponent, txn); err != nil {
		s.opts.logger.Error("teleport: store transaction", zap.Error(err))
		w.DestroyEntity(e)
		return
	}

	srt := portalState(w, src)
	drt := portalState(w, dst)
	for _, m := range target.Members {
		id := uint64(m)
		srt.InTransit[id] = struct{}{}
		drt.InTransit[id] = struct{}{}
		_ = ecs.Add(w, m, component.TeleportingComponent, component.Teleporting{Transaction: uint64(e)})
		freeze(w, m)
	}

	s.opts.logger.Debug("teleport: transaction opened",
		zap.String("txn", txn.ID),
		zap.String("from", p.Name),
		zap.String("to", dp.Name),
		zap.Stringer("target", rep),
		zap.Int("members", len(txn.Members)),
		zap.Bool("group", target.Group),
	)

	s.step(w, e, 0)
}

func snapshot(w *ecs.World, e ecs.Entity) component.MemberSnapshot {
	snap := component.MemberSnapshot{ScaleX: 1, ScaleY: 1, Alpha: 1}
	if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
		snap.ScaleX, snap.ScaleY, snap.Rotation = t.ScaleX, t.ScaleY, t.Rotation
	}
	if o, ok := ecs.Get(w, e, component.OpacityComponent); ok {
		snap.Alpha = o.Alpha
		snap.HasOpacity = true
	}
	v := velocityOf(w, e)
	snap.VX, snap.VY = v.X, v.Y
	if body, ok := dynamicBody(w, e); ok {
		snap.HasBody = true
		snap.BodyType = body.GetType()
		snap.Mass = body.Mass()
		snap.Moment = body.Moment()
	}
	if gs, ok := ecs.Get(w, e, component.GravityScaleComponent); ok {
		snap.GravityScale = gs.Scale
		snap.HasGravity = true
	}
	return snap
}

// freeze suspends physics for a member: zero velocity, kinematic body and no
// gravity.
func freeze(w *ecs.World, e ecs.Entity) {
	setVelocity(w, e, cp.Vector{})
	if body, ok := dynamicBody(w, e); ok {
		body.SetType(cp.BODY_KINEMATIC)
	}
	_ = ecs.Add(w, e, component.GravityScaleComponent, component.GravityScale{Scale: 0})
}

// restore puts back the visuals and physics mode saved in snap.
func restore(w *ecs.World, e ecs.Entity, snap component.MemberSnapshot) {
	if t, ok := ecs.GetPtr(w, e, component.TransformComponent); ok {
		t.ScaleX, t.ScaleY, t.Rotation = snap.ScaleX, snap.ScaleY, snap.Rotation
	}
	if snap.HasOpacity {
		_ = ecs.Add(w, e, component.OpacityComponent, component.Opacity{Alpha: snap.Alpha})
	} else {
		ecs.Remove(w, e, component.OpacityComponent)
	}
	if snap.HasBody {
		if body, ok := dynamicBody(w, e); ok {
			body.SetType(snap.BodyType)
			if snap.BodyType == cp.BODY_DYNAMIC {
				body.SetMass(snap.Mass)
				body.SetMoment(snap.Moment)
			}
		}
	}
	if snap.HasGravity {
		_ = ecs.Add(w, e, component.GravityScaleComponent, component.GravityScale{Scale: snap.GravityScale})
	} else {
		ecs.Remove(w, e, component.GravityScaleComponent)
	}
	ecs.Remove(w, e, component.TeleportingComponent)
}
