package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/common"
	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

const (
	minTransitScale = 0.3
	fadeOutSpin     = 360.0
	fadeInSpin      = -180.0
)

// step advances one transaction by budget seconds. Every step starts by
// re-checking that members and portals are still usable.
func (s *TeleportSystem) step(w *ecs.World, e ecs.Entity, budget float64) {
	txn, ok := ecs.GetPtr(w, e, component.TeleportTransactionComponent)
	if !ok {
		return
	}

	if txn.Phase != component.TeleportClosed {
		if reason, ok := transactionValid(w, txn, s.opts.links); !ok {
			cancelTransaction(w, e, reason, s.opts)
			return
		}
	}

	if txn.Swapped {
		txn.GuardRemaining -= budget
	}
	s.advance(w, e, txn, budget)

	if txn.Phase == component.TeleportClosed && txn.GuardRemaining <= common.Epsilon {
		releaseTransit(w, txn)
		w.DestroyEntity(e)
	}
}

func (s *TeleportSystem) advance(w *ecs.World, e ecs.Entity, txn *component.TeleportTransaction, budget float64) {
	for {
		switch txn.Phase {
		case component.TeleportIdle:
			txn.Phase = component.TeleportFadingOut
		case component.TeleportFadingOut:
			txn.Elapsed += budget
			budget = 0
			if !common.Reached(txn.Elapsed, txn.FadeOut) {
				fadeOutVisuals(w, txn, common.Progress(txn.Elapsed, txn.FadeOut))
				return
			}
			budget = math.Max(0, txn.Elapsed-txn.FadeOut)
			fadeOutVisuals(w, txn, 1)
			txn.Elapsed = 0
			txn.Phase = component.TeleportSwapping
		case component.TeleportSwapping:
			s.swap(w, e, txn)
			txn.Phase = component.TeleportFadingIn
		case component.TeleportFadingIn:
			txn.Elapsed += budget
			budget = 0
			if !common.Reached(txn.Elapsed, txn.FadeIn) {
				fadeInVisuals(w, txn, common.Progress(txn.Elapsed, txn.FadeIn))
				return
			}
			s.close(w, txn)
			txn.Phase = component.TeleportClosed
		default:
			return
		}
	}
}

func fadeOutVisuals(w *ecs.World, txn *component.TeleportTransaction, t float64) {
	eased := common.EaseOutQuad(t)
	alpha := 1 - eased
	scale := common.Lerp(1, minTransitScale, eased)
	spin := common.Deg2Rad(fadeOutSpin * eased)
	applyVisuals(w, txn, alpha, scale, spin)
}

func fadeInVisuals(w *ecs.World, txn *component.TeleportTransaction, t float64) {
	eased := common.EaseOutCubic(t)
	alpha := eased
	scale := common.Lerp(minTransitScale, 1, eased)
	spin := common.Deg2Rad(fadeInSpin * (1 - eased))
	applyVisuals(w, txn, alpha, scale, spin)
}

func applyVisuals(w *ecs.World, txn *component.TeleportTransaction, alpha, scale, spin float64) {
	for _, id := range txn.Members {
		m := ecs.Entity(id)
		snap := txn.Snapshots[id]
		if t, ok := ecs.GetPtr(w, m, component.TransformComponent); ok {
			t.ScaleX = snap.ScaleX * scale
			t.ScaleY = snap.ScaleY * scale
			t.Rotation = snap.Rotation + spin
		}
		_ = ecs.Add(w, m, component.OpacityComponent, component.Opacity{Alpha: snap.Alpha * alpha})
	}
}

// swap moves the whole target onto the destination in one step and starts
// the cooldown on both portals.
func (s *TeleportSystem) swap(w *ecs.World, e ecs.Entity, txn *component.TeleportTransaction) {
	src := ecs.Entity(txn.Source)
	dst := ecs.Entity(txn.Destination)
	rep := ecs.Entity(txn.Representative)

	to, _ := ecs.Get(w, dst, component.TransformComponent)
	if ecs.Has(w, rep, component.VehicleComponent) {
		s.opts.links.ApplyGroupTransform(w, rep, to.X, to.Y)
	} else {
		setPosition(w, rep, to.X, to.Y)
	}

	sp, _ := ecs.Get(w, src, component.PortalComponent)
	dp, _ := ecs.Get(w, dst, component.PortalComponent)
	cooldown := math.Max(sp.CooldownDuration, dp.CooldownDuration)
	srt := portalState(w, src)
	drt := portalState(w, dst)
	enterCooldown(srt, cooldown)
	enterCooldown(drt, cooldown)

	for _, id := range txn.Members {
		drt.Arrivals[id] = struct{}{}
	}
	txn.Swapped = true
	txn.GuardRemaining = GuardDelay

	for _, id := range txn.Members {
		m := ecs.Entity(id)
		w.Events().Push(ecs.Event{Type: EventTeleported, Data: TeleportedEvent{
			Entity:      m,
			From:        src,
			To:          dst,
			Transaction: txn.ID,
		}})
		emit(w, s.opts.sink, s.opts.logger, Record{
			Kind:    EventTeleported,
			Subject: id,
			From:    txn.Source,
			To:      txn.Destination,
			Txn:     txn.ID,
		})
		if s.opts.hook != nil {
			s.opts.hook(m)
		}
	}

	s.opts.logger.Debug("teleport: swapped",
		zap.String("txn", txn.ID),
		zap.String("from", sp.Name),
		zap.String("to", dp.Name),
		zap.Float64("x", to.X),
		zap.Float64("y", to.Y),
		zap.Float64("cooldown", cooldown),
	)
}

// close restores every member and hands the applied velocity to the group.
func (s *TeleportSystem) close(w *ecs.World, txn *component.TeleportTransaction) {
	applied := cp.Vector{X: txn.AppliedVX, Y: txn.AppliedVY}
	for _, id := range txn.Members {
		m := ecs.Entity(id)
		restore(w, m, txn.Snapshots[id])
		setVelocity(w, m, applied)
	}
	s.opts.logger.Debug("teleport: transaction closed",
		zap.String("txn", txn.ID),
		zap.Float64("vx", applied.X),
		zap.Float64("vy", applied.Y),
	)
}

func transactionValid(w *ecs.World, txn *component.TeleportTransaction, links RideLinks) (string, bool) {
	for _, id := range txn.Members {
		if !w.IsAlive(ecs.Entity(id)) {
			return "member destroyed", false
		}
	}
	if !txn.Swapped && !sameRiders(links.AttachedRiders(w, ecs.Entity(txn.Representative)), txn.Riders) {
		return "riders changed", false
	}
	for _, id := range []uint64{txn.Source, txn.Destination} {
		rt, ok := ecs.Get(w, ecs.Entity(id), component.PortalRuntimeComponent)
		if !ok {
			return "portal destroyed", false
		}
		if rt.Disabled {
			return "portal disabled", false
		}
	}
	return "", true
}

// sameRiders reports whether the vehicle still carries exactly the riders
// it carried when the transaction opened. The group swap moves whoever is
// attached, so any mount or dismount in flight splits the group.
func sameRiders(current []ecs.Entity, recorded []uint64) bool {
	if len(current) != len(recorded) {
		return false
	}
	for i, r := range current {
		if uint64(r) != recorded[i] {
			return false
		}
	}
	return true
}

// cancelTransaction unwinds a transaction: surviving members get their saved
// visuals and physics back, in-transit membership is cleared on both portals
// and the record is destroyed.
func cancelTransaction(w *ecs.World, e ecs.Entity, reason string, o options) {
	txn, ok := ecs.GetPtr(w, e, component.TeleportTransactionComponent)
	if !ok {
		return
	}
	if txn.Phase != component.TeleportClosed {
		txn.Cancelled = true
		for _, id := range txn.Members {
			m := ecs.Entity(id)
			if !w.IsAlive(m) {
				continue
			}
			snap := txn.Snapshots[id]
			restore(w, m, snap)
			v := cp.Vector{X: snap.VX, Y: snap.VY}
			if txn.Swapped {
				v = cp.Vector{X: txn.AppliedVX, Y: txn.AppliedVY}
			}
			setVelocity(w, m, v)
		}
		w.Events().Push(ecs.Event{Type: EventTeleportCancelled, Data: e})
		emit(w, o.sink, o.logger, Record{
			Kind:    EventTeleportCancelled,
			Subject: txn.Representative,
			From:    txn.Source,
			To:      txn.Destination,
			Txn:     txn.ID,
			Detail:  reason,
		})
		o.logger.Debug("teleport: transaction cancelled",
			zap.String("txn", txn.ID),
			zap.String("reason", reason),
			zap.Stringer("phase", txn.Phase),
		)
	}
	releaseTransit(w, txn)
	w.DestroyEntity(e)
}

// releaseTransit clears the members from both portals' in-transit sets.
func releaseTransit(w *ecs.World, txn *component.TeleportTransaction) {
	for _, portal := range []uint64{txn.Source, txn.Destination} {
		rt, ok := ecs.GetPtr(w, ecs.Entity(portal), component.PortalRuntimeComponent)
		if !ok {
			continue
		}
		for _, id := range txn.Members {
			delete(rt.InTransit, id)
		}
	}
}

// CancelTransactions synchronously cancels every transaction through portal,
// as source or destination. It returns how many were cancelled.
func CancelTransactions(w *ecs.World, portal ecs.Entity, opts ...Option) int {
	return cancelPortalTransactions(w, portal, "portal disabled", buildOptions(opts))
}

func cancelPortalTransactions(w *ecs.World, portal ecs.Entity, reason string, o options) int {
	n := 0
	for _, e := range w.Query(component.TeleportTransactionComponent.Kind()) {
		txn, ok := ecs.Get(w, e, component.TeleportTransactionComponent)
		if !ok || (ecs.Entity(txn.Source) != portal && ecs.Entity(txn.Destination) != portal) {
			continue
		}
		cancelTransaction(w, e, reason, o)
		n++
	}
	return n
}

// SetPortalEnabled enables or disables a portal. Disabling cancels its
// transactions before returning.
func SetPortalEnabled(w *ecs.World, portal ecs.Entity, enabled bool, opts ...Option) bool {
	rt := portalState(w, portal)
	if rt == nil || rt.Disabled == !enabled {
		return false
	}
	rt.Disabled = !enabled
	if !enabled {
		cancelPortalTransactions(w, portal, "portal disabled", buildOptions(opts))
	}
	return true
}

// DestroyPortal cancels the portal's transactions and removes the entity.
func DestroyPortal(w *ecs.World, portal ecs.Entity, opts ...Option) bool {
	if !ecs.Has(w, portal, component.PortalComponent) {
		return false
	}
	cancelPortalTransactions(w, portal, "portal destroyed", buildOptions(opts))
	return w.DestroyEntity(portal)
}
