package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/common"
	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

// PressurePlateSystem advances plate hold timers and drives linked targets.
type PressurePlateSystem struct {
	opts options
}

func NewPressurePlateSystem(opts ...Option) *PressurePlateSystem {
	return &PressurePlateSystem{opts: buildOptions(opts)}
}

func (s *PressurePlateSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()

	for _, e := range w.Query(component.PressurePlateComponent.Kind()) {
		plate, _ := ecs.Get(w, e, component.PressurePlateComponent)
		rt := plateState(w, e)
		if rt == nil {
			continue
		}
		prev := rt.State
		pressed := rt.Weight+common.Epsilon >= plate.RequiredWeight

		switch {
		case pressed && rt.State == component.PlateReleased:
			rt.State = component.PlatePressed
			rt.HeldFor = 0
			if common.Reached(rt.HeldFor, plate.HoldTime) {
				s.activate(w, e, plate, rt)
			}
		case pressed && rt.State == component.PlatePressed:
			rt.HeldFor += dt
			if common.Reached(rt.HeldFor, plate.HoldTime) {
				s.activate(w, e, plate, rt)
			}
		case !pressed && rt.State == component.PlateActivated:
			if plate.OneShot {
				break
			}
			for _, target := range plate.Targets {
				deactivateTarget(w, ecs.Entity(target), s.opts)
			}
			rt.State = component.PlateReleased
			rt.HeldFor = 0
		case !pressed && rt.State == component.PlatePressed:
			rt.State = component.PlateReleased
			rt.HeldFor = 0
		}

		if rt.State != prev {
			s.opts.logger.Debug("plate: state changed",
				zap.String("plate", plate.Name),
				zap.Stringer("from", prev),
				zap.Stringer("to", rt.State),
				zap.Float64("weight", rt.Weight),
			)
			w.Events().Push(ecs.Event{Type: EventPlateStateChanged, Data: e})
			emit(w, s.opts.sink, s.opts.logger, Record{Kind: EventPlateStateChanged, Subject: uint64(e), Detail: rt.State.String()})
		}
	}
}

func (s *PressurePlateSystem) activate(w *ecs.World, e ecs.Entity, plate component.PressurePlate, rt *component.PressurePlateRuntime) {
	rt.State = component.PlateActivated
	for _, target := range plate.Targets {
		activateTarget(w, ecs.Entity(target), plate.ActiveDuration, s.opts)
	}
}

// PlateEnter records an occupant's weight on the plate. Repeated enters of the
// same occupant are ignored. It reports whether the ledger changed.
func PlateEnter(w *ecs.World, plate, occupant ecs.Entity) bool {
	rt := plateState(w, plate)
	if rt == nil {
		return false
	}
	id := uint64(occupant)
	if _, ok := rt.Ledger[id]; ok {
		return false
	}
	weight, ok := occupantWeight(w, occupant)
	if !ok {
		return false
	}
	rt.Ledger[id] = weight
	rt.Weight = ledgerSum(rt.Ledger)
	return true
}

// PlateExit removes an occupant from the plate ledger.
func PlateExit(w *ecs.World, plate, occupant ecs.Entity) bool {
	rt := plateState(w, plate)
	if rt == nil {
		return false
	}
	id := uint64(occupant)
	if _, ok := rt.Ledger[id]; !ok {
		return false
	}
	delete(rt.Ledger, id)
	rt.Weight = ledgerSum(rt.Ledger)
	return true
}

// PlateWeight returns the summed weight currently on a plate.
func PlateWeight(w *ecs.World, plate ecs.Entity) float64 {
	rt, ok := ecs.Get(w, plate, component.PressurePlateRuntimeComponent)
	if !ok {
		return 0
	}
	return rt.Weight
}

// ledgerSum adds the ledger in key order so the result only depends on the
// current occupants, never on the order they came and went.
func ledgerSum(ledger map[uint64]float64) float64 {
	sum := 0.0
	for _, k := range sortedKeys(ledger) {
		sum += ledger[k]
	}
	if sum < 0 {
		return 0
	}
	return sum
}

func occupantWeight(w *ecs.World, e ecs.Entity) (float64, bool) {
	if weight, ok := ecs.Get(w, e, component.WeightComponent); ok {
		return weight.Value, weight.Value > 0
	}
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent); ok && !body.Static {
		return body.Mass, body.Mass > 0
	}
	return 0, false
}

func plateState(w *ecs.World, e ecs.Entity) *component.PressurePlateRuntime {
	if !ecs.Has(w, e, component.PressurePlateComponent) {
		return nil
	}
	if rt, ok := ecs.GetPtr(w, e, component.PressurePlateRuntimeComponent); ok {
		if rt.Ledger == nil {
			rt.Ledger = make(map[uint64]float64)
		}
		return rt
	}
	if err := ecs.Add(w, e, component.PressurePlateRuntimeComponent, component.PressurePlateRuntime{
		Ledger: make(map[uint64]float64),
	}); err != nil {
		return nil
	}
	rt, _ := ecs.GetPtr(w, e, component.PressurePlateRuntimeComponent)
	return rt
}

// activateTarget forwards a plate or script activation to a portal or switch.
func activateTarget(w *ecs.World, target ecs.Entity, duration float64, o options) bool {
	if ecs.Has(w, target, component.PortalComponent) {
		if duration > 0 {
			return externalActivatePortal(w, target, duration, o)
		}
		return activatePortal(w, target, o)
	}
	sw, ok := ecs.GetPtr(w, target, component.SwitchComponent)
	if !ok || sw.On {
		return false
	}
	sw.On = true
	w.Events().Push(ecs.Event{Type: EventActivated, Data: ActivationEvent{Target: target}})
	emit(w, o.sink, o.logger, Record{Kind: EventActivated, Subject: uint64(target)})
	return true
}

// deactivateTarget is the inverse of activateTarget.
func deactivateTarget(w *ecs.World, target ecs.Entity, o options) bool {
	if ecs.Has(w, target, component.PortalComponent) {
		return deactivatePortal(w, target, o)
	}
	sw, ok := ecs.GetPtr(w, target, component.SwitchComponent)
	if !ok || !sw.On {
		return false
	}
	sw.On = false
	w.Events().Push(ecs.Event{Type: EventDeactivated, Data: ActivationEvent{Target: target}})
	emit(w, o.sink, o.logger, Record{Kind: EventDeactivated, Subject: uint64(target)})
	return true
}
