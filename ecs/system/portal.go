package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/common"
	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

// PortalSystem advances portal cooldown and activation timers.
type PortalSystem struct {
	opts options
}

func NewPortalSystem(opts ...Option) *PortalSystem {
	return &PortalSystem{opts: buildOptions(opts)}
}

func (s *PortalSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()

	for _, e := range w.Query(component.PortalComponent.Kind()) {
		p, _ := ecs.Get(w, e, component.PortalComponent)
		rt := portalState(w, e)
		if rt == nil || rt.Disabled {
			continue
		}

		if rt.Phase == component.PortalCooldown {
			if rt.Resume != component.PortalActive || rt.ActivatedTick != w.Tick() {
				prev := rt.Resume
				s.advance(w, e, p, rt, &rt.Resume, &rt.ResumeElapsed, dt)
				phaseChanged(w, e, p, rt, prev, rt.Resume, s.opts)
			}
			rt.Cooldown -= dt
			if rt.Cooldown <= common.Epsilon {
				rt.Cooldown = 0
				rt.Phase = rt.Resume
				rt.Elapsed = rt.ResumeElapsed
				s.opts.logger.Debug("portal: cooldown finished",
					zap.String("portal", p.Name),
					zap.Stringer("phase", rt.Phase),
				)
			}
			continue
		}

		// windows of portals activated earlier this tick start counting next tick
		if rt.Phase == component.PortalActive && rt.ActivatedTick == w.Tick() {
			continue
		}

		prev := rt.Phase
		s.advance(w, e, p, rt, &rt.Phase, &rt.Elapsed, dt)
		phaseChanged(w, e, p, rt, prev, rt.Phase, s.opts)
	}
}

// phaseChanged reports an activation transition. During cooldown from and to
// are the resumed phase, so a window that opens or closes while the portal
// cools down is still announced.
func phaseChanged(w *ecs.World, e ecs.Entity, p component.Portal, rt *component.PortalRuntime, from, to component.PortalPhase, o options) {
	if from == to {
		return
	}
	switch to {
	case component.PortalActive:
		rt.ActivatedTick = w.Tick()
		notify(w, e, EventActivated, o)
	case component.PortalInactive:
		if from == component.PortalActive {
			notify(w, e, EventDeactivated, o)
		}
	}
	o.logger.Debug("portal: phase changed",
		zap.String("portal", p.Name),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Bool("cooldown", rt.Phase == component.PortalCooldown),
	)
}

// advance steps one activation state machine. It runs on the live phase or,
// while the portal cools down, on the phase resumed afterwards.
func (s *PortalSystem) advance(w *ecs.World, e ecs.Entity, p component.Portal, rt *component.PortalRuntime, phase *component.PortalPhase, elapsed *float64, dt float64) {
	switch p.Activation {
	case component.ActivationAlwaysActive, "":
		*phase = component.PortalActive

	case component.ActivationCooperative:
		met := rt.Occupancy >= p.RequiredAgents
		switch *phase {
		case component.PortalInactive:
			if met {
				*phase = component.PortalArming
				*elapsed = 0
				if common.Reached(0, p.HoldTime) {
					*phase = component.PortalActive
				}
			}
		case component.PortalArming:
			if !met {
				*phase = component.PortalInactive
				*elapsed = 0
				return
			}
			*elapsed += dt
			if common.Reached(*elapsed, p.HoldTime) {
				*phase = component.PortalActive
				*elapsed = 0
			}
		case component.PortalActive:
			expire(p, phase, elapsed, dt)
		}

	case component.ActivationExternal:
		if *phase == component.PortalActive {
			expire(p, phase, elapsed, dt)
		}

	case component.ActivationTimed:
		*elapsed += dt
		switch *phase {
		case component.PortalActive:
			if p.ActiveDuration > 0 && common.Reached(*elapsed, p.ActiveDuration) {
				*phase = component.PortalInactive
				*elapsed = 0
			}
		default:
			if common.Reached(*elapsed, p.InactiveDuration) {
				*phase = component.PortalActive
				*elapsed = 0
			}
		}
	}
}

// expire ends an Active window once ActiveDuration has elapsed.
func expire(p component.Portal, phase *component.PortalPhase, elapsed *float64, dt float64) {
	if p.ActiveDuration <= 0 {
		return
	}
	*elapsed += dt
	if common.Reached(*elapsed, p.ActiveDuration) {
		*phase = component.PortalInactive
		*elapsed = 0
	}
}

// ActivatePortal switches a portal to Active. It is idempotent and reports
// whether anything changed. During cooldown it only changes the state the
// portal resumes afterwards.
func ActivatePortal(w *ecs.World, portal ecs.Entity, opts ...Option) bool {
	return activatePortal(w, portal, buildOptions(opts))
}

// DeactivatePortal switches a portal to Inactive. AlwaysActive portals ignore
// it.
func DeactivatePortal(w *ecs.World, portal ecs.Entity, opts ...Option) bool {
	return deactivatePortal(w, portal, buildOptions(opts))
}

// ExternalActivatePortal sets the portal's active window to duration seconds
// and activates it. An already active portal restarts its window.
func ExternalActivatePortal(w *ecs.World, portal ecs.Entity, duration float64, opts ...Option) bool {
	return externalActivatePortal(w, portal, duration, buildOptions(opts))
}

func activatePortal(w *ecs.World, e ecs.Entity, o options) bool {
	p, ok := ecs.Get(w, e, component.PortalComponent)
	if !ok || alwaysActive(p) {
		return false
	}
	rt := portalState(w, e)
	if rt == nil {
		return false
	}
	if rt.Phase == component.PortalCooldown {
		if rt.Resume == component.PortalActive {
			return false
		}
		prev := rt.Resume
		rt.Resume = component.PortalActive
		rt.ResumeElapsed = 0
		phaseChanged(w, e, p, rt, prev, rt.Resume, o)
		return true
	}
	if rt.Phase == component.PortalActive {
		return false
	}
	rt.Phase = component.PortalActive
	rt.Elapsed = 0
	rt.ActivatedTick = w.Tick()
	notify(w, e, EventActivated, o)
	return true
}

func deactivatePortal(w *ecs.World, e ecs.Entity, o options) bool {
	p, ok := ecs.Get(w, e, component.PortalComponent)
	if !ok || alwaysActive(p) {
		return false
	}
	rt := portalState(w, e)
	if rt == nil {
		return false
	}
	if rt.Phase == component.PortalCooldown {
		if rt.Resume == component.PortalInactive {
			return false
		}
		prev := rt.Resume
		rt.Resume = component.PortalInactive
		rt.ResumeElapsed = 0
		phaseChanged(w, e, p, rt, prev, rt.Resume, o)
		return true
	}
	if rt.Phase == component.PortalInactive {
		return false
	}
	wasActive := rt.Phase == component.PortalActive
	rt.Phase = component.PortalInactive
	rt.Elapsed = 0
	if wasActive {
		notify(w, e, EventDeactivated, o)
	}
	return true
}

func externalActivatePortal(w *ecs.World, e ecs.Entity, duration float64, o options) bool {
	p, ok := ecs.GetPtr(w, e, component.PortalComponent)
	if !ok || duration < 0 || alwaysActive(*p) {
		return false
	}
	p.ActiveDuration = duration
	rt := portalState(w, e)
	if rt == nil {
		return false
	}
	switch {
	case rt.Phase == component.PortalActive:
		rt.Elapsed = 0
		return true
	case rt.Phase == component.PortalCooldown && rt.Resume == component.PortalActive:
		rt.ResumeElapsed = 0
		return true
	}
	return activatePortal(w, e, o)
}

func alwaysActive(p component.Portal) bool {
	return p.Activation == component.ActivationAlwaysActive || p.Activation == ""
}

// IsPortalEligible reports whether a portal may open a transaction this tick.
func IsPortalEligible(w *ecs.World, portal ecs.Entity) bool {
	rt, ok := ecs.Get(w, portal, component.PortalRuntimeComponent)
	if !ok {
		return false
	}
	return !rt.Disabled &&
		rt.Phase == component.PortalActive &&
		rt.Cooldown <= 0 &&
		(rt.ActivatedTick != w.Tick() || rt.ActivatedTick == 0)
}

// PortalPhase returns the current activation phase of a portal.
func PortalPhase(w *ecs.World, portal ecs.Entity) component.PortalPhase {
	rt := portalState(w, portal)
	if rt == nil {
		return component.PortalInactive
	}
	return rt.Phase
}

// enterCooldown puts a portal into cooldown, remembering the state to resume.
// Overlapping cooldowns keep the longer remainder.
func enterCooldown(rt *component.PortalRuntime, d float64) {
	if d <= 0 {
		return
	}
	if rt.Phase != component.PortalCooldown {
		rt.Resume = rt.Phase
		rt.ResumeElapsed = rt.Elapsed
		rt.Phase = component.PortalCooldown
	}
	if d > rt.Cooldown {
		rt.Cooldown = d
	}
}

func portalState(w *ecs.World, e ecs.Entity) *component.PortalRuntime {
	p, ok := ecs.Get(w, e, component.PortalComponent)
	if !ok {
		return nil
	}
	if rt, ok := ecs.GetPtr(w, e, component.PortalRuntimeComponent); ok {
		if rt.InTransit == nil {
			rt.InTransit = make(map[uint64]struct{})
		}
		if rt.Arrivals == nil {
			rt.Arrivals = make(map[uint64]struct{})
		}
		return rt
	}
	rt := component.PortalRuntime{
		Phase:     component.PortalInactive,
		InTransit: make(map[uint64]struct{}),
		Arrivals:  make(map[uint64]struct{}),
	}
	switch p.Activation {
	case component.ActivationAlwaysActive, component.ActivationTimed, "":
		rt.Phase = component.PortalActive
	}
	if err := ecs.Add(w, e, component.PortalRuntimeComponent, rt); err != nil {
		return nil
	}
	ptr, _ := ecs.GetPtr(w, e, component.PortalRuntimeComponent)
	return ptr
}

func notify(w *ecs.World, target ecs.Entity, kind string, o options) {
	w.Events().Push(ecs.Event{Type: kind, Data: ActivationEvent{Target: target}})
	emit(w, o.sink, o.logger, Record{Kind: kind, Subject: uint64(target)})
}
