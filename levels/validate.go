package levels

import (
	"errors"
	"fmt"
)

var (
	directions  = set("bidirectional", "one_way_in", "one_way_out")
	filters     = set("all", "agents_only", "vehicle_only", "agents_and_ai", "vehicle_and_agents")
	modes       = set("preserve", "reverse", "towards_target", "zero")
	activations = set("always_active", "cooperative_trigger", "external_trigger", "timed")
	actorKinds  = set(KindAgent, KindAI, KindVehicle)
)

// Validate reports every configuration problem at once. Each error wraps
// ErrInvalidConfig. A portal without a destination is valid: it loads as an
// inert portal.
func (l *LevelSpec) Validate() error {
	v := &validator{names: make(map[string]string)}

	for _, p := range l.Portals {
		v.name("portal", p.Name)
	}
	for _, p := range l.Plates {
		v.name("plate", p.Name)
	}
	for _, s := range l.Switches {
		v.name("switch", s.Name)
	}
	for _, a := range l.Actors {
		v.name("actor", a.Name)
		for _, part := range a.Parts {
			v.name("part", part.Name)
		}
	}
	for _, s := range l.Scripts {
		v.name("script", s.Name)
		if s.Path == "" {
			v.fail("script %q: path is required", s.Name)
		}
	}

	for _, p := range l.Portals {
		v.portal(p)
	}
	for _, p := range l.Plates {
		v.plate(p)
	}
	v.actors(l.Actors)

	return errors.Join(v.errs...)
}

type validator struct {
	names map[string]string
	errs  []error
}

func (v *validator) fail(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
}

func (v *validator) name(kind, name string) {
	if name == "" {
		v.fail("%s without a name", kind)
		return
	}
	if prev, ok := v.names[name]; ok {
		v.fail("duplicate name %q (%s and %s)", name, prev, kind)
		return
	}
	v.names[name] = kind
}

func (v *validator) nonNegative(owner, field string, value float64) {
	if value < 0 {
		v.fail("%s: %s must not be negative", owner, field)
	}
}

func (v *validator) portal(p PortalSpec) {
	owner := fmt.Sprintf("portal %q", p.Name)
	if !directions[p.Direction] {
		v.fail("%s: unknown direction %q", owner, p.Direction)
	}
	if !filters[p.Filter] {
		v.fail("%s: unknown filter %q", owner, p.Filter)
	}
	if !modes[p.Momentum.Mode] {
		v.fail("%s: unknown momentum mode %q", owner, p.Momentum.Mode)
	}
	if !activations[p.Activation.Mode] {
		v.fail("%s: unknown activation mode %q", owner, p.Activation.Mode)
	}
	if p.Momentum.Multiplier != nil && *p.Momentum.Multiplier < 0 {
		v.fail("%s: momentum multiplier must not be negative", owner)
	}
	v.nonNegative(owner, "hold_time", p.Activation.HoldTime)
	v.nonNegative(owner, "inactive_duration", p.Activation.InactiveDuration)
	v.nonNegative(owner, "active_duration", p.ActiveDuration)
	v.nonNegative(owner, "cooldown", p.Cooldown)
	if p.FadeOut != nil {
		v.nonNegative(owner, "fade_out", *p.FadeOut)
	}
	if p.FadeIn != nil {
		v.nonNegative(owner, "fade_in", *p.FadeIn)
	}
	if p.Zone != nil && (p.Zone.W <= 0 || p.Zone.H <= 0) {
		v.fail("%s: zone must have a positive size", owner)
	}

	if p.Activation.Mode == "cooperative_trigger" {
		if p.Activation.RequiredAgents < 1 {
			v.fail("%s: cooperative trigger needs required_agents >= 1", owner)
		}
		if p.Direction == "one_way_in" {
			v.fail("%s: one_way_in cannot be combined with cooperative_trigger", owner)
		}
	}

	if p.Destination == "" {
		return
	}
	if p.Destination == p.Name {
		v.fail("%s: destination is the portal itself", owner)
		return
	}
	if kind, ok := v.names[p.Destination]; !ok || kind != "portal" {
		v.fail("%s: unknown destination portal %q", owner, p.Destination)
	}
}

func (v *validator) plate(p PlateSpec) {
	owner := fmt.Sprintf("plate %q", p.Name)
	v.nonNegative(owner, "required_weight", p.RequiredWeight)
	v.nonNegative(owner, "hold_time", p.HoldTime)
	v.nonNegative(owner, "active_duration", p.ActiveDuration)
	if p.Zone != nil && (p.Zone.W <= 0 || p.Zone.H <= 0) {
		v.fail("%s: zone must have a positive size", owner)
	}
	for _, t := range p.Targets {
		kind, ok := v.names[t]
		if !ok || (kind != "portal" && kind != "switch") {
			v.fail("%s: unknown target %q", owner, t)
		}
	}
}

func (v *validator) actors(actors []ActorSpec) {
	kinds := make(map[string]string, len(actors))
	for _, a := range actors {
		kinds[a.Name] = a.Kind
	}

	mounted := make(map[string]string)
	for _, a := range actors {
		owner := fmt.Sprintf("actor %q", a.Name)
		if !actorKinds[a.Kind] {
			v.fail("%s: unknown kind %q", owner, a.Kind)
		}
		v.nonNegative(owner, "mass", a.Mass)
		v.nonNegative(owner, "weight", a.Weight)
		v.nonNegative(owner, "width", a.Width)
		v.nonNegative(owner, "height", a.Height)

		if a.Kind != KindVehicle {
			if len(a.Riders) > 0 || len(a.Parts) > 0 {
				v.fail("%s: only vehicles have riders or parts", owner)
			}
			continue
		}
		for _, r := range a.Riders {
			if kinds[r] != KindAgent {
				v.fail("%s: rider %q is not an agent", owner, r)
				continue
			}
			if prev, ok := mounted[r]; ok {
				v.fail("%s: rider %q is already attached to %q", owner, r, prev)
				continue
			}
			mounted[r] = a.Name
		}
	}
}

func set(values ...string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}
