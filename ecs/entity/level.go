package entity

import (
	"errors"
	"fmt"

	"github.com/milk9111/portalworks/common"
	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
	"github.com/milk9111/portalworks/ecs/system"
	"github.com/milk9111/portalworks/levels"
)

// BuildLevel creates the entities of a validated level and returns the name
// registry. Names are resolved to handles once here; systems never search the
// world for their pairs or targets.
func BuildLevel(w *ecs.World, spec *levels.LevelSpec) (*Registry, error) {
	if w == nil {
		return nil, fmt.Errorf("build level: world is nil")
	}
	if spec == nil {
		return nil, fmt.Errorf("build level: spec is nil")
	}

	b := &levelBuilder{w: w, reg: newRegistry(w)}
	for _, p := range spec.Portals {
		b.portal(p)
	}
	for _, p := range spec.Plates {
		b.plate(p)
	}
	for _, s := range spec.Switches {
		e := b.named(b.reg.switches, s.Name, s.X, s.Y, 0)
		add(b, e, component.SwitchComponent, component.Switch{})
	}
	for _, a := range spec.Actors {
		b.actor(a)
	}
	for _, s := range spec.Scripts {
		b.script(s)
	}
	if b.err != nil {
		return nil, fmt.Errorf("build level %q: %w", spec.Name, b.err)
	}

	b.link(spec)
	if b.err != nil {
		return nil, fmt.Errorf("build level %q: %w", spec.Name, b.err)
	}

	for _, p := range spec.Portals {
		if p.Disabled {
			system.SetPortalEnabled(w, b.reg.portals[p.Name], false)
		}
	}
	return b.reg, nil
}

type levelBuilder struct {
	w   *ecs.World
	reg *Registry
	err error
}

func (b *levelBuilder) fail(err error) {
	if err != nil {
		b.err = errors.Join(b.err, err)
	}
}

func add[T any](b *levelBuilder, e ecs.Entity, handle component.ComponentHandle[T], value T) {
	b.fail(ecs.Add(b.w, e, handle, value))
}

func (b *levelBuilder) named(group map[string]ecs.Entity, name string, x, y, rotation float64) ecs.Entity {
	e := b.w.CreateEntity()
	add(b, e, component.NameComponent, component.Name{Value: name})
	add(b, e, component.TransformComponent, component.Placed(x, y, common.Deg2Rad(rotation)))
	b.reg.add(group, name, e)
	return e
}

func (b *levelBuilder) portal(p levels.PortalSpec) {
	e := b.named(b.reg.portals, p.Name, p.X, p.Y, p.Rotation)
	add(b, e, component.PortalComponent, component.Portal{
		Name:      p.Name,
		Direction: component.PortalDirection(p.Direction),
		Filter:    component.TargetFilter(p.Filter),
		Momentum: component.MomentumPolicy{
			Preserve:   deref(p.Momentum.Preserve, true),
			Multiplier: deref(p.Momentum.Multiplier, 1),
			Mode:       component.DirectionMode(p.Momentum.Mode),
		},
		Activation:       component.ActivationMode(p.Activation.Mode),
		RequiredAgents:   p.Activation.RequiredAgents,
		HoldTime:         p.Activation.HoldTime,
		InactiveDuration: p.Activation.InactiveDuration,
		ActiveDuration:   p.ActiveDuration,
		CooldownDuration: p.Cooldown,
		FadeOut:          deref(p.FadeOut, 0),
		FadeIn:           deref(p.FadeIn, 0),
		ForwardX:         p.Forward.X,
		ForwardY:         p.Forward.Y,
		Zone:             zone(p.Zone),
	})
}

func (b *levelBuilder) plate(p levels.PlateSpec) {
	e := b.named(b.reg.plates, p.Name, p.X, p.Y, 0)
	add(b, e, component.PressurePlateComponent, component.PressurePlate{
		Name:           p.Name,
		RequiredWeight: p.RequiredWeight,
		HoldTime:       p.HoldTime,
		OneShot:        p.OneShot,
		ActiveDuration: p.ActiveDuration,
		Zone:           zone(p.Zone),
	})
}

func (b *levelBuilder) actor(a levels.ActorSpec) {
	e := b.named(b.reg.actors, a.Name, a.X, a.Y, 0)
	switch a.Kind {
	case levels.KindAgent:
		add(b, e, component.AgentTagComponent, component.AgentTag{})
	case levels.KindAI:
		add(b, e, component.AITagComponent, component.AITag{})
	case levels.KindVehicle:
		add(b, e, component.VehicleComponent, component.Vehicle{})
	default:
		b.fail(fmt.Errorf("actor %q: %w: unknown kind %q", a.Name, levels.ErrInvalidConfig, a.Kind))
		return
	}

	if a.Physics {
		add(b, e, component.PhysicsBodyComponent, component.PhysicsBody{
			Width:  a.Width,
			Height: a.Height,
			Mass:   a.Mass,
		})
	} else {
		add(b, e, component.SizeComponent, component.Size{W: a.Width, H: a.Height})
	}
	add(b, e, component.VelocityComponent, component.Velocity{X: a.Velocity.X, Y: a.Velocity.Y})
	if a.Weight > 0 {
		add(b, e, component.WeightComponent, component.Weight{Value: a.Weight})
	}
	if a.GravityScale != nil {
		add(b, e, component.GravityScaleComponent, component.GravityScale{Scale: *a.GravityScale})
	}

	for _, part := range a.Parts {
		pe := b.named(b.reg.actors, part.Name, a.X+part.DX, a.Y+part.DY, 0)
		add(b, pe, component.VehiclePartComponent, component.VehiclePart{Root: uint64(e)})
		add(b, pe, component.SizeComponent, component.Size{W: part.Width, H: part.Height})
		add(b, pe, component.VelocityComponent, component.Velocity{X: a.Velocity.X, Y: a.Velocity.Y})
	}
}

func (b *levelBuilder) script(s levels.ScriptSpec) {
	src, err := levels.LoadScript(s.Path)
	if err != nil {
		b.fail(fmt.Errorf("script %q: %w", s.Name, err))
		return
	}
	e := b.w.CreateEntity()
	add(b, e, component.NameComponent, component.Name{Value: s.Name})
	add(b, e, component.ScriptTriggerComponent, component.ScriptTrigger{Path: s.Path, Source: src})
	b.reg.add(nil, s.Name, e)
}

// link resolves name references once every entity exists.
func (b *levelBuilder) link(spec *levels.LevelSpec) {
	for _, p := range spec.Portals {
		if p.Destination == "" {
			continue
		}
		dest, ok := b.reg.portals[p.Destination]
		if !ok {
			b.fail(fmt.Errorf("portal %q: %w: unknown destination %q", p.Name, levels.ErrInvalidConfig, p.Destination))
			continue
		}
		if portal, ok := ecs.GetPtr(b.w, b.reg.portals[p.Name], component.PortalComponent); ok {
			portal.Destination = uint64(dest)
		}
	}

	for _, p := range spec.Plates {
		plate, ok := ecs.GetPtr(b.w, b.reg.plates[p.Name], component.PressurePlateComponent)
		if !ok {
			continue
		}
		for _, name := range p.Targets {
			target, ok := b.reg.portals[name]
			if !ok {
				target, ok = b.reg.switches[name]
			}
			if !ok {
				b.fail(fmt.Errorf("plate %q: %w: unknown target %q", p.Name, levels.ErrInvalidConfig, name))
				continue
			}
			plate.Targets = append(plate.Targets, uint64(target))
		}
	}

	for _, a := range spec.Actors {
		for _, name := range a.Riders {
			rider, ok := b.reg.actors[name]
			if !ok {
				b.fail(fmt.Errorf("vehicle %q: %w: unknown rider %q", a.Name, levels.ErrInvalidConfig, name))
				continue
			}
			if err := Mount(b.w, b.reg.actors[a.Name], rider); err != nil {
				b.fail(fmt.Errorf("vehicle %q: mount %q: %w", a.Name, name, err))
			}
		}
	}
}

func zone(z *levels.ZoneSpec) component.AABB {
	if z == nil {
		return component.AABB{}
	}
	return component.AABB{X: z.X, Y: z.Y, W: z.W, H: z.H}
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
