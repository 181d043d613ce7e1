package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

var testZone = component.AABB{X: -32, Y: -32, W: 64, H: 64}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, h component.ComponentHandle[T], v T) {
	t.Helper()
	require.NoError(t, ecs.Add(w, e, h, v))
}

func addPortal(t *testing.T, w *ecs.World, x, y float64, p component.Portal) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if p.Zone == (component.AABB{}) {
		p.Zone = testZone
	}
	if p.Momentum == (component.MomentumPolicy{}) {
		p.Momentum = component.MomentumPolicy{Preserve: true, Multiplier: 1, Mode: component.DirectionPreserve}
	}
	mustAdd(t, w, e, component.TransformComponent, component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	mustAdd(t, w, e, component.PortalComponent, p)
	return e
}

func link(t *testing.T, w *ecs.World, from, to ecs.Entity) {
	t.Helper()
	p, ok := ecs.GetPtr(w, from, component.PortalComponent)
	require.True(t, ok)
	p.Destination = uint64(to)
}

func addMover(t *testing.T, w *ecs.World, tag func(ecs.Entity), x, y, vx, vy float64) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	tag(e)
	mustAdd(t, w, e, component.TransformComponent, component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	mustAdd(t, w, e, component.SizeComponent, component.Size{W: 16, H: 16})
	mustAdd(t, w, e, component.VelocityComponent, component.Velocity{X: vx, Y: vy})
	return e
}

func addAgent(t *testing.T, w *ecs.World, x, y, vx, vy float64) ecs.Entity {
	t.Helper()
	return addMover(t, w, func(e ecs.Entity) {
		mustAdd(t, w, e, component.AgentTagComponent, component.AgentTag{})
	}, x, y, vx, vy)
}

func addAI(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	return addMover(t, w, func(e ecs.Entity) {
		mustAdd(t, w, e, component.AITagComponent, component.AITag{})
	}, x, y, 0, 0)
}

func addVehicle(t *testing.T, w *ecs.World, x, y, vx, vy float64) ecs.Entity {
	t.Helper()
	return addMover(t, w, func(e ecs.Entity) {
		mustAdd(t, w, e, component.VehicleComponent, component.Vehicle{})
	}, x, y, vx, vy)
}

func mount(t *testing.T, w *ecs.World, vehicle, rider ecs.Entity) {
	t.Helper()
	v, ok := ecs.GetPtr(w, vehicle, component.VehicleComponent)
	require.True(t, ok)
	v.Riders = append(v.Riders, uint64(rider))
	mustAdd(t, w, rider, component.RiderComponent, component.Rider{Vehicle: uint64(vehicle)})
}

func moveTo(t *testing.T, w *ecs.World, e ecs.Entity, x, y float64) {
	t.Helper()
	require.True(t, setPosition(w, e, x, y))
}

func position(t *testing.T, w *ecs.World, e ecs.Entity) (float64, float64) {
	t.Helper()
	x, y, ok := positionOf(w, e)
	require.True(t, ok)
	return x, y
}

func velocity(t *testing.T, w *ecs.World, e ecs.Entity) component.Velocity {
	t.Helper()
	v, ok := ecs.Get(w, e, component.VelocityComponent)
	require.True(t, ok)
	return v
}

func runtime(t *testing.T, w *ecs.World, portal ecs.Entity) component.PortalRuntime {
	t.Helper()
	rt, ok := ecs.Get(w, portal, component.PortalRuntimeComponent)
	require.True(t, ok)
	return rt
}

func openTransactions(w *ecs.World) int {
	return len(w.Query(component.TeleportTransactionComponent.Kind()))
}

// teleportWorld wires the systems that matter for teleporting, without
// physics, so positions only change through portals.
func teleportWorld(opts ...Option) (*ecs.World, *TeleportSystem) {
	w := ecs.NewWorld()
	ts := NewTeleportSystem(opts...)
	w.AddSystem(NewZoneSystem(opts...))
	w.AddSystem(NewPressurePlateSystem(opts...))
	w.AddSystem(NewPortalSystem(opts...))
	w.AddSystem(ts)
	return w, ts
}

type recorder struct {
	records []Record
}

func (r *recorder) Write(v any) error {
	if rec, ok := v.(Record); ok {
		r.records = append(r.records, rec)
	}
	return nil
}

func (r *recorder) kinds(kind string) []Record {
	var out []Record
	for _, rec := range r.records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}
