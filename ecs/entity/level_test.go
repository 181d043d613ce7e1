package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
	"github.com/milk9111/portalworks/ecs/system"
	"github.com/milk9111/portalworks/levels"
)

func buildDemo(t *testing.T) (*ecs.World, *Registry) {
	t.Helper()
	spec, err := levels.LoadLevel("demo")
	require.NoError(t, err)
	w := ecs.NewWorld()
	reg, err := BuildLevel(w, spec)
	require.NoError(t, err)
	return w, reg
}

func TestBuildLevelDemo(t *testing.T) {
	w, reg := buildDemo(t)

	west, ok := reg.Portal("west_gate")
	require.True(t, ok)
	east, ok := reg.Portal("east_gate")
	require.True(t, ok)

	p, ok := ecs.Get(w, west, component.PortalComponent)
	require.True(t, ok)
	assert.Equal(t, uint64(east), p.Destination)
	assert.Equal(t, component.DirectionTowardsTarget, p.Momentum.Mode)
	assert.Equal(t, 1.5, p.Momentum.Multiplier)
	assert.Equal(t, component.AABB{X: -32, Y: -32, W: 64, H: 64}, p.Zone)

	vault := reg.MustLookup("vault")
	vp, _ := ecs.Get(w, vault, component.PortalComponent)
	assert.Equal(t, component.ActivationCooperative, vp.Activation)
	assert.Equal(t, 2, vp.RequiredAgents)
	assert.Equal(t, 0.4, vp.FadeOut)

	orphan := reg.MustLookup("orphan")
	op, _ := ecs.Get(w, orphan, component.PortalComponent)
	assert.Zero(t, op.Destination)

	assert.Equal(t, []string{"blinker", "east_gate", "lift", "lift_top", "orphan", "tunnel", "tunnel_exit", "vault", "vault_exit", "west_gate"}, reg.PortalNames())
}

func TestBuildLevelLinksPlatesAndVehicles(t *testing.T) {
	w, reg := buildDemo(t)

	plate, ok := reg.Plate("lift_plate")
	require.True(t, ok)
	pp, _ := ecs.Get(w, plate, component.PressurePlateComponent)
	lift, _ := reg.Portal("lift")
	door, _ := reg.Switch("door")
	assert.Equal(t, []uint64{uint64(lift), uint64(door)}, pp.Targets)

	cart, ok := reg.Actor("cart")
	require.True(t, ok)
	v, ok := ecs.Get(w, cart, component.VehicleComponent)
	require.True(t, ok)
	assert.Equal(t, []uint64{uint64(reg.MustLookup("rider_a")), uint64(reg.MustLookup("rider_b"))}, v.Riders)

	target, ok := system.NewClassifier(nil).Resolve(w, reg.MustLookup("cart_wheel_front"))
	require.True(t, ok)
	assert.Equal(t, cart, target.Root)
	assert.Len(t, target.Members, 5)

	faller := reg.MustLookup("faller")
	body, ok := ecs.Get(w, faller, component.PhysicsBodyComponent)
	require.True(t, ok)
	assert.Equal(t, 2.0, body.Mass)
	gs, _ := ecs.Get(w, faller, component.GravityScaleComponent)
	assert.Equal(t, 0.25, gs.Scale)

	_, ok = reg.Lookup("lamp_timer")
	assert.True(t, ok)
}

func TestBuildLevelDisabledPortal(t *testing.T) {
	spec, err := levels.Parse([]byte(`
name: closed
portals:
  - name: a
    destination: b
    disabled: true
  - name: b
`))
	require.NoError(t, err)
	w := ecs.NewWorld()
	reg, err := BuildLevel(w, spec)
	require.NoError(t, err)

	rt, ok := ecs.Get(w, reg.MustLookup("a"), component.PortalRuntimeComponent)
	require.True(t, ok)
	assert.True(t, rt.Disabled)
	assert.False(t, system.IsPortalEligible(w, reg.MustLookup("a")))
}

func TestBuildLevelRejectsNil(t *testing.T) {
	_, err := BuildLevel(nil, &levels.LevelSpec{})
	assert.Error(t, err)
	_, err = BuildLevel(ecs.NewWorld(), nil)
	assert.Error(t, err)
}

func TestRegistryForgetsDestroyed(t *testing.T) {
	w, reg := buildDemo(t)
	golem := reg.MustLookup("golem")
	require.True(t, w.DestroyEntity(golem))

	_, ok := reg.Actor("golem")
	assert.False(t, ok)
	assert.Panics(t, func() { reg.MustLookup("golem") })

	var empty *Registry
	_, ok = empty.Lookup("anything")
	assert.False(t, ok)
}

func TestMountDismount(t *testing.T) {
	w := ecs.NewWorld()
	cart := w.CreateEntity()
	require.NoError(t, ecs.Add(w, cart, component.VehicleComponent, component.Vehicle{}))
	other := w.CreateEntity()
	require.NoError(t, ecs.Add(w, other, component.VehicleComponent, component.Vehicle{}))
	rider := w.CreateEntity()
	plain := w.CreateEntity()

	require.NoError(t, Mount(w, cart, rider))
	assert.ErrorIs(t, Mount(w, other, rider), ErrAlreadyMounted)
	assert.ErrorIs(t, Mount(w, plain, rider), ErrNotVehicle)

	assert.True(t, Dismount(w, rider))
	assert.False(t, Dismount(w, rider))
	v, _ := ecs.Get(w, cart, component.VehicleComponent)
	assert.Empty(t, v.Riders)

	require.NoError(t, Mount(w, other, rider))

	w.DestroyEntity(other)
	assert.NoError(t, Mount(w, cart, rider), "riders of a destroyed vehicle can mount again")

	dead := w.CreateEntity()
	w.DestroyEntity(dead)
	assert.ErrorIs(t, Mount(w, cart, dead), component.ErrEntityNotAlive)
}
