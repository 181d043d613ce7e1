package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

func TestClassifierResolve(t *testing.T) {
	w := ecs.NewWorld()
	c := NewClassifier(nil)

	cart := addVehicle(t, w, 0, 0, 0, 0)
	wheel := w.CreateEntity()
	mustAdd(t, w, wheel, component.TransformComponent, component.Transform{X: -8, Y: 8})
	mustAdd(t, w, wheel, component.VehiclePartComponent, component.VehiclePart{Root: uint64(cart)})
	first := addAgent(t, w, -4, -10, 0, 0)
	second := addAgent(t, w, 4, -10, 0, 0)
	mount(t, w, cart, first)
	mount(t, w, cart, second)

	for _, raw := range []ecs.Entity{cart, wheel, first, second} {
		target, ok := c.Resolve(w, raw)
		require.True(t, ok)
		assert.Equal(t, cart, target.Root)
		assert.Equal(t, CategoryVehicle, target.Category)
		assert.True(t, target.Group)
		assert.Equal(t, []ecs.Entity{first, second}, target.Riders)
		assert.Equal(t, []ecs.Entity{wheel}, target.Parts)
		assert.Equal(t, []ecs.Entity{cart, first, second, wheel}, target.Members)
	}

	walker := addAgent(t, w, 100, 0, 0, 0)
	target, ok := c.Resolve(w, walker)
	require.True(t, ok)
	assert.Equal(t, CategoryAgent, target.Category)
	assert.Equal(t, []ecs.Entity{walker}, target.Members)
	assert.False(t, target.Group)

	golem := addAI(t, w, 200, 0)
	target, ok = c.Resolve(w, golem)
	require.True(t, ok)
	assert.Equal(t, CategoryAI, target.Category)
}

func TestClassifierEmptyVehicle(t *testing.T) {
	w := ecs.NewWorld()
	cart := addVehicle(t, w, 0, 0, 0, 0)

	target, ok := NewClassifier(nil).Resolve(w, cart)
	require.True(t, ok)
	assert.Equal(t, CategoryVehicle, target.Category)
	assert.False(t, target.Group)
	assert.Equal(t, []ecs.Entity{cart}, target.Members)
}

func TestClassifierRejects(t *testing.T) {
	w := ecs.NewWorld()
	c := NewClassifier(nil)

	crate := w.CreateEntity()
	mustAdd(t, w, crate, component.TransformComponent, component.Transform{})
	_, ok := c.Resolve(w, crate)
	assert.False(t, ok, "untagged")

	cart := addVehicle(t, w, 0, 0, 0, 0)
	wheel := w.CreateEntity()
	mustAdd(t, w, wheel, component.VehiclePartComponent, component.VehiclePart{Root: uint64(cart)})
	w.DestroyEntity(cart)
	_, ok = c.Resolve(w, wheel)
	assert.False(t, ok, "part of a destroyed vehicle")

	gone := addAgent(t, w, 0, 0, 0, 0)
	w.DestroyEntity(gone)
	_, ok = c.Resolve(w, gone)
	assert.False(t, ok, "dead entity")
}

func TestRiderOfDestroyedVehicleTravelsAlone(t *testing.T) {
	w := ecs.NewWorld()
	cart := addVehicle(t, w, 0, 0, 0, 0)
	rider := addAgent(t, w, 0, -10, 0, 0)
	mount(t, w, cart, rider)
	w.DestroyEntity(cart)

	target, ok := NewClassifier(nil).Resolve(w, rider)
	require.True(t, ok)
	assert.Equal(t, rider, target.Root)
	assert.Equal(t, CategoryAgent, target.Category)
}

func TestFilterAllows(t *testing.T) {
	tests := []struct {
		filter  component.TargetFilter
		agent   bool
		ai      bool
		vehicle bool
	}{
		{component.FilterAll, true, true, true},
		{"", true, true, true},
		{component.FilterAgentsOnly, true, false, false},
		{component.FilterVehicleOnly, false, false, true},
		{component.FilterAgentsAndAI, true, true, false},
		{component.FilterVehicleAndAgents, true, false, true},
		{"bogus", false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			assert.Equal(t, tt.agent, FilterAllows(tt.filter, CategoryAgent))
			assert.Equal(t, tt.ai, FilterAllows(tt.filter, CategoryAI))
			assert.Equal(t, tt.vehicle, FilterAllows(tt.filter, CategoryVehicle))
		})
	}
}

type fixedLinks struct {
	ComponentRideLinks
	velocity cp.Vector
}

func (l fixedLinks) Velocity(*ecs.World, ecs.Entity) cp.Vector { return l.velocity }

func TestCustomRideLinksVelocity(t *testing.T) {
	w, _ := teleportWorld(WithRideLinks(fixedLinks{velocity: cp.Vector{X: 0, Y: -7}}))
	a := addPortal(t, w, 0, 0, component.Portal{})
	b := addPortal(t, w, 500, 0, component.Portal{})
	link(t, w, a, b)
	cart := addVehicle(t, w, 0, 0, 3, 0)

	w.Update(tick)
	assert.Equal(t, component.Velocity{X: 0, Y: -7}, velocity(t, w, cart))
}

func TestApplyMomentum(t *testing.T) {
	tests := []struct {
		name    string
		policy  component.MomentumPolicy
		v       cp.Vector
		forward cp.Vector
		want    cp.Vector
	}{
		{"preserve", component.MomentumPolicy{Preserve: true, Multiplier: 2, Mode: component.DirectionPreserve}, cp.Vector{X: 3, Y: 0}, cp.Vector{}, cp.Vector{X: 6, Y: 0}},
		{"reverse", component.MomentumPolicy{Preserve: true, Multiplier: 1, Mode: component.DirectionReverse}, cp.Vector{X: 3, Y: 1}, cp.Vector{}, cp.Vector{X: -3, Y: -1}},
		{"towards target", component.MomentumPolicy{Preserve: true, Multiplier: 2, Mode: component.DirectionTowardsTarget}, cp.Vector{X: 3, Y: 0}, cp.Vector{X: 0, Y: 5}, cp.Vector{X: 0, Y: 6}},
		{"towards target without axis", component.MomentumPolicy{Preserve: true, Multiplier: 1, Mode: component.DirectionTowardsTarget}, cp.Vector{X: 3, Y: 4}, cp.Vector{}, cp.Vector{X: 3, Y: 4}},
		{"zero", component.MomentumPolicy{Preserve: true, Multiplier: 9, Mode: component.DirectionZero}, cp.Vector{X: 3, Y: 4}, cp.Vector{X: 1}, cp.Vector{}},
		{"not preserved", component.MomentumPolicy{Multiplier: 2, Mode: component.DirectionPreserve}, cp.Vector{X: 3, Y: 4}, cp.Vector{}, cp.Vector{}},
		{"multiplier zero", component.MomentumPolicy{Preserve: true, Mode: component.DirectionPreserve}, cp.Vector{X: 3, Y: 4}, cp.Vector{}, cp.Vector{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyMomentum(tt.policy, tt.v, tt.forward)
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
		})
	}
}
