package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
)

type names map[string]ecs.Entity

func (n names) Lookup(name string) (ecs.Entity, bool) {
	e, ok := n[name]
	return e, ok
}

func addScript(t *testing.T, w *ecs.World, src string) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	mustAdd(t, w, e, component.ScriptTriggerComponent, component.ScriptTrigger{Path: t.Name() + ".tengo", Source: []byte(src)})
	return e
}

func TestScriptTogglesSwitchOnTimer(t *testing.T) {
	sink := &recorder{}
	w := ecs.NewWorld()
	lamp := w.CreateEntity()
	mustAdd(t, w, lamp, component.SwitchComponent, component.Switch{})
	w.AddSystem(NewScriptTriggerSystem(names{"lamp": lamp}, WithEventSink(sink)))
	addScript(t, w, `
update := func(engine, state) {
	if is_undefined(state.next) {
		state.next = 0.5
	}
	if engine.time() < state.next {
		return
	}
	state.next = state.next + 0.5
	if engine.is_active("lamp") {
		engine.deactivate("lamp")
	} else {
		engine.activate("lamp")
	}
	engine.emit("toggled")
}
`)

	on := func() bool {
		sw, _ := ecs.Get(w, lamp, component.SwitchComponent)
		return sw.On
	}
	for i := 0; i < 4; i++ {
		w.Update(0.1)
		assert.False(t, on())
	}
	w.Update(0.1)
	assert.True(t, on())
	for i := 0; i < 6; i++ {
		w.Update(0.1)
	}
	assert.False(t, on())
	assert.Len(t, sink.kinds(EventScriptNotification), 2)
	assert.Equal(t, "toggled", sink.kinds(EventScriptNotification)[0].Detail)
}

func TestScriptDrivesPortal(t *testing.T) {
	w, _ := teleportWorld()
	gate := addPortal(t, w, 0, 0, component.Portal{Activation: component.ActivationExternal})
	w.AddSystem(NewScriptTriggerSystem(names{"gate": gate}))
	addScript(t, w, `
update := func(engine, state) {
	if is_undefined(state.done) {
		state.done = engine.external_activate("gate", 0.3)
	}
}
`)

	w.Update(0.1)
	assert.Equal(t, component.PortalActive, PortalPhase(w, gate))
	for i := 0; i < 3; i++ {
		w.Update(0.1)
	}
	assert.Equal(t, component.PortalInactive, PortalPhase(w, gate))
}

func TestScriptReadsOccupancyAndWeight(t *testing.T) {
	sink := &recorder{}
	w, _ := teleportWorld()
	vault := addPortal(t, w, 0, 0, component.Portal{Activation: component.ActivationExternal})
	plate := w.CreateEntity()
	mustAdd(t, w, plate, component.TransformComponent, component.Transform{X: 200})
	mustAdd(t, w, plate, component.PressurePlateComponent, component.PressurePlate{RequiredWeight: 100, Zone: testZone})
	addAgent(t, w, 0, 0, 0, 0)
	load := addAgent(t, w, 200, 0, 0, 0)
	mustAdd(t, w, load, component.WeightComponent, component.Weight{Value: 2.5})
	w.AddSystem(NewScriptTriggerSystem(names{"vault": vault, "scale": plate}, WithEventSink(sink)))
	addScript(t, w, `
update := func(engine, state) {
	if engine.occupancy("vault") == 1 && engine.plate_weight("scale") == 2.5 {
		engine.emit("ready")
	}
	if engine.occupancy("nowhere") != 0 || engine.activate("nowhere") {
		engine.emit("broken")
	}
}
`)

	w.Update(0.1)
	w.Update(0.1)
	require.NotEmpty(t, sink.kinds(EventScriptNotification))
	for _, rec := range sink.kinds(EventScriptNotification) {
		assert.Equal(t, "ready", rec.Detail)
	}
}

func TestScriptCompileErrorLoggedOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w := ecs.NewWorld()
	w.AddSystem(NewScriptTriggerSystem(names{}, WithLogger(zap.New(core))))
	addScript(t, w, `update := func(engine, state) {`)
	addScript(t, w, "")

	for i := 0; i < 5; i++ {
		w.Update(0.1)
	}
	assert.Equal(t, 2, logs.FilterMessage("script: compile failed").Len())
}

func TestScriptRuntimeErrorKeepsRunning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w := ecs.NewWorld()
	w.AddSystem(NewScriptTriggerSystem(names{}, WithLogger(zap.New(core))))
	addScript(t, w, `
update := func(engine, state) {
	engine.nothing()
}
`)

	w.Update(0.1)
	w.Update(0.1)
	assert.Equal(t, 2, logs.FilterMessage("script: update failed").Len())
}
