package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
	"github.com/milk9111/portalworks/ecs/system"
)

func TestWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.Write(system.Record{Tick: 1, Kind: system.EventTeleported, Subject: 7, From: 2, To: 3, Txn: "a"}))
	require.NoError(t, w.Write(system.Record{Tick: 4, Kind: system.EventTeleportCancelled, Detail: "member destroyed"}))
	assert.Equal(t, 2, w.Lines())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Write(system.Record{}), ErrClosed)

	recs, err := ReadAll[system.Record](&buf)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(7), recs[0].Subject)
	assert.Equal(t, "member destroyed", recs[1].Detail)
}

func TestWriterRecordsTeleports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "run.jsonl.zst")
	tw, err := Create(path)
	require.NoError(t, err)

	w := ecs.NewWorld()
	w.AddSystem(system.NewZoneSystem())
	w.AddSystem(system.NewPortalSystem())
	w.AddSystem(system.NewTeleportSystem(system.WithEventSink(tw)))

	zone := component.AABB{X: -16, Y: -16, W: 32, H: 32}
	a := w.CreateEntity()
	require.NoError(t, ecs.Add(w, a, component.TransformComponent, component.Transform{ScaleX: 1, ScaleY: 1}))
	b := w.CreateEntity()
	require.NoError(t, ecs.Add(w, b, component.TransformComponent, component.Transform{X: 300, ScaleX: 1, ScaleY: 1}))
	require.NoError(t, ecs.Add(w, a, component.PortalComponent, component.Portal{Name: "a", Destination: uint64(b), Zone: zone}))
	require.NoError(t, ecs.Add(w, b, component.PortalComponent, component.Portal{Name: "b", Zone: zone}))

	agent := w.CreateEntity()
	require.NoError(t, ecs.Add(w, agent, component.AgentTagComponent, component.AgentTag{}))
	require.NoError(t, ecs.Add(w, agent, component.TransformComponent, component.Transform{ScaleX: 1, ScaleY: 1}))

	w.Update(1.0 / 60)
	require.NoError(t, tw.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := ReadAll[system.Record](f)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, system.EventTeleported, recs[0].Kind)
	assert.Equal(t, uint64(agent), recs[0].Subject)
	assert.Equal(t, uint64(1), recs[0].Tick)
	assert.NotEmpty(t, recs[0].Txn)
}
