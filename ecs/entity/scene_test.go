package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
	"github.com/milk9111/portalworks/ecs/system"
)

type countingSink struct {
	kinds map[string]int
}

func (s *countingSink) Write(v any) error {
	if rec, ok := v.(system.Record); ok {
		s.kinds[rec.Kind]++
	}
	return nil
}

func TestDemoSceneRuns(t *testing.T) {
	sink := &countingSink{kinds: map[string]int{}}
	scene, err := LoadScene("demo", system.WithEventSink(sink))
	require.NoError(t, err)
	assert.Equal(t, "demo", scene.Name)

	runner := scene.Registry.MustLookup("runner")
	for i := 0; i < 180; i++ {
		scene.Step(1.0 / 60)
	}

	// the runner walks into west_gate and leaves east_gate along its forward axis
	tr, ok := ecs.Get(scene.World, runner, component.TransformComponent)
	require.True(t, ok)
	assert.Greater(t, tr.X, 880.0)
	assert.Positive(t, sink.kinds[system.EventTeleported])

	faller := scene.Registry.MustLookup("faller")
	fy, _ := ecs.Get(scene.World, faller, component.TransformComponent)
	assert.Greater(t, fy.Y, 500.0, "physics actors fall")
}

func TestLoadSceneUnknownLevel(t *testing.T) {
	_, err := LoadScene("does_not_exist")
	assert.Error(t, err)

	_, err = NewScene(nil)
	assert.Error(t, err)
}
