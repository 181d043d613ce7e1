package levels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLevelDemo(t *testing.T) {
	spec, err := LoadLevel("demo")
	require.NoError(t, err)

	assert.Equal(t, "demo", spec.Name)
	assert.NotEmpty(t, spec.Portals)
	assert.NotEmpty(t, spec.Actors)

	for _, s := range spec.Scripts {
		src, err := LoadScript(s.Path)
		require.NoError(t, err, s.Path)
		assert.Contains(t, string(src), "update")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	spec, err := Parse([]byte(`
portals:
  - name: a
    destination: b
  - name: b
    activation: {mode: cooperative_trigger}
actors:
  - name: hero
`))
	require.NoError(t, err)

	a := spec.Portals[0]
	assert.Equal(t, "bidirectional", a.Direction)
	assert.Equal(t, "all", a.Filter)
	assert.Equal(t, "preserve", a.Momentum.Mode)
	require.NotNil(t, a.Momentum.Preserve)
	assert.True(t, *a.Momentum.Preserve)
	require.NotNil(t, a.Momentum.Multiplier)
	assert.Equal(t, 1.0, *a.Momentum.Multiplier)
	assert.Equal(t, "always_active", a.Activation.Mode)
	assert.Equal(t, 0.25, *a.FadeOut)
	assert.Equal(t, 0.25, *a.FadeIn)
	assert.Equal(t, ZoneSpec{X: -32, Y: -32, W: 64, H: 64}, *a.Zone)

	assert.Equal(t, 2, spec.Portals[1].Activation.RequiredAgents)
	assert.Equal(t, KindAgent, spec.Actors[0].Kind)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "portal without destination is valid",
			doc: `
portals:
  - name: lonely
`,
		},
		{
			name: "duplicate names",
			doc: `
portals:
  - name: a
switches:
  - name: a
`,
			wantErr: true,
		},
		{
			name: "unknown destination",
			doc: `
portals:
  - name: a
    destination: nowhere
`,
			wantErr: true,
		},
		{
			name: "destination is itself",
			doc: `
portals:
  - name: a
    destination: a
`,
			wantErr: true,
		},
		{
			name: "one way in cooperative trigger",
			doc: `
portals:
  - name: a
    destination: b
    direction: one_way_in
    activation: {mode: cooperative_trigger, required_agents: 2}
  - name: b
`,
			wantErr: true,
		},
		{
			name: "negative cooldown",
			doc: `
portals:
  - name: a
    cooldown: -1
`,
			wantErr: true,
		},
		{
			name: "negative multiplier",
			doc: `
portals:
  - name: a
    momentum: {multiplier: -2}
`,
			wantErr: true,
		},
		{
			name: "unknown activation mode",
			doc: `
portals:
  - name: a
    activation: {mode: sometimes}
`,
			wantErr: true,
		},
		{
			name: "plate targets switch and portal",
			doc: `
portals:
  - name: p
switches:
  - name: s
plates:
  - name: plate
    required_weight: 10
    targets: [p, s]
`,
		},
		{
			name: "plate targets actor",
			doc: `
actors:
  - name: hero
plates:
  - name: plate
    targets: [hero]
`,
			wantErr: true,
		},
		{
			name: "rider on two vehicles",
			doc: `
actors:
  - name: hero
  - name: cart
    kind: vehicle
    riders: [hero]
  - name: boat
    kind: vehicle
    riders: [hero]
`,
			wantErr: true,
		},
		{
			name: "rider must be an agent",
			doc: `
actors:
  - name: bot
    kind: ai
  - name: cart
    kind: vehicle
    riders: [bot]
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadMissingLevel(t *testing.T) {
	_, err := LoadLevel("does_not_exist")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidConfig))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, LevelChanged, classify("levels/demo.yaml"))
	assert.Equal(t, ScriptChanged, classify("levels/scripts/lamp.tengo"))
	assert.Equal(t, ChangeKind(0), classify("levels/readme.md"))
}
