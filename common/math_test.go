package common

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestEasingEndpoints(t *testing.T) {
	cases := []struct {
		name string
		fn   func(float64) float64
	}{
		{"quad", EaseOutQuad},
		{"cubic", EaseOutCubic},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, 0.0, c.fn(0))
			assert.Equal(t, 1.0, c.fn(1))
			assert.Equal(t, 1.0, c.fn(2), "input clamps above 1")
			assert.Greater(t, c.fn(0.5), 0.5, "ease-out runs ahead of linear")
		})
	}
	assert.InDelta(t, 0.75, EaseOutQuad(0.5), 1e-12)
	assert.InDelta(t, 0.875, EaseOutCubic(0.5), 1e-12)
}

func TestReachedAbsorbsAccumulation(t *testing.T) {
	elapsed := 0.0
	for i := 0; i < 10; i++ {
		elapsed += 0.1
	}
	assert.True(t, Reached(elapsed, 1.0))
	assert.False(t, Reached(0.9, 1.0))
}

func TestUnit(t *testing.T) {
	assert.Equal(t, cp.Vector{}, Unit(cp.Vector{}))
	u := Unit(cp.Vector{X: 3, Y: 4})
	assert.InDelta(t, 1.0, math.Hypot(u.X, u.Y), 1e-12)
	assert.InDelta(t, 0.6, u.X, 1e-12)
}
