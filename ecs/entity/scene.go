package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/system"
	"github.com/milk9111/portalworks/levels"
)

// Scene is a built level with its systems attached in tick order.
type Scene struct {
	Name     string
	World    *ecs.World
	Registry *Registry
	Pipeline *system.Pipeline
}

// LoadScene loads, validates and builds the named level.
func LoadScene(name string, opts ...system.Option) (*Scene, error) {
	spec, err := levels.LoadLevel(name)
	if err != nil {
		return nil, err
	}
	return NewScene(spec, opts...)
}

func NewScene(spec *levels.LevelSpec, opts ...system.Option) (*Scene, error) {
	if spec == nil {
		return nil, fmt.Errorf("scene: spec is nil")
	}
	w := ecs.NewWorld()
	reg, err := BuildLevel(w, spec)
	if err != nil {
		return nil, err
	}
	p := system.NewPipeline(reg, cp.Vector{X: spec.Gravity.X, Y: spec.Gravity.Y}, opts...)
	w.AddSystem(p.Scheduler())
	return &Scene{Name: spec.Name, World: w, Registry: reg, Pipeline: p}, nil
}

// Step advances the scene by one tick of dt seconds.
func (s *Scene) Step(dt float64) {
	if s == nil {
		return
	}
	s.World.Update(dt)
}
