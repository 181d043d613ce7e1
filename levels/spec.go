package levels

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("levels: invalid config")

const (
	defaultFade           = 0.25
	defaultZoneSize       = 64.0
	defaultRequiredAgents = 2
)

// Actor kinds.
const (
	KindAgent   = "agent"
	KindAI      = "ai"
	KindVehicle = "vehicle"
)

type LevelSpec struct {
	Name     string       `yaml:"name"`
	Gravity  VectorSpec   `yaml:"gravity"`
	Portals  []PortalSpec `yaml:"portals"`
	Plates   []PlateSpec  `yaml:"plates"`
	Actors   []ActorSpec  `yaml:"actors"`
	Switches []SwitchSpec `yaml:"switches"`
	Scripts  []ScriptSpec `yaml:"scripts"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ZoneSpec is a trigger box relative to its owner's position.
type ZoneSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type MomentumSpec struct {
	Preserve   *bool    `yaml:"preserve"`
	Multiplier *float64 `yaml:"multiplier"`
	Mode       string   `yaml:"mode"`
}

type ActivationSpec struct {
	Mode             string  `yaml:"mode"`
	RequiredAgents   int     `yaml:"required_agents"`
	HoldTime         float64 `yaml:"hold_time"`
	InactiveDuration float64 `yaml:"inactive_duration"`
}

type PortalSpec struct {
	Name           string         `yaml:"name"`
	X              float64        `yaml:"x"`
	Y              float64        `yaml:"y"`
	Rotation       float64        `yaml:"rotation"`
	Zone           *ZoneSpec      `yaml:"zone"`
	Destination    string         `yaml:"destination"`
	Direction      string         `yaml:"direction"`
	Filter         string         `yaml:"filter"`
	Momentum       MomentumSpec   `yaml:"momentum"`
	Activation     ActivationSpec `yaml:"activation"`
	ActiveDuration float64        `yaml:"active_duration"`
	Cooldown       float64        `yaml:"cooldown"`
	FadeOut        *float64       `yaml:"fade_out"`
	FadeIn         *float64       `yaml:"fade_in"`
	Forward        VectorSpec     `yaml:"forward"`
	Disabled       bool           `yaml:"disabled"`
}

type PlateSpec struct {
	Name           string    `yaml:"name"`
	X              float64   `yaml:"x"`
	Y              float64   `yaml:"y"`
	Zone           *ZoneSpec `yaml:"zone"`
	RequiredWeight float64   `yaml:"required_weight"`
	HoldTime       float64   `yaml:"hold_time"`
	OneShot        bool      `yaml:"one_shot"`
	Targets        []string  `yaml:"targets"`
	ActiveDuration float64   `yaml:"active_duration"`
}

type ActorSpec struct {
	Name         string     `yaml:"name"`
	Kind         string     `yaml:"kind"`
	X            float64    `yaml:"x"`
	Y            float64    `yaml:"y"`
	Width        float64    `yaml:"width"`
	Height       float64    `yaml:"height"`
	Mass         float64    `yaml:"mass"`
	Weight       float64    `yaml:"weight"`
	Velocity     VectorSpec `yaml:"velocity"`
	GravityScale *float64   `yaml:"gravity_scale"`
	// Physics gives the actor a dynamic Chipmunk body. Without it the actor
	// moves kinematically by its velocity.
	Physics bool       `yaml:"physics"`
	Riders  []string   `yaml:"riders"`
	Parts   []PartSpec `yaml:"parts"`
}

// PartSpec is a vehicle sub-collider placed relative to the vehicle.
type PartSpec struct {
	Name   string  `yaml:"name"`
	DX     float64 `yaml:"dx"`
	DY     float64 `yaml:"dy"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type SwitchSpec struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

type ScriptSpec struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("levels: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("levels: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Parse decodes, normalizes and validates a level document.
func Parse(data []byte) (*LevelSpec, error) {
	var spec LevelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// LoadLevel loads a level by file name from disk or the embedded levels.
func LoadLevel(filename string) (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](filename)
	if err != nil {
		return nil, err
	}
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", filename, err)
	}
	return &spec, nil
}

// Normalize fills in defaults for every omitted field.
func (l *LevelSpec) Normalize() {
	for i := range l.Portals {
		p := &l.Portals[i]
		if p.Zone == nil {
			p.Zone = defaultZone()
		}
		if p.Direction == "" {
			p.Direction = "bidirectional"
		}
		if p.Filter == "" {
			p.Filter = "all"
		}
		if p.Momentum.Preserve == nil {
			p.Momentum.Preserve = ptr(true)
		}
		if p.Momentum.Multiplier == nil {
			p.Momentum.Multiplier = ptr(1.0)
		}
		if p.Momentum.Mode == "" {
			p.Momentum.Mode = "preserve"
		}
		if p.Activation.Mode == "" {
			p.Activation.Mode = "always_active"
		}
		if p.Activation.Mode == "cooperative_trigger" && p.Activation.RequiredAgents == 0 {
			p.Activation.RequiredAgents = defaultRequiredAgents
		}
		if p.FadeOut == nil {
			p.FadeOut = ptr(defaultFade)
		}
		if p.FadeIn == nil {
			p.FadeIn = ptr(defaultFade)
		}
	}
	for i := range l.Plates {
		if l.Plates[i].Zone == nil {
			l.Plates[i].Zone = defaultZone()
		}
	}
	for i := range l.Actors {
		if l.Actors[i].Kind == "" {
			l.Actors[i].Kind = KindAgent
		}
	}
}

func defaultZone() *ZoneSpec {
	return &ZoneSpec{X: -defaultZoneSize / 2, Y: -defaultZoneSize / 2, W: defaultZoneSize, H: defaultZoneSize}
}

func ptr[T any](v T) *T {
	return &v
}
