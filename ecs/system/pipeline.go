package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/portalworks/ecs"
)

// Pipeline holds the portal subsystem in tick order. Portal and plate timers
// always run before TeleportSystem, so a target activated this tick cannot
// teleport anything until the next one.
type Pipeline struct {
	Scripts  *ScriptTriggerSystem
	Zones    *ZoneSystem
	Plates   *PressurePlateSystem
	Portals  *PortalSystem
	Teleport *TeleportSystem
	Physics  *PhysicsSystem

	sched *ecs.Scheduler
}

// Stage names, in tick order.
const (
	StageScripts  = "scripts"
	StageZones    = "zones"
	StagePlates   = "plates"
	StagePortals  = "portals"
	StageTeleport = "teleport"
	StagePhysics  = "physics"
)

func NewPipeline(resolver Resolver, gravity cp.Vector, opts ...Option) *Pipeline {
	return &Pipeline{
		Scripts:  NewScriptTriggerSystem(resolver, opts...),
		Zones:    NewZoneSystem(opts...),
		Plates:   NewPressurePlateSystem(opts...),
		Portals:  NewPortalSystem(opts...),
		Teleport: NewTeleportSystem(opts...),
		Physics:  NewPhysicsSystem(gravity, opts...),
	}
}

// Scheduler returns the systems as a single stage for ecs.World.AddSystem.
// The same scheduler is returned on every call.
func (p *Pipeline) Scheduler() *ecs.Scheduler {
	if p.sched == nil {
		p.sched = (&ecs.Scheduler{}).
			Stage(StageScripts, p.Scripts).
			Stage(StageZones, p.Zones).
			Stage(StagePlates, p.Plates).
			Stage(StagePortals, p.Portals).
			Stage(StageTeleport, p.Teleport).
			Stage(StagePhysics, p.Physics)
	}
	return p.sched
}
