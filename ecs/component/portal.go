package component

// PortalDirection restricts which way a portal can be travelled.
type PortalDirection string

const (
	PortalBidirectional PortalDirection = "bidirectional"
	// PortalOneWayIn portals can be entered but never used as an exit.
	PortalOneWayIn PortalDirection = "one_way_in"
	// PortalOneWayOut portals are exits only; entering them does nothing.
	PortalOneWayOut PortalDirection = "one_way_out"
)

// TargetFilter selects which categories of transport target a portal accepts.
type TargetFilter string

const (
	FilterAll              TargetFilter = "all"
	FilterAgentsOnly       TargetFilter = "agents_only"
	FilterVehicleOnly      TargetFilter = "vehicle_only"
	FilterAgentsAndAI      TargetFilter = "agents_and_ai"
	FilterVehicleAndAgents TargetFilter = "vehicle_and_agents"
)

// DirectionMode remaps the direction of the velocity carried through a portal.
type DirectionMode string

const (
	DirectionPreserve      DirectionMode = "preserve"
	DirectionReverse       DirectionMode = "reverse"
	DirectionTowardsTarget DirectionMode = "towards_target"
	DirectionZero          DirectionMode = "zero"
)

// MomentumPolicy governs the velocity an entity leaves the destination with.
type MomentumPolicy struct {
	Preserve   bool
	Multiplier float64
	Mode       DirectionMode
}

// ActivationMode selects what drives a portal between Inactive and Active.
type ActivationMode string

const (
	ActivationAlwaysActive ActivationMode = "always_active"
	ActivationCooperative  ActivationMode = "cooperative_trigger"
	ActivationExternal     ActivationMode = "external_trigger"
	ActivationTimed        ActivationMode = "timed"
)

// PortalPhase is the activation state of a portal.
type PortalPhase int

const (
	PortalInactive PortalPhase = iota
	PortalArming
	PortalActive
	PortalCooldown
)

func (p PortalPhase) String() string {
	switch p {
	case PortalInactive:
		return "inactive"
	case PortalArming:
		return "arming"
	case PortalActive:
		return "active"
	case PortalCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Portal is the authored configuration of a teleport endpoint.
type Portal struct {
	Name string
	// Destination is the ecs.Entity of the paired portal, 0 when unset.
	Destination uint64
	Direction   PortalDirection
	Filter      TargetFilter
	Momentum    MomentumPolicy

	Activation       ActivationMode
	RequiredAgents   int
	HoldTime         float64
	InactiveDuration float64
	// ActiveDuration auto-deactivates the portal when > 0.
	ActiveDuration   float64
	CooldownDuration float64

	FadeOut float64
	FadeIn  float64

	// ForwardX/ForwardY is the exit axis used by DirectionTowardsTarget. A zero
	// axis falls back to the portal's transform rotation.
	ForwardX float64
	ForwardY float64

	Zone AABB
}

var PortalComponent = NewComponent[Portal]()

// PortalRuntime is the mutable per-tick state of a portal.
type PortalRuntime struct {
	Phase PortalPhase
	// Elapsed is the arming timer while Arming, the active timer while Active
	// and the inactive timer of timed portals while Inactive.
	Elapsed float64
	// Cooldown is the remaining cooldown while Phase == PortalCooldown.
	Cooldown float64
	// Resume and ResumeElapsed hold the state restored when cooldown ends.
	Resume        PortalPhase
	ResumeElapsed float64

	Occupancy int
	Occupants []uint64

	// InTransit holds members of open or guarded transactions through this
	// portal or its pair.
	InTransit map[uint64]struct{}
	// Arrivals locks out entities that arrived here until they leave the zone.
	Arrivals map[uint64]struct{}

	ActivatedTick uint64
	Disabled      bool
	Warned        bool
}

var PortalRuntimeComponent = NewComponent[PortalRuntime]()
