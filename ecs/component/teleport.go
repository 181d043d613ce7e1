package component

// TeleportPhase is the step a teleport transaction is in.
type TeleportPhase int

const (
	TeleportIdle TeleportPhase = iota
	TeleportFadingOut
	TeleportSwapping
	TeleportFadingIn
	TeleportClosed
)

func (p TeleportPhase) String() string {
	switch p {
	case TeleportIdle:
		return "idle"
	case TeleportFadingOut:
		return "fading_out"
	case TeleportSwapping:
		return "swapping"
	case TeleportFadingIn:
		return "fading_in"
	case TeleportClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MemberSnapshot is the state of a member saved when the transaction opens,
// restored on close or cancellation.
type MemberSnapshot struct {
	ScaleX     float64
	ScaleY     float64
	Rotation   float64
	Alpha      float64
	HasOpacity bool
	VX         float64
	VY         float64

	HasBody      bool
	BodyType     int
	Mass         float64
	Moment       float64
	GravityScale float64
	HasGravity   bool
}

// TeleportTransaction is the transient record of one teleport. It lives on
// its own entity from the moment a portal accepts a target until the guard
// window after the swap has elapsed.
type TeleportTransaction struct {
	ID          string
	Source      uint64
	Destination uint64
	// Representative is the vehicle for group transport, else the entity.
	Representative uint64
	Members        []uint64
	// Riders are the members that rode the vehicle when the transaction
	// opened, in mount order.
	Riders    []uint64
	Snapshots map[uint64]MemberSnapshot

	Phase   TeleportPhase
	Elapsed float64
	FadeOut float64
	FadeIn  float64

	SavedVX   float64
	SavedVY   float64
	AppliedVX float64
	AppliedVY float64

	Swapped        bool
	GuardRemaining float64
	Cancelled      bool
}

var TeleportTransactionComponent = NewComponent[TeleportTransaction]()

// Teleporting marks a member of an open transaction. Transaction is the
// ecs.Entity of the transaction record.
type Teleporting struct {
	Transaction uint64
}

var TeleportingComponent = NewComponent[Teleporting]()
