package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/ecs"
)

// World event types pushed by the portal subsystem.
const (
	EventTeleported         = "teleported"
	EventTeleportCancelled  = "teleport_cancelled"
	EventActivated          = "activated"
	EventDeactivated        = "deactivated"
	EventPlateStateChanged  = "plate_state_changed"
	EventScriptNotification = "script"
)

// TeleportedEvent is the payload of EventTeleported, one per member.
type TeleportedEvent struct {
	Entity      ecs.Entity
	From        ecs.Entity
	To          ecs.Entity
	Transaction string
}

// ActivationEvent is the payload of EventActivated and EventDeactivated.
type ActivationEvent struct {
	Target ecs.Entity
}

// Record is one line of the event trace.
type Record struct {
	Tick    uint64  `json:"tick"`
	Time    float64 `json:"time"`
	Kind    string  `json:"kind"`
	Subject uint64  `json:"subject,omitempty"`
	From    uint64  `json:"from,omitempty"`
	To      uint64  `json:"to,omitempty"`
	Txn     string  `json:"txn,omitempty"`
	Detail  string  `json:"detail,omitempty"`
}

func emit(w *ecs.World, sink EventSink, logger *zap.Logger, rec Record) {
	if sink == nil {
		return
	}
	rec.Tick = w.Tick()
	rec.Time = w.Time()
	if err := sink.Write(rec); err != nil && logger != nil {
		logger.Warn("trace: write failed", zap.String("kind", rec.Kind), zap.Error(err))
	}
}
