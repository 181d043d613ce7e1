package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/ecs"
)

// EventSink receives trace records. trace.Writer satisfies it.
type EventSink interface {
	Write(v any) error
}

type options struct {
	logger *zap.Logger
	sink   EventSink
	links  RideLinks
	hook   func(ecs.Entity)
}

// Option configures a system at construction time.
type Option func(*options)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEventSink records teleport and activation events.
func WithEventSink(s EventSink) Option {
	return func(o *options) { o.sink = s }
}

// WithRideLinks replaces the vehicle/rider collaborator.
func WithRideLinks(l RideLinks) Option {
	return func(o *options) {
		if l != nil {
			o.links = l
		}
	}
}

// WithTeleportHook is called for every member right after its position jumps,
// so ground detection and jump state can be reset.
func WithTeleportHook(fn func(ecs.Entity)) Option {
	return func(o *options) { o.hook = fn }
}

func buildOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		links:  ComponentRideLinks{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
