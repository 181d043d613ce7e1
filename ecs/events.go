package ecs

// Event is a generic ECS event payload. Type is one of the Event* names the
// pushing package declares.
type Event struct {
	Type string
	Data any
}

// Handler observes events delivered at the end of a tick.
type Handler func(Event)

// EventQueue collects events pushed during a tick. At the end of the tick the
// queue is delivered to subscribers in push order and cleared. Events pushed
// by a handler are delivered at the end of the next tick.
type EventQueue struct {
	items    []Event
	handlers []subscription
}

type subscription struct {
	typ string
	fn  Handler
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Subscribe registers fn for events of type typ. An empty typ matches all.
func (q *EventQueue) Subscribe(typ string, fn Handler) {
	if q == nil || fn == nil {
		return
	}
	q.handlers = append(q.handlers, subscription{typ: typ, fn: fn})
}

// Peek returns the pending events without consuming them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Filter returns the pending events of one type.
func (q *EventQueue) Filter(typ string) []Event {
	if q == nil {
		return nil
	}
	var out []Event
	for _, evt := range q.items {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	pending := q.items
	q.items = nil
	for _, evt := range pending {
		for _, sub := range q.handlers {
			if sub.typ == "" || sub.typ == evt.Type {
				sub.fn(evt)
			}
		}
	}
}
