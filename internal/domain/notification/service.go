package notification

import "context"

// Emitter accepts lifecycle events. Emit never reports delivery problems to
// the caller; the state change that produced the event is already committed.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// Sink is one delivery target behind the dispatcher.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}

// Streamer lets HTTP clients follow their own events.
type Streamer interface {
	Subscribe(employeeID string) (<-chan StreamMessage, func())
}
