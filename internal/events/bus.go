// Package events broadcasts compiler activity to in-process subscribers.
package events

import (
	"time"

	"github.com/kelindar/event"
	"github.com/smazurov/avconv/internal/types"
)

// Bus wraps a kelindar/event dispatcher.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish publishes an event to all subscribers of its concrete type.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case DiagnosticEvent:
		event.Publish(b.dispatcher, e)
	case CompiledEvent:
		event.Publish(b.dispatcher, e)
	case ProfilesReloadedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type it accepts and returns an
// unsubscribe function. Unknown handler types get a no-op.
// Usage: unsub := bus.Subscribe(func(e DiagnosticEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(DiagnosticEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CompiledEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ProfilesReloadedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

// DiagnosticSink returns a sink publishing every diagnostic on the bus.
func (b *Bus) DiagnosticSink() types.DiagnosticSink {
	return types.SinkFunc(func(d types.Diagnostic) {
		b.Publish(DiagnosticEvent{Diagnostic: d, Timestamp: Now()})
	})
}

// Now formats the current time for event timestamps.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
