// Package events carries domain facts between bounded contexts. Modules
// publish what happened; subscribers decide what to do about it. The bus
// lives in the platform layer so no module depends on another's internals.
package events

import (
	"context"
	"time"
)

// Event is a domain fact. Concrete events live in internal/events; this
// package only defines the envelope.
type Event interface {
	// EventName identifies the event type, e.g. "task.assigned".
	EventName() string
	// OccurredAt is the publish timestamp.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp; embed it in every concrete event.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a fresh envelope with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events it subscribed to. A handler error fails
// PublishSync but never the asynchronous Publish path.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus is the publish/subscribe surface modules program against.
type Bus interface {
	// Publish delivers the event to its subscribers asynchronously; the
	// publisher never learns whether handling succeeded.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event and waits, returning the first
	// handler error. Used where the publisher treats delivery as part of
	// its own operation.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the given EventName value.
	Subscribe(eventName string, handler Handler)
}
