package shared

import "context"

// EventHandler consumes domain events. EventTypes names the types the
// handler wants; an empty slice subscribes it to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is the side of the bus that services depend on.
// Services publish after their transaction commits, so implementations
// must not fail the call for handler errors.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the full bus contract: publishing, subscription
// management and lifecycle.
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for the given event types, or for
	// the handler's own EventTypes when none are given.
	Subscribe(handler EventHandler, eventTypes ...string)

	// Unsubscribe removes a handler from every subscription list.
	Unsubscribe(handler EventHandler)

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
