package event

import (
	"context"

	"github.com/dshills/linelight/internal/event/topic"
)

// Publisher stamps events with a fixed source before publishing them.
type Publisher struct {
	bus    Bus
	source string
}

// NewPublisher creates a publisher for the given source name.
func NewPublisher(bus Bus, source string) *Publisher {
	return &Publisher{bus: bus, source: source}
}

// Source returns the publisher's source name.
func (p *Publisher) Source() string {
	return p.source
}

// Bus returns the underlying bus.
func (p *Publisher) Bus() Bus {
	return p.bus
}

// PublishEvent wraps payload in an Event[T] and publishes it.
func PublishEvent[T any](ctx context.Context, p *Publisher, eventType topic.Topic, payload T) error {
	return p.bus.Publish(ctx, NewEvent(eventType, payload, p.source))
}
