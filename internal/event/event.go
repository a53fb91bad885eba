package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/linelight/internal/event/topic"
)

// Event is a typed event carrying a payload of type T.
type Event[T any] struct {
	// Topic identifies the kind of event.
	Topic topic.Topic

	// Payload is the event data.
	Payload T

	// Metadata carries tracing information.
	Metadata Metadata
}

// Metadata holds event bookkeeping.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source names the component that published the event.
	Source string
}

// NewEvent creates an event with fresh metadata.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Topic:   eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event topic.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Topic
}

// EventMetadata returns the event metadata.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// TopicProvider is implemented by types that can provide their topic.
type TopicProvider interface {
	EventTopic() topic.Topic
}
