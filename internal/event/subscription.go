package event

import (
	"sync/atomic"

	"github.com/dshills/linelight/internal/event/topic"
)

// Subscription represents an active event subscription.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic pattern.
	Topic() topic.Topic

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Cancel permanently stops delivery. The bus drops cancelled
	// subscriptions on its next publish.
	Cancel()
}

// SubscriptionConfig holds subscription settings.
type SubscriptionConfig struct {
	// Priority orders handler execution (lower first).
	Priority Priority

	// Filter optionally rejects events before the handler runs.
	Filter FilterFunc

	// Once cancels the subscription after its first successful delivery.
	Once bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the handler priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets a delivery filter.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce makes the subscription one-shot.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

type subscription struct {
	id        string
	topic     topic.Topic
	handler   Handler
	config    SubscriptionConfig
	seq       uint64
	cancelled atomic.Bool
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.topic }
func (s *subscription) IsActive() bool     { return !s.cancelled.Load() }
func (s *subscription) Cancel()            { s.cancelled.Store(true) }

func (s *subscription) shouldDeliver(event any) bool {
	if s.cancelled.Load() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(event) {
		return false
	}
	return true
}
