package event

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/linelight/internal/event/topic"
)

// Bus is the event bus interface.
type Bus interface {
	// Publish delivers an event to every matching subscription and returns
	// once all handlers have run. Handler failures are joined into the
	// returned error; they never stop delivery to other handlers.
	Publish(ctx context.Context, event any) error

	Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	Start() error
	Stop(ctx context.Context) error
	IsRunning() bool

	Stats() Stats
}

// bus is the default Bus implementation.
type bus struct {
	mu   sync.RWMutex
	subs map[string]*subscription
	seq  uint64

	running atomic.Bool
	config  busConfig

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &bus{
		subs:   make(map[string]*subscription),
		config: config,
	}
}

// Start starts the event bus.
func (b *bus) Start() error {
	if !b.running.CompareAndSwap(false, true) {
		return ErrBusAlreadyRunning
	}
	return nil
}

// Stop stops the event bus. Subscriptions are kept so the bus can be
// restarted.
func (b *bus) Stop(_ context.Context) error {
	if !b.running.CompareAndSwap(true, false) {
		return ErrBusNotRunning
	}
	return nil
}

// IsRunning reports whether the bus accepts events.
func (b *bus) IsRunning() bool {
	return b.running.Load()
}

// Publish delivers the event synchronously in priority order.
func (b *bus) Publish(ctx context.Context, event any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}

	provider, ok := event.(TopicProvider)
	if !ok || !provider.EventTopic().IsValid() {
		return ErrInvalidEvent
	}
	eventTopic := provider.EventTopic()
	b.eventsPublished.Add(1)

	// Handlers may subscribe, unsubscribe or publish while we deliver, so
	// work from a snapshot and release the lock first.
	subs := b.match(eventTopic)

	var errs []error
	for _, sub := range subs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if !sub.shouldDeliver(event) {
			continue
		}
		if err := b.deliver(ctx, sub, eventTopic, event); err != nil {
			errs = append(errs, err)
			continue
		}
		b.eventsDelivered.Add(1)
		if sub.config.Once {
			sub.Cancel()
			b.remove(sub.id)
		}
	}
	return errors.Join(errs...)
}

func (b *bus) deliver(ctx context.Context, sub *subscription, t topic.Topic, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			perr := &PanicError{SubscriptionID: sub.id, Topic: t.String(), Value: r}
			b.config.logger.Error("event handler panicked",
				zap.String("topic", t.String()),
				zap.String("subscription", sub.id),
				zap.Any("panic", r))
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, perr)
			}
			err = perr
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.handlerErrors.Add(1)
		b.config.logger.Debug("event handler failed",
			zap.String("topic", t.String()),
			zap.String("subscription", sub.id),
			zap.Error(herr))
		return &HandlerError{SubscriptionID: sub.id, Topic: t.String(), Err: herr}
	}
	return nil
}

func (b *bus) match(t topic.Topic) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var result []*subscription
	for _, sub := range b.subs {
		if sub.IsActive() && t.Matches(sub.topic) {
			result = append(result, sub)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].config.Priority != result[j].config.Priority {
			return result[i].config.Priority < result[j].config.Priority
		}
		return result[i].seq < result[j].seq
	})
	return result
}

// Subscribe registers a handler for a topic pattern.
func (b *bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if !topicPattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, topicPattern)
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	config := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&config)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	sub := &subscription{
		id:      uuid.NewString(),
		topic:   topicPattern,
		handler: handler,
		config:  config,
		seq:     b.seq,
	}
	b.subs[sub.id] = sub
	return sub, nil
}

// SubscribeFunc registers a handler function for a topic pattern.
func (b *bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(topicPattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	if !b.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (b *bus) remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[id]; !ok {
		return false
	}
	delete(b.subs, id)
	return true
}

// Stats returns a snapshot of bus counters.
func (b *bus) Stats() Stats {
	b.mu.RLock()
	count := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		SubscriptionCount: count,
	}
}

// SubscribePayload subscribes a handler that receives only the payload of
// Event[T] values. Events of other types on the same topic are ignored.
func SubscribePayload[T any](b Bus, topicPattern topic.Topic, fn func(ctx context.Context, payload T) error, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.SubscribeFunc(topicPattern, func(ctx context.Context, event any) error {
		switch e := event.(type) {
		case Event[T]:
			return fn(ctx, e.Payload)
		case *Event[T]:
			return fn(ctx, e.Payload)
		}
		return nil
	}, opts...)
}
