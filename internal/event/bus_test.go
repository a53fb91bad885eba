package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/linelight/internal/event/topic"
)

type testPayload struct {
	Value int
}

func newStartedBus(t *testing.T, opts ...BusOption) Bus {
	t.Helper()
	b := NewBus(opts...)
	if err := b.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() { _ = b.Stop(context.Background()) })
	return b
}

func TestBus_StartStop(t *testing.T) {
	bus := NewBus()

	if err := bus.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !bus.IsRunning() {
		t.Error("expected bus to be running after Start()")
	}
	if err := bus.Start(); !errors.Is(err, ErrBusAlreadyRunning) {
		t.Errorf("expected ErrBusAlreadyRunning, got %v", err)
	}

	if err := bus.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := bus.Stop(context.Background()); !errors.Is(err, ErrBusNotRunning) {
		t.Errorf("expected ErrBusNotRunning, got %v", err)
	}

	evt := NewEvent(topic.Topic("view.caret.moved"), testPayload{}, "test")
	if err := bus.Publish(context.Background(), evt); !errors.Is(err, ErrBusNotRunning) {
		t.Errorf("Publish on stopped bus: expected ErrBusNotRunning, got %v", err)
	}
}

func TestBus_SubscribeValidation(t *testing.T) {
	bus := newStartedBus(t)

	if _, err := bus.Subscribe("", HandlerFunc(func(context.Context, any) error { return nil })); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: expected ErrInvalidTopic, got %v", err)
	}
	if _, err := bus.Subscribe("view.caret.moved", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: expected ErrNilHandler, got %v", err)
	}
	if _, err := bus.SubscribeFunc("view.caret.moved", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil func: expected ErrNilHandler, got %v", err)
	}
}

func TestBus_PublishDeliversSynchronously(t *testing.T) {
	bus := newStartedBus(t)

	var got []int
	_, err := SubscribePayload(bus, "view.caret.moved", func(_ context.Context, p testPayload) error {
		got = append(got, p.Value)
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribePayload() failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := bus.Publish(context.Background(), NewEvent(topic.Topic("view.caret.moved"), testPayload{Value: i}, "test")); err != nil {
			t.Fatalf("Publish() failed: %v", err)
		}
		if len(got) != i {
			t.Fatalf("after publish %d: delivered %d events, want %d", i, len(got), i)
		}
	}

	// Non-matching topic is not delivered.
	_ = bus.Publish(context.Background(), NewEvent(topic.Topic("view.layout.changed"), testPayload{Value: 9}, "test"))
	if len(got) != 3 {
		t.Errorf("non-matching topic delivered: %v", got)
	}
}

func TestBus_PriorityOrder(t *testing.T) {
	bus := newStartedBus(t)

	var order []string
	record := func(name string) HandlerFunc {
		return func(context.Context, any) error {
			order = append(order, name)
			return nil
		}
	}

	bus.SubscribeFunc("view.**", record("low"), WithPriority(PriorityLow))
	bus.SubscribeFunc("view.layout.changed", record("normal-1"))
	bus.SubscribeFunc("view.*.changed", record("critical"), WithPriority(PriorityCritical))
	bus.SubscribeFunc("view.layout.changed", record("normal-2"))

	if err := bus.Publish(context.Background(), NewEvent(topic.Topic("view.layout.changed"), 0, "test")); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	want := []string{"critical", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestBus_HandlerErrorsAndPanics(t *testing.T) {
	var panicked *PanicError
	bus := newStartedBus(t, WithPanicHandler(func(_ any, err *PanicError) {
		panicked = err
	}))

	boom := errors.New("boom")
	delivered := false
	bus.SubscribeFunc("view.caret.moved", func(context.Context, any) error { return boom })
	bus.SubscribeFunc("view.caret.moved", func(context.Context, any) error { panic("kaboom") })
	bus.SubscribeFunc("view.caret.moved", func(context.Context, any) error {
		delivered = true
		return nil
	}, WithPriority(PriorityLow))

	err := bus.Publish(context.Background(), NewEvent(topic.Topic("view.caret.moved"), 0, "test"))
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to contain handler error, got %v", err)
	}
	if !errors.Is(err, ErrHandlerPanic) {
		t.Errorf("expected joined error to contain panic, got %v", err)
	}
	var herr *HandlerError
	if !errors.As(err, &herr) || herr.Topic != "view.caret.moved" {
		t.Errorf("expected HandlerError with topic, got %v", herr)
	}
	if panicked == nil || panicked.Value != "kaboom" {
		t.Errorf("panic handler not called with value, got %+v", panicked)
	}
	if !delivered {
		t.Error("failing handlers must not stop delivery to later handlers")
	}

	stats := bus.Stats()
	if stats.HandlerErrors != 1 || stats.HandlerPanics != 1 || stats.EventsDelivered != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestBus_UnsubscribeDuringDelivery(t *testing.T) {
	bus := newStartedBus(t)

	var second Subscription
	calls := 0
	bus.SubscribeFunc("view.caret.moved", func(context.Context, any) error {
		return bus.Unsubscribe(second)
	}, WithPriority(PriorityCritical))
	second, _ = bus.SubscribeFunc("view.caret.moved", func(context.Context, any) error {
		calls++
		return nil
	})

	_ = bus.Publish(context.Background(), NewEvent(topic.Topic("view.caret.moved"), 0, "test"))
	if calls != 0 {
		t.Errorf("cancelled subscription received %d events", calls)
	}
	if err := bus.Unsubscribe(second); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe: expected ErrSubscriptionNotFound, got %v", err)
	}
	if bus.Stats().SubscriptionCount != 1 {
		t.Errorf("SubscriptionCount = %d, want 1", bus.Stats().SubscriptionCount)
	}
}

func TestBus_OnceAndFilter(t *testing.T) {
	bus := newStartedBus(t)

	once, filtered := 0, 0
	bus.SubscribeFunc("view.caret.moved", func(context.Context, any) error {
		once++
		return nil
	}, WithOnce())
	bus.SubscribeFunc("view.caret.moved", func(context.Context, any) error {
		filtered++
		return nil
	}, WithFilter(func(e any) bool {
		return e.(Event[testPayload]).Payload.Value%2 == 0
	}))

	for i := 0; i < 4; i++ {
		_ = bus.Publish(context.Background(), NewEvent(topic.Topic("view.caret.moved"), testPayload{Value: i}, "test"))
	}
	if once != 1 {
		t.Errorf("once handler called %d times, want 1", once)
	}
	if filtered != 2 {
		t.Errorf("filtered handler called %d times, want 2", filtered)
	}
}

func TestBus_InvalidEvent(t *testing.T) {
	bus := newStartedBus(t)
	if err := bus.Publish(context.Background(), "not an event"); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestPublisher(t *testing.T) {
	bus := newStartedBus(t)
	pub := NewPublisher(bus, "view")

	var meta Metadata
	bus.SubscribeFunc("view.**", func(_ context.Context, e any) error {
		meta = e.(Event[testPayload]).EventMetadata()
		return nil
	})

	if err := PublishEvent(context.Background(), pub, "view.layout.changed", testPayload{Value: 1}); err != nil {
		t.Fatalf("PublishEvent() failed: %v", err)
	}
	if meta.Source != "view" {
		t.Errorf("Source = %q, want view", meta.Source)
	}
	if meta.ID == "" || meta.Timestamp.IsZero() {
		t.Errorf("metadata not populated: %+v", meta)
	}
}
