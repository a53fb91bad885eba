// Package event provides the synchronous publish/subscribe bus that carries
// text view notifications to decoration components.
//
// Handlers run in the publisher's goroutine, in priority order, and complete
// before Publish returns. The host serializes publishing, so no two
// deliveries interleave; the bus itself is still safe for concurrent use.
//
// # Basic Usage
//
//	bus := event.NewBus()
//	if err := bus.Start(); err != nil {
//	    return err
//	}
//	defer bus.Stop(context.Background())
//
//	sub, err := event.SubscribePayload(bus, host.TopicCaretMoved,
//	    func(ctx context.Context, p host.CaretMoved) error {
//	        return nil
//	    },
//	    event.WithPriority(event.PriorityCritical),
//	)
//
//	bus.Publish(ctx, event.NewEvent(host.TopicCaretMoved, host.CaretMoved{}, "view"))
//
// # Topics
//
// Topics are hierarchical and may be matched with wildcards; see package
// topic.
package event
