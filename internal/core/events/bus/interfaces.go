package bus

// EventBus is an in-process, synchronous notification channel.
//
// Key characteristics:
//   - Type-based fan-out: handlers subscribe by Event.Type() string.
//   - Ordered delivery: handlers for one type run in subscription order.
//   - At-most-once: each Publish reaches every active subscriber once; a handler
//     cancelled during delivery is not called afterwards.
//   - Error aggregation: handler errors are joined and returned from Publish.
//
// The controller publishes from its tick goroutine only, so handlers run on
// that goroutine. The bus itself is still safe for concurrent use.
type EventBus interface {
	// Publish delivers the event synchronously to the subscribers of event.Type().
	Publish(event Event) error
	// PublishBatch publishes events in order and aggregates errors across them.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error
	// SubscriberCount reports active subscribers for an event type.
	SubscriberCount(eventType string) int
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	// Type is the routing key.
	Type() string
	// Source identifies the publisher.
	Source() string
	// At is the simulation time the event was raised at.
	At() float64
	// Data is the payload; consumers type-assert it.
	Data() any
}

type (
	// EventHandler is invoked per delivered event.
	EventHandler func(event Event) error
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}
