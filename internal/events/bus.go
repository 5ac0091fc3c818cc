package events

import "fmt"

// #region bus

// Handler consumes a single event. A non-nil error aborts the emit and
// is returned to the producer, so the operation that caused the event
// can fail atomically with its side effects.
type Handler func(Event) error

// Bus is a synchronous, in-order dispatcher. Handlers run on the
// emitting goroutine in subscription order; there is no buffering and
// no concurrency. Each session owns its bus, so no locking either.
type Bus struct {
	byKind map[Kind][]Handler
	all    []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{byKind: make(map[Kind][]Handler)}
}

// Subscribe registers a handler for one kind.
func (b *Bus) Subscribe(k Kind, h Handler) {
	b.byKind[k] = append(b.byKind[k], h)
}

// SubscribeAll registers a handler for every kind. All-kind handlers
// run after the kind-specific ones.
func (b *Bus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

// Emit dispatches e to its subscribers. Returns the first handler
// error; later handlers do not run after a failure.
func (b *Bus) Emit(e Event) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("emit: unknown event kind %q", e.Kind)
	}
	for _, h := range b.byKind[e.Kind] {
		if err := h(e); err != nil {
			return fmt.Errorf("handle %s: %w", e.Kind, err)
		}
	}
	for _, h := range b.all {
		if err := h(e); err != nil {
			return fmt.Errorf("handle %s: %w", e.Kind, err)
		}
	}
	return nil
}

// #endregion bus
