package events

import (
	"context"
	"log/slog"
	"sync"
)

// Listener consumes lifecycle events in-process.
type Listener interface {
	HandleLifecycleEvent(ctx context.Context, event *LifecycleEvent) error
}

type ListenerFunc func(ctx context.Context, event *LifecycleEvent) error

func (f ListenerFunc) HandleLifecycleEvent(ctx context.Context, event *LifecycleEvent) error {
	return f(ctx, event)
}

// Emitter is what the issue lifecycle depends on to announce transitions.
type Emitter interface {
	Emit(ctx context.Context, event *LifecycleEvent)
}

// Bus delivers each event synchronously to every subscribed listener, in
// subscription order, and then mirrors it to the outbound publisher.
// Emit returns only after all listeners ran. Listener and publisher failures
// are logged and never reach the caller. Delivery ignores cancellation of the
// caller's context: the transition is already committed when Emit runs.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
	publisher EventPublisher
	logger    *slog.Logger
}

// NewBus creates a bus. publisher may be nil to disable the outbound mirror.
func NewBus(publisher EventPublisher, logger *slog.Logger) *Bus {
	return &Bus{
		publisher: publisher,
		logger:    logger,
	}
}

func (b *Bus) Subscribe(listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listener)
}

func (b *Bus) Emit(ctx context.Context, event *LifecycleEvent) {
	ctx = context.WithoutCancel(ctx)

	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.deliver(ctx, listener, event)
	}

	if b.publisher != nil {
		if err := b.publisher.PublishLifecycleEvent(ctx, event); err != nil {
			b.logger.Warn("Failed to mirror lifecycle event",
				"event_id", event.ID,
				"event_type", event.Type,
				"issue_id", event.IssueID,
				"error", err)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, listener Listener, event *LifecycleEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Lifecycle listener panicked",
				"event_id", event.ID,
				"event_type", event.Type,
				"panic", r)
		}
	}()

	if err := listener.HandleLifecycleEvent(ctx, event); err != nil {
		b.logger.Error("Lifecycle listener failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"issue_id", event.IssueID,
			"error", err)
	}
}
