package events

import (
	"context"
	"log/slog"
	"sync"

	"classifieds/internal/consent/models"
)

// Handler receives consent notifications.
type Handler func(ctx context.Context, n models.Notification)

// Bus broadcasts consent notifications to subscribers that registered for them.
// It is the process-wide counterpart of the page event: subscribers react to
// consent changes without knowing about the consent module.
type Bus struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int

	events chan envelope
	wg     sync.WaitGroup
	logger *slog.Logger
	async  bool
	closed bool
}

type envelope struct {
	ctx context.Context
	n   models.Notification
}

// Option configures the Bus.
type Option func(*Bus)

// WithAsyncBuffer delivers notifications from a background goroutine through a buffer
// of the given size. Notifications are dropped when the buffer is full.
func WithAsyncBuffer(size int) Option {
	return func(b *Bus) {
		if size > 0 {
			b.events = make(chan envelope, size)
			b.async = true
		}
	}
}

// WithLogger sets a logger for dropped notifications.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// NewBus creates a bus. Without options delivery is synchronous.
func NewBus(opts ...Option) *Bus {
	b := &Bus{handlers: make(map[int]Handler)}
	for _, opt := range opts {
		opt(b)
	}
	if b.async {
		b.wg.Add(1)
		go b.run()
	}
	return b
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// Notify delivers n to every subscriber. Notifications after Close are dropped.
func (b *Bus) Notify(ctx context.Context, n models.Notification) {
	if !b.async {
		b.mu.RLock()
		closed := b.closed
		b.mu.RUnlock()
		if !closed {
			b.deliver(ctx, n)
		}
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	// Delivery outlives the request that produced the notification.
	select {
	case b.events <- envelope{ctx: context.WithoutCancel(ctx), n: n}:
	default:
		if b.logger != nil {
			b.logger.Warn("consent notification buffer full, notification dropped",
				"notification_id", n.ID,
			)
		}
	}
}

func (b *Bus) run() {
	defer b.wg.Done()
	for e := range b.events {
		b.deliver(e.ctx, e.n)
	}
}

func (b *Bus) deliver(ctx context.Context, n models.Notification) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, n)
	}
}

// Close stops the async worker after draining queued notifications. It is safe to
// call more than once.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.async {
		close(b.events)
	}
	b.mu.Unlock()

	b.wg.Wait()
}
