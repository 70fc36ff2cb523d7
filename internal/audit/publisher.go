package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher captures structured audit events. Sync mode appends directly;
// async mode buffers events on a channel drained by a background goroutine,
// so emitting never blocks the request path. Close drains the buffer.
type Publisher struct {
	store  Store
	logger *slog.Logger

	inbox chan Event
	wg    sync.WaitGroup

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// Option configures a Publisher.
type Option func(*publisherConfig)

type publisherConfig struct {
	bufferSize int
	logger     *slog.Logger
}

// WithAsyncBuffer enables async mode with the given channel capacity.
func WithAsyncBuffer(size int) Option {
	return func(cfg *publisherConfig) {
		cfg.bufferSize = size
	}
}

// WithLogger sets the logger used for append failures in async mode.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *publisherConfig) {
		cfg.logger = logger
	}
}

// NewPublisher creates a publisher over the given sink.
func NewPublisher(store Store, opts ...Option) *Publisher {
	cfg := &publisherConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Publisher{store: store, logger: cfg.logger}
	if cfg.bufferSize > 0 {
		p.inbox = make(chan Event, cfg.bufferSize)
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.inbox {
		// Detached context: the originating request may be long gone.
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("audit append failed", "event_type", event.Type, "error", err)
		}
	}
}

// Emit records an event. In async mode a full buffer drops the event rather
// than stalling the caller; after Close, events are appended synchronously.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
	default:
		if p.logger != nil {
			p.logger.Warn("audit buffer full, dropping event", "event_type", event.Type)
		}
	}
	return nil
}

// ListRecent exposes the sink's recent events for the history endpoints.
func (p *Publisher) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return p.store.ListRecent(ctx, limit)
}

// Close stops the async drain after flushing buffered events. Safe to call
// multiple times and in sync mode.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox != nil {
			p.mu.Lock()
			p.closed = true
			p.mu.Unlock()
			close(p.inbox)
			p.wg.Wait()
		}
	})
}
