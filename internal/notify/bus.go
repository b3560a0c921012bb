package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/matchday-service/internal/events"
	"github.com/preston-bernstein/matchday-service/internal/logging"
)

const DefaultBusBuffer = 16

type subscriber struct {
	orgID string
	ch    chan events.Event
}

// Bus fans events out to in-process subscribers scoped by organization.
// Delivery never blocks the publisher: a subscriber whose buffer is full misses the
// event, which is harmless because any buffered event already marks its view stale.
type Bus struct {
	mu      sync.RWMutex
	buffer  int
	nextID  int
	subs    map[int]subscriber
	closed  bool
	dropped atomic.Int64
	logger  *slog.Logger
}

func NewBus(buffer int, logger *slog.Logger) *Bus {
	if buffer <= 0 {
		buffer = DefaultBusBuffer
	}
	return &Bus{
		buffer: buffer,
		subs:   make(map[int]subscriber),
		logger: logger,
	}
}

// Subscribe registers a listener for orgID, or for every organization when orgID is empty.
// The returned cancel func unregisters the listener and closes its channel.
func (b *Bus) Subscribe(orgID string) (<-chan events.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan events.Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = subscriber{orgID: orgID, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub.ch)
			}
		})
	}
}

// Publish delivers ev to every matching subscriber without blocking.
func (b *Bus) Publish(_ context.Context, ev events.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.orgID != "" && sub.orgID != ev.OrganizationID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			b.dropped.Add(1)
			logging.Debug(b.logger, "bus subscriber full, dropping event",
				slog.String(logging.FieldEvent, string(ev.Kind)),
				slog.String(logging.FieldOrgID, ev.OrganizationID),
			)
		}
	}
	return nil
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close unregisters every subscriber and closes their channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
	return nil
}
