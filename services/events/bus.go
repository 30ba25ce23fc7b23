// Package events carries assistant action events from the decision layer to
// whatever UI listeners are attached to a session.
package events

import (
	"sync"
	"time"

	"waly/models"

	"go.uber.org/zap"
)

const defaultBuffer = 32

// Publisher is the side of the bus the assistant depends on.
type Publisher interface {
	Publish(event models.ActionEvent)
}

// Bus is an in-process per-session publish/subscribe hub. Publishing to a
// session with no subscribers is a no-op.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]chan models.ActionEvent
	nextID uint64
	buffer int
	logger *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[string]map[uint64]chan models.ActionEvent),
		buffer: defaultBuffer,
		logger: logger,
	}
}

// Subscribe registers a listener for one session. The returned cancel func
// unregisters it and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe(sessionID string) (<-chan models.ActionEvent, func()) {
	ch := make(chan models.ActionEvent, b.buffer)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[uint64]chan models.ActionEvent)
	}
	b.subs[sessionID][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if set, ok := b.subs[sessionID]; ok {
				delete(set, id)
				if len(set) == 0 {
					delete(b.subs, sessionID)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of event.SessionID without
// blocking. A subscriber whose buffer is full misses the event.
func (b *Bus) Publish(event models.ActionEvent) {
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs[event.SessionID] {
		select {
		case ch <- event:
		default:
			b.logger.Warn("event subscriber buffer full, dropping event",
				zap.String("session_id", event.SessionID),
				zap.Uint64("subscriber", id),
				zap.String("kind", string(event.Kind)))
		}
	}
}

// SubscriberCount reports how many listeners a session currently has.
func (b *Bus) SubscriberCount(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}
