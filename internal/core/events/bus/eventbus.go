// Package bus is an in-process, synchronous publish/subscribe bus for
// world events.
package bus

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event types published by the world
const (
	TypeTick          = "world.tick"
	TypeEntitySpawned = "entity.spawned"
	TypeEntityRemoved = "entity.removed"
)

var ErrNilHandler = errors.New("handler is nil")

// Event is an immutable message. Data is owned by the publisher and must
// be treated as read-only by handlers.
type Event struct {
	Type      string
	Source    string
	Timestamp time.Time
	Data      any
}

// NewEvent creates an event stamped with the current time.
func NewEvent(typ, source string, data any) Event {
	return Event{Type: typ, Source: source, Timestamp: time.Now(), Data: data}
}

// Handler is invoked once per delivered event, on the publisher's
// goroutine. Handlers must return quickly.
type Handler func(event Event) error

// Subscription is a registered handler
type Subscription struct {
	id        string
	eventType string
	handler   Handler
	active    atomic.Bool
	cancel    func()
}

func (s *Subscription) ID() string        { return s.id }
func (s *Subscription) EventType() string { return s.eventType }
func (s *Subscription) IsActive() bool    { return s.active.Load() }

// Cancel removes the handler. Repeated calls are safe.
func (s *Subscription) Cancel() {
	if s.active.CompareAndSwap(true, false) {
		s.cancel()
	}
}

// Metrics are delivery counters
type Metrics struct {
	Published uint64 `json:"published"`
	Delivered uint64 `json:"delivered"`
	Errors    uint64 `json:"errors"`
}

// Bus fans events out to the handlers subscribed to their type.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]map[string]*Subscription // eventType -> subID -> subscription

	published atomic.Uint64
	delivered atomic.Uint64
	errors    atomic.Uint64
}

// New creates an empty bus
func New() *Bus {
	return &Bus{handlers: make(map[string]map[string]*Subscription)}
}

// Subscribe registers handler for eventType.
func (b *Bus) Subscribe(eventType string, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[string]*Subscription)
	}
	id := uuid.NewString()
	s := &Subscription{id: id, eventType: eventType, handler: handler}
	s.active.Store(true)
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[eventType], id)
	}
	b.handlers[eventType][id] = s
	return s, nil
}

// Publish delivers event to every active subscriber and joins their errors.
func (b *Bus) Publish(event Event) error {
	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.handlers[event.Type]))
	for _, s := range b.handlers[event.Type] {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	b.published.Add(1)

	var all error
	for _, s := range subs {
		if !s.IsActive() {
			continue
		}
		b.delivered.Add(1)
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}
	if all != nil {
		b.errors.Add(1)
	}
	return all
}

// Subscribers returns the number of handlers for eventType.
func (b *Bus) Subscribers(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// GetMetrics returns the delivery counters
func (b *Bus) GetMetrics() Metrics {
	return Metrics{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Errors:    b.errors.Load(),
	}
}
