// Package realtime keeps the live connections of this instance and delivers
// notifications to them.
//
// A connection is a Subscription. Each one is addressed by its user id, may belong
// to the dispatcher pool and may watch any number of orders. Sends never block:
// a subscriber whose buffer is full misses the message.
package realtime

import (
	"context"
	"sync"
	"sync/atomic"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/ports"

	"go.uber.org/zap"
)

const DefaultBufferSize = 32

var _ ports.RealtimeTransport = (*Hub)(nil)

// Message is one delivered notification.
type Message struct {
	Event   string
	Payload any
}

// Subscription is a single live connection. Read from C until Done is closed.
type Subscription struct {
	id     uint64
	userID kernel.UUID
	role   kernel.Role
	ch     chan Message
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) C() <-chan Message     { return s.ch }
func (s *Subscription) Done() <-chan struct{} { return s.done }
func (s *Subscription) UserID() kernel.UUID   { return s.userID }
func (s *Subscription) Role() kernel.Role     { return s.role }

type subscribers map[uint64]*Subscription

type Hub struct {
	mu          sync.RWMutex
	users       map[kernel.UUID]subscribers
	dispatchers subscribers
	orders      map[kernel.UUID]subscribers

	nextID  atomic.Uint64
	buffer  int
	dropped atomic.Uint64
	logger  *zap.Logger
}

func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		users:       make(map[kernel.UUID]subscribers),
		dispatchers: make(subscribers),
		orders:      make(map[kernel.UUID]subscribers),
		buffer:      buffer,
		logger:      logger.With(zap.String("component", "realtime")),
	}
}

// Subscribe registers a connection for actor. Dispatchers also join the broadcast pool.
func (h *Hub) Subscribe(actor kernel.Actor) *Subscription {
	s := &Subscription{
		id:     h.nextID.Add(1),
		userID: actor.ID,
		role:   actor.Role,
		ch:     make(chan Message, h.buffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.users[actor.ID] == nil {
		h.users[actor.ID] = make(subscribers)
	}
	h.users[actor.ID][s.id] = s
	if actor.Is(kernel.RoleDispatcher) {
		h.dispatchers[s.id] = s
	}
	return s
}

// WatchOrder adds s to the order-scoped channel of orderID.
func (h *Hub) WatchOrder(s *Subscription, orderID kernel.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}
	if h.orders[orderID] == nil {
		h.orders[orderID] = make(subscribers)
	}
	h.orders[orderID][s.id] = s
}

// Unsubscribe removes s from every channel and closes Done. It is safe to call twice.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.users[s.userID]; ok {
		delete(subs, s.id)
		if len(subs) == 0 {
			delete(h.users, s.userID)
		}
	}
	delete(h.dispatchers, s.id)
	for orderID, subs := range h.orders {
		delete(subs, s.id)
		if len(subs) == 0 {
			delete(h.orders, orderID)
		}
	}
	s.once.Do(func() { close(s.done) })
}

func (h *Hub) SendToUser(_ context.Context, userID kernel.UUID, event string, payload any) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(h.users[userID], Message{Event: event, Payload: payload})
	return nil
}

func (h *Hub) BroadcastToDispatchers(_ context.Context, event string, payload any) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(h.dispatchers, Message{Event: event, Payload: payload})
	return nil
}

func (h *Hub) SendToOrderChannel(_ context.Context, orderID kernel.UUID, event string, payload any) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(h.orders[orderID], Message{Event: event, Payload: payload})
	return nil
}

// LeaveOrderChannel removes every connection of userID from the channel of orderID.
// The connections stay open and keep receiving their user-addressed messages.
func (h *Hub) LeaveOrderChannel(_ context.Context, orderID, userID kernel.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.orders[orderID]
	if !ok {
		return nil
	}
	for id, s := range subs {
		if s.userID == userID {
			delete(subs, id)
		}
	}
	if len(subs) == 0 {
		delete(h.orders, orderID)
	}
	return nil
}

// Dropped reports how many messages were discarded because a subscriber was too slow.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Connections reports the number of live subscriptions.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, subs := range h.users {
		n += len(subs)
	}
	return n
}

// deliver must be called with at least the read lock held.
func (h *Hub) deliver(subs subscribers, msg Message) {
	for _, s := range subs {
		select {
		case s.ch <- msg:
		default:
			h.dropped.Add(1)
			h.logger.Warn("subscriber buffer full, message dropped",
				zap.String("user_id", s.userID.String()),
				zap.String("event", msg.Event))
		}
	}
}
