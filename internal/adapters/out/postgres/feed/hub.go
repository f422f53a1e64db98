// Package feed turns postgres NOTIFY messages on the order change channel into
// ports.OrderChange values for any number of subscribers.
package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/ports"

	"github.com/lib/pq"
)

const subscriberBuffer = 16

// Listener is the part of *pq.Listener the hub uses.
type Listener interface {
	Listen(channel string) error
	Ping() error
	Close() error
}

// Hub fans order changes out to subscribers. A subscriber that falls behind loses
// individual changes but always keeps at least one pending, which is enough for
// consumers that re-read the current state on every change.
type Hub struct {
	listener      Listener
	notifications <-chan *pq.Notification
	channel       string
	logger        *slog.Logger

	mu     sync.Mutex
	subs   map[int]chan ports.OrderChange
	nextID int
	closed bool
}

// NewHub connects a pq.Listener to dsn and listens on channel. Reconnects are handled by
// the listener and surface to subscribers as resync changes.
func NewHub(dsn, channel string, logger *slog.Logger) (*Hub, error) {
	logger = logger.With("component", "order-feed")
	l := pq.NewListener(dsn, time.Second, 30*time.Second, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.Info("listening for order changes", "channel", channel)
		case pq.ListenerEventDisconnected:
			logger.Warn("order feed disconnected", "error", err)
		case pq.ListenerEventReconnected:
			logger.Info("order feed reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Warn("order feed connection attempt failed", "error", err)
		}
	})
	h, err := newHub(l, l.Notify, channel, logger)
	if err != nil {
		_ = l.Close()
		return nil, err
	}
	return h, nil
}

func newHub(l Listener, notifications <-chan *pq.Notification, channel string, logger *slog.Logger) (*Hub, error) {
	if err := l.Listen(channel); err != nil {
		return nil, err
	}
	return &Hub{
		listener:      l,
		notifications: notifications,
		channel:       channel,
		logger:        logger,
		subs:          make(map[int]chan ports.OrderChange),
	}, nil
}

// Run delivers notifications until ctx is done or the listener is closed. It then closes
// the listener and every subscription.
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-h.notifications:
			if !ok {
				return nil
			}
			h.broadcast(h.change(n))
		}
	}
}

// Subscribe implements ports.OrderChangeFeed.
func (h *Hub) Subscribe(ctx context.Context) <-chan ports.OrderChange {
	ch := make(chan ports.OrderChange, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.unsubscribe(id)
	}()
	return ch
}

// Ping checks the listener connection. A lost connection is re-established by the listener
// on its own; a failed ping only reports it.
func (h *Hub) Ping() error {
	return h.listener.Ping()
}

// Subscribers returns the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) change(n *pq.Notification) ports.OrderChange {
	if n == nil {
		return ports.OrderChange{Resync: true}
	}
	id, err := kernel.UUIDFromString(n.Extra)
	if err != nil {
		h.logger.Warn("malformed order change", "payload", n.Extra, "error", err)
		return ports.OrderChange{Resync: true}
	}
	return ports.OrderChange{OrderID: id}
}

func (h *Hub) broadcast(c ports.OrderChange) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

func (h *Hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	h.mu.Unlock()

	if err := h.listener.Close(); err != nil {
		h.logger.Warn("closing order feed listener", "error", err)
	}
}
