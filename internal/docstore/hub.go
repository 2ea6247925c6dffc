package docstore

import (
	"context"
	"log/slog"
	"sync"
)

// Bridge forwards change notifications to other running instances, so that
// every connected client observes every commit, not only local ones. The AMQP
// client implements it; a nil bridge keeps the hub purely local.
type Bridge interface {
	PublishChange(ctx context.Context, collection string) error
}

// Hub is the change-notification registry. Services notify it after every
// successful write; subscribers are told which collection changed and
// re-query the store for the full snapshot themselves. Delivery is fan-out to
// every subscriber of the collection, never a diff.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int64]func()
	nextID int64
	bridge Bridge
}

func NewHub(bridge Bridge) *Hub {
	return &Hub{
		subs:   make(map[string]map[int64]func()),
		bridge: bridge,
	}
}

// Subscribe registers a callback for one collection and returns the detach
// capability. Invoking it permanently removes this callback from future
// deliveries; callers own calling it on teardown.
func (h *Hub) Subscribe(collection string, fn func()) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int64]func())
	}
	h.subs[collection][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[collection], id)
	}
}

// Notify fans a local commit out to subscribers and forwards it over the
// bridge. A bridge failure is logged and dropped: the local write already
// succeeded and there are no retries anywhere in this system.
func (h *Hub) Notify(ctx context.Context, collection string) {
	h.deliver(collection)
	if h.bridge != nil {
		if err := h.bridge.PublishChange(ctx, collection); err != nil {
			slog.WarnContext(ctx, "Failed to bridge change notification",
				"collection", collection, "error", err)
		}
	}
}

// NotifyLocal delivers a change observed from another instance (via the
// bridge consumer) without re-publishing it.
func (h *Hub) NotifyLocal(collection string) {
	h.deliver(collection)
}

func (h *Hub) deliver(collection string) {
	h.mu.Lock()
	callbacks := make([]func(), 0, len(h.subs[collection]))
	for _, fn := range h.subs[collection] {
		callbacks = append(callbacks, fn)
	}
	h.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// SubscriberCount reports active subscriptions for a collection.
func (h *Hub) SubscriberCount(collection string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[collection])
}
