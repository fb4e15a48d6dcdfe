// Package broadcast distributes the selected rate unit mode to chart hosts.
package broadcast

import (
	"sync"

	"txgraph/internal/logger"
	"txgraph/internal/models"
)

// Hub holds the current rate unit mode and notifies subscribers of changes
type Hub struct {
	mu      sync.Mutex
	current models.RateUnitMode
	nextID  int
	subs    map[int]func(models.RateUnitMode)
	log     *logger.Logger
}

// Subscription is a registered callback; Close stops delivery
type Subscription struct {
	hub  *Hub
	id   int
	once sync.Once
}

// NewHub creates a hub starting at initial
func NewHub(initial models.RateUnitMode) *Hub {
	if initial == "" {
		initial = models.RateUnitsVB
	}
	return &Hub{
		current: initial,
		subs:    make(map[int]func(models.RateUnitMode)),
		log:     logger.GetGlobalLogger().WithComponent("broadcast"),
	}
}

// Current returns the latest published mode
func (h *Hub) Current() models.RateUnitMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Subscribe registers fn and immediately calls it with the current mode.
// Callbacks run outside the hub lock on the publishing goroutine.
func (h *Hub) Subscribe(fn func(models.RateUnitMode)) *Subscription {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	current := h.current
	h.mu.Unlock()

	fn(current)
	return &Subscription{hub: h, id: id}
}

// Publish sets the current mode and notifies every subscriber
func (h *Hub) Publish(mode models.RateUnitMode) {
	h.mu.Lock()
	h.current = mode
	fns := make([]func(models.RateUnitMode), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	h.log.Debug("Publishing rate units", map[string]interface{}{
		"mode":        string(mode),
		"subscribers": len(fns),
	})
	for _, fn := range fns {
		fn(mode)
	}
}

// Subscribers returns the number of open subscriptions
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close removes the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}
