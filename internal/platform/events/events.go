// Package events fans out auth state changes to in-process subscribers
package events

import (
	"context"
	"sync"
	"time"

	"atelier/internal/platform/logger"
)

// Kind names an auth state change
type Kind string

const (
	SignedUp      Kind = "signed_up"
	SignedIn      Kind = "signed_in"
	SignedOut     Kind = "signed_out"
	PasswordReset Kind = "password_reset"
	RoleChanged   Kind = "role_changed"
	AccountDelete Kind = "account_deleted"
)

// Event is one change for one user
type Event struct {
	Kind   Kind      `json:"kind"`
	UserID string    `json:"user_id"`
	Role   string    `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

const (
	defaultQueue  = 256
	subscriberBuf = 16
)

type subscriber struct {
	user string // empty receives every event
	ch   chan Event
}

// Hub is created in main, started once and closed on shutdown
// Publish never blocks; events are dropped when the queue or a subscriber is full
type Hub struct {
	queue chan Event

	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewHub returns a hub with a bounded queue; size <= 0 uses a default
func NewHub(size int) *Hub {
	if size <= 0 {
		size = defaultQueue
	}
	return &Hub{
		queue: make(chan Event, size),
		subs:  map[*subscriber]struct{}{},
		done:  make(chan struct{}),
		now:   time.Now,
	}
}

// Start runs the dispatcher until ctx ends or Close is called
func (h *Hub) Start(ctx context.Context) {
	h.startOnce.Do(func() {
		h.wg.Add(1)
		go h.run(ctx)
	})
}

func (h *Hub) run(ctx context.Context) {
	defer h.wg.Done()
	for {
		select {
		case <-ctx.Done():
			h.Close()
			return
		case <-h.done:
			return
		case ev := <-h.queue:
			h.dispatch(ev)
		}
	}
}

func (h *Hub) dispatch(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if s.user != "" && s.user != ev.UserID {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			logger.Named("events").Warn().Str("kind", string(ev.Kind)).Str("user_id", ev.UserID).
				Msg("subscriber full; dropping event")
		}
	}
}

// Publish enqueues ev; At defaults to now
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = h.now().UTC()
	}
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.queue <- ev:
	default:
		logger.Named("events").Warn().Str("kind", string(ev.Kind)).Msg("event queue full; dropping event")
	}
}

// Subscribe returns a channel of events for userID, or for everyone when userID is empty
// the channel is closed by cancel or by Close
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	s := &subscriber{user: userID, ch: make(chan Event, subscriberBuf)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(s.ch)
		return s.ch, func() {}
	}
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[s]; ok {
				delete(h.subs, s)
				close(s.ch)
			}
			h.mu.Unlock()
		})
	}
}

// Subscribers reports the live subscription count
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close stops dispatch and closes every subscriber channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		h.closed = true
		for s := range h.subs {
			close(s.ch)
			delete(h.subs, s)
		}
		h.mu.Unlock()
	})
}

// Wait blocks until the dispatcher has exited
func (h *Hub) Wait() { h.wg.Wait() }
