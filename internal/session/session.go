// Package session keeps per-browser storefront state in memory: a cart, the
// catalog filter and an optional checkout workflow.
//
// Every action against one session runs under that session's mutex, so a
// multi-step action such as placing an order observes and mutates the cart
// atomically.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/shopease/internal/domain/cart"
	"github.com/xenking/shopease/internal/domain/catalog"
	"github.com/xenking/shopease/internal/domain/checkout"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the idle time after which a session is evicted.
const DefaultTTL = 30 * time.Minute

// State is the mutable state of one session. It is only valid inside the
// callback passed to Store.Do.
type State struct {
	ID       string
	Cart     *cart.Store
	Filter   catalog.Filter
	Checkout *checkout.Workflow
}

type entry struct {
	mu    sync.Mutex
	state State

	// lastSeen is unix nanoseconds; read by Sweep without taking mu.
	lastSeen atomic.Int64
}

// Store is an in-memory session registry keyed by session id.
type Store struct {
	ttl   time.Duration
	now   func() time.Time
	newID func() string

	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewStore creates a Store evicting sessions idle for longer than ttl.
// A non-positive ttl selects DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		newID:    uuid.NewString,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session with an empty cart and the default filter.
func (s *Store) Create() string {
	e := &entry{
		state: State{
			ID:     s.newID(),
			Cart:   cart.NewStore(),
			Filter: catalog.DefaultFilter(),
		},
	}
	e.lastSeen.Store(s.now().UnixNano())

	s.mu.Lock()
	s.sessions[e.state.ID] = e
	s.mu.Unlock()
	return e.state.ID
}

// Delete drops a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Do runs fn with exclusive access to the session state and refreshes the
// session's idle timer. The error returned by fn is passed through.
func (s *Store) Do(id string, fn func(*State) error) error {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastSeen.Store(s.now().UnixNano())
	return fn(&e.state)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Load() < cutoff {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	lg := zctx.From(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				lg.Debug("Evicted idle sessions",
					zap.Int("count", n),
					zap.Int("remaining", s.Len()),
				)
			}
		}
	}
}
