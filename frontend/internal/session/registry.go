// Package session maps browser sessions to their board stores.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tasks-dev/tasks/frontend/internal/state"
	"github.com/tasks-dev/tasks/shared/domain"
	"github.com/tasks-dev/tasks/shared/logger"
)

type entry struct {
	store    *state.Store
	lastSeen time.Time
}

// Registry owns one state.Store per session id. Stores idle for longer than
// idleTTL are evicted by Sweep; their pointer survives in the PointerStore.
type Registry struct {
	gateway       state.Gateway
	defaultThread domain.ThreadName
	pointers      PointerStore
	idleTTL       time.Duration
	log           *slog.Logger
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewRegistry(gateway state.Gateway, defaultThread domain.ThreadName, pointers PointerStore, idleTTL time.Duration) *Registry {
	if pointers == nil {
		pointers = NewMemoryPointerStore()
	}
	return &Registry{
		gateway:       gateway,
		defaultThread: defaultThread,
		pointers:      pointers,
		idleTTL:       idleTTL,
		log:           logger.Component("session_registry"),
		now:           time.Now,
		sessions:      make(map[string]*entry),
	}
}

// Get returns the session's store, creating it on first use. A persisted
// pointer is restored into a new store; failing to read it is not fatal.
func (r *Registry) Get(ctx context.Context, sessionID string) *state.Store {
	r.mu.Lock()
	if e, ok := r.sessions[sessionID]; ok {
		e.lastSeen = r.now()
		r.mu.Unlock()
		return e.store
	}
	r.mu.Unlock()

	store := state.New(r.gateway, r.defaultThread)
	p, ok, err := r.pointers.LoadPointer(ctx, sessionID)
	if err != nil {
		r.log.Warn("failed to restore thread pointer", "error", err)
	} else if ok {
		store.SetPointer(p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sessionID]; ok {
		// lost the race to a concurrent request of the same session
		e.lastSeen = r.now()
		return e.store
	}
	r.sessions[sessionID] = &entry{store: store, lastSeen: r.now()}
	activeSessions.Set(float64(len(r.sessions)))
	return store
}

func (r *Registry) SavePointer(ctx context.Context, sessionID string, p state.ThreadPointer) error {
	return r.pointers.SavePointer(ctx, sessionID, p)
}

// Drop forgets the session and its persisted pointer.
func (r *Registry) Drop(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	if e, ok := r.sessions[sessionID]; ok {
		e.store.Reset()
		delete(r.sessions, sessionID)
		activeSessions.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()
	return r.pointers.DeletePointer(ctx, sessionID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts stores not used within idleTTL and returns how many it evicted.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var evicted []*state.Store
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			evicted = append(evicted, e.store)
			delete(r.sessions, id)
		}
	}
	activeSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	for _, s := range evicted {
		s.Reset()
	}
	if len(evicted) > 0 {
		sessionsEvicted.Add(float64(len(evicted)))
		r.log.Info("evicted idle sessions", "count", len(evicted), "idle_ttl", r.idleTTL)
	}
	return len(evicted)
}

// StartSweeper runs Sweep every interval until ctx is done.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	r.log.Info("started idle session sweeper", "interval", interval, "idle_ttl", r.idleTTL)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-ctx.Done():
				r.log.Info("session sweeper shutting down gracefully")
				return
			}
		}
	}()
}
