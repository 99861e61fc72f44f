package store

import (
	"slices"
	"sync"

	"github.com/jrsteele09/go-exchange-client/session"
	"github.com/rs/zerolog/log"
)

// PersistState tracks restoration of persisted state.
type PersistState struct {
	Hydrated bool
}

// State is the full application store tree.
type State struct {
	Session      session.Snapshot
	Persist      PersistState
	RouteHistory []string
}

// Listener is called after every dispatch that changed the state.
type Listener func(State)

type subscription struct {
	id       uint64
	listener Listener
}

// Store is an observable state container. Mutations only happen through
// Dispatch. Notifications are delivered one at a time in the order the
// mutations were applied: each listener round completes before the next
// starts, even when several goroutines dispatch. Listeners run without the
// store lock held, so they may dispatch again.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners []subscription
	nextID    uint64

	// pending holds committed snapshots not yet delivered. While delivering
	// is set one goroutine drains it; every other dispatch only appends.
	pending    []State
	delivering bool

	hydrated     chan struct{}
	hydratedOnce sync.Once
}

func New(initial State) *Store {
	s := &Store{
		state:    initial,
		hydrated: make(chan struct{}),
	}
	if initial.Persist.Hydrated {
		s.hydratedOnce.Do(func() { close(s.hydrated) })
	}
	return s
}

// GetState returns a copy of the current state.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() State {
	st := s.state
	st.RouteHistory = slices.Clone(s.state.RouteHistory)
	return st
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, listener: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool {
				return sub.id == id
			})
		})
	}
}

// Dispatch applies a and reports whether the state changed. Listeners are
// notified of every change in commit order. If another dispatch is already
// delivering, including an outer dispatch on the same goroutine, the
// notification is handed to it and delivered before it returns.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	next, changed := reduce(s.state, a)
	if !changed {
		s.mu.Unlock()
		log.Trace().Str("action", a.Name()).Msg("store: no change")
		return false
	}
	s.state = next
	s.pending = append(s.pending, s.copyLocked())
	if next.Persist.Hydrated {
		s.hydratedOnce.Do(func() { close(s.hydrated) })
	}
	if s.delivering {
		s.mu.Unlock()
		log.Trace().Str("action", a.Name()).Msg("store: queued")
		return true
	}
	s.delivering = true
	s.mu.Unlock()

	log.Trace().Str("action", a.Name()).Msg("store: dispatched")
	s.deliver()
	return true
}

// deliver notifies listeners of pending snapshots until none are left.
func (s *Store) deliver() {
	drained := false
	defer func() {
		if !drained {
			// A listener panicked; let the next dispatch take over delivery.
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.pending = nil
			s.delivering = false
			s.mu.Unlock()
			drained = true
			return
		}
		snapshot := s.pending[0]
		s.pending = s.pending[1:]
		listeners := slices.Clone(s.listeners)
		s.mu.Unlock()

		for _, sub := range listeners {
			sub.listener(snapshot)
		}
	}
}

// Hydrated returns a channel closed once persisted state has been restored.
func (s *Store) Hydrated() <-chan struct{} {
	return s.hydrated
}
