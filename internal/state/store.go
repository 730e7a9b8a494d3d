package state

import (
	"sync"

	"github.com/rs/zerolog"
)

// Listener is called with the new state after every dispatch.
type Listener func(State)

// Store owns the session cache for the lifetime of the process. Dispatches
// are applied one at a time, in arrival order.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
	logger    zerolog.Logger
}

// NewStore creates a Store holding initial.
func NewStore(initial State, logger zerolog.Logger) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
		logger:    logger,
	}
}

// State returns the current snapshot. Callers must not write into its maps.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch reduces a into the current state and notifies listeners.
func (s *Store) Dispatch(a Action) State {
	next, listeners := s.apply(a)
	if a != nil {
		s.logger.Debug().Str("action", string(a.Kind())).Msg("dispatch")
	}
	for _, l := range listeners {
		l(next)
	}
	return next
}

func (s *Store) apply(a Action) (State, []Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return s.state, listeners
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
