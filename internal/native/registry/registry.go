package registry

import "sync"

// Token identifies a handler installed in a Set
type Token struct {
	Kind string
	ID   uint64
}

// Set holds the handlers of one event category
type Set[T any] struct {
	kind     string
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]func(T)
}

// NewSet creates an empty handler set for the given category
func NewSet[T any](kind string) *Set[T] {
	return &Set[T]{
		kind:     kind,
		handlers: make(map[uint64]func(T)),
	}
}

// Add installs h and returns its token
func (s *Set[T]) Add(h func(T)) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.handlers[s.nextID] = h
	return Token{Kind: s.kind, ID: s.nextID}
}

// Remove withdraws the handler for tok. It reports false for tokens of
// another category or already removed handlers.
func (s *Set[T]) Remove(tok Token) bool {
	if tok.Kind != s.kind {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handlers[tok.ID]; !ok {
		return false
	}
	delete(s.handlers, tok.ID)
	return true
}

// Len returns the number of installed handlers
func (s *Set[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handlers)
}

// Fire calls every installed handler with v. Handlers run outside the lock,
// so they may add or remove handlers.
func (s *Set[T]) Fire(v T) {
	s.mu.RLock()
	handlers := make([]func(T), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		h(v)
	}
}
