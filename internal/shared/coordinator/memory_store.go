package coordinator

import (
	"context"
	"fmt"
	"sync"
)

var _ Coordinator = (*MemoryStore)(nil)

// MemoryStore keeps registrations in process. Every caller sharing one
// instance competes for the same paths.
type MemoryStore struct {
	mu     sync.Mutex
	paths  map[string]struct{}
	lost   []func(path string)
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{paths: make(map[string]struct{})}
}

func (s *MemoryStore) BlockUntilConnected(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) CreateExclusiveEphemeral(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, exists := s.paths[path]; exists {
		return fmt.Errorf("%w: %s", ErrNodeExists, path)
	}
	s.paths[path] = struct{}{}
	return nil
}

func (s *MemoryStore) OnLeaseLost(fn func(path string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lost = append(s.lost, fn)
}

// Expire drops path as if its session had been lost and notifies the
// OnLeaseLost callbacks.
func (s *MemoryStore) Expire(path string) {
	s.mu.Lock()
	_, held := s.paths[path]
	delete(s.paths, path)
	callbacks := append([]func(path string){}, s.lost...)
	s.mu.Unlock()

	if !held {
		return
	}
	for _, fn := range callbacks {
		fn(path)
	}
}

// Holds reports whether path is registered.
func (s *MemoryStore) Holds(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.paths[path]
	return ok
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.paths = make(map[string]struct{})
	return nil
}
