package storemock

import (
	"context"
	"sort"
	"sync"

	"separation-engine/internal/domain/document"
)

// Store is an in-memory document.Store. The *Fn fields override behaviour per test.
type Store struct {
	PutFn    func(ctx context.Context, path string, content []byte) (string, error)
	GetFn    func(ctx context.Context, handle string) ([]byte, error)
	DeleteFn func(ctx context.Context, handle string) error

	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

var _ document.Store = (*Store)(nil)

func New() *Store { return &Store{objects: map[string][]byte{}} }

func (s *Store) Put(ctx context.Context, path string, content []byte) (string, error) {
	if s.PutFn != nil {
		return s.PutFn(ctx, path, content)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[path] = append([]byte(nil), content...)
	return path, nil
}

func (s *Store) Get(ctx context.Context, handle string) ([]byte, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, handle)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[handle]
	if !ok {
		return nil, document.ErrObjectNotFound
	}
	return append([]byte(nil), b...), nil
}

func (s *Store) Delete(ctx context.Context, handle string) error {
	s.mu.Lock()
	s.deleted = append(s.deleted, handle)
	s.mu.Unlock()
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, handle)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, handle)
	return nil
}

// Has reports whether an object is currently stored.
func (s *Store) Has(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[handle]
	return ok
}

// Handles lists stored object handles in sorted order.
func (s *Store) Handles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for h := range s.objects {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Deleted lists every handle passed to Delete, in call order.
func (s *Store) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}
