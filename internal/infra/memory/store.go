package memory

import (
	"context"
	"sync"

	"classroom-service/internal/domain"
)

// Store is an in-memory implementation of app.Store.
// Listing returns records newest first.
type Store[T domain.Record] struct {
	mu    sync.RWMutex
	recs  map[string]T
	order []string
}

func NewStore[T domain.Record]() *Store[T] {
	return &Store[T]{recs: make(map[string]T)}
}

func (s *Store[T]) Create(_ context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[rec.RecordID()]; !ok {
		s.order = append(s.order, rec.RecordID())
	}
	s.recs[rec.RecordID()] = rec
	return nil
}

func (s *Store[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[id]
	if !ok {
		return rec, domain.ErrNotFound
	}
	return rec, nil
}

func (s *Store[T]) GetMany(_ context.Context, ids []string) (map[string]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]T, len(ids))
	for _, id := range ids {
		if rec, ok := s.recs[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func (s *Store[T]) List(_ context.Context) ([]T, error) {
	return s.filter(func(T) bool { return true }), nil
}

func (s *Store[T]) ListByOwner(_ context.Context, ownerID string) ([]T, error) {
	return s.filter(func(rec T) bool { return rec.OwnerID() == ownerID }), nil
}

func (s *Store[T]) Update(_ context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[rec.RecordID()]; !ok {
		return domain.ErrNotFound
	}
	s.recs[rec.RecordID()] = rec
	return nil
}

func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.recs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store[T]) filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if rec := s.recs[s.order[i]]; keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
