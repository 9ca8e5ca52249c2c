package memory

import (
	"context"
	"sync"

	"classroom-service/internal/domain"
)

// ResultStore is an append-only in-memory implementation of app.ResultStore.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.QuizResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) Create(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *ResultStore) ListByStudent(_ context.Context, studentID string) ([]domain.QuizResult, error) {
	return s.filter(func(r domain.QuizResult) bool { return r.StudentID == studentID }), nil
}

func (s *ResultStore) ListByQuizzes(_ context.Context, quizIDs []string) ([]domain.QuizResult, error) {
	wanted := make(map[string]struct{}, len(quizIDs))
	for _, id := range quizIDs {
		wanted[id] = struct{}{}
	}
	return s.filter(func(r domain.QuizResult) bool {
		_, ok := wanted[r.QuizID]
		return ok
	}), nil
}

// Len returns the number of stored results.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// filter returns matching results newest first.
func (s *ResultStore) filter(keep func(domain.QuizResult) bool) []domain.QuizResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizResult, 0)
	for i := len(s.results) - 1; i >= 0; i-- {
		if keep(s.results[i]) {
			out = append(out, s.results[i])
		}
	}
	return out
}
