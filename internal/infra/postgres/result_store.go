package postgres

import (
	"context"

	"classroom-service/internal/domain"
	"github.com/uptrace/bun"
)

// ResultStore is a bun-backed, append-only implementation of app.ResultStore.
type ResultStore struct {
	db bun.IDB
}

func NewResultStore(db bun.IDB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Create(ctx context.Context, result domain.QuizResult) error {
	_, err := s.db.NewInsert().Model(&result).Exec(ctx)
	return err
}

func (s *ResultStore) ListByStudent(ctx context.Context, studentID string) ([]domain.QuizResult, error) {
	results := []domain.QuizResult{}
	err := s.db.NewSelect().Model(&results).
		Where("r.student_id = ?", studentID).
		Order("r.created_at DESC").
		Scan(ctx)
	return results, err
}

func (s *ResultStore) ListByQuizzes(ctx context.Context, quizIDs []string) ([]domain.QuizResult, error) {
	results := []domain.QuizResult{}
	if len(quizIDs) == 0 {
		return results, nil
	}
	err := s.db.NewSelect().Model(&results).
		Where("r.quiz_id IN (?)", bun.In(quizIDs)).
		Order("r.created_at DESC").
		Scan(ctx)
	return results, err
}
