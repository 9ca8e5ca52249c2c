package app

import (
	"context"
	"io"

	"classroom-service/internal/domain"
)

// Store persists one kind of teacher-owned record.
// Get returns domain.ErrNotFound when the id is unknown.
type Store[T domain.Record] interface {
	Create(ctx context.Context, rec T) error
	Get(ctx context.Context, id string) (T, error)
	GetMany(ctx context.Context, ids []string) (map[string]T, error)
	List(ctx context.Context) ([]T, error)
	ListByOwner(ctx context.Context, ownerID string) ([]T, error)
	Update(ctx context.Context, rec T) error
	Delete(ctx context.Context, id string) error
}

// UserStore persists identities.
type UserStore interface {
	Create(ctx context.Context, user domain.User) error
	Get(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.User, error)
	Update(ctx context.Context, user domain.User) error
}

// ResultStore is append-only: results are never updated or deleted.
type ResultStore interface {
	Create(ctx context.Context, result domain.QuizResult) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.QuizResult, error)
	ListByQuizzes(ctx context.Context, quizIDs []string) ([]domain.QuizResult, error)
}

// QuizLoader fetches quiz content from the backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository serves quizzes on the scoring path, usually through a cache.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	Invalidate(ctx context.Context, quizID string) error
}

// BlobStore keeps uploaded files and returns a URL clients can fetch them from.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
