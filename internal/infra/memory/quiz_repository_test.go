package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"classroom-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := newCountingLoader(sampleQuiz())
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryInvalidate(t *testing.T) {
	ctx := context.Background()
	loader := newCountingLoader(sampleQuiz())
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}

	updated := sampleQuiz()
	updated.Questions[0].CorrectAnswer = 0
	if err := loader.store.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.Invalidate(ctx, "quiz-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	quiz, err := repo.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz after invalidate: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
	if quiz.Questions[0].CorrectAnswer != 0 {
		t.Fatalf("expected fresh answer key, got %+v", quiz.Questions[0])
	}
}

func TestQuizRepositorySkipsLoadThatRacedInvalidate(t *testing.T) {
	ctx := context.Background()
	loader := newGatedLoader(sampleQuiz())
	repo := NewQuizRepository(loader, time.Minute)

	started := loader.started
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = repo.GetQuiz(ctx, "quiz-1")
	}()
	<-started

	// The in-flight load already holds the one-question version.
	updated := sampleQuiz()
	updated.Questions = append(updated.Questions, domain.Question{ID: "q2", Text: "1 + 1", Options: []string{"1", "2"}, CorrectAnswer: 1})
	if err := loader.store.Update(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.Invalidate(ctx, "quiz-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	close(loader.release)
	<-done

	quiz, err := repo.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected current question list, got %d questions", len(quiz.Questions))
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryExpires(t *testing.T) {
	loader := newCountingLoader(sampleQuiz())
	repo := NewQuizRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if loader.calls != 2 {
		t.Fatalf("expected expired entry to reload, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryUnknownQuiz(t *testing.T) {
	repo := NewQuizRepository(newCountingLoader(), time.Minute)
	_, err := repo.GetQuiz(context.Background(), "missing")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found family, got %v", err)
	}
}

type countingLoader struct {
	*StoreQuizLoader
	store *Store[domain.Quiz]
	calls int
}

func newCountingLoader(quizzes ...domain.Quiz) *countingLoader {
	store := NewStore[domain.Quiz]()
	for _, q := range quizzes {
		_ = store.Create(context.Background(), q)
	}
	return &countingLoader{StoreQuizLoader: NewStoreQuizLoader(store), store: store}
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.StoreQuizLoader.LoadQuiz(ctx, quizID)
}

// gatedLoader blocks its first load after reading the store, until release
// is closed.
type gatedLoader struct {
	*countingLoader
	started chan struct{}
	release chan struct{}
}

func newGatedLoader(quizzes ...domain.Quiz) *gatedLoader {
	return &gatedLoader{
		countingLoader: newCountingLoader(quizzes...),
		started:        make(chan struct{}),
		release:        make(chan struct{}),
	}
}

func (l *gatedLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := l.countingLoader.LoadQuiz(ctx, quizID)
	if l.started != nil {
		close(l.started)
		l.started = nil
		<-l.release
	}
	return quiz, err
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:        "quiz-1",
		Title:     "Algebra Warmup",
		TeacherID: "t1",
		Questions: []domain.Question{
			{
				ID:            "q1",
				Text:          "What is 2 + 2?",
				Options:       []string{"1", "2", "3", "4"},
				CorrectAnswer: 3,
			},
		},
	}
}
