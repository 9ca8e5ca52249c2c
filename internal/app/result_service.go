package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classroom-service/internal/domain"
	"classroom-service/internal/logging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ResultService scores quiz submissions and serves result history.
type ResultService struct {
	quizzes QuizRepository
	catalog Store[domain.Quiz]
	results ResultStore
	users   UserStore
	feed    *ResultFeed
	strict  bool
	now     func() time.Time
}

// ResultOption configures a ResultService.
type ResultOption func(*ResultService)

// WithStrictQuestionIDs makes submissions that reference unknown questions fail.
func WithStrictQuestionIDs(strict bool) ResultOption {
	return func(s *ResultService) { s.strict = strict }
}

// WithResultFeed publishes every created result to feed.
func WithResultFeed(feed *ResultFeed) ResultOption {
	return func(s *ResultService) { s.feed = feed }
}

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) ResultOption {
	return func(s *ResultService) { s.now = now }
}

func NewResultService(quizzes QuizRepository, catalog Store[domain.Quiz], results ResultStore, users UserStore, opts ...ResultOption) *ResultService {
	s := &ResultService{
		quizzes: quizzes,
		catalog: catalog,
		results: results,
		users:   users,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit scores answers against the quiz's current questions and records one
// new result. Nothing is persisted when the quiz is unknown.
func (s *ResultService) Submit(ctx context.Context, quizID, studentID string, answers []domain.Answer) (domain.QuizResult, error) {
	log := logging.FromContext(ctx).WithFields(logrus.Fields{"quiz_id": quizID, "student_id": studentID})

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.QuizResult{}, domain.ErrQuizNotFound
		}
		return domain.QuizResult{}, fmt.Errorf("load quiz: %w", err)
	}

	matched, score, err := Score(quiz, answers, s.strict)
	if err != nil {
		return domain.QuizResult{}, err
	}

	if answers == nil {
		answers = []domain.Answer{}
	}
	result := domain.QuizResult{
		ID:        uuid.NewString(),
		QuizID:    quiz.ID,
		Quiz:      domain.QuizRef{ID: quiz.ID, Title: quiz.Title},
		StudentID: studentID,
		Student:   domain.UserRef{ID: studentID},
		Answers:   answers,
		Score:     score,
		CreatedAt: s.now().UTC(),
	}
	if err := s.results.Create(ctx, result); err != nil {
		log.WithError(err).Error("persist result failed")
		return domain.QuizResult{}, fmt.Errorf("create result: %w", err)
	}
	log.WithFields(logrus.Fields{"matched": matched, "score": score}).Info("quiz submitted")

	if s.feed != nil {
		live := result
		if student, err := s.users.Get(ctx, studentID); err == nil {
			live.Student = student.Ref(true)
		}
		s.feed.Publish(ctx, quiz.TeacherID, live)
	}
	return result, nil
}

// ListForStudent returns the student's own results with quiz titles.
func (s *ResultService) ListForStudent(ctx context.Context, studentID string) ([]domain.QuizResult, error) {
	results, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if len(results) == 0 {
		return results, nil
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.QuizID)
	}
	quizzes, err := s.catalog.GetMany(ctx, uniq(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve quizzes: %w", err)
	}
	for i := range results {
		results[i].Quiz = domain.QuizRef{ID: results[i].QuizID, Title: quizzes[results[i].QuizID].Title}
		results[i].Student = domain.UserRef{ID: results[i].StudentID}
	}
	return results, nil
}

// ListForTeacher returns results for every quiz owned by teacherID, with
// student and quiz details.
func (s *ResultService) ListForTeacher(ctx context.Context, teacherID string) ([]domain.QuizResult, error) {
	owned, err := s.catalog.ListByOwner(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	if len(owned) == 0 {
		return []domain.QuizResult{}, nil
	}
	titles := make(map[string]string, len(owned))
	ids := make([]string, 0, len(owned))
	for _, q := range owned {
		titles[q.ID] = q.Title
		ids = append(ids, q.ID)
	}

	results, err := s.results.ListByQuizzes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	studentIDs := make([]string, 0, len(results))
	for _, r := range results {
		studentIDs = append(studentIDs, r.StudentID)
	}
	students, err := s.users.GetMany(ctx, uniq(studentIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve students: %w", err)
	}
	for i := range results {
		results[i].Quiz = domain.QuizRef{ID: results[i].QuizID, Title: titles[results[i].QuizID]}
		ref := domain.UserRef{ID: results[i].StudentID}
		if student, ok := students[ref.ID]; ok {
			ref = student.Ref(true)
		}
		results[i].Student = ref
	}
	return results, nil
}
