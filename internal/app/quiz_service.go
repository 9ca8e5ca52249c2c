package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"classroom-service/internal/domain"
	"classroom-service/internal/logging"
	"github.com/google/uuid"
)

// QuestionInput is one question as submitted by a teacher.
type QuestionInput struct {
	ID            string   `json:"_id"`
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer" validate:"required"`
}

// QuestionList accepts either a JSON array of questions or a string holding
// one, which is what multipart clients send.
type QuestionList []QuestionInput

func (l *QuestionList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			*l = QuestionList{}
			return nil
		}
		data = []byte(raw)
	}
	var items []QuestionInput
	if err := json.Unmarshal(data, &items); err != nil {
		return domain.NewValidationError("", domain.FieldError{Field: "questions", Error: "questions must be an array"})
	}
	if items == nil {
		items = []QuestionInput{}
	}
	*l = items
	return nil
}

// QuizInput creates a quiz.
type QuizInput struct {
	Title           string       `json:"title" validate:"required"`
	Description     string       `json:"description"`
	Questions       QuestionList `json:"questions"`
	DurationMinutes *int         `json:"durationMinutes" validate:"omitempty,gt=0"`
}

// QuizPatch updates a quiz. Empty strings and zero durations leave the field
// unchanged; a present questions list replaces the current one, even if empty.
type QuizPatch struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Questions       *QuestionList `json:"questions"`
	DurationMinutes *int          `json:"durationMinutes"`
}

// QuizService manages quiz content owned by teachers.
type QuizService struct {
	catalog catalog[domain.Quiz]
	cache   QuizRepository
	now     func() time.Time
}

func NewQuizService(quizzes Store[domain.Quiz], cache QuizRepository, users UserStore) *QuizService {
	return &QuizService{
		catalog: catalog[domain.Quiz]{
			store:    quizzes,
			users:    users,
			notFound: domain.ErrQuizNotFound,
			setOwner: func(q *domain.Quiz, ref domain.UserRef) { q.Teacher = ref },
		},
		cache: cache,
		now:   time.Now,
	}
}

// Create validates in and stores a new quiz owned by teacherID.
func (s *QuizService) Create(ctx context.Context, teacherID string, in QuizInput) (domain.Quiz, error) {
	questions, qerr := buildQuestions(in.Questions)
	if err := mergeValidation(validateStruct(in, ""), qerr); err != nil {
		return domain.Quiz{}, err
	}

	now := s.now().UTC()
	quiz := domain.Quiz{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Description:     in.Description,
		TeacherID:       teacherID,
		Teacher:         domain.UserRef{ID: teacherID},
		Questions:       questions,
		DurationMinutes: in.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.catalog.store.Create(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	logging.FromContext(ctx).WithField("quiz_id", quiz.ID).Info("quiz created")
	return quiz, nil
}

func (s *QuizService) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.catalog.list(ctx)
}

func (s *QuizService) Get(ctx context.Context, id string) (domain.Quiz, error) {
	return s.catalog.getPopulated(ctx, id)
}

// Update applies patch when callerID owns the quiz.
func (s *QuizService) Update(ctx context.Context, id, callerID string, patch QuizPatch) (domain.Quiz, error) {
	quiz, err := s.catalog.owned(ctx, id, callerID)
	if err != nil {
		return domain.Quiz{}, err
	}

	if patch.Title != "" {
		quiz.Title = patch.Title
	}
	if patch.Description != "" {
		quiz.Description = patch.Description
	}
	if patch.Questions != nil {
		questions, err := buildQuestions(*patch.Questions)
		if err != nil {
			return domain.Quiz{}, err
		}
		quiz.Questions = questions
	}
	if patch.DurationMinutes != nil && *patch.DurationMinutes != 0 {
		if *patch.DurationMinutes < 0 {
			return domain.Quiz{}, domain.NewValidationError("", domain.FieldError{Field: "durationMinutes", Error: "durationMinutes must be greater than 0"})
		}
		d := *patch.DurationMinutes
		quiz.DurationMinutes = &d
	}
	quiz.UpdatedAt = s.now().UTC()

	if err := s.catalog.store.Update(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	s.invalidate(ctx, id)
	logging.FromContext(ctx).WithField("quiz_id", id).Info("quiz updated")

	recs, err := s.catalog.withOwners(ctx, []domain.Quiz{quiz})
	if err != nil {
		return quiz, nil
	}
	return recs[0], nil
}

// Delete removes the quiz when callerID owns it. Existing results are kept.
func (s *QuizService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.catalog.owned(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.catalog.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.invalidate(ctx, id)
	logging.FromContext(ctx).WithField("quiz_id", id).Info("quiz deleted")
	return nil
}

func (s *QuizService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("quiz_id", id).Warn("quiz cache invalidation failed")
	}
}

// buildQuestions validates each question, assigns missing ids and rejects
// duplicate ids within the list.
func buildQuestions(in QuestionList) ([]domain.Question, error) {
	questions := make([]domain.Question, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	var errs []error
	for i, q := range in {
		prefix := fmt.Sprintf("questions[%d].", i)
		if err := validateStruct(q, prefix); err != nil {
			errs = append(errs, err)
			continue
		}
		id := strings.TrimSpace(q.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, domain.NewValidationError("", domain.FieldError{Field: prefix + "_id", Error: "duplicate question id"}))
			continue
		}
		seen[id] = struct{}{}

		options := q.Options
		if options == nil {
			options = []string{}
		}
		questions = append(questions, domain.Question{
			ID:            id,
			Text:          q.Text,
			Options:       options,
			CorrectAnswer: *q.CorrectAnswer,
		})
	}
	if err := mergeValidation(errs...); err != nil {
		return nil, err
	}
	return questions, nil
}
