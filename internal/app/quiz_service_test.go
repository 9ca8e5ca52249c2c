package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
)

func TestCreateQuizAssignsQuestionIDs(t *testing.T) {
	f := newFixture(t)
	service := f.quizService()

	var in app.QuizInput
	body := `{"title":"Algebra Warmup","questions":"[{\"text\":\"2+2\",\"options\":[\"1\",\"2\",\"3\",\"4\"],\"correctAnswer\":3}]"}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}

	quiz, err := service.Create(context.Background(), "teacher-1", in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(quiz.Questions) != 1 || quiz.Questions[0].ID == "" {
		t.Fatalf("expected generated question id, got %+v", quiz.Questions)
	}
	if quiz.Questions[0].CorrectAnswer != 3 || quiz.TeacherID != "teacher-1" {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	f := newFixture(t)
	service := f.quizService()
	zero := 0

	tests := []struct {
		name  string
		in    app.QuizInput
		field string
	}{
		{
			name:  "missing title",
			in:    app.QuizInput{},
			field: "title",
		},
		{
			name:  "question without text",
			in:    app.QuizInput{Title: "t", Questions: app.QuestionList{{CorrectAnswer: &zero}}},
			field: "questions[0].text",
		},
		{
			name:  "question without answer",
			in:    app.QuizInput{Title: "t", Questions: app.QuestionList{{Text: "q"}}},
			field: "questions[0].correctAnswer",
		},
		{
			name: "duplicate question ids",
			in: app.QuizInput{Title: "t", Questions: app.QuestionList{
				{ID: "a", Text: "q", CorrectAnswer: &zero},
				{ID: "a", Text: "q", CorrectAnswer: &zero},
			}},
			field: "questions[1]._id",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), "teacher-1", tc.in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			found := false
			for _, fe := range verr.Fields {
				if fe.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected field %q in %+v", tc.field, verr.Fields)
			}
		})
	}
}

func TestUpdateQuizOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	service := f.quizService()

	_, err := service.Update(ctx, "quiz-1", "teacher-2", app.QuizPatch{Title: "hijacked"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	quiz, _ := service.Get(ctx, "quiz-1")
	if quiz.Title != "Arithmetic" {
		t.Fatalf("expected record unchanged, got %q", quiz.Title)
	}

	if _, err := service.Update(ctx, "missing", "teacher-1", app.QuizPatch{}); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := service.Delete(ctx, "quiz-1", "teacher-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
}

func TestUpdateQuizTruthyFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	service := f.quizService()

	zero := 0
	quiz, err := service.Update(ctx, "quiz-1", "teacher-1", app.QuizPatch{Title: "", DurationMinutes: &zero})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if quiz.Title != "Arithmetic" || quiz.DurationMinutes != nil || len(quiz.Questions) != 4 {
		t.Fatalf("expected no changes, got %+v", quiz)
	}

	empty := app.QuestionList{}
	quiz, err = service.Update(ctx, "quiz-1", "teacher-1", app.QuizPatch{Title: "Renamed", Questions: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if quiz.Title != "Renamed" || len(quiz.Questions) != 0 {
		t.Fatalf("expected title change and emptied questions, got %+v", quiz)
	}
	if quiz.Teacher.Name != "Tess" {
		t.Fatalf("expected owner populated, got %+v", quiz.Teacher)
	}
}

func TestListQuizzesPopulatesOwner(t *testing.T) {
	f := newFixture(t)
	quizzes, err := f.quizService().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].Teacher.Name != "Tess" || quizzes[0].Teacher.ID != "teacher-1" {
		t.Fatalf("unexpected quizzes %+v", quizzes)
	}
}

func TestQuestionListRejectsNonArray(t *testing.T) {
	var in app.QuizInput
	err := json.Unmarshal([]byte(`{"title":"t","questions":"not json"}`), &in)
	if err == nil {
		t.Fatalf("expected decode error")
	}
}
