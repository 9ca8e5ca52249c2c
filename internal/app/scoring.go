package app

import (
	"fmt"

	"classroom-service/internal/domain"
)

// Score grades answers against quiz and returns the number of matched
// questions and the percentage over the quiz's current question count.
//
// Only the first answer for a given question counts. Unknown question ids are
// skipped unless strict is set, in which case they fail with a validation
// error. A quiz without questions scores 0.
func Score(quiz domain.Quiz, answers []domain.Answer, strict bool) (int, float64, error) {
	key := make(map[string]int, len(quiz.Questions))
	for _, q := range quiz.Questions {
		key[q.ID] = q.CorrectAnswer
	}

	var unknown []domain.FieldError
	graded := make(map[string]struct{}, len(answers))
	matched := 0
	for i, a := range answers {
		correct, ok := key[a.QuestionID]
		if !ok {
			if strict {
				unknown = append(unknown, domain.FieldError{
					Field: fmt.Sprintf("answers[%d].questionId", i),
					Error: "unknown question",
				})
			}
			continue
		}
		if _, dup := graded[a.QuestionID]; dup {
			continue
		}
		graded[a.QuestionID] = struct{}{}
		if correct == a.AnswerIndex {
			matched++
		}
	}
	if len(unknown) > 0 {
		return 0, 0, domain.NewValidationError("answers reference unknown questions", unknown...)
	}

	if len(quiz.Questions) == 0 {
		return 0, 0, nil
	}
	return matched, float64(matched) / float64(len(quiz.Questions)) * 100, nil
}
