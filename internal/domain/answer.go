package domain

import "encoding/json"

// UnmarshalJSON decodes a submitted answer. A missing or null answerIndex is
// treated as Unanswered; non-integer values are rejected rather than coerced.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw struct {
		QuestionID  string `json:"questionId"`
		AnswerIndex *int   `json:"answerIndex"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.QuestionID = raw.QuestionID
	a.AnswerIndex = Unanswered
	if raw.AnswerIndex != nil {
		a.AnswerIndex = *raw.AnswerIndex
	}
	return nil
}
