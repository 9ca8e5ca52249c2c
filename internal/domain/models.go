package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Role is the platform role attached to every user.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// User is an identity that can sign in.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-"`

	ID           string    `bun:"id,pk" json:"_id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash []byte    `bun:"password_hash,notnull" json:"-"`
	Role         Role      `bun:"role,notnull" json:"role"`
	Bio          string    `bun:"bio" json:"bio,omitempty"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// UserRef is the populated form of an owner or student reference.
type UserRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// QuizRef is the populated form of a quiz reference on a result.
type QuizRef struct {
	ID    string `json:"_id"`
	Title string `json:"title,omitempty"`
}

// Question is one multiple-choice item embedded in a quiz.
// CorrectAnswer is a zero-based index into Options and is not range checked.
type Question struct {
	ID            string   `json:"_id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Quiz is a named, ordered list of questions owned by one teacher.
type Quiz struct {
	bun.BaseModel `bun:"table:quizzes,alias:q" json:"-"`

	ID              string     `bun:"id,pk" json:"_id"`
	Title           string     `bun:"title,notnull" json:"title"`
	Description     string     `bun:"description" json:"description,omitempty"`
	TeacherID       string     `bun:"teacher_id,notnull" json:"-"`
	Teacher         UserRef    `bun:"-" json:"teacher"`
	Questions       []Question `bun:"questions,type:jsonb,notnull" json:"questions"`
	DurationMinutes *int       `bun:"duration_minutes" json:"durationMinutes,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull" json:"updatedAt"`
}

// Question looks up an embedded question by id.
func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Unanswered is the answer index clients send for a skipped question.
const Unanswered = -1

// Answer is one submitted {questionId, answerIndex} pair.
type Answer struct {
	QuestionID  string `json:"questionId"`
	AnswerIndex int    `json:"answerIndex"`
}

// QuizResult is the immutable record of one scored attempt.
type QuizResult struct {
	bun.BaseModel `bun:"table:quiz_results,alias:r" json:"-"`

	ID        string    `bun:"id,pk" json:"_id"`
	QuizID    string    `bun:"quiz_id,notnull" json:"-"`
	Quiz      QuizRef   `bun:"-" json:"quiz"`
	StudentID string    `bun:"student_id,notnull" json:"-"`
	Student   UserRef   `bun:"-" json:"student"`
	Answers   []Answer  `bun:"answers,type:jsonb,notnull" json:"answers"`
	Score     float64   `bun:"score,notnull" json:"score"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// Video is an uploaded lecture recording.
type Video struct {
	bun.BaseModel `bun:"table:videos,alias:v" json:"-"`

	ID          string    `bun:"id,pk" json:"_id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description,omitempty"`
	FileURL     string    `bun:"file_url,notnull" json:"filePath"`
	BlobKey     string    `bun:"blob_key" json:"-"`
	TeacherID   string    `bun:"teacher_id,notnull" json:"-"`
	Teacher     UserRef   `bun:"-" json:"teacher"`
	Duration    *int      `bun:"duration" json:"duration,omitempty"`
	Tags        []string  `bun:"tags,type:jsonb,notnull" json:"tags"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// Note is a text note with an optional attached file.
type Note struct {
	bun.BaseModel `bun:"table:notes,alias:n" json:"-"`

	ID        string    `bun:"id,pk" json:"_id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Content   string    `bun:"content" json:"content,omitempty"`
	FileURL   string    `bun:"file_url" json:"filePath,omitempty"`
	BlobKey   string    `bun:"blob_key" json:"-"`
	TeacherID string    `bun:"teacher_id,notnull" json:"-"`
	Teacher   UserRef   `bun:"-" json:"teacher"`
	Tags      []string  `bun:"tags,type:jsonb,notnull" json:"tags"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// ImportantQuestion is a teacher-curated exam question with an explanation.
type ImportantQuestion struct {
	bun.BaseModel `bun:"table:important_questions,alias:iq" json:"-"`

	ID          string    `bun:"id,pk" json:"_id"`
	Question    string    `bun:"question,notnull" json:"question"`
	Explanation string    `bun:"explanation" json:"explanation,omitempty"`
	Subject     string    `bun:"subject" json:"subject,omitempty"`
	TeacherID   string    `bun:"teacher_id,notnull" json:"-"`
	Teacher     UserRef   `bun:"-" json:"teacher"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}
