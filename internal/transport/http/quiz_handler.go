package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type QuizHandler struct {
	quizzes  *app.QuizService
	results  *app.ResultService
	maxBytes int64
}

func NewQuizHandler(quizzes *app.QuizService, results *app.ResultService, maxBytes int64) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, results: results, maxBytes: maxBytes}
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in app.QuizInput
	if isMultipart(r) {
		if err := parseForm(w, r, h.maxBytes); err != nil {
			writeError(w, r, err)
			return
		}
		in.Title = r.FormValue("title")
		in.Description = r.FormValue("description")
		duration, err := formInt(r, "durationMinutes")
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.DurationMinutes = duration
		if raw := r.FormValue("questions"); strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &in.Questions); err != nil {
				writeError(w, r, questionsError(err))
				return
			}
		}
	} else if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	quiz, err := h.quizzes.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *QuizHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch app.QuizPatch
	if isMultipart(r) {
		if err := parseForm(w, r, h.maxBytes); err != nil {
			writeError(w, r, err)
			return
		}
		patch.Title = r.FormValue("title")
		patch.Description = r.FormValue("description")
		duration, err := formInt(r, "durationMinutes")
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.DurationMinutes = duration
		if raw := r.FormValue("questions"); strings.TrimSpace(raw) != "" {
			var list app.QuestionList
			if err := json.Unmarshal([]byte(raw), &list); err != nil {
				writeError(w, r, questionsError(err))
				return
			}
			patch.Questions = &list
		}
	} else if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	quiz, err := h.quizzes.Update(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.Delete(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Deleted")
}

type submitRequest struct {
	Answers []domain.Answer `json:"answers"`
}

// Submit scores the caller's answers for the quiz in the URL.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.results.Submit(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, req.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func questionsError(err error) error {
	if domain.IsValidation(err) {
		return err
	}
	return domain.NewValidationError("", domain.FieldError{Field: "questions", Error: "questions must be an array"})
}
