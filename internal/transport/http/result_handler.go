package http

import (
	"net/http"

	"classroom-service/internal/app"
)

type ResultHandler struct {
	results *app.ResultService
}

func NewResultHandler(results *app.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Mine lists the calling student's results.
func (h *ResultHandler) Mine(w http.ResponseWriter, r *http.Request) {
	results, err := h.results.ListForStudent(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Teacher lists results for quizzes the caller owns.
func (h *ResultHandler) Teacher(w http.ResponseWriter, r *http.Request) {
	results, err := h.results.ListForTeacher(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
