package http

import (
	"net/http"

	"classroom-service/internal/app"
	"github.com/go-chi/chi/v5"
)

type VideoHandler struct {
	videos   *app.VideoService
	maxBytes int64
}

func NewVideoHandler(videos *app.VideoService, maxBytes int64) *VideoHandler {
	return &VideoHandler{videos: videos, maxBytes: maxBytes}
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videos.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	video, err := h.videos.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// Upload expects a multipart body with a "file" part.
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxBytes); err != nil {
		writeError(w, r, err)
		return
	}
	file, closeFile, err := formFile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeFile()

	duration, err := formInt(r, "duration")
	if err != nil {
		writeError(w, r, err)
		return
	}
	in := app.VideoInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    duration,
		Tags:        r.FormValue("tags"),
	}
	video, err := h.videos.Create(r.Context(), currentUser(r).ID, in, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch app.VideoPatch
	if isMultipart(r) {
		if err := parseForm(w, r, h.maxBytes); err != nil {
			writeError(w, r, err)
			return
		}
		duration, err := formInt(r, "duration")
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch = app.VideoPatch{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Duration:    duration,
			Tags:        r.FormValue("tags"),
		}
	} else if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	video, err := h.videos.Update(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.videos.Delete(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Video removed")
}

type NoteHandler struct {
	notes    *app.NoteService
	maxBytes int64
}

func NewNoteHandler(notes *app.NoteService, maxBytes int64) *NoteHandler {
	return &NoteHandler{notes: notes, maxBytes: maxBytes}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Create accepts JSON or a multipart body with an optional "file" part.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		in   app.NoteInput
		file *app.Upload
	)
	if isMultipart(r) {
		if err := parseForm(w, r, h.maxBytes); err != nil {
			writeError(w, r, err)
			return
		}
		upload, closeFile, err := formFile(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer closeFile()
		file = upload
		in = app.NoteInput{
			Title:   r.FormValue("title"),
			Content: r.FormValue("content"),
			Tags:    r.FormValue("tags"),
		}
	} else if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.notes.Create(r.Context(), currentUser(r).ID, in, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch app.NotePatch
	if isMultipart(r) {
		if err := parseForm(w, r, h.maxBytes); err != nil {
			writeError(w, r, err)
			return
		}
		patch = app.NotePatch{
			Title:   r.FormValue("title"),
			Content: r.FormValue("content"),
			Tags:    r.FormValue("tags"),
		}
	} else if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.notes.Update(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Note removed")
}

type QuestionHandler struct {
	questions *app.ImportantQuestionService
}

func NewQuestionHandler(questions *app.ImportantQuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questions.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.questions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in app.ImportantQuestionInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	q, err := h.questions.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch app.ImportantQuestionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	q, err := h.questions.Update(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.questions.Delete(r.Context(), chi.URLParam(r, "id"), currentUser(r).ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Question deleted successfully")
}
