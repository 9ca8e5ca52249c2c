package http

import (
	"io"
	"mime"
	"net/http"
	"path"

	"classroom-service/internal/app"
	"github.com/go-chi/chi/v5"
)

// UploadsHandler serves stored blobs back to clients.
type UploadsHandler struct {
	blobs app.BlobStore
}

func NewUploadsHandler(blobs app.BlobStore) *UploadsHandler {
	return &UploadsHandler{blobs: blobs}
}

func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	rc, err := h.blobs.Open(r.Context(), key)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "File not found")
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
