package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
)

// parseForm reads a multipart body limited to maxBytes.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewValidationError("File too large", domain.FieldError{Field: "file", Error: "exceeds upload limit"})
		}
		return domain.NewValidationError("Invalid form body", domain.FieldError{Field: "body", Error: err.Error()})
	}
	return nil
}

// formFile returns the uploaded "file" part, or nil when none was sent.
// The caller closes the returned closer.
func formFile(r *http.Request) (*app.Upload, func(), error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, domain.NewValidationError("Invalid file upload", domain.FieldError{Field: "file", Error: err.Error()})
	}
	return &app.Upload{Filename: header.Filename, Body: file}, func() { file.Close() }, nil
}

// formInt parses an optional integer form value. Empty values yield nil.
func formInt(r *http.Request, field string) (*int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError("", domain.FieldError{Field: field, Error: field + " must be an integer"})
	}
	return &n, nil
}
