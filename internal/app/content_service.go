package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"classroom-service/internal/domain"
	"classroom-service/internal/logging"
	"github.com/google/uuid"
)

// Upload is a file received with a create request.
type Upload struct {
	Filename string
	Body     io.Reader
}

// VideoInput creates a video. Tags is a comma-separated list.
type VideoInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Duration    *int   `json:"duration" validate:"omitempty,gte=0"`
	Tags        string `json:"tags"`
}

// VideoPatch updates a video; empty values leave fields unchanged.
type VideoPatch struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    *int   `json:"duration"`
	Tags        string `json:"tags"`
}

// VideoService manages uploaded lecture videos.
type VideoService struct {
	catalog catalog[domain.Video]
	blobs   BlobStore
	now     func() time.Time
}

func NewVideoService(videos Store[domain.Video], users UserStore, blobs BlobStore) *VideoService {
	return &VideoService{
		catalog: catalog[domain.Video]{
			store:      videos,
			users:      users,
			notFound:   domain.ErrVideoNotFound,
			setOwner:   func(v *domain.Video, ref domain.UserRef) { v.Teacher = ref },
			ownerEmail: true,
		},
		blobs: blobs,
		now:   time.Now,
	}
}

func (s *VideoService) Create(ctx context.Context, teacherID string, in VideoInput, file *Upload) (domain.Video, error) {
	var fileErr error
	if file == nil {
		fileErr = domain.NewValidationError("", domain.FieldError{Field: "file", Error: "No file uploaded"})
	}
	if err := mergeValidation(validateStruct(in, ""), fileErr); err != nil {
		return domain.Video{}, err
	}

	now := s.now().UTC()
	key, url, err := putBlob(ctx, s.blobs, "videos", now, file)
	if err != nil {
		return domain.Video{}, err
	}

	video := domain.Video{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		FileURL:     url,
		BlobKey:     key,
		TeacherID:   teacherID,
		Teacher:     domain.UserRef{ID: teacherID},
		Duration:    in.Duration,
		Tags:        splitTags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.catalog.store.Create(ctx, video); err != nil {
		deleteBlob(ctx, s.blobs, key)
		return domain.Video{}, fmt.Errorf("create video: %w", err)
	}
	logging.FromContext(ctx).WithField("video_id", video.ID).Info("video uploaded")
	return video, nil
}

func (s *VideoService) List(ctx context.Context) ([]domain.Video, error) {
	return s.catalog.list(ctx)
}

func (s *VideoService) Get(ctx context.Context, id string) (domain.Video, error) {
	return s.catalog.getPopulated(ctx, id)
}

func (s *VideoService) Update(ctx context.Context, id, callerID string, patch VideoPatch) (domain.Video, error) {
	video, err := s.catalog.owned(ctx, id, callerID)
	if err != nil {
		return domain.Video{}, err
	}
	if patch.Title != "" {
		video.Title = patch.Title
	}
	if patch.Description != "" {
		video.Description = patch.Description
	}
	if patch.Duration != nil && *patch.Duration > 0 {
		d := *patch.Duration
		video.Duration = &d
	}
	if patch.Tags != "" {
		video.Tags = splitTags(patch.Tags)
	}
	video.UpdatedAt = s.now().UTC()

	if err := s.catalog.store.Update(ctx, video); err != nil {
		return domain.Video{}, fmt.Errorf("update video: %w", err)
	}
	return s.populated(ctx, video), nil
}

// Delete removes the record and, best effort, its file.
func (s *VideoService) Delete(ctx context.Context, id, callerID string) error {
	video, err := s.catalog.owned(ctx, id, callerID)
	if err != nil {
		return err
	}
	if err := s.catalog.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	deleteBlob(ctx, s.blobs, video.BlobKey)
	logging.FromContext(ctx).WithField("video_id", id).Info("video deleted")
	return nil
}

func (s *VideoService) populated(ctx context.Context, video domain.Video) domain.Video {
	recs, err := s.catalog.withOwners(ctx, []domain.Video{video})
	if err != nil {
		return video
	}
	return recs[0]
}

// NoteInput creates a note. The attached file is optional.
type NoteInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// NotePatch updates a note; empty values leave fields unchanged.
type NotePatch struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// NoteService manages study notes.
type NoteService struct {
	catalog catalog[domain.Note]
	blobs   BlobStore
	now     func() time.Time
}

func NewNoteService(notes Store[domain.Note], users UserStore, blobs BlobStore) *NoteService {
	return &NoteService{
		catalog: catalog[domain.Note]{
			store:    notes,
			users:    users,
			notFound: domain.ErrNoteNotFound,
			setOwner: func(n *domain.Note, ref domain.UserRef) { n.Teacher = ref },
		},
		blobs: blobs,
		now:   time.Now,
	}
}

func (s *NoteService) Create(ctx context.Context, teacherID string, in NoteInput, file *Upload) (domain.Note, error) {
	if err := validateStruct(in, ""); err != nil {
		return domain.Note{}, err
	}

	now := s.now().UTC()
	note := domain.Note{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		TeacherID: teacherID,
		Teacher:   domain.UserRef{ID: teacherID},
		Tags:      splitTags(in.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if file != nil {
		key, url, err := putBlob(ctx, s.blobs, "notes", now, file)
		if err != nil {
			return domain.Note{}, err
		}
		note.BlobKey, note.FileURL = key, url
	}
	if err := s.catalog.store.Create(ctx, note); err != nil {
		deleteBlob(ctx, s.blobs, note.BlobKey)
		return domain.Note{}, fmt.Errorf("create note: %w", err)
	}
	logging.FromContext(ctx).WithField("note_id", note.ID).Info("note created")
	return note, nil
}

func (s *NoteService) List(ctx context.Context) ([]domain.Note, error) {
	return s.catalog.list(ctx)
}

func (s *NoteService) Get(ctx context.Context, id string) (domain.Note, error) {
	return s.catalog.getPopulated(ctx, id)
}

func (s *NoteService) Update(ctx context.Context, id, callerID string, patch NotePatch) (domain.Note, error) {
	note, err := s.catalog.owned(ctx, id, callerID)
	if err != nil {
		return domain.Note{}, err
	}
	if patch.Title != "" {
		note.Title = patch.Title
	}
	if patch.Content != "" {
		note.Content = patch.Content
	}
	if patch.Tags != "" {
		note.Tags = splitTags(patch.Tags)
	}
	note.UpdatedAt = s.now().UTC()

	if err := s.catalog.store.Update(ctx, note); err != nil {
		return domain.Note{}, fmt.Errorf("update note: %w", err)
	}
	if recs, err := s.catalog.withOwners(ctx, []domain.Note{note}); err == nil {
		note = recs[0]
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, id, callerID string) error {
	note, err := s.catalog.owned(ctx, id, callerID)
	if err != nil {
		return err
	}
	if err := s.catalog.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	deleteBlob(ctx, s.blobs, note.BlobKey)
	logging.FromContext(ctx).WithField("note_id", id).Info("note deleted")
	return nil
}

// ImportantQuestionInput creates an important question.
type ImportantQuestionInput struct {
	Question    string `json:"question" validate:"required"`
	Explanation string `json:"explanation"`
	Subject     string `json:"subject"`
}

// ImportantQuestionPatch updates an important question; empty values are ignored.
type ImportantQuestionPatch struct {
	Question    string `json:"question"`
	Explanation string `json:"explanation"`
	Subject     string `json:"subject"`
}

// ImportantQuestionService manages curated exam questions.
type ImportantQuestionService struct {
	catalog catalog[domain.ImportantQuestion]
	now     func() time.Time
}

func NewImportantQuestionService(questions Store[domain.ImportantQuestion], users UserStore) *ImportantQuestionService {
	return &ImportantQuestionService{
		catalog: catalog[domain.ImportantQuestion]{
			store:    questions,
			users:    users,
			notFound: domain.ErrQuestionNotFound,
			setOwner: func(q *domain.ImportantQuestion, ref domain.UserRef) { q.Teacher = ref },
		},
		now: time.Now,
	}
}

func (s *ImportantQuestionService) Create(ctx context.Context, teacherID string, in ImportantQuestionInput) (domain.ImportantQuestion, error) {
	if err := validateStruct(in, ""); err != nil {
		return domain.ImportantQuestion{}, err
	}
	now := s.now().UTC()
	q := domain.ImportantQuestion{
		ID:          uuid.NewString(),
		Question:    in.Question,
		Explanation: in.Explanation,
		Subject:     in.Subject,
		TeacherID:   teacherID,
		Teacher:     domain.UserRef{ID: teacherID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.catalog.store.Create(ctx, q); err != nil {
		return domain.ImportantQuestion{}, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *ImportantQuestionService) List(ctx context.Context) ([]domain.ImportantQuestion, error) {
	return s.catalog.list(ctx)
}

func (s *ImportantQuestionService) Get(ctx context.Context, id string) (domain.ImportantQuestion, error) {
	return s.catalog.getPopulated(ctx, id)
}

func (s *ImportantQuestionService) Update(ctx context.Context, id, callerID string, patch ImportantQuestionPatch) (domain.ImportantQuestion, error) {
	q, err := s.catalog.owned(ctx, id, callerID)
	if err != nil {
		return domain.ImportantQuestion{}, err
	}
	if patch.Question != "" {
		q.Question = patch.Question
	}
	if patch.Explanation != "" {
		q.Explanation = patch.Explanation
	}
	if patch.Subject != "" {
		q.Subject = patch.Subject
	}
	q.UpdatedAt = s.now().UTC()

	if err := s.catalog.store.Update(ctx, q); err != nil {
		return domain.ImportantQuestion{}, fmt.Errorf("update question: %w", err)
	}
	if recs, err := s.catalog.withOwners(ctx, []domain.ImportantQuestion{q}); err == nil {
		q = recs[0]
	}
	return q, nil
}

func (s *ImportantQuestionService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.catalog.owned(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.catalog.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

// putBlob stores file under prefix/<unix-nanos>-<rand><ext>.
func putBlob(ctx context.Context, blobs BlobStore, prefix string, now time.Time, file *Upload) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("%s/%d-%s%s", prefix, now.UnixNano(), uuid.NewString()[:8], ext)
	url, err := blobs.Put(ctx, key, file.Body)
	if err != nil {
		return "", "", fmt.Errorf("store %s: %w", prefix, err)
	}
	return key, url, nil
}

func deleteBlob(ctx context.Context, blobs BlobStore, key string) {
	if key == "" || blobs == nil {
		return
	}
	if err := blobs.Delete(ctx, key); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("blob_key", key).Warn("failed to delete blob")
	}
}
