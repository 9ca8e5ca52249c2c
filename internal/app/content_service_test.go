package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"classroom-service/internal/infra/memory"
)

func TestVideoLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blobs := memory.NewBlobStore("http://localhost:8080")
	service := app.NewVideoService(memory.NewStore[domain.Video](), f.users, blobs)

	video, err := service.Create(ctx, "teacher-1", app.VideoInput{Title: "Intro", Tags: "math, algebra,, "}, &app.Upload{
		Filename: "Lecture.MP4",
		Body:     strings.NewReader("bytes"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(video.BlobKey, "videos/") || !strings.HasSuffix(video.BlobKey, ".mp4") {
		t.Fatalf("unexpected blob key %q", video.BlobKey)
	}
	if video.FileURL != "http://localhost:8080/uploads/"+video.BlobKey {
		t.Fatalf("unexpected url %q", video.FileURL)
	}
	if len(video.Tags) != 2 || video.Tags[0] != "math" || video.Tags[1] != "algebra" {
		t.Fatalf("unexpected tags %q", video.Tags)
	}

	got, err := service.Get(ctx, video.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Teacher.Name != "Tess" || got.Teacher.Email != "teacher@example.com" {
		t.Fatalf("expected populated owner, got %+v", got.Teacher)
	}

	if _, err := service.Update(ctx, video.ID, "teacher-2", app.VideoPatch{Title: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	updated, err := service.Update(ctx, video.ID, "teacher-1", app.VideoPatch{Description: "week 1"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Intro" || updated.Description != "week 1" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if err := service.Delete(ctx, video.ID, "teacher-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if blobs.Has(video.BlobKey) {
		t.Fatalf("expected blob removed")
	}
	if _, err := service.Get(ctx, video.ID); !errors.Is(err, domain.ErrVideoNotFound) {
		t.Fatalf("expected video not found, got %v", err)
	}
}

func TestVideoRequiresFile(t *testing.T) {
	f := newFixture(t)
	service := app.NewVideoService(memory.NewStore[domain.Video](), f.users, memory.NewBlobStore(""))

	_, err := service.Create(context.Background(), "teacher-1", app.VideoInput{Title: "Intro"}, nil)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVideoDeleteToleratesMissingBlob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blobs := memory.NewBlobStore("")
	store := memory.NewStore[domain.Video]()
	service := app.NewVideoService(store, f.users, blobs)

	_ = store.Create(ctx, domain.Video{ID: "v1", Title: "orphan", TeacherID: "teacher-1", BlobKey: "videos/gone.mp4"})
	if err := service.Delete(ctx, "v1", "teacher-1"); err != nil {
		t.Fatalf("expected delete to succeed without blob, got %v", err)
	}
}

// failingDeleteStore refuses every Delete.
type failingDeleteStore[T domain.Record] struct {
	*memory.Store[T]
}

func (failingDeleteStore[T]) Delete(context.Context, string) error {
	return errors.New("store unavailable")
}

func TestDeleteKeepsFileWhenRecordDeleteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blobs := memory.NewBlobStore("")

	videos := app.NewVideoService(failingDeleteStore[domain.Video]{memory.NewStore[domain.Video]()}, f.users, blobs)
	video, err := videos.Create(ctx, "teacher-1", app.VideoInput{Title: "Intro"}, &app.Upload{Filename: "a.mp4", Body: strings.NewReader("bytes")})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}
	if err := videos.Delete(ctx, video.ID, "teacher-1"); err == nil {
		t.Fatalf("expected video delete to fail")
	}
	if !blobs.Has(video.BlobKey) {
		t.Fatalf("expected video file kept while its record exists")
	}

	notes := app.NewNoteService(failingDeleteStore[domain.Note]{memory.NewStore[domain.Note]()}, f.users, blobs)
	note, err := notes.Create(ctx, "teacher-1", app.NoteInput{Title: "Slides"}, &app.Upload{Filename: "s.pdf", Body: strings.NewReader("%PDF")})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if err := notes.Delete(ctx, note.ID, "teacher-1"); err == nil {
		t.Fatalf("expected note delete to fail")
	}
	if !blobs.Has(note.BlobKey) {
		t.Fatalf("expected note file kept while its record exists")
	}
}

func TestNoteFileIsOptional(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blobs := memory.NewBlobStore("")
	service := app.NewNoteService(memory.NewStore[domain.Note](), f.users, blobs)

	plain, err := service.Create(ctx, "teacher-1", app.NoteInput{Title: "Fractions", Content: "halves"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if plain.FileURL != "" || plain.BlobKey != "" {
		t.Fatalf("expected no file, got %+v", plain)
	}

	withFile, err := service.Create(ctx, "teacher-1", app.NoteInput{Title: "Slides"}, &app.Upload{Filename: "s.pdf", Body: strings.NewReader("%PDF")})
	if err != nil {
		t.Fatalf("create with file: %v", err)
	}
	if !strings.HasPrefix(withFile.BlobKey, "notes/") || !blobs.Has(withFile.BlobKey) {
		t.Fatalf("expected stored note file, got %+v", withFile)
	}

	if _, err := service.Create(ctx, "teacher-1", app.NoteInput{}, nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := service.Delete(ctx, withFile.ID, "teacher-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if blobs.Has(withFile.BlobKey) {
		t.Fatalf("expected note file removed")
	}
}

func TestImportantQuestionOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	service := app.NewImportantQuestionService(memory.NewStore[domain.ImportantQuestion](), f.users)

	q, err := service.Create(ctx, "teacher-1", app.ImportantQuestionInput{Question: "Define a prime", Subject: "Math"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := service.Update(ctx, q.ID, "teacher-2", app.ImportantQuestionPatch{Question: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	got, _ := service.Get(ctx, q.ID)
	if got.Question != "Define a prime" {
		t.Fatalf("expected unchanged record, got %+v", got)
	}

	updated, err := service.Update(ctx, q.ID, "teacher-1", app.ImportantQuestionPatch{Explanation: "divisible by 1 and itself"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Subject != "Math" || updated.Explanation == "" {
		t.Fatalf("unexpected update %+v", updated)
	}

	if err := service.Delete(ctx, q.ID, "teacher-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.Get(ctx, q.ID); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
