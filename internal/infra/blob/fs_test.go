package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"classroom-service/internal/domain"
)

func TestFSStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir(), "http://example.com/")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	url, err := store.Put(ctx, "videos/1-abc.mp4", strings.NewReader("frames"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "http://example.com/uploads/videos/1-abc.mp4" {
		t.Fatalf("unexpected url %q", url)
	}

	rc, err := store.Open(ctx, "videos/1-abc.mp4")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "frames" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Delete(ctx, "videos/1-abc.mp4"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, "videos/1-abc.mp4"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.Delete(ctx, "videos/1-abc.mp4"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, key := range []string{"", "../secret", "videos/../../etc/passwd", "/abs"} {
		if _, err := store.Put(context.Background(), key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected key %q to be rejected", key)
		}
	}
}
