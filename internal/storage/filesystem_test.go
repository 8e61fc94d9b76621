package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreWrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() unexpected error: %v", err)
	}

	key, err := store.Write(context.Background(), "videos/abc.mp4", []byte("bytes"))
	if err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if key != "videos/abc.mp4" {
		t.Fatalf("Write() key = %q, want videos/abc.mp4", key)
	}
	data, err := os.ReadFile(filepath.Join(store.Root(), "videos", "abc.mp4"))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "bytes" {
		t.Fatalf("file content = %q, want written bytes", data)
	}
}

func TestFileStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() unexpected error: %v", err)
	}
	for _, key := range []string{"", ".", "../outside.mp4", "videos/../../outside.mp4"} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("Write(%q) expected error, got nil", key)
		}
	}
}
