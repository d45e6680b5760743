package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/uploads")
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}

	url, err := store.Save(context.Background(), "photo.png", strings.NewReader("not-really-a-png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "not-really-a-png" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestDiskStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewDiskStore(dir, "/uploads"); err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("upload dir not created: %v", err)
	}
}
