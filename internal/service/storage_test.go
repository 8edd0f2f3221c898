package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskPhotoStorageSave(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewDiskPhotoStorage(dir, "/uploads/")
	if err != nil {
		t.Fatalf("NewDiskPhotoStorage: %v", err)
	}

	url, err := storage.Save("order-123", "proof.png", strings.NewReader("photo-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasPrefix(url, "/uploads/order-123_") {
		t.Errorf("unexpected url %q", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("extension not preserved: %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "photo-bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestDiskPhotoStorageDefaultExtension(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewDiskPhotoStorage(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewDiskPhotoStorage: %v", err)
	}

	url, err := storage.Save("order-1", "photo", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("expected .jpg fallback, got %q", url)
	}
}

func TestDiskPhotoStorageRemove(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewDiskPhotoStorage(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewDiskPhotoStorage: %v", err)
	}

	url, err := storage.Save("order-9", "proof.jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	storage.Remove(url)
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(url))); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}
}
