package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PhotoStorage persists delivery confirmation photos and yields the
// public URL stored on the order row.
type PhotoStorage interface {
	Save(orderID, filename string, r io.Reader) (string, error)
	Remove(url string)
}

// diskPhotoStorage writes photos under a local bucket directory served
// statically by the router at baseURL.
type diskPhotoStorage struct {
	dir     string
	baseURL string
}

func NewDiskPhotoStorage(dir, baseURL string) (PhotoStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &diskPhotoStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *diskPhotoStorage) Save(orderID, filename string, r io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	name := fmt.Sprintf("%s_%d%s", orderID, time.Now().UnixNano(), ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return s.baseURL + "/" + name, nil
}

// Remove is best-effort cleanup after a failed delivery confirmation.
func (s *diskPhotoStorage) Remove(url string) {
	name := filepath.Base(url)
	if name == "." || name == "/" {
		return
	}
	_ = os.Remove(filepath.Join(s.dir, name))
}
