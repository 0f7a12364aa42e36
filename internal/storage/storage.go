package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader persists an uploaded file and returns a durable public URL.
// The core treats it as an external collaborator: a failed upload fails
// the request, nothing is retried.
type Uploader interface {
	Upload(file *multipart.FileHeader) (string, error)
}

// DiskUploader stores files under a local directory served as static
// content. Swappable for a blob-store client without touching handlers.
type DiskUploader struct {
	dir     string
	baseURL string
}

func NewDiskUploader(dir, baseURL string) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &DiskUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (u *DiskUploader) Upload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return u.baseURL + "/uploads/" + name, nil
}
