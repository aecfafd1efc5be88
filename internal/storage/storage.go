package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge   = errors.New("file exceeds size limit")
	ErrDisallowedType = errors.New("file type not allowed")
	ErrObjectNotFound = errors.New("object not found")
)

// allowedExtensions is the upload allow-list: images, PDF, Office documents,
// plain text.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain",
	".csv":  "text/csv",
}

// ValidateFilename checks the extension against the allow-list and returns
// the content type to store the object under.
func ValidateFilename(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDisallowedType, ext)
	}
	return contentType, nil
}

// Store persists attachment blobs. Keys are storage-relative paths.
type Store interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds a collision-free storage key for an uploaded file.
func ObjectKey(ticketID uuid.UUID, filename string) string {
	return filepath.ToSlash(filepath.Join(ticketID.String(), uuid.New().String()+strings.ToLower(filepath.Ext(filename))))
}

// DiskStore keeps blobs under a local directory. Default backend when no S3
// bucket is configured.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Put(ctx context.Context, key string, contentType string, body io.Reader) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func (s *DiskStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

var _ Store = (*DiskStore)(nil)
