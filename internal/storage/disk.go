// Package storage persists uploaded profile images on local disk and hands
// back a relative path the API serves statically.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/frahmantamala/employee-admin/internal"
)

// AllowedImageTypes maps accepted upload content types to the extension the
// stored file gets. Anything else is rejected before touching disk.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// IsAllowedImageType reports whether uploads of this content type are
// accepted. Shared with the client-side form so both ends agree.
func IsAllowedImageType(contentType string) bool {
	_, ok := AllowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ok
}

// DiskStore writes images under a single directory with generated names.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save validates the content type, writes the bytes under a uuid filename
// and returns the relative path stored on the employee record.
func (s *DiskStore) Save(filename, contentType string, data []byte) (string, error) {
	ext, ok := AllowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", internal.NewValidationError(
			fmt.Sprintf("only jpeg and png images are allowed, got %q", contentType),
			internal.ErrCodeInvalidImageType,
		)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", internal.NewInternalError("failed to store image", err)
	}
	return path, nil
}

// Remove unlinks a stored image. Missing files are not an error.
func (s *DiskStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the directory uploads live in, for static serving.
func (s *DiskStore) Dir() string {
	return s.dir
}
