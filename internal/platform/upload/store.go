// Package upload stores uploaded images (patient photos, doctor signatures)
// on local disk. Each entity references at most one current file: saving a
// replacement removes the previous file first.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidFileType = errors.New("only image files are allowed")
)

// Size limits mirror the clinic's upload policy.
const (
	MaxPhotoSize     = 5 * 1024 * 1024
	MaxSignatureSize = 2 * 1024 * 1024
)

var allowedExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// Store writes uploaded files beneath a base directory.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save validates and persists an uploaded image under baseDir/subdir, named
// "<prefix>-<uuid><ext>". It returns the stored path, slash-separated so it
// can be served and stored as-is.
func (s *Store) Save(file *multipart.FileHeader, subdir, prefix string, maxSize int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExts[ext] {
		return "", ErrInvalidFileType
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !allowedContentTypes[ct] {
		return "", ErrInvalidFileType
	}
	if file.Size > maxSize {
		return "", ErrFileTooLarge
	}

	dir := filepath.Join(s.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%s%s", prefix, uuid.New().String(), ext)
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, maxSize)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}

	return filepath.ToSlash(path), nil
}

// Replace saves a new file and removes the old one. The old path may be
// empty or already gone.
func (s *Store) Replace(oldPath string, file *multipart.FileHeader, subdir, prefix string, maxSize int64) (string, error) {
	path, err := s.Save(file, subdir, prefix, maxSize)
	if err != nil {
		return "", err
	}
	s.Remove(oldPath)
	return path, nil
}

// Remove deletes a stored file if it exists.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(filepath.FromSlash(path))
}
