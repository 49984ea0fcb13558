// Package imagestore keeps uploaded profile images on disk. Validation
// happens before anything is written: oversized or non-image uploads never
// touch the filesystem.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxFileSize = 5 * 1024 * 1024

var (
	ErrFileTooLarge   = errors.New("file exceeds the 5MB limit")
	ErrInvalidFileExt = errors.New("only jpg, jpeg, png and gif files are allowed")
	ErrImageNotFound  = errors.New("image not found")
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir failed: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save validates and stores one upload, returning the generated filename.
// The uuid suffix keeps concurrent uploads from the same user from colliding.
func (s *Store) Save(userID uint, originalName string, size int64, src io.Reader) (string, error) {
	if size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := contentTypes[ext]; !ok {
		return "", ErrInvalidFileExt
	}

	filename := fmt.Sprintf("profile-%d-%s%s", userID, uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create image file failed: %w", err)
	}
	defer dst.Close()

	// LimitReader guards against clients lying about the declared size.
	written, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write image file failed: %w", err)
	}
	if written > MaxFileSize {
		_ = os.Remove(dst.Name())
		return "", ErrFileTooLarge
	}
	return filename, nil
}

// Path resolves a stored filename to its on-disk path, rejecting names that
// escape the store directory.
func (s *Store) Path(filename string) (string, error) {
	if filename == "" || filepath.Base(filename) != filename {
		return "", ErrImageNotFound
	}
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", ErrImageNotFound
	}
	return path, nil
}

// ContentType infers the mime type from the stored extension.
func ContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
