// Package storage keeps uploaded document files on the local disk. The
// core only ever sees the metadata; this store is the replaceable
// infrastructure behind the file endpoints.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// maxUploadSize caps a single document upload.
const maxUploadSize = int64(50 * 1024 * 1024)

// ErrFileTooLarge is returned by Save when an upload exceeds maxUploadSize.
// Nothing is kept on disk in that case.
var ErrFileTooLarge = errors.New("file exceeds the 50MB upload limit")

type Store struct {
	root   string
	logger *slog.Logger
}

func New(root string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{root: root, logger: logger}, nil
}

// Save writes the upload under <root>/<documentID>/<sanitized name> and
// returns the stored path and the number of bytes written.
func (s *Store) Save(documentID int64, name string, r io.Reader) (string, int64, error) {
	dir := filepath.Join(s.root, fmt.Sprintf("%d", documentID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create document dir: %w", err)
	}

	path := filepath.Join(dir, sanitizeName(name))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	// read one byte past the cap so an oversized upload is detected and
	// refused rather than silently truncated
	n, err := io.Copy(f, io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	if n > maxUploadSize {
		os.Remove(path)
		return "", 0, ErrFileTooLarge
	}

	return path, n, nil
}

// Open returns the stored file for download; the caller closes it.
func (s *Store) Open(path string) (*os.File, error) {
	clean := filepath.Clean(path)
	if !strings.HasPrefix(clean, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return nil, fmt.Errorf("path %q is outside the upload dir", path)
	}
	return os.Open(clean)
}

// Remove deletes a stored file. A missing file is not an error; the
// metadata row is authoritative.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	clean := filepath.Clean(path)
	if !strings.HasPrefix(clean, filepath.Clean(s.root)+string(os.PathSeparator)) {
		s.logger.Error("refusing to remove file outside upload dir", slog.String("path", path))
		return
	}
	if err := os.Remove(clean); err != nil && !os.IsNotExist(err) {
		s.logger.Error("error deleting file", slog.String("path", clean), slog.Any("err", err))
	}
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(os.PathSeparator) {
		name = "upload"
	}
	return name
}
