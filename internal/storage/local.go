// Package storage keeps uploaded paper files on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FilePrefix starts the name of every stored upload.
const FilePrefix = "paper-"

// StoredFile describes a file written by Save.
type StoredFile struct {
	Name string
	URL  string
	Size int64
}

// FileInfo is a directory entry of the store.
type FileInfo struct {
	Name    string
	ModTime time.Time
}

// FileStore defines file persistence operations for uploads.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error)
	Remove(name string) error
	Path(name string) string
	List() ([]FileInfo, error)
	NameFromURL(fileURL string) (string, bool)
}

// LocalStore stores files in a single directory served under a URL prefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Dir returns the directory backing the store.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes r under a generated name paper-<unix-millis>-<random><ext>.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := GenerateName(originalName, time.Now())
	path := s.Path(name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", name, err)
	}

	size, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return &StoredFile{
		Name: name,
		URL:  s.urlPrefix + "/" + name,
		Size: size,
	}, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *LocalStore) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file %s: %w", name, err)
	}
	return nil
}

// Path resolves name inside the store directory.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// List returns the regular files of the store directory.
func (s *LocalStore) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list upload directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: entry.Name(), ModTime: info.ModTime()})
	}
	return files, nil
}

// NameFromURL extracts the stored file name from a URL produced by Save.
func (s *LocalStore) NameFromURL(fileURL string) (string, bool) {
	name, ok := strings.CutPrefix(fileURL, s.urlPrefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}

// GenerateName builds a unique upload name keeping a sanitized original extension.
func GenerateName(originalName string, now time.Time) string {
	return fmt.Sprintf("%s%d-%s%s", FilePrefix, now.UnixMilli(), uuid.NewString()[:8], extension(originalName))
}

func extension(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
