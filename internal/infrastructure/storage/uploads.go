// Package storage keeps the physical files behind uploads and branding assets.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"pingo-api/internal/domain/upload"
	"pingo-api/pkg/filename"
)

var ErrFileNotFound = errors.New("file not found")

// UploadStore is the flat directory holding "<uploadID>_<name>" files.
// Its listing, not the manifest in the database, decides what can be served.
type UploadStore struct {
	fs  afero.Fs
	dir string
}

func NewUploadStore(fsys afero.Fs, dir string) *UploadStore {
	return &UploadStore{fs: fsys, dir: dir}
}

func (s *UploadStore) EnsureDir() error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir %s: %w", s.dir, err)
	}
	return nil
}

// List returns the files of an upload sorted by physical name.
// Matching is by "<uploadID>_" prefix, which relies on upload ids never
// containing '_'; rest/validator.IsUploadID enforces that for every request.
func (s *UploadStore) List(uploadID string) ([]upload.File, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("read uploads dir: %w", err)
	}

	prefix := filename.Prefix(uploadID)
	var out []upload.File
	// afero.ReadDir sorts by name
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		out = append(out, upload.File{
			Physical: e.Name(),
			Name:     filename.Decode(e.Name(), uploadID),
			Size:     e.Size(),
			ModTime:  e.ModTime(),
		})
	}

	return out, nil
}

func (s *UploadStore) Stat(physical string) (upload.File, error) {
	fi, err := s.fs.Stat(s.path(physical))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return upload.File{}, ErrFileNotFound
		}
		return upload.File{}, fmt.Errorf("stat %s: %w", physical, err)
	}
	if fi.IsDir() {
		return upload.File{}, ErrFileNotFound
	}

	return upload.File{
		Physical: physical,
		Size:     fi.Size(),
		ModTime:  fi.ModTime(),
	}, nil
}

func (s *UploadStore) Open(physical string) (afero.File, error) {
	f, err := s.fs.Open(s.path(physical))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("open %s: %w", physical, err)
	}
	return f, nil
}

// Remove reports ErrFileNotFound for files that are already gone.
func (s *UploadStore) Remove(physical string) error {
	if err := s.fs.Remove(s.path(physical)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrFileNotFound
		}
		return fmt.Errorf("remove %s: %w", physical, err)
	}
	return nil
}

func (s *UploadStore) path(physical string) string {
	return filepath.Join(s.dir, filepath.Base(physical))
}
