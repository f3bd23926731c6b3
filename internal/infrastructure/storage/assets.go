package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"pingo-api/pkg/filename"
)

var (
	ErrInvalidAsset    = errors.New("asset must be a non-empty image")
	ErrUnknownCategory = errors.New("unknown asset category")
)

type Category string

const (
	CategoryLogo       Category = "logo"
	CategoryBackground Category = "background"
)

// NamingContext carries what a naming strategy may use besides the content hash.
type NamingContext struct {
	Username string
}

type assetKind struct {
	dir       string
	urlPrefix string
	ext       string
	name      func(hash string, nc NamingContext) string
}

// AssetStore writes content-addressed branding assets. Logos are scoped to the
// uploading admin ("<username>$<hash>.png"), backgrounds to their bytes only.
type AssetStore struct {
	fs     afero.Fs
	logger *zap.Logger
	kinds  map[Category]assetKind
}

func NewAssetStore(fsys afero.Fs, logger *zap.Logger, logosDir, backgroundsDir string) *AssetStore {
	return &AssetStore{
		fs:     fsys,
		logger: logger,
		kinds: map[Category]assetKind{
			CategoryLogo: {
				dir:       logosDir,
				urlPrefix: "/logos/",
				ext:       ".png",
				name: func(hash string, nc NamingContext) string {
					return nc.Username + "$" + hash
				},
			},
			CategoryBackground: {
				dir:       backgroundsDir,
				urlPrefix: "/backgrounds/",
				ext:       ".jpg",
				name: func(hash string, _ NamingContext) string {
					return hash
				},
			},
		},
	}
}

// Store writes data under its content-addressed name and returns the
// root-relative URL to persist in settings. It never removes anything: the
// caller discards the superseded file once the new URL is persisted.
func (s *AssetStore) Store(category Category, data []byte, nc NamingContext) (string, error) {
	kind, ok := s.kinds[category]
	if !ok {
		return "", ErrUnknownCategory
	}
	if len(data) == 0 || !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return "", ErrInvalidAsset
	}

	if err := s.fs.MkdirAll(kind.dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", category, err)
	}

	name := filepath.Base(kind.name(filename.ContentHash(data), nc) + kind.ext)
	if err := s.writeWhole(kind.dir, name, data); err != nil {
		return "", fmt.Errorf("write %s: %w", category, err)
	}

	return kind.urlPrefix + name, nil
}

// Discard removes the file behind a URL returned by Store, best effort.
// URLs outside the category's prefix are left alone.
func (s *AssetStore) Discard(category Category, url string) {
	kind, ok := s.kinds[category]
	if !ok {
		return
	}
	name, ok := strings.CutPrefix(url, kind.urlPrefix)
	if !ok || name == "" {
		return
	}
	s.remove(category, filepath.Join(kind.dir, path.Base(name)))
}

// Dir exposes the directory of a category for static serving.
func (s *AssetStore) Dir(category Category) string { return s.kinds[category].dir }

// writeWhole never writes over the final path in place: readers see either the
// previous file or the complete new one.
func (s *AssetStore) writeWhole(dir, name string, data []byte) error {
	tmp, err := afero.TempFile(s.fs, dir, ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return err
	}
	if err = s.fs.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		_ = s.fs.Remove(tmpName)
		return err
	}

	return nil
}

func (s *AssetStore) remove(category Category, p string) {
	err := s.fs.Remove(p)
	switch {
	case err == nil:
		s.logger.Info("asset removed", zap.String("category", string(category)), zap.String("path", p))
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("asset already gone", zap.String("category", string(category)), zap.String("path", p))
	default:
		s.logger.Warn("failed to remove asset",
			zap.String("category", string(category)),
			zap.String("path", p),
			zap.Error(err),
		)
	}
}
