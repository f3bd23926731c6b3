package services

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"pingo-api/internal/application/ports"
	"pingo-api/internal/domain/upload"
	"pingo-api/internal/infrastructure/metrics"
	"pingo-api/internal/infrastructure/storage"
	"pingo-api/pkg/filename"
)

const (
	ArchiveName        = "files.zip"
	defaultContentType = "application/octet-stream"
)

type DeliveryService struct {
	gate     ports.AccessGate
	files    ports.UploadFiles
	uploads  upload.Repository
	logger   *zap.Logger
	mCounter *prometheus.CounterVec
}

func NewDeliveryService(
	gate ports.AccessGate,
	files ports.UploadFiles,
	uploads upload.Repository,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.DeliveryService {
	return &DeliveryService{
		gate:     gate,
		files:    files,
		uploads:  uploads,
		logger:   logger,
		mCounter: mCounter,
	}
}

// Prepare resolves what a download of the whole upload consists of.
// The disk listing decides, not the manifest.
func (s *DeliveryService) Prepare(ctx context.Context, uploadID string, creds upload.Credentials) (*upload.Delivery, error) {
	files, err := s.listAccessible(ctx, uploadID, creds)
	if err != nil {
		return nil, err
	}

	if len(files) == 1 {
		return &upload.Delivery{Single: &files[0]}, nil
	}
	return &upload.Delivery{Archive: files}, nil
}

// WriteArchive streams files as a deflated zip. Identical file sets with
// identical modification times produce identical bytes.
func (s *DeliveryService) WriteArchive(ctx context.Context, w io.Writer, files []upload.File) error {
	sorted := make([]upload.File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Physical < sorted[j].Physical })

	zw := zip.NewWriter(w)
	for _, f := range sorted {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.addEntry(zw, f); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}

	s.mCounter.WithLabelValues(metrics.ArchivesServedTotal).Inc()

	return nil
}

func (s *DeliveryService) addEntry(zw *zip.Writer, f upload.File) error {
	hdr := &zip.FileHeader{
		Name:     entryName(f.Name),
		Method:   zip.Deflate,
		Modified: f.ModTime.UTC(),
	}
	hdr.SetMode(0o644)

	ew, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", hdr.Name, err)
	}

	rc, err := s.files.Open(f.Physical)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Physical, err)
	}
	defer rc.Close()

	if _, err = io.Copy(ew, rc); err != nil {
		return fmt.Errorf("compress %s: %w", f.Physical, err)
	}
	return nil
}

// entryName keeps archive entries flat.
func entryName(name string) string {
	n := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if n == "." || n == "/" || n == ".." || n == "" {
		return "file"
	}
	return n
}

// OpenFile opens one file of an upload by its original name.
func (s *DeliveryService) OpenFile(ctx context.Context, uploadID, name string, creds upload.Credentials) (io.ReadSeekCloser, upload.File, error) {
	if _, err := s.gate.ResolveAccess(ctx, uploadID, creds); err != nil {
		return nil, upload.File{}, err
	}

	physical := filename.Encode(uploadID, name)
	f, err := s.files.Stat(physical)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, upload.File{}, ErrNotFound
		}
		return nil, upload.File{}, err
	}
	f.Name = filename.Decode(physical, uploadID)

	rc, err := s.Open(f)
	if err != nil {
		return nil, upload.File{}, err
	}
	return rc, f, nil
}

// Open opens a file previously returned by Prepare.
func (s *DeliveryService) Open(f upload.File) (io.ReadSeekCloser, error) {
	rc, err := s.files.Open(f.Physical)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.mCounter.WithLabelValues(metrics.FilesServedTotal).Inc()

	return rc, nil
}

func (s *DeliveryService) Metadata(ctx context.Context, uploadID string, creds upload.Credentials) (*upload.Metadata, error) {
	files, err := s.listAccessible(ctx, uploadID, creds)
	if err != nil {
		return nil, err
	}

	up, err := s.uploads.FetchUploader(ctx, uploadID)
	if err != nil {
		return nil, fmt.Errorf("fetch uploader of %s: %w", uploadID, err)
	}
	if up == nil {
		up = &upload.Uploader{Username: upload.UnknownUploader}
	}

	return &upload.Metadata{
		UploadID: uploadID,
		Files:    files,
		Uploader: *up,
	}, nil
}

func (s *DeliveryService) listAccessible(ctx context.Context, uploadID string, creds upload.Credentials) ([]upload.File, error) {
	if _, err := s.gate.ResolveAccess(ctx, uploadID, creds); err != nil {
		return nil, err
	}

	files, err := s.files.List(uploadID)
	if err != nil {
		return nil, fmt.Errorf("list files of %s: %w", uploadID, err)
	}
	if len(files) == 0 {
		s.logger.Warn("upload has no files on disk", zap.String("upload_id", uploadID))
		return nil, ErrNotFound
	}

	return files, nil
}

// ContentType guesses from the extension first and sniffs the content
// otherwise. f is rewound before returning.
func (s *DeliveryService) ContentType(f io.ReadSeeker, name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}

	mt, err := mimetype.DetectReader(f)
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		s.logger.Warn("rewind after sniffing failed", zap.String("name", name), zap.Error(serr))
	}
	if err != nil {
		return defaultContentType
	}
	return mt.String()
}
