package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pingo-api/internal/domain/upload"
	"pingo-api/internal/infrastructure/metrics"
)

var modTime = time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

func newDelivery(t *testing.T, files map[string]string, gate staticGate, uploads *fakeUploadRepo) *DeliveryService {
	t.Helper()
	store, _ := memUploads(files, modTime)
	if uploads == nil {
		uploads = &fakeUploadRepo{}
	}
	return NewDeliveryService(gate, store, uploads, zap.NewNop(), metrics.NewTestCounter()).(*DeliveryService)
}

func TestDeliveryService_Prepare(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		gate       staticGate
		wantErr    error
		wantSingle string
		wantNames  []string
	}{
		{
			name:    "gate refuses",
			files:   map[string]string{"abc_a.txt": "a"},
			gate:    staticGate{err: ErrGone},
			wantErr: ErrGone,
		},
		{
			name:    "nothing on disk",
			files:   map[string]string{"other_a.txt": "a"},
			wantErr: ErrNotFound,
		},
		{
			name:       "single file",
			files:      map[string]string{"abc_report.pdf": "pdf", "abcd_x.txt": "x"},
			wantSingle: "report.pdf",
		},
		{
			name:      "several files sorted",
			files:     map[string]string{"abc_b.txt": "b", "abc_a.txt": "a", "abc_c.txt": "c"},
			wantNames: []string{"a.txt", "b.txt", "c.txt"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			s := newDelivery(t, tt.files, tt.gate, nil)

			d, err := s.Prepare(context.Background(), "abc", upload.Credentials{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, d)
				return
			}
			require.NoError(t, err)

			if tt.wantSingle != "" {
				require.NotNil(t, d.Single)
				assert.Nil(t, d.Archive)
				assert.Equal(t, tt.wantSingle, d.Single.Name)
				return
			}
			require.Nil(t, d.Single)
			var names []string
			for _, f := range d.Archive {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestDeliveryService_WriteArchive_Deterministic(t *testing.T) {
	files := map[string]string{
		"abc_notes.txt":  strings.Repeat("hello ", 100),
		"abc_data.csv":   "a,b\n1,2\n",
		"abc_empty.bin":  "",
		"abc_über é.txt": "unicode",
	}
	build := func() []byte {
		s := newDelivery(t, files, staticGate{}, nil)
		d, err := s.Prepare(context.Background(), "abc", upload.Credentials{})
		require.NoError(t, err)

		// reversed input order must not matter
		in := make([]upload.File, 0, len(d.Archive))
		for i := len(d.Archive) - 1; i >= 0; i-- {
			in = append(in, d.Archive[i])
		}

		var buf bytes.Buffer
		require.NoError(t, s.WriteArchive(context.Background(), &buf, in))
		return buf.Bytes()
	}

	first, second := build(), build()
	assert.Equal(t, first, second)

	zr, err := zip.NewReader(bytes.NewReader(first), int64(len(first)))
	require.NoError(t, err)
	require.Len(t, zr.File, 4)

	wantOrder := []string{"data.csv", "empty.bin", "notes.txt", "über é.txt"}
	for i, zf := range zr.File {
		assert.Equal(t, wantOrder[i], zf.Name)
		assert.Equal(t, zip.Deflate, zf.Method)
		assert.True(t, zf.Modified.Equal(modTime), zf.Name)

		rc, err := zf.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, files["abc_"+zf.Name], string(body))
	}
}

func TestDeliveryService_WriteArchive_StopsOnCancel(t *testing.T) {
	s := newDelivery(t, map[string]string{"abc_a.txt": "a", "abc_b.txt": "b"}, staticGate{}, nil)
	d, err := s.Prepare(context.Background(), "abc", upload.Credentials{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.WriteArchive(ctx, io.Discard, d.Archive)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeliveryService_WriteArchive_MissingFile(t *testing.T) {
	s := newDelivery(t, nil, staticGate{}, nil)

	err := s.WriteArchive(context.Background(), io.Discard, []upload.File{{Physical: "abc_gone.txt", Name: "gone.txt"}})
	require.Error(t, err)
}

func TestEntryName(t *testing.T) {
	assert.Equal(t, "a.txt", entryName("a.txt"))
	assert.Equal(t, "b.txt", entryName("dir/b.txt"))
	assert.Equal(t, "c.txt", entryName(`..\..\c.txt`))
	assert.Equal(t, "file", entryName(".."))
	assert.Equal(t, "file", entryName(""))
}

func TestDeliveryService_OpenFile(t *testing.T) {
	s := newDelivery(t, map[string]string{"abc_a b.txt": "content"}, staticGate{}, nil)

	rc, f, err := s.OpenFile(context.Background(), "abc", "a b.txt", upload.Credentials{})
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "a b.txt", f.Name)
	assert.Equal(t, int64(7), f.Size)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "content", string(body))

	_, _, err = s.OpenFile(context.Background(), "abc", "missing.txt", upload.Credentials{})
	assert.ErrorIs(t, err, ErrNotFound)

	// a traversal attempt is reduced to its base name inside the upload
	_, _, err = s.OpenFile(context.Background(), "abc", "../../etc/passwd", upload.Credentials{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeliveryService_OpenFile_Gone(t *testing.T) {
	s := newDelivery(t, map[string]string{"abc_a.txt": "a"}, staticGate{err: ErrGone}, nil)

	_, _, err := s.OpenFile(context.Background(), "abc", "a.txt", upload.Credentials{})
	assert.ErrorIs(t, err, ErrGone)
}

func TestDeliveryService_Metadata(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		uploader     *upload.Uploader
		uploaderErr  error
		wantErr      bool
		wantUsername string
	}{
		{"known uploader", &upload.Uploader{Username: "alice", Email: "a@x", ExpiresAt: &exp}, nil, false, "alice"},
		{"owner gone", nil, nil, false, upload.UnknownUploader},
		{"db failure", nil, errors.New("boom"), true, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUploadRepo{
				FetchUploaderFunc: func(context.Context, string) (*upload.Uploader, error) {
					return tt.uploader, tt.uploaderErr
				},
			}
			s := newDelivery(t, map[string]string{"abc_b.txt": "bb", "abc_a.txt": "a"}, staticGate{}, repo)

			m, err := s.Metadata(context.Background(), "abc", upload.Credentials{})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "abc", m.UploadID)
			assert.Equal(t, tt.wantUsername, m.Uploader.Username)
			require.Len(t, m.Files, 2)
			assert.Equal(t, "a.txt", m.Files[0].Name)
			assert.Equal(t, int64(2), m.Files[1].Size)
		})
	}
}

func TestDeliveryService_Metadata_EmptyUpload(t *testing.T) {
	s := newDelivery(t, nil, staticGate{}, nil)

	_, err := s.Metadata(context.Background(), "abc", upload.Credentials{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeliveryService_ContentType(t *testing.T) {
	s := newDelivery(t, nil, staticGate{}, nil)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	tests := []struct {
		name string
		file string
		body []byte
		want string
	}{
		{"by extension", "doc.pdf", []byte("whatever"), "application/pdf"},
		{"sniffed without extension", "image", png, "image/png"},
		{"plain text sniffed", "README", []byte("just words\n"), "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(tt.body)
			assert.Equal(t, tt.want, s.ContentType(r, tt.file))

			rest, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.body, rest, "reader must be rewound")
		})
	}
}
