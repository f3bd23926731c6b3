package ports

import (
	"github.com/spf13/afero"

	"pingo-api/internal/domain/upload"
	"pingo-api/internal/infrastructure/storage"
)

type UploadFiles interface {
	List(uploadID string) ([]upload.File, error)
	Stat(physical string) (upload.File, error)
	Open(physical string) (afero.File, error)
	Remove(physical string) error
}

type AssetWriter interface {
	Store(category storage.Category, data []byte, nc storage.NamingContext) (string, error)
	Discard(category storage.Category, url string)
}
