package ports

import (
	"context"
	"io"

	"pingo-api/internal/domain/settings"
	"pingo-api/internal/domain/upload"
	"pingo-api/internal/domain/user"
)

type AccessGate interface {
	ResolveAccess(ctx context.Context, uploadID string, creds upload.Credentials) (upload.Access, error)
}

type DeliveryService interface {
	Prepare(ctx context.Context, uploadID string, creds upload.Credentials) (*upload.Delivery, error)
	WriteArchive(ctx context.Context, w io.Writer, files []upload.File) error
	OpenFile(ctx context.Context, uploadID, name string, creds upload.Credentials) (io.ReadSeekCloser, upload.File, error)
	Open(f upload.File) (io.ReadSeekCloser, error)
	Metadata(ctx context.Context, uploadID string, creds upload.Credentials) (*upload.Metadata, error)
	ContentType(f io.ReadSeeker, name string) string
}

type SettingsService interface {
	Get(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, actor user.ID, form settings.Form) (settings.Settings, error)
	QuickSet(ctx context.Context, actor user.ID, key string, value any) (settings.Settings, error)
}
