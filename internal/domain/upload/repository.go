package upload

import (
	"context"
	"time"
)

type Repository interface {
	// LookupUpload returns nil, nil for unknown ids.
	LookupUpload(ctx context.Context, id string) (*Gate, error)
	// QueryExpired lists uploads with expires_at <= now that are not deleted yet.
	QueryExpired(ctx context.Context, now time.Time) ([]Expired, error)
	// MarkDeleted reports whether a row changed.
	MarkDeleted(ctx context.Context, id, reason string, at time.Time) (bool, error)
	// MarkUnavailable reports whether a row changed.
	MarkUnavailable(ctx context.Context, id string) (bool, error)
	// FetchUploader returns nil, nil when the upload or its owner is gone.
	FetchUploader(ctx context.Context, id string) (*Uploader, error)
}
