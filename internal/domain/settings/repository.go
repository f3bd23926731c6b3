package settings

import (
	"context"
)

type Repository interface {
	// Fetch returns nil, nil while the singleton row does not exist.
	Fetch(ctx context.Context) (*Settings, error)
	// Save creates the singleton row or updates it in place.
	Save(ctx context.Context, s Settings) error
}
