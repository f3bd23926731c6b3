package user

import (
	"context"
)

type Repository interface {
	// FetchUser returns nil, nil when the user does not exist.
	FetchUser(ctx context.Context, id ID) (*User, error)
}
