package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pingo-api/internal/domain/user"
	"pingo-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchUser(ctx context.Context, id user.ID) (*user.User, error) {
	if id.IsAnonymous() {
		return nil, nil
	}

	u := new(User)
	err := r.db.QueryRow(ctx, SelectUserByID, int64(id)).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Avatar,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u), nil
}
