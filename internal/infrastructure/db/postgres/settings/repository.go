package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pingo-api/internal/domain/settings"
	"pingo-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) settings.Repository {
	return &Repository{db: db}
}

func (r *Repository) Fetch(ctx context.Context) (*settings.Settings, error) {
	s := new(Settings)
	err := r.db.QueryRow(ctx, SelectSettings).Scan(
		&s.Theme,
		&s.NavbarTitle,
		&s.LogoPath,
		&s.BackgroundPath,
		&s.MaxUploadSize,
		&s.BlurIntensity,
		&s.MaxValidity,
		&s.AllowRegistration,
		&s.ExpirationAction,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(s), nil
}

func (r *Repository) Save(ctx context.Context, in settings.Settings) error {
	s := toDBModel(in)
	_, err := r.db.Exec(ctx, UpsertSettings,
		s.Theme,
		s.NavbarTitle,
		s.LogoPath,
		s.BackgroundPath,
		s.MaxUploadSize,
		s.BlurIntensity,
		s.MaxValidity,
		s.AllowRegistration,
		s.ExpirationAction,
	)
	return err
}
