package upload

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pingo-api/internal/domain/upload"
	"pingo-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db     postgres.Querier
	logger *zap.Logger
}

func NewRepository(db postgres.Querier, logger *zap.Logger) upload.Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) LookupUpload(ctx context.Context, id string) (*upload.Gate, error) {
	g := new(Gate)
	err := r.db.QueryRow(ctx, SelectGate, id).Scan(
		&g.UserID,
		&g.IsAvailable,
		&g.IsDeleted,
		&g.DeletionReason,
		&g.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromGateModel(g), nil
}

// QueryExpired returns rows whose manifest cannot be decoded with no files, so
// the sweep still updates the record and only file removal is skipped.
func (r *Repository) QueryExpired(ctx context.Context, now time.Time) ([]upload.Expired, error) {
	rows, err := r.db.Query(ctx, SelectExpired, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []upload.Expired
	for rows.Next() {
		var m Expired
		if err = rows.Scan(&m.UploadID, &m.Files); err != nil {
			return nil, err
		}

		e, derr := fromExpiredModel(m)
		if derr != nil {
			r.logger.Error("unreadable manifest, expired files left on disk",
				zap.String("upload_id", m.UploadID),
				zap.Error(derr),
			)
		}
		out = append(out, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Repository) MarkDeleted(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, MarkDeletedByID, id, at, reason)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) MarkUnavailable(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, MarkUnavailableByID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) FetchUploader(ctx context.Context, id string) (*upload.Uploader, error) {
	u := new(Uploader)
	err := r.db.QueryRow(ctx, SelectUploader, id).Scan(
		&u.Username,
		&u.Avatar,
		&u.Email,
		&u.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromUploaderModel(u), nil
}
