package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	createMigrationsTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`
	selectMigrationApplied = `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	insertMigration        = `INSERT INTO schema_migrations (version) VALUES ($1)`
)

type migration struct {
	Version string
	SQL     string
}

var migrations = []migration{
	{
		Version: "000001_create_users",
		SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id            SERIAL       PRIMARY KEY,
				username      VARCHAR(255) NOT NULL UNIQUE,
				email         VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				is_admin      BOOLEAN      NOT NULL DEFAULT FALSE,
				is_blocked    BOOLEAN      NOT NULL DEFAULT FALSE,
				avatar        TEXT,
				created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		Version: "000002_create_uploads",
		SQL: `
			CREATE TABLE IF NOT EXISTS uploads (
				id              SERIAL       PRIMARY KEY,
				user_id         INTEGER      NOT NULL REFERENCES users(id),
				upload_id       VARCHAR(64)  NOT NULL UNIQUE,
				files           TEXT         NOT NULL DEFAULT '[]',
				total_size      BIGINT       NOT NULL DEFAULT 0,
				email           VARCHAR(255),
				download_url    TEXT         NOT NULL DEFAULT '',
				created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
				expires_at      TIMESTAMPTZ,
				is_available    BOOLEAN      NOT NULL DEFAULT TRUE,
				is_deleted      BOOLEAN      NOT NULL DEFAULT FALSE,
				deleted_at      TIMESTAMPTZ,
				deletion_reason TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_uploads_expires_at ON uploads(expires_at) WHERE is_deleted = FALSE;
		`,
	},
	{
		Version: "000003_create_settings",
		SQL: `
			CREATE TABLE IF NOT EXISTS settings (
				id                 INTEGER      PRIMARY KEY CHECK (id = 1),
				theme              VARCHAR(32)  NOT NULL DEFAULT 'light',
				navbar_title       VARCHAR(255) NOT NULL DEFAULT 'PinGO',
				logo_path          TEXT,
				background_path    TEXT,
				max_upload_size    BIGINT       NOT NULL DEFAULT 104857600,
				blur_intensity     INTEGER      NOT NULL DEFAULT 0,
				max_validity       VARCHAR(16)  NOT NULL DEFAULT '7days',
				allow_registration BOOLEAN      NOT NULL DEFAULT TRUE,
				expiration_action  VARCHAR(16)  NOT NULL DEFAULT 'unavailable'
			);
		`,
	},
}

// RunMigrations applies pending migrations in order, each in its own transaction.
func RunMigrations(ctx context.Context, db TxBeginner, logger *zap.Logger) error {
	if _, err := db.Exec(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		if err := db.QueryRow(ctx, selectMigrationApplied, m.Version).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", m.Version, err)
		}
		if applied {
			continue
		}

		if err := apply(ctx, db, m); err != nil {
			return err
		}

		logger.Info("applied migration", zap.String("version", m.Version))
	}

	return nil
}

func apply(ctx context.Context, db TxBeginner, m migration) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.Version, err)
	}

	if _, err = tx.Exec(ctx, m.SQL); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("execute migration %s: %w", m.Version, err)
	}
	if _, err = tx.Exec(ctx, insertMigration, m.Version); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("record migration %s: %w", m.Version, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.Version, err)
	}

	return nil
}
