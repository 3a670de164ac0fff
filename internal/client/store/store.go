// Package store opens and migrates the client's local SQLite database and
// bundles the repositories built on it.
package store

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/gowear/gowear/internal/client/migrations"
	"github.com/gowear/gowear/internal/client/repositories/metadata"
	"github.com/gowear/gowear/internal/filex"
)

type Store struct {
	DB       *sql.DB
	Metadata metadata.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Open connects to the SQLite file at dsn, applies migrations, and returns
// the repositories. The caller owns Close.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn != ":memory:" {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
