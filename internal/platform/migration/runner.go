// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration brings the users.account schema up to date at startup.

The SQL files are compiled into the binary, so a deployed server needs no
migrations directory next to it. Setting MIGRATION_PATH swaps the embedded
set for a directory on disk, which is handy while authoring a new migration.
*/
package migration

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var embedded embed.FS

/*
Up applies every pending migration against dsn.

Parameters:
  - dsn: postgres:// URL of the credential database
  - dir: migrations directory on disk, or "" for the embedded set
  - logger: receives progress events

Returns:
  - error: when the source cannot be opened, the schema is dirty, or a step fails
*/
func Up(dsn, dir string, logger *slog.Logger) error {
	migrator, err := open(dsn, dir)
	if err != nil {
		return err
	}
	defer func() {
		if sourceErr, databaseErr := migrator.Close(); sourceErr != nil || databaseErr != nil {
			logger.Warn("migration_close_failed",
				slog.Any("source_error", sourceErr),
				slog.Any("database_error", databaseErr),
			)
		}
	}()

	migrator.Log = &slogBridge{logger: logger}

	from, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return fmt.Errorf("migration_version: %w", err)
	case dirty:
		return fmt.Errorf("migration_dirty: version %d needs a manual fix", from)
	}

	err = migrator.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration_up: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// open builds a migrator over the embedded or on-disk source.
func open(dsn, dir string) (*migrate.Migrate, error) {
	databaseURL := convertToPgx5DSN(dsn)

	if dir != "" {
		migrator, err := migrate.New("file://"+dir, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("migration_open: %w", err)
		}
		return migrator, nil
	}

	source, err := iofs.New(embedded, "sql")
	if err != nil {
		return nil, fmt.Errorf("migration_source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration_open: %w", err)
	}
	return migrator, nil
}

// convertToPgx5DSN rewrites postgres URLs to the scheme the pgx/v5 migrate driver registers.
func convertToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogBridge satisfies migrate.Logger.
type slogBridge struct {
	logger *slog.Logger
}

func (b *slogBridge) Printf(format string, args ...any) {
	b.logger.Debug("migration_step", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (b *slogBridge) Verbose() bool { return false }
