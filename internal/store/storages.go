package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-knee-pipeline/internal/config"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/migrations"
)

// Storages groups the repositories used by the service layer.
type Storages struct {
	ResultsRepository ResultsRepository

	db *DB
}

// NewStorages opens the results database named by cfg.Storage.DB.DSN,
// applies migrations and wires the repositories.
func NewStorages(ctx context.Context, cfg *config.StructuredConfig, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	var (
		db  *DB
		err error
	)
	switch DialectFromDSN(cfg.Storage.DB.DSN) {
	case migrations.DialectPostgres:
		db, err = NewConnectPostgres(ctx, cfg.Storage.DB, cfg.Workers.StoreRetries, logger)
	case migrations.DialectSQLite:
		db, err = NewConnectSQLite(ctx, cfg.Storage.DB, cfg.Workers.StoreRetries, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, cfg.Storage.DB.DSN)
	}
	if err != nil {
		return nil, fmt.Errorf("%s connection error: %w", DialectFromDSN(cfg.Storage.DB.DSN), err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		ResultsRepository: NewResultsRepository(db, logger),
		db:                db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DialectFromDSN picks the backend of dsn: PostgreSQL URLs and key/value
// strings go to pgx, everything else to SQLite. An empty DSN has none.
func DialectFromDSN(dsn string) string {
	switch {
	case dsn == "":
		return ""
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host=") && strings.Contains(dsn, "dbname="):
		return migrations.DialectPostgres
	default:
		return migrations.DialectSQLite
	}
}
