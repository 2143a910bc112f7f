package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-knee-pipeline/internal/config"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/migrations"
)

// A pipeline run writes from one goroutine at a time; the pool only has to
// absorb the report and export reads.
const (
	postgresMaxOpenConns = 4
	postgresMaxIdleConns = 2
)

// NewConnectPostgres opens the results database on PostgreSQL through the
// pgx stdlib driver. The initial ping is retried like any other statement.
func NewConnectPostgres(ctx context.Context, cfg config.DB, retries uint64, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error opening database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}
	conn.SetMaxOpenConns(postgresMaxOpenConns)
	conn.SetMaxIdleConns(postgresMaxIdleConns)

	db := &DB{
		DB:                 conn,
		dialect:            migrations.DialectPostgres,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
		retries:            retries,
	}

	if err = db.withRetry(ctx, conn.PingContext); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		conn.Close()
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return db, nil
}
