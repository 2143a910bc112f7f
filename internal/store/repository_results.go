package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// resultsRepository is the SQL implementation of [ResultsRepository]. It
// works against PostgreSQL and SQLite alike; the dialect only changes the
// placeholder format.
type resultsRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewResultsRepository constructs a [ResultsRepository] backed by db.
func NewResultsRepository(db *DB, logger *logger.Logger) ResultsRepository {
	logger.Debug().Msg("creating results repository")
	return &resultsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *resultsRepository) SaveResults(ctx context.Context, results ...models.EvalResult) error {
	if len(results) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	rows := make([]models.EvalResult, len(results))
	for i, res := range results {
		if res.CreatedAt.IsZero() {
			res.CreatedAt = now
		}
		rows[i] = res
	}

	query, args, err := buildUpsertResultsQuery(r.db.builder(), rows)
	if err != nil {
		log.Err(err).Str("func", "*resultsRepository.SaveResults").Msg("error building upsert query")
		return err
	}

	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "*resultsRepository.SaveResults").
			Str("pg_code", postgresError(err)).
			Int("rows", len(rows)).
			Msg("error saving eval results")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *resultsRepository) ListResults(ctx context.Context, filter models.ResultFilter) ([]models.EvalResult, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectResultsQuery(r.db.builder(), filter)
	if err != nil {
		log.Err(err).Str("func", "*resultsRepository.ListResults").Msg("error building select query")
		return nil, err
	}

	var results []models.EvalResult
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		defer rows.Close()

		results = results[:0]
		for rows.Next() {
			var res models.EvalResult
			if err := rows.Scan(
				&res.RunID,
				&res.ModelFile,
				&res.ObjectName,
				&res.Original.Width,
				&res.Original.Height,
				&res.Effective.Width,
				&res.Effective.Height,
				&res.DegradationFactor,
				&res.MAP,
				&res.Knee,
				&res.CreatedAt,
			); err != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, err)
			}
			results = append(results, res)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "*resultsRepository.ListResults").
			Str("model_file", filter.ModelFile).
			Str("object_name", filter.ObjectName).
			Msg("error listing eval results")
		return nil, err
	}

	return results, nil
}

func (r *resultsRepository) HasResults(ctx context.Context, key models.EvalKey) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountResultsQuery(r.db.builder(), key)
	if err != nil {
		log.Err(err).Str("func", "*resultsRepository.HasResults").Msg("error building count query")
		return false, err
	}

	var count int
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		log.Err(err).
			Str("func", "*resultsRepository.HasResults").
			Str("model_file", key.ModelFile).
			Str("effective", key.Effective.String()).
			Msg("error counting eval results")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count > 0, nil
}

func (r *resultsRepository) MarkKnee(ctx context.Context, modelFile, objectName string, original models.Resolution, knee *models.Resolution) error {
	log := logger.FromContext(ctx).With().
		Str("func", "*resultsRepository.MarkKnee").
		Str("model_file", modelFile).
		Str("object_name", objectName).
		Logger()

	clearQuery, clearArgs, err := buildClearKneeQuery(r.db.builder(), modelFile, objectName, original)
	if err != nil {
		log.Err(err).Msg("error building clear knee query")
		return err
	}

	var setQuery string
	var setArgs []any
	if knee != nil {
		setQuery, setArgs, err = buildSetKneeQuery(r.db.builder(), modelFile, objectName, original, *knee)
		if err != nil {
			log.Err(err).Msg("error building set knee query")
			return err
		}
	}

	return r.db.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			log.Err(err).Msg("error beginning transaction")
			return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			log.Err(err).Msg("error clearing knee flags")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if knee != nil {
			res, err := tx.ExecContext(ctx, setQuery, setArgs...)
			if err != nil {
				log.Err(err).Msg("error setting knee flag")
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				log.Warn().Str("knee", knee.String()).Msg("knee resolution has no stored result")
				return fmt.Errorf("%w: %s", ErrKneeNotFound, knee)
			}
		}

		if err := tx.Commit(); err != nil {
			log.Err(err).Msg("error committing transaction")
			return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return nil
	})
}

func (r *resultsRepository) DeleteResults(ctx context.Context, filter models.ResultFilter) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteResultsQuery(r.db.builder(), filter)
	if err != nil {
		log.Err(err).Str("func", "*resultsRepository.DeleteResults").Msg("error building delete query")
		return err
	}

	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*resultsRepository.DeleteResults").Msg("error deleting eval results")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
