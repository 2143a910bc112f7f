package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells [DB.withRetry] whether a failed statement may
// succeed when attempted again.
type ErrorClassification int

const (
	// NonRetryable is the classification of every error not known to be
	// transient.
	NonRetryable ErrorClassification = iota

	// Retryable marks transient failures: lost connections, rolled back
	// transactions, a server that is starting up or out of connection slots.
	Retryable
)

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL by
// SQLSTATE class.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Errors that do not come from the
// server are [NonRetryable].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	code := postgresError(err)
	if code == "" {
		return NonRetryable
	}
	return ClassifyPgCode(code)
}

// ClassifyPgCode maps a SQLSTATE code to an [ErrorClassification].
//
// Retryable classes: 08 (connection exception), 40 (transaction rollback,
// including serialization failures and deadlocks), 53300 (too many
// connections) and 57P03 (cannot connect now). Everything else, notably the
// constraint and syntax classes 23 and 42, is [NonRetryable].
func ClassifyPgCode(code string) ErrorClassification {
	switch {
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsTransactionRollback(code),
		code == pgerrcode.TooManyConnections,
		code == pgerrcode.CannotConnectNow:
		return Retryable
	}
	return NonRetryable
}

// postgresError returns the SQLSTATE of err, or "" when err carries no
// server error.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
