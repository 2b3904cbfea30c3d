package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"gorillaDoAPI/internal/progression"
)

// Postgres error codes the services care about.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// storeError wraps a persistence failure with the engine's StoreError,
// classifying transient failures as retryable. Services never retry
// themselves; the flag is for callers.
func storeError(op string, err error) error {
	retryable := false
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			retryable = true
		}
	} else {
		// Anything that is not a server-reported error (broken connection,
		// timeout) is worth retrying.
		retryable = true
	}
	return &progression.StoreError{Op: op, Retryable: retryable, Err: err}
}

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
