// Package dberrors recognises Postgres failures the repositories turn into domain errors.
package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const UniqueViolation = "23505"

func uniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == UniqueViolation {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateConstraintError reports a unique violation of the named constraint, such as
// two writers inserting the same payment period.
func IsDuplicateConstraintError(err error, constraint string) bool {
	pgErr, ok := uniqueViolation(err)
	return ok && pgErr.ConstraintName == constraint
}

// IsDuplicateKeyError reports a unique violation of any constraint.
func IsDuplicateKeyError(err error) bool {
	_, ok := uniqueViolation(err)
	return ok
}
