package repo

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("repo: user not found")

	// ErrDuplicateEmail is returned when an insert or update violates the
	// unique constraint on users.email.
	ErrDuplicateEmail = errors.New("repo: email already exists")

	// ErrNoFields is returned by Update when no field is present in the
	// params. Storage is not touched in that case.
	ErrNoFields = errors.New("repo: no fields to update")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// mapError translates driver errors into the repo's sentinel vocabulary.
// Anything it cannot classify passes through unmodified as a storage failure.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}
