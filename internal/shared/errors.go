package shared

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates a lookup by id matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates the request clashes with persisted state.
	ErrConflict = errors.New("conflict")
	// ErrValidation indicates a rejected payload.
	ErrValidation = errors.New("validation failed")
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
// Constraint errors are not translated into domain errors; callers that
// care pattern-match with this helper.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
