package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	UniqueViolationCode     = "23505"
	ForeignKeyViolationCode = "23503"
	NotNullViolationCode    = "23502"
	CheckViolationCode      = "23514"
)

// AsPgError unwraps err into a server-reported *pgconn.PgError.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsIntegrityViolation reports whether err carries a SQLSTATE of class 23
// (integrity constraint violation).
func IsIntegrityViolation(err error) bool {
	pe, ok := AsPgError(err)
	return ok && strings.HasPrefix(pe.Code, "23")
}
