package sql

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// pqUniqueViolation checks for Postgres error code 23505 (unique
// violation).
func pqUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// sqliteUniqueViolation checks modernc.org/sqlite's constraint error
// text, which does not expose a typed error code through database/sql.
func sqliteUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
