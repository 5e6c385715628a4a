// Package sqlxrepos implements the repositories over PostgreSQL via sqlx.
package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

// trapNoRowsErr converts sql.ErrNoRows to the domain's sentinel.
func trapNoRowsErr(err, sentinel error) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return sentinel
	}
	return err
}

// isUniqueViolation reports whether err is a unique-constraint breach,
// optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	if !ok {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
