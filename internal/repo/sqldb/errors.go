package sqldb

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// constraintViolation reports whether err is the database rejecting a write
// (CHECK, UNIQUE, NOT NULL, FK, or a trigger raising), with a short detail.
func constraintViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 23 is integrity_constraint_violation, P0001 is RAISE EXCEPTION
		if strings.HasPrefix(pgErr.Code, "23") || pgErr.Code == "P0001" {
			if pgErr.ConstraintName != "" {
				return pgErr.ConstraintName, true
			}
			return pgErr.Message, true
		}
		return "", false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		return liteErr.Error(), true
	}

	return "", false
}
