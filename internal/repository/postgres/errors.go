package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgForeignKeyError checks if error is a foreign key violation.
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// IsPgUndefinedObjectError checks for an undefined database object, e.g. a
// misspelled sequence name passed to nextval.
func IsPgUndefinedObjectError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 42704 = undefined_object, 42P01 = undefined_table
		return pgErr.Code == "42704" || pgErr.Code == "42P01"
	}
	return false
}
