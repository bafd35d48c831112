package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the repositories translate
const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError reports a foreign key violation, e.g. an element
// written into a workspace that no longer exists
func IsPgForeignKeyError(err error) bool {
	return hasCode(err, pgForeignKeyViolation)
}

// IsPgCheckViolation reports a row rejected by a CHECK constraint
func IsPgCheckViolation(err error) bool {
	return hasCode(err, pgCheckViolation)
}

// IsPgInvalidInputError checks if error is a malformed literal, such as a
// non-UUID string compared against a UUID column
func IsPgInvalidInputError(err error) bool {
	return hasCode(err, pgInvalidText)
}
