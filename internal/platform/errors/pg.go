package errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes the document store can hit
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgCheckViolation   = "23514"
	pgInvalidText      = "22P02"
	pgInvalidJSON      = "22032"

	pgSerialization    = "40001"
	pgDeadlock         = "40P01"
	pgReadOnly         = "25006"
	pgCannotConnectNow = "57P03"
	pgAdminShutdown    = "57P01"
)

// sqlStateCode maps a SQLSTATE to the code a handler answers with
func sqlStateCode(state string) ErrorCode {
	switch state {
	case pgUniqueViolation:
		return ErrorCodeDuplicateKey
	case pgNotNullViolation, pgCheckViolation:
		return ErrorCodeValidation
	case pgInvalidText, pgInvalidJSON:
		return ErrorCodeInvalidArgument
	case pgReadOnly, pgCannotConnectNow, pgAdminShutdown:
		return ErrorCodeUnavailable
	case pgSerialization, pgDeadlock:
		return ErrorCodeConflict
	}
	return ErrorCodeDB
}

// FromPostgres classifies a driver error and wraps it with msg
// pgx.ErrNoRows is NotFound; a violated constraint names its column when pg reports one
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, pgx.ErrNoRows) {
		return Wrap(err, ErrorCodeNotFound, msg)
	}
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return Wrap(err, ErrorCodeDB, msg)
	}
	out := Wrap(err, sqlStateCode(pgErr.Code), msg)
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return WithField(out, col)
	}
	return out
}
