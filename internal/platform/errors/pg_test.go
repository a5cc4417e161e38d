package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestFromPostgres(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		err   error
		code  ErrorCode
		field string
	}{
		{"duplicate id", &pgconn.PgError{Code: "23505", ConstraintName: "documents_pkey"}, ErrorCodeDuplicateKey, ""},
		{"not null names column", &pgconn.PgError{Code: "23502", ColumnName: "data"}, ErrorCodeValidation, "data"},
		{"check", &pgconn.PgError{Code: "23514"}, ErrorCodeValidation, ""},
		{"bad timestamp cursor", &pgconn.PgError{Code: "22P02"}, ErrorCodeInvalidArgument, ""},
		{"bad json", &pgconn.PgError{Code: "22032"}, ErrorCodeInvalidArgument, ""},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, ErrorCodeConflict, ""},
		{"starting up", &pgconn.PgError{Code: "57P03"}, ErrorCodeUnavailable, ""},
		{"unmapped state", &pgconn.PgError{Code: "XX000"}, ErrorCodeDB, ""},
		{"no rows", pgx.ErrNoRows, ErrorCodeNotFound, ""},
		{"wrapped no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), ErrorCodeNotFound, ""},
		{"plain error", stderrs.New("conn reset"), ErrorCodeDB, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromPostgres(tc.err, "get document")
			e, ok := As(got)
			if !ok {
				t.Fatalf("not an *Error: %T", got)
			}
			if e.Code() != tc.code || e.Field() != tc.field {
				t.Fatalf("got code %v field %q, want %v %q", e.Code(), e.Field(), tc.code, tc.field)
			}
			if !stderrs.Is(got, tc.err) {
				t.Fatal("original error lost")
			}
		})
	}

	if FromPostgres(nil, "x") != nil {
		t.Fatal("nil should pass through")
	}
}
