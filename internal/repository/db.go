package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Sentinel errors returned by repositories.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateSapID = errors.New("sap id already registered")
)

// Unique index names from the accounts migration.
const (
	constraintAccountEmail = "accounts_email_key"
	constraintAccountSapID = "accounts_sap_id_key"
)

// uniqueViolation maps a PostgreSQL unique violation to the matching
// sentinel. ok is false for any other error.
func uniqueViolation(err error) (mapped error, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil, false
	}
	switch pgErr.ConstraintName {
	case constraintAccountEmail:
		return ErrDuplicateEmail, true
	case constraintAccountSapID:
		return ErrDuplicateSapID, true
	}
	return nil, false
}
