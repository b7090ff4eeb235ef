package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/kailas-cloud/chemsearch/internal/db"
)

// SQLSTATE codes that map to context errors.
const (
	codeQueryCanceled = "57014"
)

// Translate wraps a driver error with op. Missing records become db.ErrRecordNotFound and
// server side cancellations surface as context.Canceled.
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &db.Error{Op: op, Err: db.ErrRecordNotFound}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeQueryCanceled {
		return &db.Error{Op: op, Err: context.Canceled}
	}
	return &db.Error{Op: op, Err: err}
}
