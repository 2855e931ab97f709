// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// and a transaction helper that survives a briefly locked SQLite file.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxBeginner is satisfied by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Primary SQLite result codes; extended codes carry them in the low byte.
const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

var (
	// BusyRetries is how many extra attempts WithTx makes while the
	// database is locked by another process.
	BusyRetries = 3
	// BusyBackoff is the wait before the first retry; it grows linearly.
	BusyBackoff = 25 * time.Millisecond
)

// IsBusy reports whether err is SQLite's "database is locked" or "table is
// locked". The modernc driver's *sqlite.Error exposes Code().
func IsBusy(err error) bool {
	var coded interface{ Code() int }
	if !errors.As(err, &coded) {
		return false
	}
	switch coded.Code() & 0xff {
	case sqliteBusy, sqliteLocked:
		return true
	}
	return false
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// When any step fails with IsBusy the whole transaction is retried, so fn
// must be safe to run more than once:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "INSERT INTO credentials ... ON CONFLICT ...")
//	    return err
//	})
func WithTx(ctx context.Context, db TxBeginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = withTxOnce(ctx, db, opts, fn)
		if err == nil || !IsBusy(err) || attempt >= BusyRetries {
			return err
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(BusyBackoff * time.Duration(attempt+1)):
		}
	}
}

func withTxOnce(ctx context.Context, db TxBeginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
