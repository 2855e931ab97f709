package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:dbx_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v TEXT);`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM kv`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv(k, v) VALUES ('access_token', 'a')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO kv(k, v) VALUES ('refresh_token', 'r')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 2, countRows(t, db), "must commit on success")
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO kv(k, v) VALUES ('access_token', 'a')`)
		require.NoError(t, e)
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")

	require.Equal(t, 0, countRows(t, db), "must rollback when fn returns error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO kv(k, v) VALUES ('user_data', '{}')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
}

func TestWithTx_CommitErrorIsReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.EqualError(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

type codedErr int

func (e codedErr) Error() string { return "sqlite error" }
func (e codedErr) Code() int     { return int(e) }

func TestIsBusy(t *testing.T) {
	require.True(t, IsBusy(codedErr(sqliteBusy)))
	require.True(t, IsBusy(fmt.Errorf("exec: %w", codedErr(sqliteLocked))))
	require.True(t, IsBusy(codedErr(517)), "SQLITE_BUSY_SNAPSHOT")
	require.False(t, IsBusy(codedErr(19)), "constraint")
	require.False(t, IsBusy(errors.New("database is locked")))
	require.False(t, IsBusy(nil))
}

func fastRetries(t *testing.T, n int) {
	t.Helper()
	oldN, oldB := BusyRetries, BusyBackoff
	BusyRetries, BusyBackoff = n, time.Millisecond
	t.Cleanup(func() { BusyRetries, BusyBackoff = oldN, oldB })
}

func TestWithTx_RetriesWhileBusy(t *testing.T) {
	fastRetries(t, 3)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(codedErr(sqliteBusy))
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(codedErr(sqliteBusy))
	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_GivesUpAfterRetries(t *testing.T) {
	fastRetries(t, 1)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(codedErr(sqliteBusy))
	mock.ExpectBegin().WillReturnError(codedErr(sqliteBusy))

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error { return nil })
	require.True(t, IsBusy(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_OtherErrorsNotRetried(t *testing.T) {
	fastRetries(t, 3)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	calls := 0
	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		calls++
		return codedErr(19)
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

type busyBeginner struct {
	calls  int
	cancel context.CancelFunc
}

func (b *busyBeginner) BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error) {
	b.calls++
	b.cancel()
	return nil, codedErr(sqliteBusy)
}

func TestWithTx_StopsOnCancel(t *testing.T) {
	fastRetries(t, 5)
	BusyBackoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	db := &busyBeginner{cancel: cancel}

	err := WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, IsBusy(err))
	require.Equal(t, 1, db.calls)
}
