package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/getfit/internal/cryptox"
	"github.com/dmitrijs2005/getfit/internal/dbx"
)

// ErrUnreadable is returned when a stored value cannot be decrypted, usually
// because the storage secret changed.
var ErrUnreadable = errors.New("stored credential cannot be decrypted")

// DB is what SQLiteRepository needs from *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// SQLiteRepository stores every value sealed with AES-GCM. The storage key is
// bound in as additional data, so rows cannot be swapped between keys.
type SQLiteRepository struct {
	db  DB
	key []byte
}

func NewSQLiteRepository(db DB, key []byte) *SQLiteRepository {
	return &SQLiteRepository{db: db, key: key}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value, nonce []byte
	err := r.db.QueryRowContext(ctx, `SELECT value, nonce FROM credentials WHERE key = ?`, key).Scan(&value, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}

	plain, err := cryptox.Open(value, nonce, []byte(key), r.key)
	if err != nil {
		return nil, fmt.Errorf("credentials[%s]: %w", key, ErrUnreadable)
	}
	return plain, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.set(ctx, r.db, key, value)
}

func (r *SQLiteRepository) set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	sealed, nonce, err := cryptox.Seal(value, []byte(key), r.key)
	if err != nil {
		return fmt.Errorf("failed to seal credentials[%s]: %w", key, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, nonce, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, nonce = excluded.nonce, updated_at = excluded.updated_at
	`, key, sealed, nonce)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	return r.delete(ctx, r.db, key)
}

func (r *SQLiteRepository) delete(ctx context.Context, db dbx.DBTX, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete credentials[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if err := r.set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) DeleteMany(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range keys {
			if err := r.delete(ctx, tx, k); err != nil {
				return err
			}
		}
		return nil
	})
}
