// Package credentials is the secure credential storage: a small key/value
// store for the session tokens and the serialized user, encrypted at rest.
package credentials

import (
	"context"
)

// Repository persists opaque values under string keys.
//
// Get returns (nil, nil) when the key is absent. SetMany and DeleteMany are
// atomic: either every key is written (removed) or none is.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	SetMany(ctx context.Context, values map[string][]byte) error
	DeleteMany(ctx context.Context, keys ...string) error
}
