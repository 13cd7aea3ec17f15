// Package metadata stores small named values in the client's local SQLite
// database. Notes, the session and preferences are all kept here under fixed
// keys.
package metadata

import (
	"context"
)

// Repository is a key/value table. Get reports a missing key as
// common.ErrorNotFound.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}
