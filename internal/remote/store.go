// Package remote implements the remote store capability set the sync cache
// consumes: row fetch/upsert/delete over a relational backend, plus the
// authentication sub-capability (sign-in, sign-up, session tracking).
package remote

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by FetchOne when no row matches the filter.
var ErrNotFound = errors.New("remote: row not found")

// Store is the row-storage capability set. dest arguments follow the gorm
// convention: a pointer to a slice for FetchAll, a pointer to a struct for
// FetchOne.
type Store interface {
	FetchAll(ctx context.Context, table string, dest interface{}) error
	FetchOne(ctx context.Context, table string, filter map[string]interface{}, dest interface{}) error
	Upsert(ctx context.Context, table string, row interface{}) error
	Delete(ctx context.Context, table string, filter map[string]interface{}) error
}
