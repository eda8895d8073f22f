// Package storage is the per-user key-value contract the engine persists
// resumes and application ledgers through. Values are JSON documents.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNil is returned by Get when the key does not exist.
	ErrNil = errors.New("storage: key does not exist")
	// ErrConflict is returned by Update when the compare-and-swap kept losing.
	ErrConflict = errors.New("storage: concurrent update, retries exhausted")
)

// DefaultMaxRetries bounds compare-and-swap attempts in Update.
const DefaultMaxRetries = 8

// UpdateFunc receives the current value (nil when missing) and returns the
// serialized replacement. Returning an error aborts the update without writing.
type UpdateFunc func(current any, exists bool) (string, error)

// Store is a string key-value store.
//
// Get may hand back either a JSON string or an already decoded value,
// depending on the backend; Decode accepts both.
type Store interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	// Update is a read-modify-write that never loses a concurrent write.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}
