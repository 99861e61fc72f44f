package storage

import (
	"context"

	apperrors "github.com/jrsteele09/go-exchange-client/internal/errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = apperrors.ErrNotFound

// Repo is a key-value backend for persisted application state.
type Repo interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set creates or replaces the value stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
