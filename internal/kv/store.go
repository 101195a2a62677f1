// Package kv is the durable key-value store the application state lives in.
//
// Every operation touches the backing medium immediately: there is no write
// batching and no deferred flush. Values are opaque strings; callers own the
// (de)serialization.
package kv

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the backing medium could not be reached.
// Callers treat it as "absent" on read.
var ErrUnavailable = errors.New("storage unavailable")

// Store is the raw persistence contract.
type Store interface {
	// Read returns the raw value stored under key. ok is false when the key
	// has never been written or was removed.
	Read(ctx context.Context, key string) (value string, ok bool, err error)

	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
