// Package kv defines the opaque string store the ledger snapshot is
// persisted into.
package kv

import "context"

// Store is a fallible key-value store of strings.
type Store interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
