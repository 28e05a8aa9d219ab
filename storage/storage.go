// Package storage defines the key-value store a visitor's auth state persists in
// and provides in-memory and Redis implementations of it.
package storage

import (
	"context"
	"errors"
)

// ErrNotExist returns when a key has no value in a Storage.
var ErrNotExist = errors.New("not exist")

// A Storage persists string values by key,
// much like the local storage of a web browser.
//
// Implementations must be safe for concurrent use.
type Storage interface {
	// Get retrieves the value for key or ErrNotExist.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key, val string) error

	// Delete removes the values for all keys.
	// Deleting a key without a value is not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Prefix namespaces every key s stores under prefix,
// so one Storage can hold the values of many visitors.
func Prefix(s Storage, prefix string) Storage {
	return prefixed{s: s, prefix: prefix}
}

type prefixed struct {
	s      Storage
	prefix string
}

func (p prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.s.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key, val string) error {
	return p.s.Set(ctx, p.prefix+key, val)
}

func (p prefixed) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = p.prefix + k
	}

	return p.s.Delete(ctx, full...)
}
