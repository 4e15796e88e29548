// Package store persists the console's Session Record.
//
// The record is kept as two independent keys, auth_user (the identity as
// JSON, never a password) and auth_token (the opaque bearer token), on top of
// a small key-value abstraction so the same logic runs against a local file,
// Redis or memory.
package store

import (
	"context"
	"errors"
)

// Keys under which the Session Record is stored.
const (
	KeyUser  = "auth_user"
	KeyToken = "auth_token"
)

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.New("key not found")

// KV is a minimal string key-value store.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// Replace writes set and removes del as one update: on error none of
	// the changes is visible.
	Replace(ctx context.Context, set map[string]string, del ...string) error
}
