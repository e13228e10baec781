package blob

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUndecodable is returned by Get if a value exists but can't be decoded into the given type. The store itself is
// fine in that case, writing a new value fixes it.
var ErrUndecodable = errors.New("undecodable blob")

// Store is an interface for a named key/value store holding JSON documents
type Store interface {
	// Get decodes the value stored under key into v. The bool is false if there's no value for the key.
	Get(ctx context.Context, key string, v interface{}) (bool, error)
	// SetJSON encodes v and stores it under key, replacing whatever was there before.
	SetJSON(ctx context.Context, key string, v interface{}) error
}

// Entry is a struct for a stored blob
type Entry struct {
	Store     string `db:"store"`
	Key       string `db:"key"`
	Value     []byte `db:"value"`
	UpdatedAt string `db:"updated_at"`
}
