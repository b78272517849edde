package storage

import (
	"context"
	"errors"
	"strings"
)

// Keys of the two persisted records.
const (
	KeyTransactions = "transactions"
	KeyUser         = "user"
)

// corruptSuffix names the key that keeps an unreadable payload before it is
// replaced by a fresh seed.
const corruptSuffix = ".corrupt"

var ErrInvalidKey = errors.New("invalid storage key")

// Backend persists opaque values under string keys. Put overwrites the whole
// value; Delete of a missing key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
