package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by Txn.Get when the key holds no record.
	ErrNotFound = errors.New("store: record not found")
	// ErrReadOnly is returned when a View transaction attempts a write.
	ErrReadOnly = errors.New("store: read-only transaction")
)

// Txn is a consistent view of the store for the duration of one transition.
// Reads observe the transaction's own pending writes.
type Txn interface {
	// ID identifies the transaction in logs.
	ID() uuid.UUID
	Get(key Key, v any) error
	Has(key Key) (bool, error)
	Put(key Key, v any) error
	Delete(key Key) error
}

// Store is the single keyed store every component shares.
type Store interface {
	// Update runs fn in a read-write transaction. If fn returns an error no
	// write is applied and the error is returned unchanged.
	Update(ctx context.Context, fn func(tx Txn) error) error
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(tx Txn) error) error
	Close() error
}

// Load reads the record at key into a new T.
func Load[T any](tx Txn, key Key) (*T, error) {
	var v T
	if err := tx.Get(key, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// LoadOrZero reads the record at key, returning the zero T when absent.
func LoadOrZero[T any](tx Txn, key Key) (T, error) {
	var v T
	err := tx.Get(key, &v)
	if errors.Is(err, ErrNotFound) {
		return v, nil
	}
	return v, err
}
