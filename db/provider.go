package db

import "errors"

// ErrKeyNotFound is returned by Get when the key is absent. Callers rely on
// the distinction between absence and I/O failure, so providers must not fold
// this into a generic error.
var ErrKeyNotFound = errors.New("db: key not found")

// DatabaseProvider abstracts the low-level key-value operations so the stores
// above it can work with different embedded database backends.
type DatabaseProvider interface {
	// Get retrieves a value by key, ErrKeyNotFound if absent.
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair.
	Put(key, value []byte) error

	// Delete removes a key-value pair. Deleting an absent key is not an error.
	Delete(key []byte) error

	// Has checks if a key exists.
	Has(key []byte) (bool, error)

	// Close closes the database.
	Close() error

	// Batch returns a new batch for atomic writes.
	Batch() DatabaseBatch
}

// DatabaseBatch accumulates writes that are committed atomically.
type DatabaseBatch interface {
	// Put adds a key-value pair to the batch.
	Put(key, value []byte)

	// Delete adds a deletion to the batch.
	Delete(key []byte)

	// Write commits all operations in the batch.
	Write() error

	// Reset clears the batch.
	Reset()
}
