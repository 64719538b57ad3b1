// Package fault defines the error taxonomy shared by the ingestion and
// query paths. Handlers classify errors with errors.As / errors.Is and
// never inspect messages.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty signals a query that matched nothing where an empty
	// result is reported distinctly (counts).
	ErrEmpty = errors.New("empty result")

	// ErrUnavailable is wrapped by StorageError when the backing store
	// is not connected.
	ErrUnavailable = errors.New("store unavailable")
)

// ClientError is a malformed or unacceptable input. It is always raised
// before any side effect.
type ClientError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ClientError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Invalid builds a ClientError.
func Invalid(field, value, reason string) *ClientError {
	return &ClientError{Field: field, Value: value, Reason: reason}
}

// StorageError wraps any failure reported by the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError for op. A nil err returns nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsClient reports whether err is (or wraps) a ClientError.
func IsClient(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
