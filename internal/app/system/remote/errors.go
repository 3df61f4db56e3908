// internal/app/system/remote/errors.go
package remote

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by a DataAccessError when an update or delete
// matched no record.
var ErrNotFound = errors.New("record not found")

// DataAccessError reports a failed read, write or procedure call against a
// named collection.
type DataAccessError struct {
	Op         string // list, get, insert, update, delete, count, invoke
	Collection string // collection or procedure name
	Err        error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("remote: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func wrap(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Collection: collection, Err: err}
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
