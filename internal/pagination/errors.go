package pagination

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a bad page request; no query is issued.
	ErrInvalidArgument = errors.New("invalid pagination argument")
	// ErrInvalidQuery marks a statement the paginator cannot wrap. It is an ErrInvalidArgument.
	ErrInvalidQuery = fmt.Errorf("%w: unsupported query", ErrInvalidArgument)
	// ErrDatastore marks failures coming from the Querier.
	ErrDatastore = errors.New("datastore error")
)

// DatastoreError carries the collaborator error unchanged together with the step that failed.
// errors.Is matches both ErrDatastore and the wrapped error.
type DatastoreError struct {
	Op  string
	Err error
}

func (e *DatastoreError) Error() string   { return e.Op + ": " + e.Err.Error() }
func (e *DatastoreError) Unwrap() []error { return []error{ErrDatastore, e.Err} }

func datastoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DatastoreError{Op: op, Err: err}
}
