package schema

import (
	"errors"
	"fmt"
)

// Resolution errors.
var (
	ErrUnknownField    = errors.New("unknown field")
	ErrNotCollection   = errors.New("field is not a collection")
	ErrClosedNamespace = errors.New("field does not support keyed lookup")
	ErrIndexRequired   = errors.New("collection access requires an index")
	ErrKeyRequired     = errors.New("keyed namespace requires a key")
	ErrNotTerminal     = errors.New("path must end in a scalar attribute")
	ErrScalarTraverse  = errors.New("cannot navigate through a scalar attribute")
	ErrEmptyPath       = errors.New("empty field path")
)

// SchemaError reports a field path that does not resolve against the
// registry. It names the entity and segment that failed so callers can
// point at the exact part of the query.
type SchemaError struct {
	Entity  EntityKind
	Segment string
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error on %s.%s: %v", e.Entity, e.Segment, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func newSchemaError(entity EntityKind, segment string, err error) *SchemaError {
	return &SchemaError{Entity: entity, Segment: segment, Err: err}
}
