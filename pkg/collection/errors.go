package collection

import "errors"

var (
	// ErrBelowFloor is reported when a removal would drop a collection below
	// its minimum row count. The remove control is disabled instead.
	ErrBelowFloor = errors.New("collection: row count at floor")
	// ErrNoTemplate is reported when no template row can be located for an
	// add operation.
	ErrNoTemplate = errors.New("collection: template row not found")
	// ErrNoSibling is reported when a shift has no row in the requested
	// direction.
	ErrNoSibling = errors.New("collection: no sibling row in direction")
	// ErrNotSortable is reported when a shift targets a collection that is
	// not a sortable group.
	ErrNotSortable = errors.New("collection: collection is not sortable")
	// ErrStaleRow is reported when a row moved or vanished between the start
	// and the end of an operation.
	ErrStaleRow = errors.New("collection: row changed during operation")

	// ErrUnknownCollection is returned for collection ids that were never
	// registered.
	ErrUnknownCollection = errors.New("collection: unknown collection")
	// ErrUnknownRow is returned for row positions outside the collection.
	ErrUnknownRow = errors.New("collection: unknown row")
	// ErrUnknownField is returned for field ids that do not resolve.
	ErrUnknownField = errors.New("collection: unknown field")
	// ErrDuplicateID is returned when a definition would share identifiers
	// with an already registered collection.
	ErrDuplicateID = errors.New("collection: identifier already in use")
	// ErrInvalidDefinition is returned for malformed definitions.
	ErrInvalidDefinition = errors.New("collection: invalid definition")
	// ErrFieldKind is returned when an operation does not apply to the
	// field's kind.
	ErrFieldKind = errors.New("collection: operation not supported for field kind")
)
