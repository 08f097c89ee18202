package schema

import "errors"

var (
	ErrEmptyDocument     = errors.New("schema: document is empty")
	ErrUnsupportedFormat = errors.New("schema: no adapter accepts document")
	ErrHTTPDisabled      = errors.New("schema: http sources are disabled")
	ErrNoCollections     = errors.New("schema: document defines no collections")
)
