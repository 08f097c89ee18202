package schema

import (
	"bytes"
	"errors"
)

// Format is the serialisation of a document payload.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Document is a raw payload together with its origin.
type Document struct {
	source Source
	raw    []byte
	format Format
}

// NewDocument wraps raw. The format is taken from the source extension and
// falls back to sniffing the payload.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Document{}, ErrEmptyDocument
	}
	format := FormatYAML
	switch extension(src) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
	default:
		if trimmed[0] == '{' || trimmed[0] == '[' {
			format = FormatJSON
		}
	}
	return Document{source: src, raw: append([]byte(nil), raw...), format: format}, nil
}

func (d Document) Source() Source { return d.source }
func (d Document) Format() Format { return d.format }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the origin identifier.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
