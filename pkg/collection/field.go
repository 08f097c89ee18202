package collection

import "github.com/goliatone/go-repeater/pkg/model"

// Field is one input inside a row. Its id and name are derived from the
// owning row's index, so they change when the row is reindexed.
type Field struct {
	row     *Row
	ordinal int
	schema  model.FieldSchema
	value   model.Value
}

func newField(row *Row, ordinal int, schema model.FieldSchema) *Field {
	return &Field{row: row, ordinal: ordinal, schema: schema}
}

// ID returns the document-unique id of the field.
func (f *Field) ID() string {
	if f == nil || f.row == nil || f.row.coll == nil {
		return ""
	}
	c := f.row.coll
	return model.FieldID(c.def.Kind, c.def.ID, f.schema.Key, f.row.index)
}

// Name returns the submission key of the field.
func (f *Field) Name() string {
	if f == nil || f.row == nil || f.row.coll == nil {
		return ""
	}
	c := f.row.coll
	return model.FieldName(c.def.Kind, c.def.ID, f.schema.Key, f.row.index)
}

// LabelFor returns the id the field's label points at.
func (f *Field) LabelFor() string {
	return f.ID()
}

// CompanionID returns the id of the hidden attachment-id input of a file
// field. Other kinds have no companion.
func (f *Field) CompanionID() string {
	if f == nil || f.schema.Kind != model.FieldKindFile {
		return ""
	}
	return model.CompanionID(f.ID())
}

// CompanionName returns the submission key of the attachment-id input.
func (f *Field) CompanionName() string {
	if f == nil || f.schema.Kind != model.FieldKindFile || f.row == nil || f.row.coll == nil {
		return ""
	}
	c := f.row.coll
	return model.FieldName(c.def.Kind, c.def.ID, f.schema.Key+model.CompanionSuffix, f.row.index)
}

// Key returns the schema key.
func (f *Field) Key() string { return f.schema.Key }

// Kind returns the field kind.
func (f *Field) Kind() model.FieldKind { return f.schema.Kind }

// Schema returns a copy of the field schema.
func (f *Field) Schema() model.FieldSchema { return f.schema }

// Ordinal is the position of the field within its row.
func (f *Field) Ordinal() int { return f.ordinal }

// Row returns the owning row.
func (f *Field) Row() *Row { return f.row }

// Value returns a copy of the current value. Callers sharing a Document with
// other goroutines should use Document.Value instead.
func (f *Field) Value() model.Value { return f.value.Clone() }

func (f *Field) set(v model.Value) { f.value = v.Clone() }

func (f *Field) clear() { f.value = model.Value{} }
