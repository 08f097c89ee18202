package collection

import "github.com/goliatone/go-repeater/pkg/model"

// Row is one repetition of a collection's field set.
type Row struct {
	coll   *Collection
	index  int
	fields []*Field
	inert  bool
}

// Index is the row's 0-based position in its collection.
func (r *Row) Index() int { return r.index }

// Inert reports whether the row is a simple collection's template row. Inert
// rows are never submitted.
func (r *Row) Inert() bool { return r.inert }

// Collection returns the owning collection.
func (r *Row) Collection() *Collection { return r.coll }

// Fields returns the row's fields in ordinal order.
func (r *Row) Fields() []*Field {
	out := make([]*Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Field looks up a field by schema key.
func (r *Row) Field(key string) (*Field, bool) {
	for _, f := range r.fields {
		if f.schema.Key == key {
			return f, true
		}
	}
	return nil, false
}

// FieldAt returns the field at ordinal position i.
func (r *Row) FieldAt(i int) (*Field, bool) {
	if i < 0 || i >= len(r.fields) {
		return nil, false
	}
	return r.fields[i], true
}

// Title renders the group title for the row. Simple rows have no title.
func (r *Row) Title() string {
	if r.coll == nil || r.coll.def.Kind != model.CollectionGrouped {
		return ""
	}
	return model.GroupTitle(r.coll.def.TitleTemplate, r.index)
}

// FirstInteractive returns the first field that can take focus.
func (r *Row) FirstInteractive() (*Field, bool) {
	for _, f := range r.fields {
		if f.schema.Kind.Interactive() {
			return f, true
		}
	}
	return nil, false
}

func (r *Row) pickerFields() []*Field {
	var out []*Field
	for _, f := range r.fields {
		if f.schema.Picker != model.PickerNone {
			out = append(out, f)
		}
	}
	return out
}

func (r *Row) applyDefaults() {
	for _, f := range r.fields {
		d := f.schema.Default
		if d == "" {
			continue
		}
		switch {
		case f.schema.Kind.Toggles():
			f.value.Checked = d == "on" || d == "true" || d == "1"
		case f.schema.Kind.Selects():
			if f.schema.HasOption(d) {
				f.value.Selected = []string{d}
			}
		case f.schema.Kind == model.FieldKindMediaStatus:
		default:
			f.value.Text = d
		}
	}
}
