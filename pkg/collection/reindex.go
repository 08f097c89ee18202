package collection

import "fmt"

// Rename pairs an identifier before and after a reindex. Hosts that cache
// identifier strings (editor instances, focus targets) use it to follow a
// field to its new id.
type Rename struct {
	Ordinal int
	OldID   string
	NewID   string
	OldName string
	NewName string
}

// Reindexer assigns row indices. Identifiers are derived from the index, so
// reindexing a row rewrites every id, name and label reference of its fields
// in one step and leaves non-index parts untouched.
type Reindexer struct{}

// Clone constructs a blank row shaped like template. Values are never
// copied: new rows start cleared, including checked and selected flags.
func (Reindexer) Clone(template *Row, index int) *Row {
	return template.coll.newRow(index)
}

// Renames reports the identifier changes between two rows of the same
// collection, field by field.
func (Reindexer) Renames(from, to *Row) []Rename {
	out := make([]Rename, 0, len(from.fields))
	for i, f := range from.fields {
		if i >= len(to.fields) {
			break
		}
		out = append(out, Rename{
			Ordinal: i,
			OldID:   f.ID(),
			NewID:   to.fields[i].ID(),
			OldName: f.Name(),
			NewName: to.fields[i].Name(),
		})
	}
	return out
}

// ShiftTrailing decrements the index of every row from position start to
// the end, the pass that follows a grouped removal. It returns the renames
// applied, in row order.
func (Reindexer) ShiftTrailing(rows []*Row, start int) []Rename {
	var out []Rename
	for i := start; i < len(rows); i++ {
		r := rows[i]
		before := snapshotIDs(r)
		r.index--
		out = append(out, renamesFrom(before, r)...)
	}
	return out
}

// Renumber sets each row's index to its position.
func (Reindexer) Renumber(rows []*Row) []Rename {
	var out []Rename
	for i, r := range rows {
		if r.index == i {
			continue
		}
		before := snapshotIDs(r)
		r.index = i
		out = append(out, renamesFrom(before, r)...)
	}
	return out
}

// Verify checks that indices form the contiguous range 0..n-1.
func (Reindexer) Verify(rows []*Row) error {
	for i, r := range rows {
		if r.index != i {
			return fmt.Errorf("collection: row at position %d carries index %d", i, r.index)
		}
	}
	return nil
}

type idPair struct{ id, name string }

func snapshotIDs(r *Row) []idPair {
	out := make([]idPair, len(r.fields))
	for i, f := range r.fields {
		out[i] = idPair{id: f.ID(), name: f.Name()}
	}
	return out
}

func renamesFrom(before []idPair, r *Row) []Rename {
	out := make([]Rename, 0, len(before))
	for i, f := range r.fields {
		out = append(out, Rename{
			Ordinal: i,
			OldID:   before[i].id,
			NewID:   f.ID(),
			OldName: before[i].name,
			NewName: f.Name(),
		})
	}
	return out
}
