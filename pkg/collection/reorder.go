package collection

import (
	"fmt"

	"github.com/goliatone/go-repeater/pkg/model"
)

// Direction selects the sibling a shift exchanges values with.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// sibling resolves the row a shift from index would exchange with.
func (c *Collection) sibling(index int, dir Direction) (*Row, *Row, error) {
	if !c.Sortable() {
		return nil, nil, ErrNotSortable
	}
	row, ok := c.Row(index)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s[%d]", ErrUnknownRow, c.def.ID, index)
	}
	target := index + 1
	if dir == Up {
		target = index - 1
	}
	other, ok := c.Row(target)
	if !ok {
		return row, nil, ErrNoSibling
	}
	return row, other, nil
}

// swapper exchanges field values between two rows of the same collection.
// Row identity, indices and identifiers stay in place.
type swapper struct {
	editor RichTextEditor
}

func (s swapper) swap(a, b *Row) {
	for i := range a.fields {
		if i >= len(b.fields) {
			return
		}
		s.swapField(a.fields[i], b.fields[i])
	}
}

func (s swapper) swapField(fa, fb *Field) {
	switch kind := fa.schema.Kind; {
	case kind.Toggles():
		fa.value.Checked, fb.value.Checked = fb.value.Checked, fa.value.Checked
	case kind.Selects():
		sa, sb := fa.value.Selected, fb.value.Selected
		fa.value.Selected = selectable(fa.schema, sb)
		fb.value.Selected = selectable(fb.schema, sa)
	case kind == model.FieldKindRichText:
		s.swapRichText(fa, fb)
	default:
		fa.value, fb.value = fb.value, fa.value
	}
}

// swapRichText moves both editors to text mode so the plain buffers are
// authoritative while exchanging, then restores the original modes.
func (s swapper) swapRichText(fa, fb *Field) {
	if s.editor == nil {
		fa.value.Text, fb.value.Text = fb.value.Text, fa.value.Text
		return
	}
	idA, idB := fa.ID(), fb.ID()
	modeA, modeB := s.editor.Mode(idA), s.editor.Mode(idB)
	if modeA == model.EditorModeVisual {
		s.editor.SwitchMode(idA, model.EditorModeText)
	}
	if modeB == model.EditorModeVisual {
		s.editor.SwitchMode(idB, model.EditorModeText)
	}
	fa.value.Text, fb.value.Text = fb.value.Text, fa.value.Text
	if modeA == model.EditorModeVisual {
		s.editor.SwitchMode(idA, model.EditorModeVisual)
	}
	if modeB == model.EditorModeVisual {
		s.editor.SwitchMode(idB, model.EditorModeVisual)
	}
}

// selectable keeps the values present in the schema's option set, in order.
func selectable(schema model.FieldSchema, values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if schema.HasOption(v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
