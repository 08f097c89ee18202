package model

import "strings"

// FieldKind enumerates the input kinds a repeatable row can hold.
type FieldKind string

const (
	FieldKindText        FieldKind = "text"
	FieldKindTextarea    FieldKind = "textarea"
	FieldKindSelect      FieldKind = "select"
	FieldKindCheckbox    FieldKind = "checkbox"
	FieldKindRadio       FieldKind = "radio"
	FieldKindMulticheck  FieldKind = "multicheck"
	FieldKindRichText    FieldKind = "rich-text"
	FieldKindFile        FieldKind = "file"
	FieldKindMediaStatus FieldKind = "media-status"
	FieldKindHidden      FieldKind = "hidden"
)

// Valid reports whether the kind is one of the known field kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindText, FieldKindTextarea, FieldKindSelect, FieldKindCheckbox,
		FieldKindRadio, FieldKindMulticheck, FieldKindRichText, FieldKindFile,
		FieldKindMediaStatus, FieldKindHidden:
		return true
	default:
		return false
	}
}

// Interactive reports whether the kind can receive focus. Hidden inputs and
// media status blobs are skipped when focusing a new row.
func (k FieldKind) Interactive() bool {
	return k != FieldKindHidden && k != FieldKindMediaStatus
}

// Toggles reports whether the value lives in the Checked flag.
func (k FieldKind) Toggles() bool {
	return k == FieldKindCheckbox || k == FieldKindRadio
}

// Selects reports whether the value lives in the Selected option set.
func (k FieldKind) Selects() bool {
	return k == FieldKindSelect || k == FieldKindMulticheck
}

// PickerKind names the picker widget a text field is decorated with.
type PickerKind string

const (
	PickerNone  PickerKind = ""
	PickerDate  PickerKind = "date"
	PickerTime  PickerKind = "time"
	PickerColor PickerKind = "color"
)

// EditorMode is the display mode of a rich-text field.
type EditorMode string

const (
	// EditorModeVisual renders the buffer as a markup preview.
	EditorModeVisual EditorMode = "visual"
	// EditorModeText exposes the plain-text buffer for direct editing.
	EditorModeText EditorMode = "text"
)

// Option is a single choice offered by select, radio and multicheck fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// FieldSchema describes one field of a repeatable row. Rows are instantiated
// from an ordered slice of schemas, which fixes each field's ordinal position.
type FieldSchema struct {
	Key        string            `json:"key" yaml:"key"`
	Kind       FieldKind         `json:"kind" yaml:"kind"`
	Label      string            `json:"label,omitempty" yaml:"label,omitempty"`
	Options    []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	Default    string            `json:"default,omitempty" yaml:"default,omitempty"`
	Picker     PickerKind        `json:"picker,omitempty" yaml:"picker,omitempty"`
	ResetOnAdd bool              `json:"resetOnAdd,omitempty" yaml:"resetOnAdd,omitempty"`
	Preview    bool              `json:"preview,omitempty" yaml:"preview,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// HasOption reports whether value is one of the schema's option values.
func (s FieldSchema) HasOption(value string) bool {
	for _, opt := range s.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Value is the typed state of a field. Only the member matching the field
// kind is meaningful: Text for text-like kinds (and the rich-text plain
// buffer or a file url), Checked for checkbox/radio, Selected for
// select/multicheck and Markup for media status blobs. Ref holds the
// attachment id of a file field's companion input.
type Value struct {
	Text     string   `json:"text,omitempty"`
	Checked  bool     `json:"checked,omitempty"`
	Selected []string `json:"selected,omitempty"`
	Markup   string   `json:"markup,omitempty"`
	Ref      string   `json:"ref,omitempty"`
}

// IsZero reports whether the value carries no state.
func (v Value) IsZero() bool {
	return v.Text == "" && !v.Checked && len(v.Selected) == 0 && v.Markup == "" && v.Ref == ""
}

// Clone returns a copy that does not share the Selected backing array.
func (v Value) Clone() Value {
	out := v
	if v.Selected != nil {
		out.Selected = append([]string(nil), v.Selected...)
	}
	return out
}

// Equal compares two values member by member.
func (v Value) Equal(other Value) bool {
	if v.Text != other.Text || v.Checked != other.Checked || v.Markup != other.Markup || v.Ref != other.Ref {
		return false
	}
	if len(v.Selected) != len(other.Selected) {
		return false
	}
	for i := range v.Selected {
		if v.Selected[i] != other.Selected[i] {
			return false
		}
	}
	return true
}

// TextValue is shorthand for a Value holding only Text.
func TextValue(text string) Value {
	return Value{Text: text}
}

// CollectionKind distinguishes flat repeat rows from titled groups.
type CollectionKind string

const (
	CollectionSimple  CollectionKind = "simple"
	CollectionGrouped CollectionKind = "grouped"
)

// Definition is the static description of a repeatable collection, loaded
// from schema files or built in code.
type Definition struct {
	ID            string         `json:"id" yaml:"id"`
	Kind          CollectionKind `json:"kind" yaml:"kind"`
	Title         string         `json:"title,omitempty" yaml:"title,omitempty"`
	TitleTemplate string         `json:"titleTemplate,omitempty" yaml:"titleTemplate,omitempty"`
	MinRows       int            `json:"minRows,omitempty" yaml:"minRows,omitempty"`
	InitialRows   int            `json:"initialRows,omitempty" yaml:"initialRows,omitempty"`
	Sortable      bool           `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	Fields        []FieldSchema  `json:"fields" yaml:"fields"`
}

// TitlePlaceholder is replaced with the 1-based row number in group titles.
const TitlePlaceholder = "{#}"

// GroupTitle renders a title template for the row at index (0-based).
func GroupTitle(template string, index int) string {
	if template == "" {
		return ""
	}
	return strings.ReplaceAll(template, TitlePlaceholder, itoa(index+1))
}
