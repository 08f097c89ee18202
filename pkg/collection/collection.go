package collection

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-repeater/pkg/model"
)

// ControlState is the visual state of a collection's remove control.
type ControlState string

const (
	// ControlEnabled means rows can be removed.
	ControlEnabled ControlState = "enabled"
	// ControlDisabled means the collection sits at its floor.
	ControlDisabled ControlState = "disabled"
)

// SimpleFloor is the minimum row count of a simple collection, counting the
// inert template row.
const SimpleFloor = 2

// Collection is an ordered list of rows instantiated from one Definition.
type Collection struct {
	def     model.Definition
	rows    []*Row
	control ControlState
}

// NewCollection validates def and builds its initial rows with schema
// defaults applied. Simple collections get InitialRows active rows followed
// by one inert template row.
func NewCollection(def model.Definition) (*Collection, error) {
	if err := validateDefinition(def); err != nil {
		return nil, err
	}
	def.Fields = append([]model.FieldSchema(nil), def.Fields...)
	if def.Kind == model.CollectionGrouped && def.MinRows < 1 {
		def.MinRows = 1
	}

	c := &Collection{def: def}
	active := def.InitialRows
	if active < 1 {
		active = 1
	}
	if def.Kind == model.CollectionGrouped && active < def.MinRows {
		active = def.MinRows
	}
	for i := 0; i < active; i++ {
		row := c.newRow(i)
		row.applyDefaults()
		c.rows = append(c.rows, row)
	}
	if def.Kind == model.CollectionSimple {
		tpl := c.newRow(active)
		tpl.inert = true
		c.rows = append(c.rows, tpl)
	}
	c.syncControl()
	return c, nil
}

func validateDefinition(def model.Definition) error {
	if strings.TrimSpace(def.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	if def.Kind != model.CollectionSimple && def.Kind != model.CollectionGrouped {
		return fmt.Errorf("%w: %q has unknown kind %q", ErrInvalidDefinition, def.ID, def.Kind)
	}
	if len(def.Fields) == 0 {
		return fmt.Errorf("%w: %q has no fields", ErrInvalidDefinition, def.ID)
	}
	if def.Kind == model.CollectionSimple && len(def.Fields) != 1 {
		return fmt.Errorf("%w: simple collection %q must hold exactly one field", ErrInvalidDefinition, def.ID)
	}
	seen := make(map[string]struct{}, len(def.Fields))
	for _, f := range def.Fields {
		if strings.TrimSpace(f.Key) == "" {
			return fmt.Errorf("%w: %q has a field without key", ErrInvalidDefinition, def.ID)
		}
		if !f.Kind.Valid() {
			return fmt.Errorf("%w: field %q has unknown kind %q", ErrInvalidDefinition, f.Key, f.Kind)
		}
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("%w: duplicate field key %q in %q", ErrInvalidDefinition, f.Key, def.ID)
		}
		seen[f.Key] = struct{}{}
	}
	if def.Sortable && def.Kind != model.CollectionGrouped {
		return fmt.Errorf("%w: only grouped collections can be sortable", ErrInvalidDefinition)
	}
	return nil
}

func (c *Collection) newRow(index int) *Row {
	row := &Row{coll: c, index: index}
	row.fields = make([]*Field, len(c.def.Fields))
	for i, schema := range c.def.Fields {
		row.fields[i] = newField(row, i, schema)
	}
	return row
}

// ID returns the collection id.
func (c *Collection) ID() string { return c.def.ID }

// Kind returns the collection kind.
func (c *Collection) Kind() model.CollectionKind { return c.def.Kind }

// Definition returns a copy of the collection definition.
func (c *Collection) Definition() model.Definition {
	def := c.def
	def.Fields = append([]model.FieldSchema(nil), c.def.Fields...)
	return def
}

// Sortable reports whether rows can be shifted.
func (c *Collection) Sortable() bool {
	return c.def.Kind == model.CollectionGrouped && c.def.Sortable
}

// Floor is the minimum row count below which removal is refused.
func (c *Collection) Floor() int {
	if c.def.Kind == model.CollectionSimple {
		return SimpleFloor
	}
	return c.def.MinRows
}

// Len returns the number of rows, including an inert template.
func (c *Collection) Len() int { return len(c.rows) }

// Rows returns all rows in index order.
func (c *Collection) Rows() []*Row {
	out := make([]*Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// ActiveRows returns the rows that are submitted, skipping an inert template.
func (c *Collection) ActiveRows() []*Row {
	out := make([]*Row, 0, len(c.rows))
	for _, r := range c.rows {
		if !r.inert {
			out = append(out, r)
		}
	}
	return out
}

// Row returns the row at index.
func (c *Collection) Row(index int) (*Row, bool) {
	if index < 0 || index >= len(c.rows) {
		return nil, false
	}
	return c.rows[index], true
}

// Template returns the row new rows are modelled on: the inert row of a
// simple collection or the last row of a group.
func (c *Collection) Template() (*Row, bool) {
	if len(c.rows) == 0 {
		return nil, false
	}
	if c.def.Kind == model.CollectionGrouped {
		return c.rows[len(c.rows)-1], true
	}
	for i := len(c.rows) - 1; i >= 0; i-- {
		if c.rows[i].inert {
			return c.rows[i], true
		}
	}
	return nil, false
}

// RemoveControl reports the remove control state.
func (c *Collection) RemoveControl() ControlState { return c.control }

func (c *Collection) syncControl() {
	if len(c.rows) > c.Floor() {
		c.control = ControlEnabled
		return
	}
	c.control = ControlDisabled
}

// idPrefix is the part of every field id before the trailing "_<index>".
func idPrefix(def model.Definition, key string) string {
	if def.Kind == model.CollectionGrouped {
		return def.ID + "_" + key
	}
	return key
}
